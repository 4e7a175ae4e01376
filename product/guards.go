package product

import (
	"context"
	stderrors "errors"

	"github.com/dealgrid/catalog-core/errors"
	"github.com/dealgrid/catalog-core/lifecycle"
)

// Publish requirements, phrased for direct display in the admin UI.
var (
	errNameRequired        = stderrors.New("name is required")
	errPriceRequired       = stderrors.New("price must be greater than zero")
	errCategoryRequired    = stderrors.New("category is required")
	errImageRequired       = stderrors.New("image is required")
	errDescriptionRequired = stderrors.New("description is required")
	errActiveLinkRequired  = stderrors.New("at least one active marketplace link is required")
)

// VerifyPermission gates the move into verified on the caller's RBAC
// decision, carried in the request context under ContextKeyCanVerify.
func VerifyPermission(_ context.Context, _ lifecycle.Entity, req lifecycle.Request) bool {
	return req.ContextBool(ContextKeyCanVerify)
}

// RejectRequiresReason gates the rejection edge back to draft: a reviewer
// must say why.
func RejectRequiresReason(_ context.Context, _ lifecycle.Entity, req lifecycle.Request) bool {
	return req.Reason != ""
}

// CanPublish checks every publish requirement and reports all unmet ones
// together, so the admin sees the complete checklist instead of fixing one
// field per attempt.
func CanPublish(_ context.Context, entity lifecycle.Entity, _ lifecycle.Request) lifecycle.ValidationResult {
	p, ok := entity.(*Product)
	if !ok {
		return lifecycle.Invalid("entity is not a product")
	}

	var missing errors.Collection

	if p.Name == "" {
		missing.Add(errNameRequired)
	}

	if p.PriceCents <= 0 {
		missing.Add(errPriceRequired)
	}

	if p.CategoryID == 0 {
		missing.Add(errCategoryRequired)
	}

	if p.ImageURL == "" {
		missing.Add(errImageRequired)
	}

	if p.Description == "" {
		missing.Add(errDescriptionRequired)
	}

	if p.ActiveLinkCount() == 0 {
		missing.Add(errActiveLinkRequired)
	}

	if missing.HasError() {
		return lifecycle.Invalid(missing.Messages()...)
	}

	return lifecycle.Valid()
}
