package product

import "github.com/dealgrid/catalog-core/lifecycle"

// Publication workflow states.
const (
	StatusDraft               lifecycle.State = "draft"
	StatusPendingVerification lifecycle.State = "pending_verification"
	StatusVerified            lifecycle.State = "verified"
	StatusPublished           lifecycle.State = "published"
	StatusArchived            lifecycle.State = "archived"
)

// Timestamp fields stamped by the workflow.
const (
	FieldVerifiedAt  = "verified_at"
	FieldPublishedAt = "published_at"
	FieldArchivedAt  = "archived_at"
)

// Gate names, as they appear in rejections and diagrams.
const (
	GuardVerifyPermission = "verify_permission"
	GuardRejectReason     = "reject_reason"
	ValidatorCanPublish   = "can_publish"
)

// ContextKeyCanVerify carries the caller's RBAC decision for the verify
// edge. Permission checking itself happens outside the workflow; the guard
// only reads the result.
const ContextKeyCanVerify = "can_verify"

// Definition builds the Product publication workflow.
//
// Edge table:
//
//	draft                                   -> pending_verification
//	pending_verification                    -> verified              guard verify_permission
//	pending_verification                    -> draft                 guard reject_reason
//	draft, verified                         -> published             validator can_publish
//	published, verified, pending_verification -> archived
//	archived                                -> draft                 (restore)
//
// Admin overrides go through Engine.ForceTransition, not an edge.
func Definition() (*lifecycle.Definition, error) {
	return lifecycle.NewDefinition("product").
		WithStates(
			StatusDraft,
			StatusPendingVerification,
			StatusVerified,
			StatusPublished,
			StatusArchived,
		).
		WithInitial(StatusDraft).
		AddEdge(
			[]lifecycle.State{StatusDraft},
			StatusPendingVerification,
		).
		AddGuardedEdge(
			[]lifecycle.State{StatusPendingVerification},
			StatusVerified,
			GuardVerifyPermission, VerifyPermission,
		).
		AddGuardedEdge(
			[]lifecycle.State{StatusPendingVerification},
			StatusDraft,
			GuardRejectReason, RejectRequiresReason,
		).
		AddValidatedEdge(
			[]lifecycle.State{StatusDraft, StatusVerified},
			StatusPublished,
			ValidatorCanPublish, CanPublish,
		).
		AddEdge(
			[]lifecycle.State{StatusPublished, StatusVerified, StatusPendingVerification},
			StatusArchived,
		).
		AddEdge(
			[]lifecycle.State{StatusArchived},
			StatusDraft,
		).
		BindTimestamp(StatusVerified, FieldVerifiedAt).
		BindTimestamp(StatusPublished, FieldPublishedAt).
		BindTimestamp(StatusArchived, FieldArchivedAt).
		WithMetadata(StatusDraft, lifecycle.Metadata{
			Label: "Draft", Color: "#9e9e9e", Icon: "pencil",
		}).
		WithMetadata(StatusPendingVerification, lifecycle.Metadata{
			Label: "Pending verification", Color: "#ff9800", Icon: "hourglass",
		}).
		WithMetadata(StatusVerified, lifecycle.Metadata{
			Label: "Verified", Color: "#2196f3", Icon: "shield-check",
		}).
		WithMetadata(StatusPublished, lifecycle.Metadata{
			Label: "Published", Color: "#4caf50", Icon: "globe",
		}).
		WithMetadata(StatusArchived, lifecycle.Metadata{
			Label: "Archived", Color: "#795548", Icon: "box",
		}).
		Build()
}

// NewEngine builds an engine for the publication workflow. Engines are
// per-request; the definition they share is immutable.
func NewEngine(opts ...lifecycle.Option) (*lifecycle.Engine, error) {
	def, err := Definition()
	if err != nil {
		return nil, err
	}

	return lifecycle.NewEngine(def, opts...)
}
