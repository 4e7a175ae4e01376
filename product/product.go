// Package product instantiates the lifecycle engine for the catalog's
// Product entity: the publication workflow from draft through verification
// to published and archived, with the business gates that protect each move.
package product

import (
	"time"

	"github.com/dealgrid/catalog-core/lifecycle"
)

// MarketplaceLink points a product at its listing on one marketplace.
type MarketplaceLink struct {
	ID          int64
	Marketplace string
	URL         string
	Active      bool
}

// Product is the catalog entity driven by the publication workflow. Only the
// fields relevant to lifecycle decisions live here; persistence, caching,
// and DTO shaping happen in the layers around this package.
type Product struct {
	ID          int64
	Name        string
	Description string
	PriceCents  int64
	CategoryID  int64
	ImageURL    string
	Links       []MarketplaceLink

	Status      lifecycle.State
	VerifiedAt  *time.Time
	PublishedAt *time.Time
	ArchivedAt  *time.Time

	// ScheduledAt carries a future-effective publish time. The workflow does
	// not act on it; an external scheduler re-invokes the engine when the
	// time arrives.
	ScheduledAt *time.Time

	history *lifecycle.History
}

// New creates a product in the workflow's initial state.
func New(id int64) *Product {
	return &Product{
		ID:     id,
		Status: StatusDraft,
	}
}

// CurrentState implements lifecycle.Entity.
func (p *Product) CurrentState() lifecycle.State {
	return p.Status
}

// SetCurrentState implements lifecycle.Entity.
func (p *Product) SetCurrentState(state lifecycle.State) {
	p.Status = state
}

// SetTimestampField implements lifecycle.Entity. Unknown field names are
// ignored.
func (p *Product) SetTimestampField(field string, t time.Time) {
	switch field {
	case FieldVerifiedAt:
		p.VerifiedAt = &t
	case FieldPublishedAt:
		p.PublishedAt = &t
	case FieldArchivedAt:
		p.ArchivedAt = &t
	}
}

// History implements lifecycle.Entity. The ledger is allocated lazily with
// the default capacity.
func (p *Product) History() *lifecycle.History {
	if p.history == nil {
		p.history = lifecycle.NewHistory(lifecycle.DefaultMaxHistory)
	}

	return p.history
}

// ActiveLinkCount returns the number of active marketplace links.
func (p *Product) ActiveLinkCount() int {
	count := 0

	for _, link := range p.Links {
		if link.Active {
			count++
		}
	}

	return count
}
