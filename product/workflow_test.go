package product

import (
	"context"
	"testing"
	"time"

	"github.com/dealgrid/catalog-core/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkflowEngine(t *testing.T, opts ...lifecycle.Option) *lifecycle.Engine {
	t.Helper()

	engine, err := NewEngine(opts...)
	require.NoError(t, err)

	return engine
}

// publishable returns a product satisfying every publish requirement.
func publishable(t *testing.T) *Product {
	t.Helper()

	p := New(42)
	p.Name = "Cast iron skillet"
	p.Description = "Pre-seasoned 26cm cast iron skillet."
	p.PriceCents = 3500
	p.CategoryID = 4
	p.ImageURL = "https://cdn.example.com/p/42.jpg"
	p.Links = []MarketplaceLink{
		{ID: 1, Marketplace: "amazon", URL: "https://amazon.example/42", Active: true},
		{ID: 2, Marketplace: "ebay", URL: "https://ebay.example/42", Active: false},
	}

	return p
}

func TestDefinitionIsValid(t *testing.T) {
	t.Parallel()

	def, err := Definition()
	require.NoError(t, err)

	assert.Equal(t, "product", def.Name())
	assert.Equal(t, StatusDraft, def.Initial())
	assert.Len(t, def.States(), 5)
}

func TestNewProductStartsInDraft(t *testing.T) {
	t.Parallel()

	p := New(1)
	assert.Equal(t, StatusDraft, p.CurrentState())
	assert.Equal(t, 0, p.History().Len())
}

func TestHappyPathDraftToPublished(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)
	engine := newWorkflowEngine(t, lifecycle.WithClock(func() time.Time { return now }))

	p := publishable(t)
	ctx := context.Background()
	adminCtx := map[string]any{ContextKeyCanVerify: true}

	_, err := engine.Transition(ctx, p, lifecycle.Request{
		CurrentState: StatusDraft,
		TargetState:  StatusPendingVerification,
		ActorID:      9,
	})
	require.NoError(t, err)

	_, err = engine.Transition(ctx, p, lifecycle.Request{
		CurrentState: StatusPendingVerification,
		TargetState:  StatusVerified,
		ActorID:      9,
		Context:      adminCtx,
	})
	require.NoError(t, err)
	require.NotNil(t, p.VerifiedAt)
	assert.Equal(t, now, *p.VerifiedAt)

	_, err = engine.Transition(ctx, p, lifecycle.Request{
		CurrentState: StatusVerified,
		TargetState:  StatusPublished,
		ActorID:      9,
	})
	require.NoError(t, err)
	require.NotNil(t, p.PublishedAt)
	assert.Equal(t, now, *p.PublishedAt)

	assert.Equal(t, StatusPublished, p.CurrentState())
	assert.Equal(t, 3, p.History().Len())
}

func TestPublishReportsEveryMissingRequirement(t *testing.T) {
	t.Parallel()

	engine := newWorkflowEngine(t)

	// Missing price and has no links; everything else is present.
	p := publishable(t)
	p.PriceCents = 0
	p.Links = nil

	_, err := engine.Transition(context.Background(), p, lifecycle.Request{
		CurrentState: StatusDraft,
		TargetState:  StatusPublished,
	})
	require.ErrorIs(t, err, lifecycle.ErrValidationRejected)

	reasons := lifecycle.Reasons(err)
	assert.Contains(t, reasons, "price must be greater than zero")
	assert.Contains(t, reasons, "at least one active marketplace link is required")
	assert.Len(t, reasons, 2)

	assert.Equal(t, StatusDraft, p.CurrentState())
}

func TestPublishRejectsInactiveLinksOnly(t *testing.T) {
	t.Parallel()

	engine := newWorkflowEngine(t)

	p := publishable(t)
	for i := range p.Links {
		p.Links[i].Active = false
	}

	_, err := engine.Transition(context.Background(), p, lifecycle.Request{
		CurrentState: StatusDraft,
		TargetState:  StatusPublished,
	})
	require.ErrorIs(t, err, lifecycle.ErrValidationRejected)
	assert.Equal(t, []string{"at least one active marketplace link is required"}, lifecycle.Reasons(err))
}

func TestVerifyWithoutPermission(t *testing.T) {
	t.Parallel()

	engine := newWorkflowEngine(t)

	p := publishable(t)
	p.Status = StatusPendingVerification

	_, err := engine.Transition(context.Background(), p, lifecycle.Request{
		CurrentState: StatusPendingVerification,
		TargetState:  StatusVerified,
	})
	require.ErrorIs(t, err, lifecycle.ErrGuardRejected)

	var terr *lifecycle.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, GuardVerifyPermission, terr.Guard)

	assert.Equal(t, StatusPendingVerification, p.CurrentState())
	assert.Nil(t, p.VerifiedAt)
}

func TestRejectBackToDraftRequiresReason(t *testing.T) {
	t.Parallel()

	engine := newWorkflowEngine(t)

	p := publishable(t)
	p.Status = StatusPendingVerification

	_, err := engine.Transition(context.Background(), p, lifecycle.Request{
		CurrentState: StatusPendingVerification,
		TargetState:  StatusDraft,
	})
	require.ErrorIs(t, err, lifecycle.ErrGuardRejected)

	record, err := engine.Transition(context.Background(), p, lifecycle.Request{
		CurrentState: StatusPendingVerification,
		TargetState:  StatusDraft,
		Reason:       "missing brand documentation",
	})
	require.NoError(t, err)
	assert.Equal(t, "missing brand documentation", record.Reason)
	assert.Equal(t, StatusDraft, p.CurrentState())
}

func TestArchivePublishedProduct(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 28, 16, 45, 0, 0, time.UTC)
	engine := newWorkflowEngine(t, lifecycle.WithClock(func() time.Time { return now }))

	p := publishable(t)
	p.Status = StatusPublished

	record, err := engine.Transition(context.Background(), p, lifecycle.Request{
		CurrentState: StatusPublished,
		TargetState:  StatusArchived,
		Reason:       "out of stock",
		ActorID:      3,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusArchived, p.CurrentState())
	require.NotNil(t, p.ArchivedAt)
	assert.Equal(t, now, *p.ArchivedAt)

	require.Equal(t, 1, p.History().Len())

	last, ok := p.History().Last()
	require.True(t, ok)
	assert.Equal(t, "out of stock", last.Reason)
	assert.Equal(t, record.ID, last.ID)
}

func TestRestoreArchivedToDraft(t *testing.T) {
	t.Parallel()

	engine := newWorkflowEngine(t)

	p := publishable(t)
	p.Status = StatusArchived

	_, err := engine.Transition(context.Background(), p, lifecycle.Request{
		CurrentState: StatusArchived,
		TargetState:  StatusDraft,
		Reason:       "restocked",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, p.CurrentState())
}

func TestForcePublishBypassesValidation(t *testing.T) {
	t.Parallel()

	engine := newWorkflowEngine(t)

	// Would fail every publish requirement.
	p := New(7)

	record, err := engine.ForceTransition(context.Background(), p, lifecycle.Request{
		CurrentState: StatusDraft,
		TargetState:  StatusPublished,
		Reason:       "launch partner exception, approved by merchandising",
		ActorID:      1,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPublished, p.CurrentState())
	assert.NotNil(t, p.PublishedAt)

	// The bypass stays visible in the audit trail.
	assert.True(t, record.Forced())
	assert.Equal(t, true, record.Context["force"])
	assert.Equal(t, "launch partner exception, approved by merchandising", record.Reason)
}

func TestForcePublishWithoutReason(t *testing.T) {
	t.Parallel()

	engine := newWorkflowEngine(t)
	p := New(7)

	_, err := engine.ForceTransition(context.Background(), p, lifecycle.Request{
		CurrentState: StatusDraft,
		TargetState:  StatusPublished,
	})
	assert.ErrorIs(t, err, lifecycle.ErrReasonRequired)
	assert.Equal(t, StatusDraft, p.CurrentState())
}

func TestIllegalMovesAcrossTheTable(t *testing.T) {
	t.Parallel()

	engine := newWorkflowEngine(t)
	ctx := context.Background()

	tests := []struct {
		from lifecycle.State
		to   lifecycle.State
	}{
		{StatusDraft, StatusVerified},
		{StatusDraft, StatusArchived},
		{StatusVerified, StatusPendingVerification},
		{StatusPublished, StatusDraft},
		{StatusPublished, StatusVerified},
		{StatusArchived, StatusPublished},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			t.Parallel()

			p := publishable(t)
			p.Status = tt.from

			assert.False(t, engine.CanTransitionTo(ctx, p, tt.to, nil))

			_, err := engine.Transition(ctx, p, lifecycle.Request{
				CurrentState: tt.from,
				TargetState:  tt.to,
			})
			assert.ErrorIs(t, err, lifecycle.ErrIllegalTransition)
		})
	}
}

func TestAllowedTransitionsPerState(t *testing.T) {
	t.Parallel()

	engine := newWorkflowEngine(t)
	ctx := context.Background()
	adminCtx := map[string]any{ContextKeyCanVerify: true}

	p := publishable(t)

	assert.Equal(t,
		[]lifecycle.State{StatusPendingVerification, StatusPublished},
		engine.AllowedTransitions(ctx, p, nil))

	p.Status = StatusPendingVerification

	// Without the verify permission and without a rejection reason, only
	// archiving is offered.
	assert.Equal(t,
		[]lifecycle.State{StatusArchived},
		engine.AllowedTransitions(ctx, p, nil))

	assert.Equal(t,
		[]lifecycle.State{StatusArchived, StatusVerified},
		engine.AllowedTransitions(ctx, p, adminCtx))
}

func TestStateMetadataForPresentation(t *testing.T) {
	t.Parallel()

	engine := newWorkflowEngine(t)

	meta := engine.StateMetadata(StatusPublished)
	assert.Equal(t, "Published", meta.Label)
	assert.Equal(t, "#4caf50", meta.Color)
	assert.Equal(t, "globe", meta.Icon)
}

func TestSetTimestampFieldIgnoresUnknownFields(t *testing.T) {
	t.Parallel()

	p := New(1)
	p.SetTimestampField("unknown_at", time.Now())

	assert.Nil(t, p.VerifiedAt)
	assert.Nil(t, p.PublishedAt)
	assert.Nil(t, p.ArchivedAt)
}

func TestActiveLinkCount(t *testing.T) {
	t.Parallel()

	p := New(1)
	assert.Equal(t, 0, p.ActiveLinkCount())

	p.Links = []MarketplaceLink{
		{ID: 1, Active: true},
		{ID: 2, Active: false},
		{ID: 3, Active: true},
	}

	assert.Equal(t, 2, p.ActiveLinkCount())
}

func TestHistoryBoundedAcrossManyTransitions(t *testing.T) {
	t.Parallel()

	engine := newWorkflowEngine(t)
	p := publishable(t)
	ctx := context.Background()

	// Bounce between draft and pending_verification far past the cap.
	for i := 0; i < 40; i++ {
		_, err := engine.Transition(ctx, p, lifecycle.Request{
			CurrentState: StatusDraft,
			TargetState:  StatusPendingVerification,
		})
		require.NoError(t, err)

		_, err = engine.Transition(ctx, p, lifecycle.Request{
			CurrentState: StatusPendingVerification,
			TargetState:  StatusDraft,
			Reason:       "round trip",
		})
		require.NoError(t, err)
	}

	assert.Equal(t, lifecycle.DefaultMaxHistory, p.History().Len())

	// The retained window ends with the latest transition.
	last, ok := p.History().Last()
	require.True(t, ok)
	assert.Equal(t, StatusDraft, last.To)
}
