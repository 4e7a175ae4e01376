package lifecycle

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTransitionMetrics verifies that committed and rejected transitions are
// counted. Note: Cannot use t.Parallel() because this test modifies global
// Prometheus metrics.
//
//nolint:paralleltest // Test modifies global Prometheus metric state
func TestTransitionMetrics(t *testing.T) {
	transitionsTotal.Reset()
	rejectionsTotal.Reset()
	forceOverridesTotal.Reset()

	engine := newDocEngine(t)
	doc := newTestDoc(docDraft)
	ctx := context.Background()

	_, err := engine.Transition(ctx, doc, Request{CurrentState: docDraft, TargetState: docReview})
	require.NoError(t, err)

	_, err = engine.Transition(ctx, doc, Request{CurrentState: docReview, TargetState: docPublished})
	require.Error(t, err)

	_, err = engine.ForceTransition(ctx, doc, Request{
		CurrentState: docReview,
		TargetState:  docApproved,
		Reason:       "metric check",
	})
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(
		transitionsTotal.WithLabelValues("document", "draft", "review", outcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		rejectionsTotal.WithLabelValues("document", "review", "published", "illegal")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		forceOverridesTotal.WithLabelValues("document", "review", "approved")))
}

func TestRejectionKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{ErrReentrantTransition, "reentrant"},
		{ErrNoOpTransition, "noop"},
		{ErrStaleState, "stale_state"},
		{ErrUnknownState, "unknown_state"},
		{ErrIllegalTransition, "illegal"},
		{ErrGuardRejected, "guard"},
		{ErrValidationRejected, "validation"},
		{ErrHookRejected, "hook"},
		{ErrReasonRequired, "reason_required"},
		{ErrStateRequired, "other"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			terr := newTransitionError("a", "b", tt.err)
			assert.Equal(t, tt.want, rejectionKind(terr))
		})
	}
}
