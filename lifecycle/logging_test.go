package lifecycle

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/neilotoole/slogt"
)

// TestDefaultLoggerOutput exercises every Logger method against a real slog
// backend; the slogt handler routes output through t.Log.
func TestDefaultLoggerOutput(t *testing.T) {
	t.Parallel()

	logger := NewSlogLogger(slogt.New(t))
	ctx := context.Background()

	logger.TransitionExecuted(ctx, "document", Record{
		ID:      uuid.New(),
		From:    docDraft,
		To:      docReview,
		Reason:  "ready",
		ActorID: 3,
	})

	logger.TransitionRejected(ctx, "document", &TransitionError{
		From:    docDraft,
		To:      docPublished,
		Reasons: []string{"title is required"},
		Err:     ErrValidationRejected,
	})

	logger.TransitionRejected(ctx, "document", &TransitionError{
		From:  docReview,
		To:    docApproved,
		Guard: "can_approve",
		Err:   ErrGuardRejected,
	})

	logger.AfterHookFailed(ctx, "document", docDraft, docReview, ErrHookRejected)
}
