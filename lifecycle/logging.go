package lifecycle

import (
	"context"
	"log/slog"
)

// Logger receives transition outcomes. Implementations must be cheap; the
// engine calls them synchronously on every transition attempt.
type Logger interface {
	TransitionExecuted(ctx context.Context, definition string, record Record)
	TransitionRejected(ctx context.Context, definition string, err *TransitionError)
	AfterHookFailed(ctx context.Context, definition string, from, to State, err error)
}

// DefaultLogger implements Logger using slog.
type DefaultLogger struct {
	logger *slog.Logger
}

// NewDefaultLogger creates a logger backed by slog.Default.
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{
		logger: slog.Default(),
	}
}

// NewSlogLogger creates a logger backed by the given slog.Logger.
func NewSlogLogger(logger *slog.Logger) *DefaultLogger {
	return &DefaultLogger{
		logger: logger,
	}
}

func (l *DefaultLogger) TransitionExecuted(ctx context.Context, definition string, record Record) {
	l.logger.InfoContext(ctx, "Transition executed",
		"definition", definition,
		"record_id", record.ID.String(),
		"from", string(record.From),
		"to", string(record.To),
		"actor_id", record.ActorID,
		"reason", record.Reason,
		"forced", record.Forced(),
	)
}

func (l *DefaultLogger) TransitionRejected(ctx context.Context, definition string, err *TransitionError) {
	fields := []any{
		"definition", definition,
		"from", string(err.From),
		"to", string(err.To),
		"error", err.Err.Error(),
	}

	if err.Guard != "" {
		fields = append(fields, "guard", err.Guard)
	}

	if len(err.Reasons) > 0 {
		fields = append(fields, "reasons", err.Reasons)
	}

	l.logger.WarnContext(ctx, "Transition rejected", fields...)
}

func (l *DefaultLogger) AfterHookFailed(ctx context.Context, definition string, from, to State, err error) {
	l.logger.ErrorContext(ctx, "After-hook failed",
		"definition", definition,
		"from", string(from),
		"to", string(to),
		"error", err,
	)
}
