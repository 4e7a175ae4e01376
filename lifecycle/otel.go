package lifecycle

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// startTransitionSpan creates the span wrapping one transition attempt.
// Uses the global tracer provider; see the telemetry package for setup.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startTransitionSpan(
	ctx context.Context,
	definition string,
	req Request,
	forced bool,
) (context.Context, trace.Span) {
	tracer := otel.Tracer("lifecycle")

	spanName := "lifecycle.transition"
	if forced {
		spanName = "lifecycle.force_transition"
	}

	ctx, span := tracer.Start(ctx, spanName)
	span.SetAttributes(spanAttributes(definition, req, forced)...)

	return ctx, span
}
