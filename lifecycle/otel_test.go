package lifecycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer creates a test tracer with an in-memory exporter.
func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
	)

	oldProvider := otel.GetTracerProvider()

	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		otel.SetTracerProvider(oldProvider)
	})

	return exporter
}

// TestTransitionSpans verifies span creation for normal and forced
// transitions. Subtests share the exporter and cannot run in parallel.
// Note: Cannot use t.Parallel() because setupTestTracer modifies the global
// OTEL tracer provider.
//
//nolint:paralleltest,tparallel // Test modifies global OTEL tracer provider
func TestTransitionSpans(t *testing.T) {
	exporter := setupTestTracer(t)

	engine := newDocEngine(t)
	ctx := context.Background()

	t.Run("transition span", func(t *testing.T) {
		exporter.Reset()

		doc := newTestDoc(docDraft)

		_, err := engine.Transition(ctx, doc, Request{
			CurrentState: docDraft,
			TargetState:  docReview,
		})
		require.NoError(t, err)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		span := spans[0]
		assert.Equal(t, "lifecycle.transition", span.Name)

		attrMap := make(map[string]any)
		for _, attr := range span.Attributes {
			attrMap[string(attr.Key)] = attr.Value.AsInterface()
		}

		assert.Equal(t, "document", attrMap["definition"])
		assert.Equal(t, "draft", attrMap["from"])
		assert.Equal(t, "review", attrMap["to"])
		assert.Equal(t, false, attrMap["forced"])
	})

	t.Run("forced span", func(t *testing.T) {
		exporter.Reset()

		doc := newTestDoc(docDraft)

		_, err := engine.ForceTransition(ctx, doc, Request{
			CurrentState: docDraft,
			TargetState:  docApproved,
			Reason:       "span check",
		})
		require.NoError(t, err)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, "lifecycle.force_transition", spans[0].Name)
	})

	t.Run("rejection records error", func(t *testing.T) {
		exporter.Reset()

		doc := newTestDoc(docDraft)

		_, err := engine.Transition(ctx, doc, Request{
			CurrentState: docDraft,
			TargetState:  docApproved,
		})
		require.Error(t, err)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.NotEmpty(t, spans[0].Events, "rejection should be recorded on the span")
	})
}
