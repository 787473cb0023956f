package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "zoo-server/media-api"

// GetTracer returns the tracer for the media service.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartStageSpan opens a span for one pipeline stage (intake, transform, store, cleanup).
func StartStageSpan(ctx context.Context, stage, kind string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("media.stage", stage),
		attribute.String("media.kind", kind),
	)
	return GetTracer().Start(ctx, "media."+stage,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddStateTransition adds a saga state transition event to a span.
func AddStateTransition(span trace.Span, fromState, toState string) {
	span.AddEvent("state.transition",
		trace.WithAttributes(
			attribute.String("state.from", fromState),
			attribute.String("state.to", toState),
		),
	)
}
