package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"retailfx/internal/infrastructure"
)

const (
	TracerName = "retailfx.pipeline"
)

// RunTracer provides OpenTelemetry instrumentation for pipeline runs
type RunTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewRunTracer creates a tracer from initialized providers. Nil providers
// give a tracer that records nothing.
func NewRunTracer(providers *infrastructure.OTelProviders) (*RunTracer, error) {
	if providers == nil {
		return &RunTracer{tracer: noop.NewTracerProvider().Tracer(TracerName)}, nil
	}
	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	tracer := providers.Tracer
	if providers.TracerProvider != nil {
		tracer = providers.TracerProvider.Tracer(TracerName)
	}
	return &RunTracer{tracer: tracer, metrics: metrics}, nil
}

// TraceRun creates a span for the entire run
func (rt *RunTracer) TraceRun(ctx context.Context, runID string, steps int) (context.Context, trace.Span) {
	return rt.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("run.steps", steps),
		),
	)
}

// TraceStep creates a span for one step
func (rt *RunTracer) TraceStep(ctx context.Context, runID, stepID string) (context.Context, trace.Span) {
	return rt.tracer.Start(ctx, "pipeline.step."+stepID,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("step.id", stepID),
		),
	)
}

// EndStep records the step outcome on its span and in the step metrics.
func (rt *RunTracer) EndStep(ctx context.Context, span trace.Span, stepID string, duration time.Duration, rows int, err error) {
	span.SetAttributes(
		attribute.Float64("step.duration_seconds", duration.Seconds()),
		attribute.Int("step.rows", rows),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
	rt.metrics.RecordStep(ctx, stepID, duration, err)
}

// EndRun records the run outcome on its span and in the run metrics.
func (rt *RunTracer) EndRun(ctx context.Context, span trace.Span, rows int, err error) {
	span.SetAttributes(attribute.Int("run.rows", rows))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
	rt.metrics.RecordRun(ctx, rows, err)
}
