package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation tracks one task evaluation: a span plus a task metric.
type Operation struct {
	Task    string
	RunID   string
	Mode    string
	Start   time.Time
	Metrics *Metrics

	span trace.Span
}

// StartOperation opens a span named "<SpanTask>.<task>". metrics may be nil.
func StartOperation(ctx context.Context, tracer trace.Tracer, metrics *Metrics, runID, mode, task string) (context.Context, *Operation) {
	if tracer == nil {
		tracer = Tracer(defaultTracerName)
	}
	ctx, span := tracer.Start(ctx, SpanTask+"."+task, trace.WithAttributes(
		attribute.String(AttrTask, task),
		attribute.String(AttrRunID, runID),
		attribute.String(AttrMode, mode),
	))
	return ctx, &Operation{
		Task:    task,
		RunID:   runID,
		Mode:    mode,
		Start:   time.Now(),
		Metrics: metrics,
		span:    span,
	}
}

// End closes the span and records the decision. err may be nil.
func (op *Operation) End(ctx context.Context, decision string, err error) {
	duration := op.Duration()

	if err != nil {
		op.span.RecordError(err)
		op.span.SetStatus(codes.Error, err.Error())
	}
	op.span.SetAttributes(
		attribute.String(AttrDecision, decision),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	op.span.End()

	if op.Metrics != nil {
		op.Metrics.RecordTask(ctx, op.Task, decision, duration)
	}
}

// Duration returns the elapsed time since the operation started.
func (op *Operation) Duration() time.Duration {
	return time.Since(op.Start)
}
