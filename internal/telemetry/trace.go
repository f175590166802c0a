package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/taskplan/internal/plan"
)

// StartCommandSpan creates a span for a CLI command execution.
//
// Usage:
//
//	ctx, span := telemetry.StartCommandSpan(ctx, "plan create")
//	defer span.End()
func StartCommandSpan(ctx context.Context, cmdName string) (context.Context, trace.Span) {
	tracer := GetTracerProvider().Tracer("commands")
	ctx, span := tracer.Start(ctx, "command."+cmdName)

	span.SetAttributes(
		attribute.String("command", cmdName),
		attribute.String("component", "cli"),
	)

	return ctx, span
}

// StartPlanSpan creates the parent span of one planning call. Stage spans
// from PlanObserver nest under it.
func StartPlanSpan(ctx context.Context, category string, capabilities int) (context.Context, trace.Span) {
	tracer := GetTracerProvider().Tracer("planning")
	ctx, span := tracer.Start(ctx, "plan.assemble")

	span.SetAttributes(
		attribute.String("plan.category", category),
		attribute.Int("plan.capabilities", capabilities),
		attribute.String("component", "planner"),
	)

	return ctx, span
}

// RecordSuccess marks a span as successful with optional result attributes.
func RecordSuccess(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
	span.SetStatus(codes.Ok, "")
}

// RecordError records an error in a span and sets error status.
// A nil error is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(
		attribute.Bool("error", true),
	)
}

// PlanObserver returns a plan.Observer that opens one span per pipeline
// stage and annotates the caller's span with the plan summary.
func PlanObserver() plan.Observer {
	return planObserver{}
}

type planObserver struct{}

func (planObserver) StageStarted(ctx context.Context, stage plan.Stage) (context.Context, func(error)) {
	tracer := GetTracerProvider().Tracer("planning")
	ctx, span := tracer.Start(ctx, "plan.stage."+string(stage),
		trace.WithAttributes(attribute.String("plan.stage", string(stage))),
	)
	return ctx, func(err error) {
		if err != nil {
			RecordError(span, err)
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}

func (planObserver) PlanFinished(ctx context.Context, p *plan.Plan, err error, elapsed time.Duration) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.Int64("plan.elapsed_us", elapsed.Microseconds()))
	if err != nil {
		RecordError(span, err)
		return
	}
	RecordSuccess(span,
		attribute.String("plan.id", p.ID),
		attribute.String("plan.fingerprint", p.Fingerprint),
		attribute.Int("plan.tasks", len(p.Tasks)),
		attribute.Float64("plan.critical_path_hours", p.CriticalPath.Duration),
		attribute.Float64("plan.total_hours", p.TotalDuration),
	)
}
