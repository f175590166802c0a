package plan

import (
	"context"
	"time"
)

// Observer receives assembly progress. Implementations record metrics or
// tracing spans; they must not modify the plan.
type Observer interface {
	// StageStarted is called before a stage runs. The returned function is
	// called with the stage's error once it finishes.
	StageStarted(ctx context.Context, stage Stage) (context.Context, func(err error))
	// PlanFinished is called once per Assemble call. p is nil on failure.
	PlanFinished(ctx context.Context, p *Plan, err error, elapsed time.Duration)
}

// NopObserver ignores every event
type NopObserver struct{}

// StageStarted implements Observer
func (NopObserver) StageStarted(ctx context.Context, _ Stage) (context.Context, func(error)) {
	return ctx, func(error) {}
}

// PlanFinished implements Observer
func (NopObserver) PlanFinished(context.Context, *Plan, error, time.Duration) {}

type multiObserver []Observer

// Observers combines observers. Events are delivered in argument order.
func Observers(obs ...Observer) Observer {
	var out multiObserver
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (m multiObserver) StageStarted(ctx context.Context, stage Stage) (context.Context, func(error)) {
	finishers := make([]func(error), 0, len(m))
	for _, o := range m {
		var finish func(error)
		ctx, finish = o.StageStarted(ctx, stage)
		finishers = append(finishers, finish)
	}
	return ctx, func(err error) {
		for i := len(finishers) - 1; i >= 0; i-- {
			finishers[i](err)
		}
	}
}

func (m multiObserver) PlanFinished(ctx context.Context, p *Plan, err error, elapsed time.Duration) {
	for _, o := range m {
		o.PlanFinished(ctx, p, err, elapsed)
	}
}
