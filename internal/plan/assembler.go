package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/taskplan/internal/blueprint"
	"github.com/felixgeelhaar/taskplan/internal/capability"
	"github.com/felixgeelhaar/taskplan/internal/domain"
	"github.com/felixgeelhaar/taskplan/internal/log"
)

// projectDateLayout formats the creation date in project names
const projectDateLayout = "2006-01-02"

// Request is the input of a planning call: the classified intent and the
// selected capabilities, in selection order.
type Request struct {
	Category     string   `json:"category" yaml:"category"`
	Confidence   float64  `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Capabilities []string `json:"capabilities" yaml:"capabilities"`
}

// Assembler runs the planning pipeline: task factory, dependency resolver,
// topological sort, critical path analysis and final validation. Any stage
// error aborts the call; no partial plan is returned.
//
// An Assembler holds no mutable state and may be used concurrently.
type Assembler struct {
	factory  *TaskFactory
	resolver *DependencyResolver
	logger   *log.Logger
	observer Observer
	now      func() time.Time
	newID    func() string
	catalog  capability.Catalog
	bp       *blueprint.Blueprint
}

// Option configures an Assembler
type Option func(*Assembler)

// WithLogger sets the logger for stage diagnostics
func WithLogger(logger *log.Logger) Option {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithClock sets the source of the creation timestamp
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		if now != nil {
			a.now = now
		}
	}
}

// WithIDGenerator sets the generator of plan ids
func WithIDGenerator(newID func() string) Option {
	return func(a *Assembler) {
		if newID != nil {
			a.newID = newID
		}
	}
}

// WithCatalog enriches capability tasks with catalog summaries
func WithCatalog(c capability.Catalog) Option {
	return func(a *Assembler) {
		a.catalog = c
	}
}

// WithObserver registers observers for stage and plan events
func WithObserver(obs ...Observer) Option {
	return func(a *Assembler) {
		a.observer = Observers(append([]Observer{a.observer}, obs...)...)
	}
}

// NewAssembler creates an Assembler for a blueprint
func NewAssembler(bp *blueprint.Blueprint, opts ...Option) *Assembler {
	a := &Assembler{
		bp:       bp,
		logger:   log.Nop(),
		observer: NopObserver{},
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(a)
	}
	a.factory = NewTaskFactory(bp, a.catalog)
	a.resolver = NewDependencyResolver(bp.Rules)
	return a
}

// Assemble builds a plan for req
func (a *Assembler) Assemble(ctx context.Context, req Request) (*Plan, error) {
	start := time.Now()
	p, err := a.assemble(ctx, req)
	a.observer.PlanFinished(ctx, p, err, time.Since(start))
	if err != nil {
		a.logger.DebugContext(ctx, "planning failed", "category", req.Category, "error", err)
		return nil, err
	}
	a.logger.DebugContext(ctx, "plan assembled",
		"plan_id", p.ID,
		"tasks", len(p.Tasks),
		"critical_path_hours", p.CriticalPath.Duration,
		"total_hours", p.TotalDuration,
	)
	return p, nil
}

func (a *Assembler) assemble(ctx context.Context, req Request) (*Plan, error) {
	phases := a.factory.Phases()

	var tasks []Task
	err := a.stage(ctx, StageTaskFactory, func() (err error) {
		tasks, err = a.factory.Build(req.Category, req.Capabilities)
		return err
	}, func() []any { return []any{"tasks", len(tasks)} })
	if err != nil {
		return nil, err
	}

	var graph *Graph
	err = a.stage(ctx, StageResolve, func() (err error) {
		graph, err = a.resolver.Resolve(phases, tasks)
		return err
	}, func() []any { return []any{"edges", graph.EdgeCount(), "gates", len(graph.gates)} })
	if err != nil {
		return nil, err
	}

	var order []domain.TaskID
	err = a.stage(ctx, StageTopological, func() (err error) {
		order, err = TopologicalSort(graph)
		return err
	}, nil)
	if err != nil {
		return nil, err
	}

	var cp CriticalPath
	err = a.stage(ctx, StageCriticalPath, func() (err error) {
		cp, err = AnalyzeCriticalPath(graph)
		return err
	}, func() []any { return []any{"length", len(cp.Path), "hours", cp.Duration} })
	if err != nil {
		return nil, err
	}

	created := a.now().UTC()
	category := domain.Category(req.Category)
	p := &Plan{
		ID:             a.newID(),
		ProjectName:    fmt.Sprintf("%s-%s", category, created.Format(projectDateLayout)),
		Category:       category,
		CreatedAt:      created,
		Phases:         phases,
		Tasks:          tasks,
		Dependencies:   graph.Dependencies(),
		ExecutionOrder: order,
		CriticalPath:   cp,
		TotalDuration:  TotalDuration(tasks),
	}
	if len(req.Capabilities) == 0 {
		w := EmptyCapabilitySetWarning{Category: category}
		p.Warnings = append(p.Warnings, w.Warning())
		a.logger.WarnContext(ctx, w.Error())
	}

	err = a.stage(ctx, StageValidate, func() (err error) {
		if err := p.Validate(); err != nil {
			return err
		}
		p.Fingerprint, err = Fingerprint(p)
		return err
	}, nil)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// stage runs fn, reports it to the observer and wraps any error with the
// stage name. summary, if set, supplies extra log attributes on success.
func (a *Assembler) stage(ctx context.Context, stage Stage, fn func() error, summary func() []any) error {
	if err := ctx.Err(); err != nil {
		return &StageError{Stage: stage, Err: err}
	}

	ctx, finish := a.observer.StageStarted(ctx, stage)
	err := fn()
	finish(err)

	if err != nil {
		return &StageError{Stage: stage, Err: err}
	}

	args := []any{"stage", string(stage)}
	if summary != nil {
		args = append(args, summary()...)
	}
	a.logger.DebugContext(ctx, "stage complete", args...)
	return nil
}

// Blueprint returns the blueprint the assembler plans with
func (a *Assembler) Blueprint() *blueprint.Blueprint {
	return a.bp
}
