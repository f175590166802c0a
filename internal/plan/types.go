// Package plan turns a classified intent plus a set of selected
// capabilities into an ordered project plan: phases, tasks, dependency
// edges, an execution order and a critical-path estimate.
//
// Planning is a pure, synchronous function of its inputs. Nothing here
// performs I/O except the SavePlan/LoadPlan helpers used by callers after
// a Plan has been produced.
package plan

import (
	"time"

	"github.com/felixgeelhaar/taskplan/internal/domain"
)

// Phase is a stage of the project. Phases are ordered by Order.
type Phase struct {
	ID          domain.PhaseID `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Order       int            `json:"order" yaml:"order"`
}

// Task is a single unit of work in the plan
type Task struct {
	ID            domain.TaskID       `json:"id" yaml:"id"`
	Key           string              `json:"key" yaml:"key"` // template key or capability identifier
	PhaseID       domain.PhaseID      `json:"phaseId" yaml:"phaseId"`
	Name          string              `json:"name" yaml:"name"`
	Description   string              `json:"description" yaml:"description"`
	Type          domain.TaskType     `json:"type" yaml:"type"`
	AssignedRole  domain.Role         `json:"assignedRole" yaml:"assignedRole"`
	DurationHours float64             `json:"durationHours" yaml:"durationHours"`
	Capability    domain.CapabilityID `json:"capability,omitempty" yaml:"capability,omitempty"`
}

// Edge is a dependency: To cannot start before From completes
type Edge struct {
	From domain.TaskID `json:"from" yaml:"from"`
	To   domain.TaskID `json:"to" yaml:"to"`
}

// CriticalPath is the longest duration-weighted chain of tasks
type CriticalPath struct {
	Path     []domain.TaskID `json:"path" yaml:"path"`
	Duration float64         `json:"duration" yaml:"duration"`
}

// Warning is an informational condition recorded on a plan
type Warning struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// Plan is the result of a planning call. It is a value: nothing mutates it
// after Assemble returns.
type Plan struct {
	ID          string          `json:"id" yaml:"id"`
	ProjectName string          `json:"projectName" yaml:"projectName"`
	Category    domain.Category `json:"category" yaml:"category"`
	CreatedAt   time.Time       `json:"createdAt" yaml:"createdAt"`

	Phases         []Phase                           `json:"phases" yaml:"phases"`
	Tasks          []Task                            `json:"tasks" yaml:"tasks"`
	Dependencies   map[domain.TaskID][]domain.TaskID `json:"dependencies" yaml:"dependencies"`
	ExecutionOrder []domain.TaskID                   `json:"executionOrder" yaml:"executionOrder"`
	CriticalPath   CriticalPath                      `json:"criticalPath" yaml:"criticalPath"`
	TotalDuration  float64                           `json:"totalDuration" yaml:"totalDuration"`

	Fingerprint string    `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	Warnings    []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Task returns the task with the given id
func (p *Plan) Task(id domain.TaskID) (Task, bool) {
	for _, t := range p.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// TasksInPhase returns the tasks of a phase in plan order
func (p *Plan) TasksInPhase(phase domain.PhaseID) []Task {
	var out []Task
	for _, t := range p.Tasks {
		if t.PhaseID == phase {
			out = append(out, t)
		}
	}
	return out
}

// Edges returns every dependency as an edge, grouped by dependent in task
// order.
func (p *Plan) Edges() []Edge {
	var edges []Edge
	for _, t := range p.Tasks {
		for _, dep := range p.Dependencies[t.ID] {
			edges = append(edges, Edge{From: dep, To: t.ID})
		}
	}
	return edges
}

// OnCriticalPath reports whether a task is part of the critical path
func (p *Plan) OnCriticalPath(id domain.TaskID) bool {
	for _, c := range p.CriticalPath.Path {
		if c == id {
			return true
		}
	}
	return false
}
