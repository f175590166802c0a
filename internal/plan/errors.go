package plan

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/taskplan/internal/domain"
)

// Stage names a step of the assembly pipeline
type Stage string

// Assembly stages in execution order
const (
	StageTaskFactory  Stage = "task_factory"
	StageResolve      Stage = "resolve_dependencies"
	StageTopological  Stage = "topological_sort"
	StageCriticalPath Stage = "critical_path"
	StageValidate     Stage = "validate"
)

// Stages returns every assembly stage in execution order
func Stages() []Stage {
	return []Stage{StageTaskFactory, StageResolve, StageTopological, StageCriticalPath, StageValidate}
}

// ConfigurationError reports invalid planner input: an unknown intent
// category, a malformed capability identifier or an unusable blueprint.
type ConfigurationError struct {
	Field   string // category, capability or blueprint
	Value   string
	Allowed []string
	Err     error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid %s", e.Field)
	if e.Value != "" {
		fmt.Fprintf(&b, " %q", e.Value)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// CycleDetectedError reports a circular dependency. TaskID is the task
// revisited while still in progress; Path is the cycle starting and ending
// at that task.
type CycleDetectedError struct {
	TaskID domain.TaskID
	Path   []domain.TaskID
}

func (e *CycleDetectedError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("dependency cycle detected at task %s", e.TaskID)
	}
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = string(id)
	}
	return fmt.Sprintf("dependency cycle detected at task %s: %s", e.TaskID, strings.Join(parts, " -> "))
}

// StageError wraps a failure with the name of the stage that produced it
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ValidationError lists every broken plan invariant
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid plan: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid plan (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// EmptyCapabilitySetWarning is recorded when a plan is built without any
// selected capability. The plan is still produced.
type EmptyCapabilitySetWarning struct {
	Category domain.Category
}

// WarningEmptyCapabilitySet is the Warning code for EmptyCapabilitySetWarning
const WarningEmptyCapabilitySet = "EMPTY_CAPABILITY_SET"

func (w EmptyCapabilitySetWarning) Error() string {
	return fmt.Sprintf("no capabilities selected for category %s: plan contains scaffolding tasks only", w.Category)
}

// Warning converts w into the record stored on a plan
func (w EmptyCapabilitySetWarning) Warning() Warning {
	return Warning{Code: WarningEmptyCapabilitySet, Message: w.Error()}
}
