package plan

import (
	"fmt"
	"math"
	"sort"

	"github.com/felixgeelhaar/taskplan/internal/domain"
)

// durationEpsilon absorbs floating point drift when comparing sums of hours
const durationEpsilon = 1e-9

// Validate checks the task against domain rules
func (t *Task) Validate() error {
	if err := t.ID.Validate(); err != nil {
		return fmt.Errorf("invalid task ID: %w", err)
	}
	if err := t.PhaseID.Validate(); err != nil {
		return fmt.Errorf("invalid phase ID: %w", err)
	}
	if t.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if err := t.AssignedRole.Validate(); err != nil {
		return err
	}
	if t.DurationHours <= 0 {
		return fmt.Errorf("duration must be positive, got %g", t.DurationHours)
	}
	if t.Capability != "" {
		if err := t.Capability.Validate(); err != nil {
			return fmt.Errorf("invalid capability: %w", err)
		}
	}
	return nil
}

// Validate checks every plan invariant and returns a *ValidationError
// listing all violations:
//
//   - phases have unique ids and a total order
//   - every task is valid, unique and belongs to a known phase
//   - dependencies reference known tasks
//   - the execution order is a permutation of the tasks that respects
//     every dependency, which also rules out cycles
//   - the critical path is a dependency chain whose durations sum to its
//     reported duration, bounded by the longest task and the total
//   - the total duration is the sum of task durations
func (p *Plan) Validate() error {
	v := &validator{}

	phases := make(map[domain.PhaseID]bool, len(p.Phases))
	orders := make(map[int]domain.PhaseID, len(p.Phases))
	if len(p.Phases) == 0 {
		v.add("plan must have at least one phase")
	}
	for i, ph := range p.Phases {
		if err := ph.ID.Validate(); err != nil {
			v.add("phase at index %d: %v", i, err)
		}
		if phases[ph.ID] {
			v.add("duplicate phase id %q", ph.ID)
		}
		phases[ph.ID] = true
		if other, ok := orders[ph.Order]; ok {
			v.add("phases %s and %s share order %d", other, ph.ID, ph.Order)
		}
		orders[ph.Order] = ph.ID
	}

	tasks := make(map[domain.TaskID]Task, len(p.Tasks))
	var maxDuration, sum float64
	for i, t := range p.Tasks {
		if err := t.Validate(); err != nil {
			v.add("task at index %d (%s): %v", i, t.ID, err)
		}
		if _, dup := tasks[t.ID]; dup {
			v.add("duplicate task id %q", t.ID)
		}
		tasks[t.ID] = t
		if !phases[t.PhaseID] {
			v.add("task %s belongs to unknown phase %q", t.ID, t.PhaseID)
		}
		sum += t.DurationHours
		maxDuration = math.Max(maxDuration, t.DurationHours)
	}

	var strays []string
	for id := range p.Dependencies {
		if _, ok := tasks[id]; !ok {
			strays = append(strays, string(id))
		}
	}
	sort.Strings(strays)
	for _, id := range strays {
		v.add("dependencies reference unknown task %q", id)
	}
	for _, t := range p.Tasks {
		id := t.ID
		for _, dep := range p.Dependencies[id] {
			if _, ok := tasks[dep]; !ok {
				v.add("task %s depends on unknown task %q", id, dep)
			}
			if dep == id {
				v.add("task %s depends on itself", id)
			}
		}
	}

	position := make(map[domain.TaskID]int, len(p.ExecutionOrder))
	for i, id := range p.ExecutionOrder {
		if _, ok := tasks[id]; !ok {
			v.add("execution order contains unknown task %q", id)
		}
		if _, dup := position[id]; dup {
			v.add("execution order lists %s more than once", id)
		}
		position[id] = i
	}
	if len(p.ExecutionOrder) != len(p.Tasks) {
		v.add("execution order has %d entries, plan has %d tasks", len(p.ExecutionOrder), len(p.Tasks))
	}
	for _, t := range p.Tasks {
		at, ok := position[t.ID]
		if !ok {
			continue
		}
		for _, dep := range p.Dependencies[t.ID] {
			if depAt, ok := position[dep]; ok && depAt > at {
				v.add("execution order runs %s before its prerequisite %s", t.ID, dep)
			}
		}
	}

	v.checkCriticalPath(p, tasks, maxDuration, sum)

	if !almostEqual(p.TotalDuration, sum) {
		v.add("total duration %g does not match task durations %g", p.TotalDuration, sum)
	}

	return v.err()
}

func (v *validator) checkCriticalPath(p *Plan, tasks map[domain.TaskID]Task, maxDuration, sum float64) {
	cp := p.CriticalPath
	if len(p.Tasks) == 0 {
		if len(cp.Path) != 0 || cp.Duration != 0 {
			v.add("critical path must be empty for a plan without tasks")
		}
		return
	}
	if len(cp.Path) == 0 {
		v.add("critical path is empty")
		return
	}

	var pathSum float64
	for i, id := range cp.Path {
		t, ok := tasks[id]
		if !ok {
			v.add("critical path contains unknown task %q", id)
			return
		}
		pathSum += t.DurationHours
		if i > 0 && !contains(p.Dependencies[id], cp.Path[i-1]) {
			v.add("critical path step %s -> %s is not a dependency", cp.Path[i-1], id)
		}
	}

	if !almostEqual(pathSum, cp.Duration) {
		v.add("critical path duration %g does not match its tasks %g", cp.Duration, pathSum)
	}
	if cp.Duration+durationEpsilon < maxDuration {
		v.add("critical path duration %g is shorter than the longest task %g", cp.Duration, maxDuration)
	}
	if cp.Duration > sum+durationEpsilon {
		v.add("critical path duration %g exceeds total duration %g", cp.Duration, sum)
	}
}

type validator struct {
	problems []string
}

func (v *validator) add(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) err() error {
	if len(v.problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: v.problems}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= durationEpsilon
}

func contains(ids []domain.TaskID, id domain.TaskID) bool {
	for _, have := range ids {
		if have == id {
			return true
		}
	}
	return false
}
