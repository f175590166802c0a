package plan

import (
	"fmt"
	"sort"

	"github.com/felixgeelhaar/taskplan/internal/blueprint"
	"github.com/felixgeelhaar/taskplan/internal/domain"
)

// DependencyResolver derives the dependency graph of a task set.
//
// Coarse gating: every task of a phase depends on every task of the
// nearest preceding phase that has tasks. Fine rules: a rule adds an edge
// between the tasks whose keys it names; rules naming a key absent from
// the task set are ignored. The resolver does not detect cycles.
type DependencyResolver struct {
	rules []blueprint.Rule
}

// NewDependencyResolver creates a resolver applying the given fine rules
func NewDependencyResolver(rules []blueprint.Rule) *DependencyResolver {
	r := make([]blueprint.Rule, len(rules))
	copy(r, rules)
	return &DependencyResolver{rules: r}
}

// Resolve builds the sparse dependency graph for tasks laid out over phases
func (r *DependencyResolver) Resolve(phases []Phase, tasks []Task) (*Graph, error) {
	ordered, err := orderPhases(phases)
	if err != nil {
		return nil, err
	}

	byPhase := make(map[domain.PhaseID][]int, len(ordered))
	seen := make(map[domain.TaskID]bool, len(tasks))
	for i, t := range tasks {
		if seen[t.ID] {
			return nil, &ConfigurationError{Field: "task", Value: string(t.ID), Err: fmt.Errorf("duplicate task id")}
		}
		seen[t.ID] = true
		if _, ok := byPhase[t.PhaseID]; !ok && !hasPhase(ordered, t.PhaseID) {
			return nil, &ConfigurationError{Field: "task", Value: string(t.ID), Err: fmt.Errorf("unknown phase %s", t.PhaseID)}
		}
		byPhase[t.PhaseID] = append(byPhase[t.PhaseID], i)
	}

	g := newGraph(tasks)

	var prev *Phase
	for i := range ordered {
		phase := ordered[i]
		members := byPhase[phase.ID]
		if len(members) == 0 {
			continue
		}
		if prev != nil {
			gate := g.addGate(Gate{Phase: phase.ID, After: prev.ID})
			for _, p := range byPhase[prev.ID] {
				g.addEdge(gate, p)
			}
			for _, m := range members {
				g.addEdge(m, gate)
			}
		}
		prev = &ordered[i]
	}

	byKey := make(map[string][]int, len(tasks))
	for i, t := range tasks {
		byKey[t.Key] = append(byKey[t.Key], i)
	}
	for _, rule := range r.rules {
		for _, dependent := range byKey[rule.Task] {
			for _, prereq := range byKey[rule.DependsOn] {
				g.addEdge(dependent, prereq)
			}
		}
	}

	g.seal()
	return g, nil
}

// orderPhases sorts phases by Order and rejects ties or duplicate ids
func orderPhases(phases []Phase) ([]Phase, error) {
	ordered := make([]Phase, len(phases))
	copy(ordered, phases)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	ids := make(map[domain.PhaseID]bool, len(ordered))
	for i, p := range ordered {
		if ids[p.ID] {
			return nil, &ConfigurationError{Field: "phases", Value: string(p.ID), Err: fmt.Errorf("duplicate phase id")}
		}
		ids[p.ID] = true
		if i > 0 && ordered[i-1].Order == p.Order {
			return nil, &ConfigurationError{
				Field: "phases",
				Value: string(p.ID),
				Err:   fmt.Errorf("phase order %d is shared with %s", p.Order, ordered[i-1].ID),
			}
		}
	}
	return ordered, nil
}

func hasPhase(phases []Phase, id domain.PhaseID) bool {
	for _, p := range phases {
		if p.ID == id {
			return true
		}
	}
	return false
}
