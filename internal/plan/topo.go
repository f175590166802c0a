package plan

import "github.com/felixgeelhaar/taskplan/internal/domain"

type visitState uint8

const (
	unvisited visitState = iota
	inProgress
	done
)

// TopologicalSort returns every task id ordered so that each task follows
// all of its prerequisites. It runs a depth-first search from each task in
// input order and emits tasks in post-order. Revisiting a task that is
// still in progress yields a *CycleDetectedError.
func TopologicalSort(g *Graph) ([]domain.TaskID, error) {
	state := make([]visitState, g.nodeCount())
	order := make([]domain.TaskID, 0, g.Len())
	var stack []int

	var visit func(n int) error
	visit = func(n int) error {
		switch state[n] {
		case done:
			return nil
		case inProgress:
			return g.cycleError(stack, n)
		}

		state[n] = inProgress
		stack = append(stack, n)
		for _, p := range g.prereqs[n] {
			if err := visit(p); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[n] = done

		if !g.isGate(n) {
			order = append(order, g.tasks[n].ID)
		}
		return nil
	}

	for i := range g.tasks {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// cycleError builds the error for a revisit of node n. The DFS stack runs
// from dependent to prerequisite, so in the reported path each task depends
// on the one after it. Gate nodes are left out and the path is rotated to
// start at a task.
func (g *Graph) cycleError(stack []int, n int) error {
	start := len(stack) - 1
	for start >= 0 && stack[start] != n {
		start--
	}
	cycle := stack[start:]

	first := 0
	for first < len(cycle) && g.isGate(cycle[first]) {
		first++
	}
	if first == len(cycle) {
		return &CycleDetectedError{}
	}

	rotated := make([]int, 0, len(cycle))
	rotated = append(rotated, cycle[first:]...)
	rotated = append(rotated, cycle[:first]...)

	path := make([]domain.TaskID, 0, len(rotated)+1)
	for _, node := range rotated {
		if !g.isGate(node) {
			path = append(path, g.tasks[node].ID)
		}
	}
	path = append(path, path[0])

	return &CycleDetectedError{TaskID: path[0], Path: path}
}
