package plan

import "github.com/felixgeelhaar/taskplan/internal/domain"

// AnalyzeCriticalPath computes the longest duration-weighted chain of
// tasks. For each task
//
//	longest(t) = t.duration + max(longest(p) for p in prerequisites(t))
//
// is memoized so every node and edge is visited once. The first task in
// input order holding the maximum ends the path; ties between
// prerequisites also go to the earliest task. The path is returned
// prerequisite first.
func AnalyzeCriticalPath(g *Graph) (CriticalPath, error) {
	n := g.nodeCount()
	memo := make([]float64, n)
	next := make([]int, n)
	state := make([]visitState, n)
	var stack []int

	var longest func(node int) (float64, error)
	longest = func(node int) (float64, error) {
		switch state[node] {
		case done:
			return memo[node], nil
		case inProgress:
			return 0, g.cycleError(stack, node)
		}

		state[node] = inProgress
		stack = append(stack, node)

		best, bestVal := -1, 0.0
		for _, p := range g.prereqs[node] {
			v, err := longest(p)
			if err != nil {
				return 0, err
			}
			if best == -1 || v > bestVal {
				best, bestVal = p, v
			}
		}

		stack = stack[:len(stack)-1]
		state[node] = done
		next[node] = best
		memo[node] = g.duration(node) + bestVal
		return memo[node], nil
	}

	end, endVal := -1, 0.0
	for i := range g.tasks {
		v, err := longest(i)
		if err != nil {
			return CriticalPath{}, err
		}
		if end == -1 || v > endVal {
			end, endVal = i, v
		}
	}

	path := []domain.TaskID{}
	for node := end; node != -1; node = next[node] {
		if !g.isGate(node) {
			path = append(path, g.tasks[node].ID)
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return CriticalPath{Path: path, Duration: endVal}, nil
}

// TotalDuration returns the sum of all task durations
func TotalDuration(tasks []Task) float64 {
	var total float64
	for _, t := range tasks {
		total += t.DurationHours
	}
	return total
}
