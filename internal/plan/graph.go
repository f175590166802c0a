package plan

import (
	"sort"

	"github.com/felixgeelhaar/taskplan/internal/domain"
)

// gatePrefix names synthetic phase-gate nodes. The colon keeps gate names
// disjoint from task ids.
const gatePrefix = "gate:"

// Graph is the sparse dependency graph of a plan. Nodes are tasks plus one
// synthetic gate node per phase boundary: every task of a gated phase
// depends on the gate, and the gate depends on every task of the nearest
// preceding non-empty phase. A boundary of n×m dense edges therefore costs
// n+m edges.
//
// Node indices below len(tasks) are tasks in input order; gates follow.
type Graph struct {
	tasks   []Task
	index   map[domain.TaskID]int
	gates   []Gate
	prereqs [][]int
	seen    []map[int]bool
}

// Gate is a synthetic node separating two phases
type Gate struct {
	Phase domain.PhaseID // phase whose tasks wait on the gate
	After domain.PhaseID // phase whose tasks the gate waits on
}

// Name returns the gate's node name
func (g Gate) Name() string {
	return gatePrefix + string(g.Phase)
}

func newGraph(tasks []Task) *Graph {
	g := &Graph{
		tasks:   make([]Task, len(tasks)),
		index:   make(map[domain.TaskID]int, len(tasks)),
		prereqs: make([][]int, len(tasks)),
		seen:    make([]map[int]bool, len(tasks)),
	}
	copy(g.tasks, tasks)
	for i, t := range tasks {
		g.index[t.ID] = i
	}
	return g
}

func (g *Graph) addGate(gate Gate) int {
	g.gates = append(g.gates, gate)
	g.prereqs = append(g.prereqs, nil)
	g.seen = append(g.seen, nil)
	return len(g.prereqs) - 1
}

// addEdge records that node dependent waits on node prereq. Duplicate edges
// are ignored.
func (g *Graph) addEdge(dependent, prereq int) {
	if g.seen[dependent] == nil {
		g.seen[dependent] = make(map[int]bool)
	}
	if g.seen[dependent][prereq] {
		return
	}
	g.seen[dependent][prereq] = true
	g.prereqs[dependent] = append(g.prereqs[dependent], prereq)
}

// seal orders every prerequisite list by node index so traversal follows
// task input order.
func (g *Graph) seal() {
	for _, p := range g.prereqs {
		sort.Ints(p)
	}
	g.seen = nil
}

func (g *Graph) nodeCount() int {
	return len(g.prereqs)
}

func (g *Graph) isGate(n int) bool {
	return n >= len(g.tasks)
}

func (g *Graph) nodeName(n int) string {
	if g.isGate(n) {
		return g.gates[n-len(g.tasks)].Name()
	}
	return string(g.tasks[n].ID)
}

func (g *Graph) duration(n int) float64 {
	if g.isGate(n) {
		return 0
	}
	return g.tasks[n].DurationHours
}

// Tasks returns the tasks in input order
func (g *Graph) Tasks() []Task {
	out := make([]Task, len(g.tasks))
	copy(out, g.tasks)
	return out
}

// Len returns the number of tasks
func (g *Graph) Len() int {
	return len(g.tasks)
}

// Gates returns the synthetic phase gates in phase order
func (g *Graph) Gates() []Gate {
	out := make([]Gate, len(g.gates))
	copy(out, g.gates)
	return out
}

// EdgeCount returns the number of edges in the sparse graph, gates included
func (g *Graph) EdgeCount() int {
	n := 0
	for _, p := range g.prereqs {
		n += len(p)
	}
	return n
}

// Prerequisites returns the tasks id directly depends on, with gates
// expanded, in task input order.
func (g *Graph) Prerequisites(id domain.TaskID) []domain.TaskID {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.taskIDs(g.expand(i))
}

// Dependencies returns the dense adjacency map taskId → prerequisite ids.
// Every task has an entry; tasks without prerequisites map to an empty
// slice.
func (g *Graph) Dependencies() map[domain.TaskID][]domain.TaskID {
	deps := make(map[domain.TaskID][]domain.TaskID, len(g.tasks))
	for i, t := range g.tasks {
		deps[t.ID] = g.taskIDs(g.expand(i))
	}
	return deps
}

// Edges returns the dense dependency edges grouped by dependent in task
// order.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for i, t := range g.tasks {
		for _, p := range g.expand(i) {
			edges = append(edges, Edge{From: g.tasks[p].ID, To: t.ID})
		}
	}
	return edges
}

// expand returns the task prerequisites of node n with gate nodes replaced
// by their own prerequisites, sorted by task index.
func (g *Graph) expand(n int) []int {
	seen := make(map[int]bool)
	var out []int
	var walk func(int)
	walk = func(node int) {
		for _, p := range g.prereqs[node] {
			if seen[p] {
				continue
			}
			seen[p] = true
			if g.isGate(p) {
				walk(p)
				continue
			}
			out = append(out, p)
		}
	}
	walk(n)
	sort.Ints(out)
	return out
}

func (g *Graph) taskIDs(nodes []int) []domain.TaskID {
	ids := make([]domain.TaskID, len(nodes))
	for i, n := range nodes {
		ids[i] = g.tasks[n].ID
	}
	return ids
}
