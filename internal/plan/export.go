package plan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/taskplan/internal/domain"
)

// ExportFormat selects a graph rendering
type ExportFormat string

// Supported export formats
const (
	ExportDOT     ExportFormat = "dot"
	ExportMermaid ExportFormat = "mermaid"
)

// ExportOptions controls Export
type ExportOptions struct {
	Format ExportFormat
	// Gated draws one gate node per phase boundary instead of every
	// cross-phase edge.
	Gated bool
}

// GraphFromPlan rebuilds a sparse graph from a plan's dense dependencies.
// A phase is gated when each of its tasks depends on every task of the
// nearest preceding non-empty phase; all other dependencies stay direct
// edges.
func GraphFromPlan(p *Plan) (*Graph, error) {
	ordered, err := orderPhases(p.Phases)
	if err != nil {
		return nil, err
	}

	g := newGraph(p.Tasks)
	byPhase := make(map[domain.PhaseID][]int)
	for i, t := range p.Tasks {
		byPhase[t.PhaseID] = append(byPhase[t.PhaseID], i)
	}

	// gatedBy maps a task index to the prerequisite set its gate covers
	gatedBy := make(map[int]map[int]bool)

	var prev []int
	for _, phase := range ordered {
		members := byPhase[phase.ID]
		if len(members) == 0 {
			continue
		}
		if prev != nil && coversPhase(g, p, members, prev) {
			gate := g.addGate(Gate{Phase: phase.ID, After: p.Tasks[prev[0]].PhaseID})
			covered := make(map[int]bool, len(prev))
			for _, q := range prev {
				g.addEdge(gate, q)
				covered[q] = true
			}
			for _, m := range members {
				g.addEdge(m, gate)
				gatedBy[m] = covered
			}
		}
		prev = members
	}

	for i, t := range p.Tasks {
		for _, dep := range p.Dependencies[t.ID] {
			j, ok := g.index[dep]
			if !ok {
				return nil, fmt.Errorf("task %s depends on unknown task %s", t.ID, dep)
			}
			if gatedBy[i][j] {
				continue
			}
			g.addEdge(i, j)
		}
	}

	g.seal()
	return g, nil
}

func coversPhase(g *Graph, p *Plan, members, prev []int) bool {
	for _, m := range members {
		deps := make(map[domain.TaskID]bool)
		for _, d := range p.Dependencies[g.tasks[m].ID] {
			deps[d] = true
		}
		for _, q := range prev {
			if !deps[g.tasks[q].ID] {
				return false
			}
		}
	}
	return true
}

// denseGraph builds a graph with one edge per plan dependency
func denseGraph(p *Plan) (*Graph, error) {
	g := newGraph(p.Tasks)
	for i, t := range p.Tasks {
		for _, dep := range p.Dependencies[t.ID] {
			j, ok := g.index[dep]
			if !ok {
				return nil, fmt.Errorf("task %s depends on unknown task %s", t.ID, dep)
			}
			g.addEdge(i, j)
		}
	}
	g.seal()
	return g, nil
}

// Export renders the plan's dependency graph. Tasks are grouped by phase
// and the critical path is highlighted.
func Export(p *Plan, opts ExportOptions) (string, error) {
	build := denseGraph
	if opts.Gated {
		build = GraphFromPlan
	}
	g, err := build(p)
	if err != nil {
		return "", err
	}

	switch opts.Format {
	case ExportDOT, "":
		return renderDOT(p, g), nil
	case ExportMermaid:
		return renderMermaid(p, g), nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use dot or mermaid)", opts.Format)
	}
}

func hours(d float64) string {
	return strconv.FormatFloat(d, 'g', -1, 64) + "h"
}

func criticalEdges(p *Plan) map[[2]domain.TaskID]bool {
	edges := make(map[[2]domain.TaskID]bool)
	for i := 1; i < len(p.CriticalPath.Path); i++ {
		edges[[2]domain.TaskID{p.CriticalPath.Path[i-1], p.CriticalPath.Path[i]}] = true
	}
	return edges
}

func renderDOT(p *Plan, g *Graph) string {
	var b strings.Builder
	quote := func(s string) string {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}

	name := p.ProjectName
	if name == "" {
		name = "plan"
	}
	fmt.Fprintf(&b, "digraph %s {\n", quote(name))
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=rounded];\n")

	for _, ph := range p.Phases {
		tasks := p.TasksInPhase(ph.ID)
		if len(tasks) == 0 {
			continue
		}
		fmt.Fprintf(&b, "  subgraph %s {\n", quote("cluster_"+string(ph.ID)))
		fmt.Fprintf(&b, "    label=%s;\n", quote(ph.Name))
		for _, t := range tasks {
			attrs := fmt.Sprintf("label=%s", quote(t.Name+`\n`+hours(t.DurationHours)))
			if p.OnCriticalPath(t.ID) {
				attrs += ", color=red, penwidth=2"
			}
			fmt.Fprintf(&b, "    %s [%s];\n", quote(string(t.ID)), attrs)
		}
		b.WriteString("  }\n")
	}

	for _, gate := range g.gates {
		fmt.Fprintf(&b, "  %s [shape=point, xlabel=%s];\n", quote(gate.Name()), quote(string(gate.Phase)))
	}

	critical := criticalEdges(p)
	for n := range g.prereqs {
		for _, q := range g.prereqs[n] {
			attrs := ""
			if !g.isGate(n) && !g.isGate(q) && critical[[2]domain.TaskID{g.tasks[q].ID, g.tasks[n].ID}] {
				attrs = " [color=red, penwidth=2]"
			}
			fmt.Fprintf(&b, "  %s -> %s%s;\n", quote(g.nodeName(q)), quote(g.nodeName(n)), attrs)
		}
	}

	b.WriteString("}\n")
	return b.String()
}

func renderMermaid(p *Plan, g *Graph) string {
	var b strings.Builder
	label := func(s string) string {
		return `"` + strings.ReplaceAll(s, `"`, "#quot;") + `"`
	}
	nodeID := func(n int) string {
		if g.isGate(n) {
			return fmt.Sprintf("g%d", n-len(g.tasks))
		}
		return fmt.Sprintf("t%d", n)
	}

	b.WriteString("flowchart LR\n")
	for _, ph := range p.Phases {
		var members []int
		for i, t := range g.tasks {
			if t.PhaseID == ph.ID {
				members = append(members, i)
			}
		}
		if len(members) == 0 {
			continue
		}
		fmt.Fprintf(&b, "  subgraph %s[%s]\n", ph.ID, label(ph.Name))
		for _, i := range members {
			t := g.tasks[i]
			fmt.Fprintf(&b, "    %s[%s]\n", nodeID(i), label(t.Name+" ("+hours(t.DurationHours)+")"))
		}
		b.WriteString("  end\n")
	}
	for i := range g.gates {
		fmt.Fprintf(&b, "  %s(( ))\n", nodeID(len(g.tasks)+i))
	}

	for n := range g.prereqs {
		for _, q := range g.prereqs[n] {
			fmt.Fprintf(&b, "  %s --> %s\n", nodeID(q), nodeID(n))
		}
	}

	var critical []string
	for i, t := range g.tasks {
		if p.OnCriticalPath(t.ID) {
			critical = append(critical, nodeID(i))
		}
	}
	if len(critical) > 0 {
		b.WriteString("  classDef critical stroke:#d33,stroke-width:3px\n")
		fmt.Fprintf(&b, "  class %s critical\n", strings.Join(critical, ","))
	}

	return b.String()
}
