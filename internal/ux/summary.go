package ux

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/taskplan/internal/plan"
)

type summaryStyles struct {
	title    lipgloss.Style
	phase    lipgloss.Style
	muted    lipgloss.Style
	critical lipgloss.Style
	warning  lipgloss.Style
}

func newSummaryStyles(color bool) summaryStyles {
	if !color {
		plain := lipgloss.NewStyle()
		return summaryStyles{title: plain, phase: plain, muted: plain, critical: plain, warning: plain}
	}
	return summaryStyles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		phase:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		critical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// Hours formats a duration in hours without trailing zeros
func Hours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}

// RenderPlan renders a human-readable plan summary. Tasks on the critical
// path are marked with an asterisk.
func RenderPlan(p *plan.Plan, color bool) string {
	s := newSummaryStyles(color)
	var b strings.Builder

	b.WriteString(s.title.Render("Plan " + p.ProjectName))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s   %s %s\n",
		s.muted.Render("id:"), p.ID,
		s.muted.Render("category:"), p.Category)

	for _, ph := range p.Phases {
		tasks := p.TasksInPhase(ph.ID)
		b.WriteString("\n")
		b.WriteString(s.phase.Render(fmt.Sprintf("%d. %s", ph.Order, ph.Name)))
		if len(tasks) == 0 {
			b.WriteString(s.muted.Render("  (no tasks)"))
		}
		b.WriteString("\n")

		for _, t := range tasks {
			marker := " "
			line := fmt.Sprintf("%-40s %-10s %6s", t.ID, t.AssignedRole, Hours(t.DurationHours))
			if p.OnCriticalPath(t.ID) {
				marker = "*"
				line = s.critical.Render(line)
			}
			fmt.Fprintf(&b, "  %s %s\n", marker, line)
		}
	}

	b.WriteString("\n")
	path := make([]string, len(p.CriticalPath.Path))
	for i, id := range p.CriticalPath.Path {
		path[i] = string(id)
	}
	fmt.Fprintf(&b, "%s %s (%s)\n", s.muted.Render("critical path:"), Hours(p.CriticalPath.Duration), strings.Join(path, " -> "))
	fmt.Fprintf(&b, "%s %s across %d tasks\n", s.muted.Render("total effort:"), Hours(p.TotalDuration), len(p.Tasks))

	for _, w := range p.Warnings {
		b.WriteString(s.warning.Render("warning: " + w.Message))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
