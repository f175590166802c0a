package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/taskplan/internal/plan"
	"github.com/felixgeelhaar/taskplan/internal/ux"
)

// ReviewResult holds the outcome of a plan review session
type ReviewResult struct {
	Approved bool
	Reason   string
}

type reviewMode int

const (
	modeList reviewMode = iota
	modeDetail
	modeReason
)

type reviewKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Back    key.Binding
	Approve key.Binding
	Reject  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k reviewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Approve, k.Reject, k.Help, k.Quit}
}

func (k reviewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Back},
		{k.Approve, k.Reject},
		{k.Help, k.Quit},
	}
}

var reviewKeys = reviewKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter", "right", "l"),
		key.WithHelp("enter", "details"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "left", "h"),
		key.WithHelp("esc", "back"),
	),
	Approve: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "approve"),
	),
	Reject: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reject"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// planReviewModel browses a plan's tasks in execution order
type planReviewModel struct {
	plan   *plan.Plan
	tasks  []plan.Task
	cursor int
	mode   reviewMode
	reason textinput.Model
	help   help.Model
	keys   reviewKeyMap
	styles Styles
	result *ReviewResult
	width  int
}

func newPlanReviewModel(p *plan.Plan) planReviewModel {
	tasks := make([]plan.Task, 0, len(p.ExecutionOrder))
	for _, id := range p.ExecutionOrder {
		if t, ok := p.Task(id); ok {
			tasks = append(tasks, t)
		}
	}

	reason := textinput.New()
	reason.Placeholder = "why is this plan rejected?"
	reason.CharLimit = 200

	return planReviewModel{
		plan:   p,
		tasks:  tasks,
		reason: reason,
		help:   help.New(),
		keys:   reviewKeys,
		styles: DefaultStyles(),
	}
}

// Init implements tea.Model
func (m planReviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m planReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeReason {
			return m.updateReason(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.result = &ReviewResult{Reason: "review cancelled"}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.mode == modeList && m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.mode == modeList && m.cursor < len(m.tasks)-1 {
				m.cursor++
			}

		case key.Matches(msg, m.keys.Open):
			if len(m.tasks) > 0 {
				m.mode = modeDetail
			}

		case key.Matches(msg, m.keys.Back):
			m.mode = modeList

		case key.Matches(msg, m.keys.Approve):
			m.result = &ReviewResult{Approved: true}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Reject):
			m.mode = modeReason
			return m, m.reason.Focus()

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	return m, nil
}

func (m planReviewModel) updateReason(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.result = &ReviewResult{Reason: strings.TrimSpace(m.reason.Value())}
		return m, tea.Quit
	case tea.KeyEsc:
		m.reason.Reset()
		m.reason.Blur()
		m.mode = modeList
		return m, nil
	case tea.KeyCtrlC:
		m.result = &ReviewResult{Reason: "review cancelled"}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.reason, cmd = m.reason.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m planReviewModel) View() string {
	s := m.styles
	if m.result != nil {
		if m.result.Approved {
			return s.Approve.Render("\n✓ Plan approved\n\n")
		}
		reason := m.result.Reason
		if reason == "" {
			reason = "no reason given"
		}
		return s.Reject.Render(fmt.Sprintf("\n✗ Plan rejected\n  Reason: %s\n\n", reason))
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("Plan review: " + m.plan.ProjectName))
	b.WriteString("\n\n")
	b.WriteString(s.Header.Render(fmt.Sprintf("%d tasks, critical path %s, total effort %s",
		len(m.tasks), ux.Hours(m.plan.CriticalPath.Duration), ux.Hours(m.plan.TotalDuration))))
	b.WriteString("\n\n")

	if m.mode == modeDetail {
		m.renderDetail(&b)
	} else {
		m.renderList(&b)
	}
	b.WriteString("\n")

	if m.mode == modeReason {
		b.WriteString(s.Reject.Render("✗ Rejection reason:"))
		b.WriteString("\n  ")
		b.WriteString(m.reason.View())
		b.WriteString("\n\n")
		b.WriteString(s.Muted.Render("enter: submit • esc: cancel"))
		return b.String()
	}

	b.WriteString(s.Muted.Render(m.help.View(m.keys)))
	return b.String()
}

func (m planReviewModel) renderList(b *strings.Builder) {
	s := m.styles
	for i, t := range m.tasks {
		marker := " "
		if m.plan.OnCriticalPath(t.ID) {
			marker = s.Critical.Render("*")
		}
		line := fmt.Sprintf("%s %2d. %-36s %-4s %6s", marker, i+1, t.ID, t.PhaseID, ux.Hours(t.DurationHours))
		if i == m.cursor {
			b.WriteString(s.Selected.Render("→ " + line))
		} else {
			b.WriteString(s.Item.Render(line))
		}
		b.WriteString("\n")
	}
}

func (m planReviewModel) renderDetail(b *strings.Builder) {
	s := m.styles
	t := m.tasks[m.cursor]

	critical := "no"
	if m.plan.OnCriticalPath(t.ID) {
		critical = "yes"
	}
	details := []struct {
		key   string
		value string
	}{
		{"ID", string(t.ID)},
		{"Name", t.Name},
		{"Phase", string(t.PhaseID)},
		{"Type", string(t.Type)},
		{"Role", string(t.AssignedRole)},
		{"Duration", ux.Hours(t.DurationHours)},
		{"Capability", string(t.Capability)},
		{"Critical", critical},
		{"Description", t.Description},
	}

	b.WriteString(s.Header.Render(fmt.Sprintf("Task %d of %d", m.cursor+1, len(m.tasks))))
	b.WriteString("\n\n")
	for _, d := range details {
		if d.value == "" {
			continue
		}
		b.WriteString("  ")
		b.WriteString(s.Key.Render(fmt.Sprintf("%-12s:", d.key)))
		b.WriteString(" ")
		b.WriteString(s.Value.Render(d.value))
		b.WriteString("\n")
	}

	deps := m.plan.Dependencies[t.ID]
	if len(deps) > 0 {
		b.WriteString("\n  ")
		b.WriteString(s.Key.Render(fmt.Sprintf("Depends on (%d):", len(deps))))
		b.WriteString("\n")
		for _, dep := range deps {
			b.WriteString(fmt.Sprintf("    • %s\n", dep))
		}
	}
}

// RunPlanReview launches an interactive browser for a plan and returns the
// reviewer's decision. Plans without tasks are approved without prompting.
func RunPlanReview(p *plan.Plan, opts ...tea.ProgramOption) (*ReviewResult, error) {
	if len(p.Tasks) == 0 {
		return &ReviewResult{Approved: true}, nil
	}

	program := tea.NewProgram(newPlanReviewModel(p), opts...)
	finalModel, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("running plan review UI: %w", err)
	}

	m, ok := finalModel.(planReviewModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type: %T", finalModel)
	}
	if m.result == nil {
		return &ReviewResult{Reason: "review cancelled"}, nil
	}
	return m.result, nil
}
