package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskplan/internal/blueprint"
	"github.com/felixgeelhaar/taskplan/internal/plan"
)

func testPlan(t *testing.T) *plan.Plan {
	t.Helper()
	p, err := plan.NewAssembler(blueprint.Default()).Assemble(context.Background(), plan.Request{
		Category:     "calendar_management",
		Capabilities: []string{"im.v1.message.create", "calendar.v4.calendar_event.list"},
	})
	require.NoError(t, err)
	return p
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m planReviewModel, msgs ...tea.Msg) (planReviewModel, tea.Cmd) {
	var cmd tea.Cmd
	var next tea.Model = m
	for _, msg := range msgs {
		next, cmd = next.(planReviewModel).Update(msg)
	}
	return next.(planReviewModel), cmd
}

func TestRunPlanReviewEmptyPlan(t *testing.T) {
	result, err := RunPlanReview(&plan.Plan{})
	require.NoError(t, err)
	assert.True(t, result.Approved)
}

func TestPlanReviewFollowsExecutionOrder(t *testing.T) {
	p := testPlan(t)
	m := newPlanReviewModel(p)

	require.Len(t, m.tasks, len(p.ExecutionOrder))
	for i, id := range p.ExecutionOrder {
		assert.Equal(t, id, m.tasks[i].ID)
	}
	assert.Nil(t, m.Init())
}

func TestPlanReviewNavigation(t *testing.T) {
	m := newPlanReviewModel(testPlan(t))

	m, _ = send(m, runes("j"))
	assert.Equal(t, 1, m.cursor)
	m, _ = send(m, runes("k"), runes("k"))
	assert.Equal(t, 0, m.cursor, "cursor stops at the first task")

	m.cursor = len(m.tasks) - 1
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, len(m.tasks)-1, m.cursor, "cursor stops at the last task")
}

func TestPlanReviewDetail(t *testing.T) {
	p := testPlan(t)
	m := newPlanReviewModel(p)

	m, _ = send(m, runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, modeDetail, m.mode)

	view := m.View()
	assert.Contains(t, view, "Task 2 of 13")
	assert.Contains(t, view, "p1-install-dependencies")
	assert.Contains(t, view, "p1-init-project")

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeList, m.mode)
}

func TestPlanReviewApprove(t *testing.T) {
	m, cmd := send(newPlanReviewModel(testPlan(t)), runes("a"))

	require.NotNil(t, m.result)
	assert.True(t, m.result.Approved)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Plan approved")
}

func TestPlanReviewReject(t *testing.T) {
	m, _ := send(newPlanReviewModel(testPlan(t)), runes("r"))
	require.Equal(t, modeReason, m.mode)

	m, _ = send(m, runes("t"), runes("o"), runes("o"), runes(" "), runes("l"), runes("o"), runes("n"), runes("g"))
	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, m.result)
	assert.False(t, m.result.Approved)
	assert.Equal(t, "too long", m.result.Reason)
	assert.NotNil(t, cmd)
}

func TestPlanReviewRejectCancelled(t *testing.T) {
	m, _ := send(newPlanReviewModel(testPlan(t)), runes("r"), runes("x"), tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, modeList, m.mode)
	assert.Nil(t, m.result)
	assert.Empty(t, m.reason.Value())
}

func TestPlanReviewQuit(t *testing.T) {
	m, cmd := send(newPlanReviewModel(testPlan(t)), runes("q"))

	require.NotNil(t, m.result)
	assert.False(t, m.result.Approved)
	assert.NotNil(t, cmd)
}

func TestPlanReviewListView(t *testing.T) {
	p := testPlan(t)
	m, _ := send(newPlanReviewModel(p), tea.WindowSizeMsg{Width: 120, Height: 40})

	view := m.View()
	assert.Contains(t, view, p.ProjectName)
	assert.Contains(t, view, "13 tasks, critical path 10.5h")
	assert.Contains(t, view, "p5-verify-deployment")
}
