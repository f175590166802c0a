package ux

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/taskplan/internal/blueprint"
	"github.com/felixgeelhaar/taskplan/internal/plan"
)

func testPlan(t *testing.T, caps ...string) *plan.Plan {
	t.Helper()
	a := plan.NewAssembler(blueprint.Default(),
		plan.WithClock(func() time.Time { return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC) }),
		plan.WithIDGenerator(func() string { return "fixed-id" }),
	)
	p, err := a.Assemble(context.Background(), plan.Request{Category: "calendar_management", Capabilities: caps})
	require.NoError(t, err)
	return p
}

func TestNewFormatter(t *testing.T) {
	for _, format := range []string{"", "text", "json", "yaml"} {
		f, err := NewFormatter(format, nil)
		require.NoError(t, err, format)
		assert.NotNil(t, f)
	}

	_, err := NewFormatter("xml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewFormatter(FormatJSON, &FormatterOptions{Writer: &buf})
	require.NoError(t, err)

	p := testPlan(t, "im.v1.message.create")
	require.NoError(t, f.Format(p))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "fixed-id", decoded["id"])
	assert.Contains(t, decoded, "executionOrder")
	assert.Contains(t, buf.String(), "\n  \"")
}

func TestJSONFormatterCompact(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewFormatter(FormatJSON, &FormatterOptions{Writer: &buf, Compact: true})
	require.NoError(t, err)
	require.NoError(t, f.Format(map[string]int{"a": 1}))
	assert.Equal(t, "{\"a\":1}\n", buf.String())
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewFormatter(FormatYAML, &FormatterOptions{Writer: &buf})
	require.NoError(t, err)

	require.NoError(t, f.Format(testPlan(t)))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "calendar_management", decoded["category"])
	assert.Contains(t, decoded, "criticalPath")
}

type stringer struct{}

func (stringer) String() string { return "from stringer" }

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name    string
		data    interface{}
		want    string
		wantErr bool
	}{
		{name: "string", data: "hello", want: "hello\n"},
		{name: "stringer", data: stringer{}, want: "from stringer\n"},
		{name: "unsupported", data: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			f, err := NewFormatter(FormatText, &FormatterOptions{Writer: &buf, NoColor: true})
			require.NoError(t, err)

			err = f.Format(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestRenderPlan(t *testing.T) {
	p := testPlan(t, "im.v1.message.create", "calendar.v4.calendar_event.list")
	out := RenderPlan(p, false)

	assert.Contains(t, out, "Plan calendar_management-2026-01-02")
	assert.Contains(t, out, "1. Project Setup")
	assert.Contains(t, out, "5. Deployment")
	assert.Contains(t, out, "* p1-init-project")
	assert.Contains(t, out, "  impl-calendar-v4-calendar-event-list")
	assert.Contains(t, out, "critical path: 10.5h")
	assert.Contains(t, out, "total effort: 14.5h across 13 tasks")
	assert.NotContains(t, out, "warning:")
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestRenderPlanWarnings(t *testing.T) {
	out := RenderPlan(testPlan(t), false)
	assert.Contains(t, out, "(no tasks)")
	assert.Contains(t, out, "warning: no capabilities selected")
}

func TestHours(t *testing.T) {
	assert.Equal(t, "0.5h", Hours(0.5))
	assert.Equal(t, "2h", Hours(2))
	assert.Equal(t, "14.5h", Hours(14.5))
}
