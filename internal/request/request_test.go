package request

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskplan/internal/plan"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    plan.Request
		wantErr string
	}{
		{
			name: "yaml",
			data: `intent:
  category: calendar_management
  confidence: 0.92
capabilities:
  - im.v1.message.create
  - calendar.v4.calendar_event.list
`,
			want: plan.Request{
				Category:     "calendar_management",
				Confidence:   0.92,
				Capabilities: []string{"im.v1.message.create", "calendar.v4.calendar_event.list"},
			},
		},
		{
			name: "json",
			data: `{"intent": {"category": " messaging "}, "capabilities": []}`,
			want: plan.Request{Category: "messaging", Capabilities: []string{}},
		},
		{
			name:    "missing category",
			data:    "intent: {}\n",
			wantErr: "intent.category is required",
		},
		{
			name:    "confidence out of range",
			data:    "intent: {category: general, confidence: 1.5}\n",
			wantErr: "between 0 and 1",
		},
		{
			name:    "unknown field",
			data:    "intent: {category: general}\nfeatures: []\n",
			wantErr: "unmarshal request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.data))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.PlanRequest())
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.yaml")
	req := plan.Request{Category: "messaging", Confidence: 0.5, Capabilities: []string{"im.v1.message.create"}}

	require.NoError(t, FromPlanRequest(req).Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, req, loaded.PlanRequest())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read request file")
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"intent": {"category": ""}}`), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
