package plan

import (
	"errors"
	"strings"
	"testing"

	"github.com/felixgeelhaar/taskplan/internal/blueprint"
	"github.com/felixgeelhaar/taskplan/internal/capability"
	"github.com/felixgeelhaar/taskplan/internal/domain"
)

func TestTaskFactory_Build(t *testing.T) {
	req := exampleRequest()
	f := NewTaskFactory(blueprint.Default(), nil)

	tasks, err := f.Build(req.Category, req.Capabilities)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	ids := make([]domain.TaskID, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
		if err := task.Validate(); err != nil {
			t.Errorf("task %s invalid: %v", task.ID, err)
		}
	}
	if !equalIDs(ids, exampleTaskIDs) {
		t.Errorf("task ids = %v, want %v", ids, exampleTaskIDs)
	}

	impl := tasks[3]
	if impl.PhaseID != "p2" {
		t.Errorf("capability task phase = %s, want p2", impl.PhaseID)
	}
	if impl.Type != domain.TaskTypeImplementation || impl.AssignedRole != domain.RoleBackend {
		t.Errorf("capability task type/role = %s/%s", impl.Type, impl.AssignedRole)
	}
	if impl.DurationHours != 2 {
		t.Errorf("capability task duration = %g, want 2", impl.DurationHours)
	}
	if impl.Capability != "im.v1.message.create" || impl.Key != "im.v1.message.create" {
		t.Errorf("capability task capability/key = %s/%s", impl.Capability, impl.Key)
	}

	if !strings.Contains(tasks[0].Description, "calendar_management") {
		t.Errorf("scaffolding description %q does not mention the category", tasks[0].Description)
	}
	if strings.Contains(tasks[0].Description, "{category}") {
		t.Errorf("placeholder left in description %q", tasks[0].Description)
	}
}

func TestTaskFactory_Phases(t *testing.T) {
	phases := NewTaskFactory(blueprint.Default(), nil).Phases()
	if len(phases) != 5 {
		t.Fatalf("phases = %d, want 5", len(phases))
	}
	for i := 1; i < len(phases); i++ {
		if phases[i].Order <= phases[i-1].Order {
			t.Errorf("phase %s out of order", phases[i].ID)
		}
	}
}

func TestTaskFactory_Deterministic(t *testing.T) {
	req := exampleRequest()
	f := NewTaskFactory(blueprint.Default(), nil)

	first, err := f.Build(req.Category, req.Capabilities)
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.Build(req.Category, req.Capabilities)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("task %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestTaskFactory_ZeroCapabilities(t *testing.T) {
	bp := blueprint.Default()
	tasks, err := NewTaskFactory(bp, nil).Build("messaging", nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(tasks) != len(bp.Tasks) {
		t.Errorf("tasks = %d, want %d scaffolding tasks", len(tasks), len(bp.Tasks))
	}
	for _, task := range tasks {
		if task.PhaseID == "p2" {
			t.Errorf("unexpected task %s in implementation phase", task.ID)
		}
	}
}

func TestTaskFactory_DuplicateCapabilities(t *testing.T) {
	tasks, err := NewTaskFactory(blueprint.Default(), nil).Build("messaging", []string{
		"im.v1.message.create",
		"im.v1.message.create",
		"im.v1.chat.list",
		"im.v1.message.create",
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var impl []domain.TaskID
	for _, task := range tasks {
		if task.Capability != "" {
			impl = append(impl, task.ID)
		}
	}
	want := []domain.TaskID{"impl-im-v1-message-create", "impl-im-v1-chat-list"}
	if !equalIDs(impl, want) {
		t.Errorf("implementation tasks = %v, want %v", impl, want)
	}
}

func TestTaskFactory_IDCollision(t *testing.T) {
	tasks, err := NewTaskFactory(blueprint.Default(), nil).Build("messaging", []string{
		"im.v1.chat_member.list",
		"im.v1.chat.member_list",
		"im.v1.chat.member.list",
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var impl []domain.TaskID
	for _, task := range tasks {
		if task.Capability != "" {
			impl = append(impl, task.ID)
		}
	}
	want := []domain.TaskID{
		"impl-im-v1-chat-member-list",
		"impl-im-v1-chat-member-list-2",
		"impl-im-v1-chat-member-list-3",
	}
	if !equalIDs(impl, want) {
		t.Errorf("implementation tasks = %v, want %v", impl, want)
	}
}

func TestTaskFactory_LongCapabilities(t *testing.T) {
	// 94 characters, the longest valid capability; both slug to the same id
	underscored := "calendar.v4." + strings.Repeat("x", 77) + "_list"
	dotted := "calendar.v4." + strings.Repeat("x", 77) + ".list"

	tasks, err := NewTaskFactory(blueprint.Default(), nil).Build("calendar_management", []string{underscored, dotted})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var impl []domain.TaskID
	for _, task := range tasks {
		if task.Capability != "" {
			impl = append(impl, task.ID)
		}
	}
	base := "impl-calendar-v4-" + strings.Repeat("x", 77) + "-list"
	want := []domain.TaskID{
		domain.TaskID(base),
		domain.TaskID(base[:domain.MaxTaskIDLength-2] + "-2"),
	}
	if !equalIDs(impl, want) {
		t.Errorf("implementation tasks = %v, want %v", impl, want)
	}

	_, err = NewTaskFactory(blueprint.Default(), nil).Build("calendar_management", []string{underscored + "s"})
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "capability" {
		t.Fatalf("Build() error = %v, want a capability ConfigurationError", err)
	}
	if !strings.Contains(err.Error(), "capability ID") || strings.Contains(err.Error(), "task ID") {
		t.Errorf("error %q should report the capability length", err)
	}
}

func TestTaskFactory_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name      string
		category  string
		caps      []string
		wantField string
	}{
		{"unknown category", "space_travel", nil, "category"},
		{"malformed category", "Calendar Management", nil, "category"},
		{"empty category", "", nil, "category"},
		{"malformed capability", "messaging", []string{"im.v1.message.create", "not a capability"}, "capability"},
		{"single segment capability", "messaging", []string{"message"}, "capability"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTaskFactory(blueprint.Default(), nil).Build(tt.category, tt.caps)
			if err == nil {
				t.Fatal("Build() expected error")
			}
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error %v is not a ConfigurationError", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.wantField)
			}
			if tt.wantField == "category" && len(cfgErr.Allowed) == 0 {
				t.Error("category error should list allowed categories")
			}
		})
	}
}

func TestTaskFactory_CatalogSummary(t *testing.T) {
	catalog := capability.StaticCatalog{
		"im.v1.message.create": {ID: "im.v1.message.create", Summary: "Send a message"},
	}
	tasks, err := NewTaskFactory(blueprint.Default(), catalog).Build("messaging", []string{
		"im.v1.message.create",
		"im.v1.chat.list",
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for _, task := range tasks {
		switch task.Capability {
		case "im.v1.message.create":
			if !strings.Contains(task.Description, "Send a message") {
				t.Errorf("description %q lacks catalog summary", task.Description)
			}
		case "im.v1.chat.list":
			if !strings.Contains(task.Description, "im.v1.chat.list capability") {
				t.Errorf("description %q lacks fallback wording", task.Description)
			}
		}
	}
}
