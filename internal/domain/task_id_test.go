package domain

import (
	"strings"
	"testing"
)

func TestNewTaskID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{
			name:    "valid simple ID",
			value:   "task-001",
			wantErr: false,
		},
		{
			name:    "valid ID with hyphen",
			value:   "implement-auth",
			wantErr: false,
		},
		{
			name:    "valid ID with multiple hyphens",
			value:   "implement-user-profile-api",
			wantErr: false,
		},
		{
			name:    "valid ID with numbers",
			value:   "task-123",
			wantErr: false,
		},
		{
			name:    "valid ID starts with letter",
			value:   "t123",
			wantErr: false,
		},
		{
			name:    "empty ID",
			value:   "",
			wantErr: true,
		},
		{
			name:    "ID starts with number",
			value:   "123-task",
			wantErr: true,
		},
		{
			name:    "ID starts with hyphen",
			value:   "-task",
			wantErr: true,
		},
		{
			name:    "ID ends with hyphen",
			value:   "task-",
			wantErr: true,
		},
		{
			name:    "ID with consecutive hyphens",
			value:   "task--001",
			wantErr: true,
		},
		{
			name:    "ID with uppercase letters",
			value:   "Task-001",
			wantErr: true,
		},
		{
			name:    "ID with special characters",
			value:   "task_001",
			wantErr: true,
		},
		{
			name:    "ID with spaces",
			value:   "task 001",
			wantErr: true,
		},
		{
			name:    "ID exceeds max length",
			value:   strings.Repeat("a", 101),
			wantErr: true,
		},
		{
			name:    "ID at max length",
			value:   strings.Repeat("a", 100),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTaskID(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewTaskID() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && string(got) != tt.value {
				t.Errorf("NewTaskID() = %v, want %v", got, tt.value)
			}
		})
	}
}

func TestTaskID_Validate(t *testing.T) {
	tests := []struct {
		name    string
		taskID  TaskID
		wantErr bool
	}{
		{"valid simple ID", TaskID("task-001"), false},
		{"valid with hyphens", TaskID("implement-user-profile"), false},
		{"valid with numbers", TaskID("task-123"), false},
		{"empty is invalid", TaskID(""), true},
		{"starts with number is invalid", TaskID("123-task"), true},
		{"ends with hyphen is invalid", TaskID("task-"), true},
		{"consecutive hyphens are invalid", TaskID("task--001"), true},
		{"uppercase is invalid", TaskID("Task"), true},
		{"too long is invalid", TaskID(strings.Repeat("a", 101)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.taskID.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("TaskID.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTaskID_String(t *testing.T) {
	tests := []struct {
		name   string
		taskID TaskID
		want   string
	}{
		{"simple ID", TaskID("task-001"), "task-001"},
		{"ID with hyphens", TaskID("implement-auth"), "implement-auth"},
		{"ID with numbers", TaskID("task-123"), "task-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.taskID.String(); got != tt.want {
				t.Errorf("TaskID.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTaskIDFromParts(t *testing.T) {
	tests := []struct {
		name    string
		parts   []string
		want    TaskID
		wantErr bool
	}{
		{"capability with dots", []string{"impl", "im.v1.message.create"}, "impl-im-v1-message-create", false},
		{"underscores collapse", []string{"impl", "calendar.v4.calendar_event.list"}, "impl-calendar-v4-calendar-event-list", false},
		{"phase prefix and key", []string{"p1", "init_project"}, "p1-init-project", false},
		{"uppercase is lowered", []string{"Impl", "IM.V1"}, "impl-im-v1", false},
		{"empty parts skipped", []string{"impl", "", "..", "x.y"}, "impl-x-y", false},
		{"leading digit is rejected", []string{"1abc"}, "", true},
		{"nothing left", []string{"..", "__"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TaskIDFromParts(tt.parts...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("TaskIDFromParts() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("TaskIDFromParts() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTaskID_WithSuffix(t *testing.T) {
	long := TaskID("impl-" + strings.Repeat("b", 94))
	tests := []struct {
		name string
		id   TaskID
		n    int
		want TaskID
	}{
		{"short ID", TaskID("impl-im-v1-message-create"), 2, TaskID("impl-im-v1-message-create-2")},
		{"ID at the limit is shortened", long, 2, TaskID("impl-" + strings.Repeat("b", 93) + "-2")},
		{"two digit suffix", long, 10, TaskID("impl-" + strings.Repeat("b", 92) + "-10")},
		{"trailing hyphen dropped", TaskID("impl-" + strings.Repeat("b", 92) + "-c"), 2, TaskID("impl-" + strings.Repeat("b", 92) + "-2")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.id.WithSuffix(tt.n)
			if err != nil {
				t.Fatalf("WithSuffix(%d) error = %v", tt.n, err)
			}
			if got != tt.want {
				t.Errorf("WithSuffix(%d) = %q, want %q", tt.n, got, tt.want)
			}
			if len(got) > MaxTaskIDLength {
				t.Errorf("WithSuffix(%d) length = %d", tt.n, len(got))
			}
		})
	}
}
