package domain

import "fmt"

// TaskType classifies a task; durations are looked up per type.
type TaskType string

// Known task types
const (
	TaskTypeSetup          TaskType = "setup"
	TaskTypeConfig         TaskType = "config"
	TaskTypeImplementation TaskType = "implementation"
	TaskTypeUI             TaskType = "ui"
	TaskTypeTesting        TaskType = "testing"
	TaskTypeDeployment     TaskType = "deployment"
)

// AllTaskTypes returns every known task type in a stable order
func AllTaskTypes() []TaskType {
	return []TaskType{
		TaskTypeSetup,
		TaskTypeConfig,
		TaskTypeImplementation,
		TaskTypeUI,
		TaskTypeTesting,
		TaskTypeDeployment,
	}
}

// NewTaskType creates a TaskType with validation
func NewTaskType(value string) (TaskType, error) {
	t := TaskType(value)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate checks if the task type is known
func (t TaskType) Validate() error {
	for _, known := range AllTaskTypes() {
		if t == known {
			return nil
		}
	}
	return fmt.Errorf("invalid task type %q: must be one of setup, config, implementation, ui, testing, deployment", string(t))
}

// String returns the string representation
func (t TaskType) String() string {
	return string(t)
}

// Role is the kind of contributor a task is assigned to.
type Role string

// Known roles
const (
	RoleDevOps    Role = "devops"
	RoleBackend   Role = "backend"
	RoleFrontend  Role = "frontend"
	RoleQA        Role = "qa"
	RoleArchitect Role = "architect"
)

// Validate checks if the role is known
func (r Role) Validate() error {
	switch r {
	case RoleDevOps, RoleBackend, RoleFrontend, RoleQA, RoleArchitect:
		return nil
	default:
		return fmt.Errorf("invalid role %q: must be devops, backend, frontend, qa, or architect", string(r))
	}
}

// String returns the string representation
func (r Role) String() string {
	return string(r)
}
