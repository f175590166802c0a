package plan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/taskplan/internal/blueprint"
	"github.com/felixgeelhaar/taskplan/internal/capability"
	"github.com/felixgeelhaar/taskplan/internal/domain"
)

// capabilityTaskPrefix prefixes the ids of per-capability tasks
const capabilityTaskPrefix = "impl"

// TaskFactory creates the tasks of a plan: the blueprint's scaffolding
// tasks for every phase plus one implementation task per selected
// capability.
type TaskFactory struct {
	bp      *blueprint.Blueprint
	catalog capability.Catalog
}

// NewTaskFactory creates a factory for a blueprint. catalog may be nil.
func NewTaskFactory(bp *blueprint.Blueprint, catalog capability.Catalog) *TaskFactory {
	return &TaskFactory{bp: bp, catalog: catalog}
}

// Phases returns the blueprint phases in order
func (f *TaskFactory) Phases() []Phase {
	ordered := f.bp.OrderedPhases()
	phases := make([]Phase, len(ordered))
	for i, p := range ordered {
		phases[i] = Phase{ID: p.ID, Name: p.Name, Description: p.Description, Order: p.Order}
	}
	return phases
}

// Build validates the category and capabilities, then creates the tasks in
// phase order. Within a phase scaffolding tasks come first, followed by
// capability tasks in selection order. Identical inputs produce identical
// tasks.
func (f *TaskFactory) Build(category string, capabilities []string) ([]Task, error) {
	cat, err := f.category(category)
	if err != nil {
		return nil, err
	}

	sel, err := capability.NewSelection(capabilities)
	if err != nil {
		return nil, &ConfigurationError{Field: "capability", Value: malformedValue(err), Err: err}
	}

	capType := f.bp.Capability.Type
	capDuration, ok := f.bp.Duration(capType)
	if !ok {
		return nil, &ConfigurationError{Field: "blueprint", Err: fmt.Errorf("no duration for task type %s", capType)}
	}

	used := make(map[domain.TaskID]bool)
	var tasks []Task

	for _, phase := range f.bp.OrderedPhases() {
		for _, tmpl := range f.bp.TemplatesFor(phase.ID) {
			task, err := f.scaffold(phase.ID, tmpl, cat)
			if err != nil {
				return nil, err
			}
			if used[task.ID] {
				return nil, &ConfigurationError{Field: "blueprint", Err: fmt.Errorf("duplicate task id %s", task.ID)}
			}
			used[task.ID] = true
			tasks = append(tasks, task)
		}

		if phase.ID != f.bp.Capability.Phase {
			continue
		}
		for _, capID := range sel.IDs() {
			id, err := uniqueTaskID(used, capabilityTaskPrefix, string(capID))
			if err != nil {
				return nil, &ConfigurationError{Field: "capability", Value: string(capID), Err: err}
			}
			used[id] = true
			tasks = append(tasks, Task{
				ID:            id,
				Key:           string(capID),
				PhaseID:       phase.ID,
				Name:          "Implement " + string(capID),
				Description:   f.capabilityDescription(capID, cat),
				Type:          capType,
				AssignedRole:  f.bp.Capability.Role,
				DurationHours: capDuration,
				Capability:    capID,
			})
		}
	}

	return tasks, nil
}

func (f *TaskFactory) category(raw string) (domain.Category, error) {
	cat, err := domain.NewCategory(raw)
	if err != nil {
		return "", &ConfigurationError{Field: "category", Value: raw, Allowed: f.bp.CategoryNames(), Err: err}
	}
	if !f.bp.HasCategory(cat) {
		return "", &ConfigurationError{
			Field:   "category",
			Value:   raw,
			Allowed: f.bp.CategoryNames(),
			Err:     fmt.Errorf("unknown intent category"),
		}
	}
	return cat, nil
}

func (f *TaskFactory) scaffold(phase domain.PhaseID, tmpl blueprint.TaskTemplate, cat domain.Category) (Task, error) {
	id, err := domain.TaskIDFromParts(string(phase), tmpl.Key)
	if err != nil {
		return Task{}, &ConfigurationError{Field: "blueprint", Value: tmpl.Key, Err: err}
	}
	duration, ok := f.bp.Duration(tmpl.Type)
	if !ok {
		return Task{}, &ConfigurationError{
			Field: "blueprint",
			Value: tmpl.Key,
			Err:   fmt.Errorf("no duration for task type %s", tmpl.Type),
		}
	}
	return Task{
		ID:            id,
		Key:           tmpl.Key,
		PhaseID:       phase,
		Name:          tmpl.Name,
		Description:   strings.ReplaceAll(tmpl.Description, "{category}", string(cat)),
		Type:          tmpl.Type,
		AssignedRole:  tmpl.Role,
		DurationHours: duration,
	}, nil
}

func (f *TaskFactory) capabilityDescription(id domain.CapabilityID, cat domain.Category) string {
	if f.catalog != nil {
		if info, ok := f.catalog.Lookup(id); ok && info.Summary != "" {
			return fmt.Sprintf("Integrate %s (%s) for the %s project", id, info.Summary, cat)
		}
	}
	return fmt.Sprintf("Integrate the %s capability for the %s project", id, cat)
}

// uniqueTaskID derives a task id from parts and appends -2, -3, ... until
// it no longer collides with an id in used.
func uniqueTaskID(used map[domain.TaskID]bool, parts ...string) (domain.TaskID, error) {
	base, err := domain.TaskIDFromParts(parts...)
	if err != nil {
		return "", err
	}
	if !used[base] {
		return base, nil
	}
	for n := 2; ; n++ {
		candidate, err := base.WithSuffix(n)
		if err != nil {
			return "", err
		}
		if !used[candidate] {
			return candidate, nil
		}
	}
}

func malformedValue(err error) string {
	var m *capability.MalformedError
	if errors.As(err, &m) {
		return m.Value
	}
	return ""
}
