// Package blueprint holds the planner's configuration: the ordered phase
// templates, the scaffolding tasks created for every project, the duration
// lookup table, the fine-grained dependency rules and the intent categories
// the planner accepts.
//
// A Blueprint is read-only once loaded and may be shared between
// concurrent planning calls.
package blueprint

import (
	"sort"

	"github.com/felixgeelhaar/taskplan/internal/domain"
)

// Blueprint is the full planner configuration
type Blueprint struct {
	Version    string                      `yaml:"version" json:"version"`
	Categories []Category                  `yaml:"categories" json:"categories"`
	Phases     []Phase                     `yaml:"phases" json:"phases"`
	Durations  map[domain.TaskType]float64 `yaml:"durations" json:"durations"`
	Capability CapabilityTemplate          `yaml:"capability" json:"capability"`
	Tasks      []TaskTemplate              `yaml:"tasks" json:"tasks"`
	Rules      []Rule                      `yaml:"rules" json:"rules"`
}

// Category is an intent category accepted by the planner
type Category struct {
	Name        domain.Category `yaml:"name" json:"name"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
}

// Phase is a phase template
type Phase struct {
	ID          domain.PhaseID `yaml:"id" json:"id"`
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Order       int            `yaml:"order" json:"order"`
}

// CapabilityTemplate describes the implementation task created per capability
type CapabilityTemplate struct {
	Phase domain.PhaseID  `yaml:"phase" json:"phase"`
	Type  domain.TaskType `yaml:"type" json:"type"`
	Role  domain.Role     `yaml:"role" json:"role"`
}

// TaskTemplate is a scaffolding task created for every project.
// The description may contain the placeholder {category}.
type TaskTemplate struct {
	Key         string          `yaml:"key" json:"key"`
	Phase       domain.PhaseID  `yaml:"phase" json:"phase"`
	Name        string          `yaml:"name" json:"name"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
	Type        domain.TaskType `yaml:"type" json:"type"`
	Role        domain.Role     `yaml:"role" json:"role"`
}

// Rule is a fine-grained dependency: the task with key Task depends on the
// task with key DependsOn. Keys are template keys or capability identifiers.
type Rule struct {
	Task      string `yaml:"task" json:"task"`
	DependsOn string `yaml:"depends_on" json:"depends_on"`
}

// OrderedPhases returns the phases sorted by Order
func (b *Blueprint) OrderedPhases() []Phase {
	phases := make([]Phase, len(b.Phases))
	copy(phases, b.Phases)
	sort.SliceStable(phases, func(i, j int) bool {
		return phases[i].Order < phases[j].Order
	})
	return phases
}

// HasCategory reports whether c is an accepted intent category
func (b *Blueprint) HasCategory(c domain.Category) bool {
	for _, known := range b.Categories {
		if known.Name == c {
			return true
		}
	}
	return false
}

// CategoryNames returns the accepted category names in declaration order
func (b *Blueprint) CategoryNames() []string {
	names := make([]string, len(b.Categories))
	for i, c := range b.Categories {
		names[i] = string(c.Name)
	}
	return names
}

// Duration returns the duration in hours for a task type
func (b *Blueprint) Duration(t domain.TaskType) (float64, bool) {
	d, ok := b.Durations[t]
	return d, ok
}

// TemplatesFor returns the scaffolding templates of a phase in declaration order
func (b *Blueprint) TemplatesFor(phase domain.PhaseID) []TaskTemplate {
	var out []TaskTemplate
	for _, t := range b.Tasks {
		if t.Phase == phase {
			out = append(out, t)
		}
	}
	return out
}
