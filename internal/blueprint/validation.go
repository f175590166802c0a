package blueprint

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/taskplan/internal/domain"
)

// ValidationError lists every problem found in a blueprint
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid blueprint: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid blueprint (%d problems):\n  - %s", len(e.Problems), strings.Join(e.Problems, "\n  - "))
}

type problems []string

func (p *problems) add(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

// Validate checks the blueprint for structural problems. It does not look
// for dependency cycles; those surface when a plan is sorted.
func (b *Blueprint) Validate() error {
	var errs problems

	if len(b.Categories) == 0 {
		errs.add("at least one category is required")
	}
	seenCategory := make(map[domain.Category]bool)
	for i, c := range b.Categories {
		if err := c.Name.Validate(); err != nil {
			errs.add("category at index %d: %v", i, err)
			continue
		}
		if seenCategory[c.Name] {
			errs.add("duplicate category %q", c.Name)
		}
		seenCategory[c.Name] = true
	}

	if len(b.Phases) == 0 {
		errs.add("at least one phase is required")
	}
	phases := make(map[domain.PhaseID]bool)
	orders := make(map[int]domain.PhaseID)
	for i, p := range b.Phases {
		if err := p.ID.Validate(); err != nil {
			errs.add("phase at index %d: %v", i, err)
			continue
		}
		if phases[p.ID] {
			errs.add("duplicate phase id %q", p.ID)
		}
		phases[p.ID] = true
		if strings.TrimSpace(p.Name) == "" {
			errs.add("phase %q: name cannot be empty", p.ID)
		}
		if other, ok := orders[p.Order]; ok {
			errs.add("phases %q and %q share order %d", other, p.ID, p.Order)
		}
		orders[p.Order] = p.ID
	}

	for _, t := range domain.AllTaskTypes() {
		d, ok := b.Durations[t]
		if !ok {
			errs.add("missing duration for task type %q", t)
			continue
		}
		if d <= 0 {
			errs.add("duration for task type %q must be positive, got %g", t, d)
		}
	}
	for t := range b.Durations {
		if err := t.Validate(); err != nil {
			errs.add("durations: %v", err)
		}
	}

	if !phases[b.Capability.Phase] {
		errs.add("capability phase %q is not a declared phase", b.Capability.Phase)
	}
	if err := b.Capability.Type.Validate(); err != nil {
		errs.add("capability: %v", err)
	}
	if err := b.Capability.Role.Validate(); err != nil {
		errs.add("capability: %v", err)
	}

	keys := make(map[string]bool)
	for i, t := range b.Tasks {
		if strings.TrimSpace(t.Key) == "" {
			errs.add("task at index %d: key cannot be empty", i)
			continue
		}
		if strings.Contains(t.Key, ".") {
			errs.add("task %q: keys cannot contain dots (reserved for capability identifiers)", t.Key)
		}
		if keys[t.Key] {
			errs.add("duplicate task key %q", t.Key)
		}
		keys[t.Key] = true
		if !phases[t.Phase] {
			errs.add("task %q: phase %q is not a declared phase", t.Key, t.Phase)
		} else if _, err := domain.TaskIDFromParts(string(t.Phase), t.Key); err != nil {
			errs.add("task %q: %v", t.Key, err)
		}
		if strings.TrimSpace(t.Name) == "" {
			errs.add("task %q: name cannot be empty", t.Key)
		}
		if err := t.Type.Validate(); err != nil {
			errs.add("task %q: %v", t.Key, err)
		}
		if err := t.Role.Validate(); err != nil {
			errs.add("task %q: %v", t.Key, err)
		}
	}

	for i, r := range b.Rules {
		for _, key := range []string{r.Task, r.DependsOn} {
			if isCapabilityKey(key) {
				if _, err := domain.NewCapabilityID(key); err != nil {
					errs.add("rule at index %d: %v", i, err)
				}
				continue
			}
			if !keys[key] {
				errs.add("rule at index %d: unknown task key %q", i, key)
			}
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Problems: errs}
	}
	return nil
}

// isCapabilityKey reports whether a rule key names a capability rather
// than a scaffolding template.
func isCapabilityKey(key string) bool {
	return strings.Contains(key, ".")
}
