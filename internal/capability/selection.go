// Package capability normalizes the capability selection produced by the
// upstream selector and resolves capability identifiers against a catalog.
package capability

import (
	"fmt"

	"github.com/felixgeelhaar/taskplan/internal/domain"
)

// Selection is an ordered set of capability identifiers. The first
// occurrence of an identifier fixes its position.
type Selection struct {
	ids []domain.CapabilityID
}

// MalformedError reports a capability identifier that failed validation
type MalformedError struct {
	Index int
	Value string
	Err   error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("capability at index %d (%q): %v", e.Index, e.Value, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// NewSelection validates raw identifiers and collapses duplicates while
// preserving first-seen order. An empty input yields an empty selection.
func NewSelection(raw []string) (Selection, error) {
	seen := make(map[domain.CapabilityID]bool, len(raw))
	ids := make([]domain.CapabilityID, 0, len(raw))

	for i, value := range raw {
		id, err := domain.NewCapabilityID(value)
		if err != nil {
			return Selection{}, &MalformedError{Index: i, Value: value, Err: err}
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	return Selection{ids: ids}, nil
}

// IDs returns a copy of the identifiers in selection order
func (s Selection) IDs() []domain.CapabilityID {
	out := make([]domain.CapabilityID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Strings returns the identifiers as plain strings
func (s Selection) Strings() []string {
	out := make([]string, len(s.ids))
	for i, id := range s.ids {
		out[i] = string(id)
	}
	return out
}

// Len returns the number of unique capabilities
func (s Selection) Len() int {
	return len(s.ids)
}

// IsEmpty reports whether no capability was selected
func (s Selection) IsEmpty() bool {
	return len(s.ids) == 0
}

// Contains reports whether id is part of the selection
func (s Selection) Contains(id domain.CapabilityID) bool {
	for _, have := range s.ids {
		if have == id {
			return true
		}
	}
	return false
}
