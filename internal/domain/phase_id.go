package domain

import (
	"fmt"
	"regexp"
)

// PhaseID identifies a phase of project work (e.g. "p1", "setup").
type PhaseID string

var phaseIDPattern = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

// NewPhaseID creates a PhaseID with validation
func NewPhaseID(value string) (PhaseID, error) {
	id := PhaseID(value)
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

// Validate checks if the phase ID is valid. Phase IDs prefix task IDs,
// so they are restricted to lowercase letters and digits.
func (p PhaseID) Validate() error {
	s := string(p)
	if s == "" {
		return fmt.Errorf("phase ID cannot be empty")
	}
	if len(s) > 32 {
		return fmt.Errorf("phase ID %q exceeds maximum length of 32 characters", s)
	}
	if !phaseIDPattern.MatchString(s) {
		return fmt.Errorf("phase ID %q must start with a letter and contain only lowercase letters and numbers", s)
	}
	return nil
}

// String returns the string representation
func (p PhaseID) String() string {
	return string(p)
}
