package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// CapabilityID identifies one operation of an external integration,
// written as dot-separated segments such as "im.v1.message.create".
type CapabilityID string

var (
	capabilitySegmentPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_]*$`)

	// maxCapabilityIDLength leaves room for the "impl-" prefix of the
	// derived task ID within MaxTaskIDLength
	maxCapabilityIDLength = MaxTaskIDLength - len("impl-") - 1
)

// NewCapabilityID creates a CapabilityID with validation.
// Surrounding whitespace is trimmed before validation.
func NewCapabilityID(value string) (CapabilityID, error) {
	id := CapabilityID(strings.TrimSpace(value))
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

// Validate checks if the capability ID is well-formed
func (c CapabilityID) Validate() error {
	s := string(c)

	if s == "" {
		return fmt.Errorf("capability ID cannot be empty")
	}

	if len(s) > maxCapabilityIDLength {
		return fmt.Errorf("capability ID %q exceeds maximum length of %d characters", s, maxCapabilityIDLength)
	}

	segments := strings.Split(s, ".")
	if len(segments) < 2 {
		return fmt.Errorf("capability ID %q must contain at least two dot-separated segments", s)
	}

	if s[0] < 'a' || s[0] > 'z' {
		return fmt.Errorf("capability ID %q must start with a lowercase letter", s)
	}

	for i, segment := range segments {
		if segment == "" {
			return fmt.Errorf("capability ID %q has an empty segment at position %d", s, i)
		}
		if !capabilitySegmentPattern.MatchString(segment) {
			return fmt.Errorf("capability ID %q segment %q may only contain lowercase letters, numbers, and underscores", s, segment)
		}
	}

	return nil
}

// Namespace returns the first segment (e.g. "im" for "im.v1.message.create")
func (c CapabilityID) Namespace() string {
	s := string(c)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i]
	}
	return s
}

// String returns the string representation
func (c CapabilityID) String() string {
	return string(c)
}
