package domain

import (
	"fmt"
	"regexp"
)

// Category is the intent category produced by the upstream classifier,
// e.g. "calendar_management". The set of categories a planner accepts is
// configured by its blueprint; Category only guarantees a well-formed name.
type Category string

var categoryPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// NewCategory creates a Category with validation
func NewCategory(value string) (Category, error) {
	c := Category(value)
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

// Validate checks if the category name is well-formed
func (c Category) Validate() error {
	s := string(c)
	if s == "" {
		return fmt.Errorf("category cannot be empty")
	}
	if len(s) > 64 {
		return fmt.Errorf("category %q exceeds maximum length of 64 characters", s)
	}
	if !categoryPattern.MatchString(s) {
		return fmt.Errorf("category %q must start with a letter and contain only lowercase letters, numbers, and underscores", s)
	}
	return nil
}

// String returns the string representation
func (c Category) String() string {
	return string(c)
}
