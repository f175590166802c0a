package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// TaskID represents a unique identifier for a task.
// This is a value object that enforces valid ID formats.
type TaskID string

var (
	// taskIDPattern validates that the ID contains only alphanumeric characters and hyphens
	// Must start with a letter, and can contain lowercase letters, numbers, and hyphens
	taskIDPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

	// slugSeparators matches runs of characters that are not allowed inside a task ID
	slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)

	// maxTaskIDLength is the maximum allowed length for a task ID
	maxTaskIDLength = MaxTaskIDLength
)

// MaxTaskIDLength is the maximum length of a task ID
const MaxTaskIDLength = 100

// NewTaskID creates a new TaskID value object with validation
func NewTaskID(value string) (TaskID, error) {
	id := TaskID(value)
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

// TaskIDFromParts builds a TaskID by joining slugged parts with hyphens.
// Dots, underscores and other separators collapse into a single hyphen, so
// "impl" + "im.v1.message.create" becomes "impl-im-v1-message-create".
func TaskIDFromParts(parts ...string) (TaskID, error) {
	slugs := make([]string, 0, len(parts))
	for _, part := range parts {
		slug := strings.Trim(slugSeparators.ReplaceAllString(strings.ToLower(part), "-"), "-")
		if slug != "" {
			slugs = append(slugs, slug)
		}
	}
	return NewTaskID(strings.Join(slugs, "-"))
}

// WithSuffix returns the ID with "-<n>" appended, shortening the ID first
// when the result would exceed MaxTaskIDLength.
func (t TaskID) WithSuffix(n int) (TaskID, error) {
	suffix := fmt.Sprintf("-%d", n)
	base := string(t)
	if len(base)+len(suffix) > MaxTaskIDLength {
		base = strings.TrimRight(base[:MaxTaskIDLength-len(suffix)], "-")
	}
	return NewTaskID(base + suffix)
}

// Validate checks if the task ID is valid
func (t TaskID) Validate() error {
	s := string(t)

	if s == "" {
		return fmt.Errorf("task ID cannot be empty")
	}

	if len(s) > maxTaskIDLength {
		return fmt.Errorf("task ID %q exceeds maximum length of %d characters", s, maxTaskIDLength)
	}

	if !taskIDPattern.MatchString(s) {
		return fmt.Errorf("task ID %q must start with a letter and contain only lowercase letters, numbers, and hyphens", s)
	}

	if strings.Contains(s, "--") {
		return fmt.Errorf("task ID %q cannot contain consecutive hyphens", s)
	}

	if strings.HasSuffix(s, "-") {
		return fmt.Errorf("task ID %q cannot end with a hyphen", s)
	}

	return nil
}

// String returns the string representation
func (t TaskID) String() string {
	return string(t)
}
