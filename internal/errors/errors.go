package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeUnknownCategory     ErrorCode = "CONFIG-001"
	ErrCodeMalformedCapability ErrorCode = "CONFIG-002"
	ErrCodeBlueprintInvalid    ErrorCode = "CONFIG-003"
	ErrCodeRequestInvalid      ErrorCode = "CONFIG-004"
	ErrCodeCatalogInvalid      ErrorCode = "CONFIG-005"

	// Plan errors (PLAN-001 to PLAN-099)
	ErrCodePlanCyclicDep    ErrorCode = "PLAN-001"
	ErrCodePlanInvalid      ErrorCode = "PLAN-002"
	ErrCodePlanStageFailed  ErrorCode = "PLAN-003"
	ErrCodePlanUnknownTask  ErrorCode = "PLAN-004"
	ErrCodePlanNoCapability ErrorCode = "PLAN-005"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
	ErrCodeFileUnmarshal   ErrorCode = "IO-005"
	ErrCodeFileMarshal     ErrorCode = "IO-006"
)

const docsBase = "https://github.com/felixgeelhaar/taskplan"

// TaskplanError represents an enhanced error with code, suggestions, and documentation
type TaskplanError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *TaskplanError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *TaskplanError) Unwrap() error {
	return e.Cause
}

// New creates a new TaskplanError
func New(code ErrorCode, message string) *TaskplanError {
	return &TaskplanError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new TaskplanError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *TaskplanError {
	return &TaskplanError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *TaskplanError) WithSuggestion(suggestion string) *TaskplanError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *TaskplanError) WithSuggestions(suggestions ...string) *TaskplanError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *TaskplanError) WithDocs(url string) *TaskplanError {
	e.DocsURL = url
	return e
}

// IsCategory reports whether the code belongs to the given prefix, e.g. "CONFIG".
func (c ErrorCode) IsCategory(prefix string) bool {
	return strings.HasPrefix(string(c), prefix+"-")
}

// Common error constructors for frequently used errors

// NewUnknownCategoryError creates an unknown intent category error
func NewUnknownCategoryError(category string, known []string, cause error) *TaskplanError {
	return Wrap(ErrCodeUnknownCategory, fmt.Sprintf("unknown intent category: %q", category), cause).
		WithSuggestion(fmt.Sprintf("Use one of: %s", strings.Join(known, ", "))).
		WithSuggestion("Run 'taskplan blueprint show' to list the categories of the active blueprint").
		WithDocs(docsBase + "#intent-categories")
}

// NewMalformedCapabilityError creates a malformed capability identifier error
func NewMalformedCapabilityError(capability string, cause error) *TaskplanError {
	return Wrap(ErrCodeMalformedCapability, fmt.Sprintf("malformed capability identifier: %q", capability), cause).
		WithSuggestion("Capability identifiers are dot-separated, e.g. im.v1.message.create").
		WithSuggestion("Use lowercase letters, numbers, and underscores in each segment")
}

// NewBlueprintInvalidError creates a blueprint validation error
func NewBlueprintInvalidError(details string, cause error) *TaskplanError {
	return Wrap(ErrCodeBlueprintInvalid, fmt.Sprintf("invalid blueprint: %s", details), cause).
		WithSuggestion("Run 'taskplan blueprint validate --in <file>' to see validation errors").
		WithSuggestion("Start from 'taskplan blueprint show --format yaml' and edit the output").
		WithDocs(docsBase + "#blueprints")
}

// NewCycleDetectedError creates a dependency cycle error
func NewCycleDetectedError(taskID string, path []string, cause error) *TaskplanError {
	err := Wrap(ErrCodePlanCyclicDep, fmt.Sprintf("dependency cycle detected at task: %s", taskID), cause).
		WithSuggestion("Check the fine-grained dependency rules in your blueprint")
	if len(path) > 0 {
		err.WithSuggestion(fmt.Sprintf("Cycle: %s", strings.Join(path, " -> ")))
	}
	return err.WithDocs(docsBase + "#dependency-rules")
}

// NewPlanInvalidError creates a plan validation error
func NewPlanInvalidError(details string, cause error) *TaskplanError {
	return Wrap(ErrCodePlanInvalid, fmt.Sprintf("invalid plan: %s", details), cause).
		WithSuggestion("Regenerate the plan with 'taskplan plan create'").
		WithSuggestion("Do not edit generated plans by hand")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *TaskplanError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *TaskplanError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
