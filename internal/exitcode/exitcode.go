package exitcode

import (
	"context"
	"errors"
	"os"
	"strings"

	taskerrors "github.com/felixgeelhaar/taskplan/internal/errors"
	"github.com/felixgeelhaar/taskplan/internal/plan"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid usage or configuration: bad flags, an
	// unknown category, a malformed capability or an invalid blueprint
	UsageError = 2

	// CycleDetected indicates the dependency rules form a cycle
	CycleDetected = 3

	// ValidationFailed indicates a plan broke one of its invariants
	ValidationFailed = 4

	// Interrupted indicates the operation was cancelled by a signal (128 + SIGINT)
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode maps an error to an exit code. Coded errors and typed
// planning errors are matched first; cobra usage errors are recognised by
// message.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if errors.Is(err, context.Canceled) {
		return Interrupted
	}

	var coded *taskerrors.TaskplanError
	if errors.As(err, &coded) {
		switch {
		case coded.Code == taskerrors.ErrCodePlanCyclicDep:
			return CycleDetected
		case coded.Code == taskerrors.ErrCodePlanInvalid:
			return ValidationFailed
		case coded.Code.IsCategory("CONFIG"):
			return UsageError
		}
	}

	var cycle *plan.CycleDetectedError
	if errors.As(err, &cycle) {
		return CycleDetected
	}
	var invalid *plan.ValidationError
	if errors.As(err, &invalid) {
		return ValidationFailed
	}
	var cfgErr *plan.ConfigurationError
	if errors.As(err, &cfgErr) {
		return UsageError
	}

	errMsg := strings.ToLower(err.Error())
	for _, usage := range []string{"unknown flag", "invalid argument", "unknown command", "required flag", "accepts ", "unknown shorthand flag"} {
		if strings.Contains(errMsg, usage) {
			return UsageError
		}
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage or configuration error"
	case CycleDetected:
		return "Dependency cycle detected"
	case ValidationFailed:
		return "Plan validation failed"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
