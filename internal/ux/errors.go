package ux

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/felixgeelhaar/taskplan/internal/blueprint"
	"github.com/felixgeelhaar/taskplan/internal/capability"
	taskerrors "github.com/felixgeelhaar/taskplan/internal/errors"
	"github.com/felixgeelhaar/taskplan/internal/plan"
)

// EnhanceError converts typed planning and loading errors into coded
// errors with suggestions. Errors already carrying a code, and errors it
// does not recognise, are returned unchanged.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	var coded *taskerrors.TaskplanError
	if errors.As(err, &coded) {
		return err
	}

	var cfgErr *plan.ConfigurationError
	if errors.As(err, &cfgErr) {
		switch cfgErr.Field {
		case "category":
			return taskerrors.NewUnknownCategoryError(cfgErr.Value, cfgErr.Allowed, cfgErr.Err)
		case "capability":
			return taskerrors.NewMalformedCapabilityError(cfgErr.Value, cfgErr.Err)
		default:
			return taskerrors.NewBlueprintInvalidError(cfgErr.Field, cfgErr.Err)
		}
	}

	var cycle *plan.CycleDetectedError
	if errors.As(err, &cycle) {
		path := make([]string, len(cycle.Path))
		for i, id := range cycle.Path {
			path[i] = string(id)
		}
		return taskerrors.NewCycleDetectedError(string(cycle.TaskID), path, nil)
	}

	var invalid *plan.ValidationError
	if errors.As(err, &invalid) {
		return taskerrors.NewPlanInvalidError(strings.Join(invalid.Problems, "; "), nil)
	}

	var stageErr *plan.StageError
	if errors.As(err, &stageErr) {
		return taskerrors.Wrap(taskerrors.ErrCodePlanStageFailed,
			fmt.Sprintf("planning failed in stage %s", stageErr.Stage), stageErr.Err)
	}

	var bpErr *blueprint.ValidationError
	if errors.As(err, &bpErr) {
		return taskerrors.NewBlueprintInvalidError(strings.Join(bpErr.Problems, "; "), nil)
	}

	var unknown *capability.UnknownError
	if errors.As(err, &unknown) {
		return taskerrors.Wrap(taskerrors.ErrCodeCatalogInvalid, "capabilities missing from catalog", err).
			WithSuggestion("Check the capability identifiers against the OpenAPI catalog").
			WithSuggestion("Add an x-capability extension to operations whose operationId differs")
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) && errors.Is(err, fs.ErrNotExist) {
		return taskerrors.NewFileNotFoundError(pathErr.Path)
	}

	return err
}

// FormatError provides consistent error formatting with context
func FormatError(err error, context string) error {
	if err == nil {
		return nil
	}

	enhanced := EnhanceError(err)
	if context != "" {
		return fmt.Errorf("%s: %w", context, enhanced)
	}
	return enhanced
}
