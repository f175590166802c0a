package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/taskplan/internal/blueprint"
	"github.com/felixgeelhaar/taskplan/internal/capability"
	taskerrors "github.com/felixgeelhaar/taskplan/internal/errors"
	"github.com/felixgeelhaar/taskplan/internal/metrics"
	"github.com/felixgeelhaar/taskplan/internal/plan"
	"github.com/felixgeelhaar/taskplan/internal/telemetry"
	"github.com/felixgeelhaar/taskplan/internal/ux"
)

// blueprintPath resolves the blueprint file: the flag, then the project
// configuration directory. "" selects the built-in blueprint.
func (a *app) blueprintPath() string {
	if a.cc.BlueprintPath != "" {
		return a.cc.BlueprintPath
	}
	return ux.NewPathDefaults().BlueprintFile()
}

// loadBlueprint returns the effective blueprint and where it came from
func (a *app) loadBlueprint() (*blueprint.Blueprint, string, error) {
	path := a.blueprintPath()
	if path == "" {
		return blueprint.Default(), "built-in", nil
	}
	bp, err := blueprint.Load(path)
	if err != nil {
		return nil, path, err
	}
	a.logger.Debug("blueprint loaded", "path", path)
	return bp, path, nil
}

// loadCatalog returns the capability catalog, or nil when none is
// configured or discovered
func (a *app) loadCatalog(ctx context.Context) (*capability.OpenAPICatalog, error) {
	path := a.cc.CatalogPath
	if path == "" {
		path = ux.NewPathDefaults().CatalogFile()
	}
	if path == "" {
		return nil, nil
	}

	catalog, err := capability.LoadOpenAPICatalog(ctx, path)
	if err != nil {
		return nil, taskerrors.Wrap(taskerrors.ErrCodeCatalogInvalid, fmt.Sprintf("cannot load capability catalog %s", path), err).
			WithSuggestion("Check that the file is a valid OpenAPI 3 document").
			WithSuggestion("Pass --catalog explicitly or remove " + ux.ConfigDirName + "/" + ux.CatalogFileName)
	}
	a.logger.Debug("capability catalog loaded", "path", path, "capabilities", catalog.Len())
	return catalog, nil
}

// checkCatalog rejects capabilities the catalog does not list
func checkCatalog(catalog *capability.OpenAPICatalog, req plan.Request) error {
	if catalog == nil {
		return nil
	}
	sel, err := capability.NewSelection(req.Capabilities)
	if err != nil {
		var malformed *capability.MalformedError
		if errors.As(err, &malformed) {
			return taskerrors.NewMalformedCapabilityError(malformed.Value, malformed.Err)
		}
		return err
	}
	return capability.CheckKnown(catalog, sel)
}

// newAssembler wires the planner with the invocation's logger, catalog
// and observers
func (a *app) newAssembler(bp *blueprint.Blueprint, catalog *capability.OpenAPICatalog) *plan.Assembler {
	opts := []plan.Option{
		plan.WithLogger(a.logger),
		plan.WithObserver(metrics.Default().PlanObserver(), telemetry.PlanObserver()),
	}
	if catalog != nil {
		opts = append(opts, plan.WithCatalog(catalog))
	}
	return plan.NewAssembler(bp, opts...)
}
