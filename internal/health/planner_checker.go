package health

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/taskplan/internal/blueprint"
	"github.com/felixgeelhaar/taskplan/internal/capability"
	"github.com/felixgeelhaar/taskplan/internal/plan"
)

// BlueprintChecker reports whether the loaded blueprint is valid
type BlueprintChecker struct {
	bp *blueprint.Blueprint
}

// NewBlueprintChecker creates a checker for bp. A nil blueprint is unhealthy.
func NewBlueprintChecker(bp *blueprint.Blueprint) *BlueprintChecker {
	return &BlueprintChecker{bp: bp}
}

// Name implements Checker
func (c *BlueprintChecker) Name() string {
	return "blueprint"
}

// Check implements Checker
func (c *BlueprintChecker) Check(context.Context) *Result {
	if c.bp == nil {
		return Unhealthy("no blueprint loaded")
	}
	if err := c.bp.Validate(); err != nil {
		return Unhealthy("blueprint invalid").WithDetail("error", err.Error())
	}
	return Healthy("blueprint loaded").
		WithDetail("version", c.bp.Version).
		WithDetail("phases", len(c.bp.Phases)).
		WithDetail("categories", len(c.bp.Categories))
}

// PlannerChecker assembles a scaffolding-only plan for the first known
// category, exercising every pipeline stage. It plans with its own
// assembler, which has no observers and a discarding logger, so smoke plans
// never show up in plan metrics, traces or logs.
type PlannerChecker struct {
	assembler *plan.Assembler
}

// NewPlannerChecker creates a checker planning with bp. catalog may be nil.
func NewPlannerChecker(bp *blueprint.Blueprint, catalog capability.Catalog) *PlannerChecker {
	var opts []plan.Option
	if catalog != nil {
		opts = append(opts, plan.WithCatalog(catalog))
	}
	return &PlannerChecker{assembler: plan.NewAssembler(bp, opts...)}
}

// Name implements Checker
func (c *PlannerChecker) Name() string {
	return "planner"
}

// Check implements Checker
func (c *PlannerChecker) Check(ctx context.Context) *Result {
	bp := c.assembler.Blueprint()
	if bp == nil || len(bp.Categories) == 0 {
		return Unhealthy("blueprint declares no categories")
	}
	category := string(bp.Categories[0].Name)

	p, err := c.assembler.Assemble(ctx, plan.Request{Category: category, Capabilities: []string{}})
	if err != nil {
		return Unhealthy(fmt.Sprintf("smoke plan failed: %v", err)).WithDetail("category", category)
	}
	return Healthy("smoke plan assembled").
		WithDetail("category", category).
		WithDetail("tasks", len(p.Tasks))
}
