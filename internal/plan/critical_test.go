package plan

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/taskplan/internal/blueprint"
	"github.com/felixgeelhaar/taskplan/internal/domain"
)

func TestAnalyzeCriticalPath(t *testing.T) {
	g := mustResolve(t, blueprint.Default(), exampleRequest())

	cp, err := AnalyzeCriticalPath(g)
	if err != nil {
		t.Fatalf("AnalyzeCriticalPath() error = %v", err)
	}

	if cp.Duration != 10.5 {
		t.Errorf("Duration = %g, want 10.5", cp.Duration)
	}
	want := []domain.TaskID{
		"p1-init-project",
		"p1-install-dependencies",
		"impl-im-v1-message-create",
		"p3-design-cards",
		"p3-card-handlers",
		"p4-unit-tests",
		"p4-integration-tests",
		"p5-build-artifacts",
		"p5-deploy-application",
		"p5-verify-deployment",
	}
	if !equalIDs(cp.Path, want) {
		t.Errorf("Path = %v, want %v", cp.Path, want)
	}

	if total := TotalDuration(g.Tasks()); total != 14.5 {
		t.Errorf("TotalDuration() = %g, want 14.5", total)
	}
}

func TestAnalyzeCriticalPath_TieGoesToInputOrder(t *testing.T) {
	tasks := []Task{
		{ID: "x", Key: "x", PhaseID: "p1", DurationHours: 2},
		{ID: "y", Key: "y", PhaseID: "p1", DurationHours: 2},
		{ID: "z", Key: "z", PhaseID: "p2", DurationHours: 1},
	}
	phases := []Phase{{ID: "p1", Order: 1}, {ID: "p2", Order: 2}}
	g, err := NewDependencyResolver(nil).Resolve(phases, tasks)
	if err != nil {
		t.Fatal(err)
	}

	cp, err := AnalyzeCriticalPath(g)
	if err != nil {
		t.Fatal(err)
	}
	if want := []domain.TaskID{"x", "z"}; !equalIDs(cp.Path, want) {
		t.Errorf("Path = %v, want %v", cp.Path, want)
	}
	if cp.Duration != 3 {
		t.Errorf("Duration = %g, want 3", cp.Duration)
	}
}

func TestAnalyzeCriticalPath_EndTieGoesToFirstTask(t *testing.T) {
	tasks := []Task{
		{ID: "a", Key: "a", PhaseID: "p1", DurationHours: 1},
		{ID: "b", Key: "b", PhaseID: "p1", DurationHours: 1},
	}
	g, err := NewDependencyResolver(nil).Resolve([]Phase{{ID: "p1", Order: 1}}, tasks)
	if err != nil {
		t.Fatal(err)
	}
	cp, err := AnalyzeCriticalPath(g)
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(cp.Path, []domain.TaskID{"a"}) {
		t.Errorf("Path = %v, want [a]", cp.Path)
	}
}

func TestAnalyzeCriticalPath_Empty(t *testing.T) {
	g, err := NewDependencyResolver(nil).Resolve([]Phase{{ID: "p1", Order: 1}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	cp, err := AnalyzeCriticalPath(g)
	if err != nil {
		t.Fatal(err)
	}
	if len(cp.Path) != 0 || cp.Duration != 0 {
		t.Errorf("critical path = %+v, want empty", cp)
	}
}

func TestAnalyzeCriticalPath_Cycle(t *testing.T) {
	g := mustResolve(t, withRule("design_cards", "card_handlers"), exampleRequest())

	_, err := AnalyzeCriticalPath(g)
	var cycle *CycleDetectedError
	if !errors.As(err, &cycle) {
		t.Fatalf("AnalyzeCriticalPath() error = %v, want CycleDetectedError", err)
	}
}

func TestAnalyzeCriticalPath_ZeroCapabilities(t *testing.T) {
	g := mustResolve(t, blueprint.Default(), Request{Category: "general"})

	cp, err := AnalyzeCriticalPath(g)
	if err != nil {
		t.Fatal(err)
	}
	// init, install, design, handlers, unit, integration, build, deploy, verify
	if cp.Duration != 8.5 {
		t.Errorf("Duration = %g, want 8.5", cp.Duration)
	}
	if cp.Path[0] != "p1-init-project" || cp.Path[len(cp.Path)-1] != "p5-verify-deployment" {
		t.Errorf("Path = %v, want p1 through p5", cp.Path)
	}
}
