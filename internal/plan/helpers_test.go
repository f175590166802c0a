package plan

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/taskplan/internal/blueprint"
	"github.com/felixgeelhaar/taskplan/internal/domain"
)

var fixedTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func exampleRequest() Request {
	return Request{
		Category:     "calendar_management",
		Confidence:   0.92,
		Capabilities: []string{"im.v1.message.create", "calendar.v4.calendar_event.list"},
	}
}

// exampleTaskIDs is the task order the default blueprint produces for
// exampleRequest.
var exampleTaskIDs = []domain.TaskID{
	"p1-init-project",
	"p1-install-dependencies",
	"p1-configure-environment",
	"impl-im-v1-message-create",
	"impl-calendar-v4-calendar-event-list",
	"p3-design-cards",
	"p3-card-handlers",
	"p3-build-components",
	"p4-unit-tests",
	"p4-integration-tests",
	"p5-build-artifacts",
	"p5-deploy-application",
	"p5-verify-deployment",
}

func newTestAssembler(bp *blueprint.Blueprint, opts ...Option) *Assembler {
	base := []Option{
		WithClock(func() time.Time { return fixedTime }),
		WithIDGenerator(func() string { return "plan-under-test" }),
	}
	return NewAssembler(bp, append(base, opts...)...)
}

func mustAssemble(t *testing.T, req Request) *Plan {
	t.Helper()
	p, err := newTestAssembler(blueprint.Default()).Assemble(context.Background(), req)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	return p
}

func mustResolve(t *testing.T, bp *blueprint.Blueprint, req Request) *Graph {
	t.Helper()
	f := NewTaskFactory(bp, nil)
	tasks, err := f.Build(req.Category, req.Capabilities)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	g, err := NewDependencyResolver(bp.Rules).Resolve(f.Phases(), tasks)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return g
}

func withRule(task, dependsOn string) *blueprint.Blueprint {
	bp := blueprint.Default()
	bp.Rules = append(bp.Rules, blueprint.Rule{Task: task, DependsOn: dependsOn})
	return bp
}

func equalIDs(a, b []domain.TaskID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
