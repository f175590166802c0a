package plan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskplan/internal/blueprint"
	"github.com/felixgeelhaar/taskplan/internal/domain"
)

func TestAssembler_Example(t *testing.T) {
	p := mustAssemble(t, exampleRequest())

	assert.Equal(t, "plan-under-test", p.ID)
	assert.Equal(t, "calendar_management-2026-03-14", p.ProjectName)
	assert.Equal(t, domain.Category("calendar_management"), p.Category)
	assert.Equal(t, fixedTime, p.CreatedAt)

	require.Len(t, p.Phases, 5)
	assert.Len(t, p.Tasks, 13)
	assert.GreaterOrEqual(t, len(p.Tasks), 12)
	assert.Equal(t, exampleTaskIDs, p.ExecutionOrder)
	assert.Equal(t, 10.5, p.CriticalPath.Duration)
	assert.Equal(t, 14.5, p.TotalDuration)
	assert.Empty(t, p.Warnings)
	assert.NotEmpty(t, p.Fingerprint)

	first, _ := p.Task(p.CriticalPath.Path[0])
	last, _ := p.Task(p.CriticalPath.Path[len(p.CriticalPath.Path)-1])
	assert.Equal(t, domain.PhaseID("p1"), first.PhaseID)
	assert.Equal(t, domain.PhaseID("p5"), last.PhaseID)

	// phase order respected by the execution order
	phaseOrder := make(map[domain.PhaseID]int)
	for _, ph := range p.Phases {
		phaseOrder[ph.ID] = ph.Order
	}
	prev := 0
	for _, id := range p.ExecutionOrder {
		task, ok := p.Task(id)
		require.True(t, ok)
		assert.GreaterOrEqual(t, phaseOrder[task.PhaseID], prev)
		prev = phaseOrder[task.PhaseID]
	}

	require.NoError(t, p.Validate())
}

func TestAssembler_ZeroCapabilities(t *testing.T) {
	p := mustAssemble(t, Request{Category: "calendar_management"})

	assert.Len(t, p.Tasks, len(blueprint.Default().Tasks))
	require.Len(t, p.Warnings, 1)
	assert.Equal(t, WarningEmptyCapabilitySet, p.Warnings[0].Code)
	assert.Contains(t, p.Warnings[0].Message, "calendar_management")
	assert.Empty(t, p.TasksInPhase("p2"))
}

func TestAssembler_DuplicateCapabilities(t *testing.T) {
	p := mustAssemble(t, Request{
		Category:     "messaging",
		Capabilities: []string{"im.v1.message.create", "im.v1.message.create"},
	})
	assert.Len(t, p.TasksInPhase("p2"), 1)
	assert.Len(t, p.Tasks, len(blueprint.Default().Tasks)+1)
}

func TestAssembler_StageErrors(t *testing.T) {
	tests := []struct {
		name      string
		bp        *blueprint.Blueprint
		req       Request
		wantStage Stage
		check     func(t *testing.T, err error)
	}{
		{
			name:      "unknown category",
			bp:        blueprint.Default(),
			req:       Request{Category: "astrology"},
			wantStage: StageTaskFactory,
			check: func(t *testing.T, err error) {
				var cfgErr *ConfigurationError
				require.ErrorAs(t, err, &cfgErr)
				assert.Equal(t, "category", cfgErr.Field)
			},
		},
		{
			name:      "malformed capability",
			bp:        blueprint.Default(),
			req:       Request{Category: "messaging", Capabilities: []string{"IM.Send"}},
			wantStage: StageTaskFactory,
			check: func(t *testing.T, err error) {
				var cfgErr *ConfigurationError
				require.ErrorAs(t, err, &cfgErr)
				assert.Equal(t, "capability", cfgErr.Field)
				assert.Equal(t, "IM.Send", cfgErr.Value)
			},
		},
		{
			name:      "circular fine rule",
			bp:        withRule("design_cards", "card_handlers"),
			req:       exampleRequest(),
			wantStage: StageTopological,
			check: func(t *testing.T, err error) {
				var cycle *CycleDetectedError
				require.ErrorAs(t, err, &cycle)
				assert.Equal(t, domain.TaskID("p3-design-cards"), cycle.TaskID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := newTestAssembler(tt.bp).Assemble(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, p, "no partial plan on failure")

			var stageErr *StageError
			require.ErrorAs(t, err, &stageErr)
			assert.Equal(t, tt.wantStage, stageErr.Stage)
			assert.Contains(t, err.Error(), string(tt.wantStage))
			tt.check(t, err)
		})
	}
}

func TestAssembler_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestAssembler(blueprint.Default()).Assemble(ctx, exampleRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestAssembler_FingerprintIgnoresIdentity(t *testing.T) {
	a := newTestAssembler(blueprint.Default())
	b := NewAssembler(blueprint.Default(),
		WithClock(func() time.Time { return fixedTime.Add(48 * time.Hour) }),
	)

	p1, err := a.Assemble(context.Background(), exampleRequest())
	require.NoError(t, err)
	p2, err := b.Assemble(context.Background(), exampleRequest())
	require.NoError(t, err)

	assert.NotEqual(t, p1.ID, p2.ID)
	assert.NotEqual(t, p1.ProjectName, p2.ProjectName)
	assert.Equal(t, p1.Fingerprint, p2.Fingerprint)

	other, err := a.Assemble(context.Background(), Request{Category: "messaging"})
	require.NoError(t, err)
	assert.NotEqual(t, p1.Fingerprint, other.Fingerprint)
}

type recordingObserver struct {
	mu       sync.Mutex
	started  []Stage
	finished []Stage
	failed   map[Stage]error
	plans    int
	lastErr  error
}

func (r *recordingObserver) StageStarted(ctx context.Context, stage Stage) (context.Context, func(error)) {
	r.mu.Lock()
	r.started = append(r.started, stage)
	r.mu.Unlock()
	return ctx, func(err error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.finished = append(r.finished, stage)
		if err != nil {
			if r.failed == nil {
				r.failed = make(map[Stage]error)
			}
			r.failed[stage] = err
		}
	}
}

func (r *recordingObserver) PlanFinished(_ context.Context, _ *Plan, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans++
	r.lastErr = err
}

func TestAssembler_Observer(t *testing.T) {
	obs := &recordingObserver{}
	a := newTestAssembler(blueprint.Default(), WithObserver(obs))

	_, err := a.Assemble(context.Background(), exampleRequest())
	require.NoError(t, err)
	assert.Equal(t, Stages(), obs.started)
	assert.Equal(t, Stages(), obs.finished)
	assert.Equal(t, 1, obs.plans)
	assert.NoError(t, obs.lastErr)

	failing := &recordingObserver{}
	a = newTestAssembler(withRule("design_cards", "card_handlers"), WithObserver(failing))
	_, err = a.Assemble(context.Background(), exampleRequest())
	require.Error(t, err)
	assert.Equal(t, []Stage{StageTaskFactory, StageResolve, StageTopological}, failing.started)
	assert.Contains(t, failing.failed, StageTopological)
	assert.Error(t, failing.lastErr)
}

func TestAssembler_Concurrent(t *testing.T) {
	a := newTestAssembler(blueprint.Default())

	var wg sync.WaitGroup
	fingerprints := make([]string, 16)
	for i := range fingerprints {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := a.Assemble(context.Background(), exampleRequest())
			if err != nil {
				t.Errorf("Assemble() error = %v", err)
				return
			}
			fingerprints[i] = p.Fingerprint
		}(i)
	}
	wg.Wait()

	for _, fp := range fingerprints[1:] {
		assert.Equal(t, fingerprints[0], fp)
	}
}
