// Package metrics exposes Prometheus metrics for planning calls, CLI
// commands and the HTTP planning service.
package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	taskerrors "github.com/felixgeelhaar/taskplan/internal/errors"
	"github.com/felixgeelhaar/taskplan/internal/plan"
)

// Metrics holds all Prometheus metrics for taskplan
type Metrics struct {
	// Command execution metrics
	CommandExecutions *prometheus.CounterVec
	CommandDuration   *prometheus.HistogramVec

	// Planning metrics
	PlanGenerations      *prometheus.CounterVec
	PlanDuration         *prometheus.HistogramVec
	PlanTaskCount        prometheus.Histogram
	PlanCapabilityCount  prometheus.Histogram
	PlanCriticalPathHour prometheus.Histogram
	PlanWarnings         *prometheus.CounterVec

	// Per-stage metrics
	StageDuration *prometheus.HistogramVec
	StageErrors   *prometheus.CounterVec

	// HTTP service metrics
	HTTPRequests *prometheus.CounterVec

	// Error metrics (by error code from structured errors)
	Errors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		CommandExecutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskplan_command_executions_total",
				Help: "Total number of command executions",
			},
			[]string{"command", "success"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskplan_command_duration_seconds",
				Help:    "Command execution duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),

		PlanGenerations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskplan_plan_generations_total",
				Help: "Total number of planning calls",
			},
			[]string{"category", "success"},
		),
		PlanDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskplan_plan_duration_seconds",
				Help:    "Planning call duration in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
			[]string{"category"},
		),
		PlanTaskCount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "taskplan_plan_tasks",
				Help:    "Number of tasks per plan",
				Buckets: []float64{5, 10, 15, 20, 30, 50, 100, 250},
			},
		),
		PlanCapabilityCount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "taskplan_plan_capabilities",
				Help:    "Number of capability tasks per plan",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
			},
		),
		PlanCriticalPathHour: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "taskplan_plan_critical_path_hours",
				Help:    "Critical path duration per plan in hours",
				Buckets: []float64{4, 8, 12, 16, 24, 40, 80},
			},
		),
		PlanWarnings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskplan_plan_warnings_total",
				Help: "Total number of warnings recorded on plans",
			},
			[]string{"code"},
		),

		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskplan_stage_duration_seconds",
				Help:    "Planning stage duration in seconds",
				Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
			},
			[]string{"stage"},
		),
		StageErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskplan_stage_errors_total",
				Help: "Total number of planning stage failures",
			},
			[]string{"stage"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskplan_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"route", "code"},
		),

		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskplan_errors_total",
				Help: "Total number of errors by error code",
			},
			[]string{"error_code", "component"},
		),
	}
}

// RecordCommand records one CLI command execution
func (m *Metrics) RecordCommand(command string, elapsed time.Duration, err error) {
	m.CommandExecutions.WithLabelValues(command, strconv.FormatBool(err == nil)).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
	if err != nil {
		m.RecordError("cli", err)
	}
}

// RecordError counts an error under its structured code, or "unknown"
func (m *Metrics) RecordError(component string, err error) {
	code := "unknown"
	var coded *taskerrors.TaskplanError
	if errors.As(err, &coded) {
		code = string(coded.Code)
	}
	m.Errors.WithLabelValues(code, component).Inc()
}

// RecordHTTPRequest counts one HTTP response
func (m *Metrics) RecordHTTPRequest(route string, status int) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// PlanObserver returns a plan.Observer feeding the planning metrics
func (m *Metrics) PlanObserver() plan.Observer {
	return planObserver{m: m}
}

type planObserver struct {
	m *Metrics
}

func (o planObserver) StageStarted(ctx context.Context, stage plan.Stage) (context.Context, func(error)) {
	start := time.Now()
	return ctx, func(err error) {
		o.m.StageDuration.WithLabelValues(string(stage)).Observe(time.Since(start).Seconds())
		if err != nil {
			o.m.StageErrors.WithLabelValues(string(stage)).Inc()
		}
	}
}

func (o planObserver) PlanFinished(_ context.Context, p *plan.Plan, err error, elapsed time.Duration) {
	category := "unknown"
	if p != nil {
		category = string(p.Category)
	}
	o.m.PlanGenerations.WithLabelValues(category, strconv.FormatBool(err == nil)).Inc()
	o.m.PlanDuration.WithLabelValues(category).Observe(elapsed.Seconds())
	if err != nil || p == nil {
		return
	}

	capabilities := 0
	for _, t := range p.Tasks {
		if t.Capability != "" {
			capabilities++
		}
	}
	o.m.PlanTaskCount.Observe(float64(len(p.Tasks)))
	o.m.PlanCapabilityCount.Observe(float64(capabilities))
	o.m.PlanCriticalPathHour.Observe(p.CriticalPath.Duration)
	for _, w := range p.Warnings {
		o.m.PlanWarnings.WithLabelValues(w.Code).Inc()
	}
}
