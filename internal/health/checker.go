// Package health provides readiness checks for the planning service.
//
// A Checker verifies one dependency of the service: the blueprint it
// plans with, the capability catalog, or the planner itself. A Manager
// runs checkers in parallel and a ProbeManager turns the results into
// liveness, readiness and startup probes.
package health

import (
	"context"
	"time"
)

// Checker defines the interface for health checks.
type Checker interface {
	// Name returns the unique name of this health check, lowercase with
	// hyphens (e.g. "blueprint").
	Name() string

	// Check performs the health check. It should respect the context
	// deadline and return quickly.
	Check(ctx context.Context) *Result
}

// CheckerFunc adapts a function to the Checker interface
type CheckerFunc struct {
	CheckName string
	Fn        func(ctx context.Context) *Result
}

// Name implements Checker
func (c CheckerFunc) Name() string { return c.CheckName }

// Check implements Checker
func (c CheckerFunc) Check(ctx context.Context) *Result { return c.Fn(ctx) }

// Status represents the health check status.
type Status string

const (
	// StatusHealthy indicates the checked component is fully operational.
	StatusHealthy Status = "healthy"

	// StatusDegraded indicates the component works with reduced
	// functionality.
	StatusDegraded Status = "degraded"

	// StatusUnhealthy indicates the component is not working.
	StatusUnhealthy Status = "unhealthy"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Result represents the result of a health check.
type Result struct {
	Status  Status         `json:"status"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Latency time.Duration  `json:"latency_ns"`
}

// NewResult creates a new health check result with the given status and message.
func NewResult(status Status, message string) *Result {
	return &Result{
		Status:  status,
		Message: message,
		Details: make(map[string]any),
	}
}

// WithDetail adds a detail to the result and returns the result for chaining.
func (r *Result) WithDetail(key string, value any) *Result {
	r.Details[key] = value
	return r
}

// Healthy creates a healthy result with the given message.
func Healthy(message string) *Result {
	return NewResult(StatusHealthy, message)
}

// Degraded creates a degraded result with the given message.
func Degraded(message string) *Result {
	return NewResult(StatusDegraded, message)
}

// Unhealthy creates an unhealthy result with the given message.
func Unhealthy(message string) *Result {
	return NewResult(StatusUnhealthy, message)
}
