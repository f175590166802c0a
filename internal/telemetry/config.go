package telemetry

import (
	"fmt"
	"strconv"
)

// Environment variables read by ConfigFromEnv
const (
	EnvEndpoint    = "TASKPLAN_TRACE_ENDPOINT"
	EnvSampleRate  = "TASKPLAN_TRACE_SAMPLE_RATE"
	EnvEnvironment = "TASKPLAN_ENVIRONMENT"
)

// Config holds configuration for the tracer
type Config struct {
	// ServiceName is the name of the service
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// Environment is the deployment environment (dev, staging, production)
	Environment string

	// Enabled determines whether tracing is enabled.
	// When false, a noop tracer is used.
	Enabled bool

	// Endpoint is the OTLP/HTTP collector, either host:port or a full URL.
	// If empty, spans are recorded but not exported.
	Endpoint string

	// SampleRate is the fraction of traces to sample (0.0 to 1.0)
	SampleRate float64
}

// DefaultConfig returns the CLI default: tracing off
func DefaultConfig() Config {
	return Config{
		ServiceName:    "taskplan",
		ServiceVersion: "dev",
		Environment:    "development",
		SampleRate:     1.0,
	}
}

// ConfigFromEnv overlays TASKPLAN_* variables on DefaultConfig. Setting an
// endpoint enables tracing.
func ConfigFromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := DefaultConfig()
	if v, ok := lookup(EnvEndpoint); ok && v != "" {
		cfg.Endpoint = v
		cfg.Enabled = true
	}
	if v, ok := lookup(EnvEnvironment); ok && v != "" {
		cfg.Environment = v
	}
	if v, ok := lookup(EnvSampleRate); ok && v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvSampleRate, err)
		}
		cfg.SampleRate = rate
	}
	return cfg, cfg.Validate()
}

// Validate checks the sample rate range
func (c Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("sample rate %v outside [0, 1]", c.SampleRate)
	}
	return nil
}
