package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	defaultMetrics *Metrics
	defaultReg     *prometheus.Registry
	once           sync.Once
)

// Default returns the process-wide metrics instance, creating it and its
// registry on first use. The registry also carries the Go runtime and
// process collectors.
func Default() *Metrics {
	once.Do(func() {
		defaultReg = prometheus.NewRegistry()
		defaultReg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		defaultMetrics = NewMetrics(defaultReg)
	})
	return defaultMetrics
}

// DefaultGatherer returns the registry behind Default
func DefaultGatherer() prometheus.Gatherer {
	Default()
	return defaultReg
}

// NewRegistry creates a new Prometheus registry with metrics
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	return reg, m
}

// HandlerFor returns an HTTP handler exposing a registry
func HandlerFor(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
