// Package server exposes the planner over HTTP.
//
// Routes:
//   - POST /v1/plans      assemble a plan from a JSON planning request
//   - GET  /v1/blueprint  the blueprint the server plans with
//   - GET  /health/live, /health/ready, /health/startup
//   - GET  /metrics       Prometheus metrics, when a gatherer is configured
//
// Shutdown fails readiness first, then drains connections.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/felixgeelhaar/taskplan/internal/capability"
	taskerrors "github.com/felixgeelhaar/taskplan/internal/errors"
	"github.com/felixgeelhaar/taskplan/internal/health"
	"github.com/felixgeelhaar/taskplan/internal/log"
	"github.com/felixgeelhaar/taskplan/internal/metrics"
	"github.com/felixgeelhaar/taskplan/internal/plan"
	"github.com/felixgeelhaar/taskplan/internal/telemetry"
	"github.com/felixgeelhaar/taskplan/internal/ux"
)

// maxRequestBytes bounds the size of a planning request body
const maxRequestBytes = 1 << 20

// Server provides the planning HTTP API with health endpoints.
type Server struct {
	httpServer      *http.Server
	probeManager    *health.ProbeManager
	assembler       *plan.Assembler
	catalog         capability.Catalog
	metrics         *metrics.Metrics
	gatherer        prometheus.Gatherer
	logger          *log.Logger
	inShutdown      atomic.Bool
	shutdownTimeout time.Duration
}

// Config holds server configuration.
type Config struct {
	// Address is the listen address (e.g., ":8080", "0.0.0.0:8080")
	Address string

	// ShutdownTimeout bounds connection draining. Defaults to 30 seconds.
	ShutdownTimeout time.Duration

	// ReadTimeout defaults to 10 seconds.
	ReadTimeout time.Duration

	// WriteTimeout defaults to 10 seconds.
	WriteTimeout time.Duration

	// IdleTimeout defaults to 60 seconds.
	IdleTimeout time.Duration
}

// Option configures optional server collaborators
type Option func(*Server)

// WithMetrics records request metrics in m and serves g on /metrics
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithCatalog rejects capabilities missing from c
func WithCatalog(c capability.Catalog) Option {
	return func(s *Server) {
		s.catalog = c
	}
}

// WithLogger sets the request logger
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new HTTP server planning with assembler.
func NewServer(assembler *plan.Assembler, probeManager *health.ProbeManager, cfg Config, opts ...Option) *Server {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}

	s := &Server{
		probeManager:    probeManager,
		assembler:       assembler,
		logger:          log.Nop(),
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.route(mux, "POST /v1/plans", s.handleCreatePlan)
	s.route(mux, "GET /v1/blueprint", s.handleBlueprint)
	s.route(mux, "GET /health/live", s.handleLiveness)
	s.route(mux, "GET /health/ready", s.handleReadiness)
	s.route(mux, "GET /health/startup", s.handleStartup)
	if s.gatherer != nil {
		mux.Handle("GET /metrics", metrics.HandlerFor(s.gatherer))
	}
	return mux
}

// route registers h and counts its responses under pattern
func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		h(rec, r)
		if s.metrics != nil {
			s.metrics.RecordHTTPRequest(r.Pattern, rec.status)
		}
		s.logger.DebugContext(r.Context(), "request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Start listens on the configured address and marks the service
// initialized. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	s.probeManager.MarkInitialized()
	return s.httpServer.ListenAndServe()
}

// Shutdown marks the server as shutting down, disables keep-alives and
// waits up to the shutdown timeout for connections to drain.
func (s *Server) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)
	s.probeManager.MarkShutdown()
	s.httpServer.SetKeepAlivesEnabled(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}

// IsShuttingDown returns whether the server is shutting down.
func (s *Server) IsShuttingDown() bool {
	return s.inShutdown.Load()
}

// errorBody is the JSON error envelope
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError converts err to a coded error and picks the status from its code
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	detail := errorDetail{Code: "INTERNAL", Message: err.Error()}

	enhanced := ux.EnhanceError(err)
	var coded *taskerrors.TaskplanError
	if errors.As(enhanced, &coded) {
		detail = errorDetail{Code: string(coded.Code), Message: coded.Message, Suggestions: coded.Suggestions}
		if coded.Cause != nil {
			detail.Message = fmt.Sprintf("%s: %v", coded.Message, coded.Cause)
		}
		switch coded.Code {
		case taskerrors.ErrCodeRequestInvalid:
			status = http.StatusBadRequest
		case taskerrors.ErrCodeUnknownCategory, taskerrors.ErrCodeMalformedCapability, taskerrors.ErrCodeCatalogInvalid:
			status = http.StatusUnprocessableEntity
		}
	} else if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusServiceUnavailable
	}

	if s.metrics != nil {
		s.metrics.RecordError("server", enhanced)
	}
	if status >= http.StatusInternalServerError {
		s.logger.LogError(r.Context(), "planning request failed", err)
	}
	writeJSON(w, status, errorBody{Error: detail})
}

// handleCreatePlan handles POST /v1/plans.
//
// The body is a JSON plan.Request. Responses:
//   - 200 with the plan
//   - 400 for an unreadable body
//   - 422 for an unknown category or malformed/unknown capability
//   - 500 when the blueprint itself is broken (cycle, invalid plan)
func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req plan.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, taskerrors.Wrap(taskerrors.ErrCodeRequestInvalid, "malformed planning request", err).
			WithSuggestion(`Send {"category": "...", "capabilities": ["..."]}`))
		return
	}

	if s.catalog != nil {
		sel, err := capability.NewSelection(req.Capabilities)
		if err == nil {
			err = capability.CheckKnown(s.catalog, sel)
		}
		if err != nil {
			var malformed *capability.MalformedError
			if errors.As(err, &malformed) {
				err = taskerrors.NewMalformedCapabilityError(malformed.Value, malformed.Err)
			}
			s.writeError(w, r, err)
			return
		}
	}

	ctx, span := telemetry.StartPlanSpan(r.Context(), req.Category, len(req.Capabilities))
	p, err := s.assembler.Assemble(ctx, req)
	span.End()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if wantsYAML(r) {
		data, err := plan.Marshal(p, true)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(data)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func wantsYAML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/yaml") || strings.Contains(accept, "application/x-yaml")
}

// handleBlueprint handles GET /v1/blueprint
func (s *Server) handleBlueprint(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.assembler.Blueprint())
}

// writeProbeResponse writes result with 200, or unhealthyStatus when unhealthy.
func (s *Server) writeProbeResponse(w http.ResponseWriter, result *health.ProbeResult, unhealthyStatus int) {
	status := http.StatusOK
	if result.Status == health.StatusUnhealthy {
		status = unhealthyStatus
	}
	writeJSON(w, status, result)
}

// handleLiveness always answers 200, degraded during shutdown.
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.writeProbeResponse(w, s.probeManager.CheckLiveness(r.Context()), http.StatusOK)
}

// handleReadiness answers 503 while shutting down or when a check fails.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	s.writeProbeResponse(w, s.probeManager.CheckReadiness(r.Context()), http.StatusServiceUnavailable)
}

// handleStartup answers 503 until Start has been called.
func (s *Server) handleStartup(w http.ResponseWriter, r *http.Request) {
	s.writeProbeResponse(w, s.probeManager.CheckStartup(r.Context()), http.StatusServiceUnavailable)
}
