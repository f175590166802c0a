package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskplan/internal/blueprint"
	"github.com/felixgeelhaar/taskplan/internal/capability"
	"github.com/felixgeelhaar/taskplan/internal/health"
	"github.com/felixgeelhaar/taskplan/internal/metrics"
	"github.com/felixgeelhaar/taskplan/internal/server"
	"github.com/felixgeelhaar/taskplan/internal/version"
)

type serveOptions struct {
	addr            string
	shutdownTimeout time.Duration
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
}

func newServeCmd(a *app) *cobra.Command {
	o := &serveOptions{}
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner over HTTP",
		Long: `Serve the planner over HTTP.

Endpoints:
  POST /v1/plans      plan from {"category": "...", "capabilities": [...]}
  GET  /v1/blueprint  the effective blueprint
  GET  /health/live   liveness probe
  GET  /health/ready  readiness probe (blueprint and smoke plan checks)
  GET  /health/startup
  GET  /metrics       Prometheus metrics

The server drains connections on SIGINT or SIGTERM.

Example:
  taskplan serve --addr :8080`,
		Args: cobra.NoArgs,
	}
	c.RunE = a.instrument("serve", func(cmd *cobra.Command, args []string) error {
		return a.runServe(cmd, o)
	})

	f := c.Flags()
	f.StringVar(&o.addr, "addr", ":8080", "listen address")
	f.DurationVar(&o.shutdownTimeout, "shutdown-timeout", 30*time.Second, "maximum time to drain connections")
	f.DurationVar(&o.readTimeout, "read-timeout", 10*time.Second, "maximum duration for reading a request")
	f.DurationVar(&o.writeTimeout, "write-timeout", 10*time.Second, "maximum duration for writing a response")
	f.DurationVar(&o.idleTimeout, "idle-timeout", 60*time.Second, "maximum keep-alive idle time")
	return c
}

func (a *app) runServe(cmd *cobra.Command, o *serveOptions) error {
	ctx := cmd.Context()

	bp, source, err := a.loadBlueprint()
	if err != nil {
		return err
	}
	catalog, err := a.loadCatalog(ctx)
	if err != nil {
		return err
	}
	assembler := a.newAssembler(bp, catalog)

	info := version.GetInfo()
	pm := newProbeManager(info.Version, bp, catalog)

	opts := []server.Option{
		server.WithLogger(a.logger),
		server.WithMetrics(metrics.Default(), metrics.DefaultGatherer()),
	}
	if catalog != nil {
		opts = append(opts, server.WithCatalog(catalog))
	}
	srv := server.NewServer(assembler, pm, server.Config{
		Address:         o.addr,
		ShutdownTimeout: o.shutdownTimeout,
		ReadTimeout:     o.readTimeout,
		WriteTimeout:    o.writeTimeout,
		IdleTimeout:     o.idleTimeout,
	}, opts...)

	a.logger.Info("planning service starting",
		"addr", o.addr,
		"version", info.Version,
		"blueprint", source,
	)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down", "timeout", o.shutdownTimeout.String())
	if err := srv.Shutdown(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.logger.Info("server stopped")
	return nil
}

// newProbeManager registers the readiness checks of the planning service
func newProbeManager(ver string, bp *blueprint.Blueprint, catalog *capability.OpenAPICatalog) *health.ProbeManager {
	pm := health.NewProbeManager(ver)
	pm.AddChecker(health.NewBlueprintChecker(bp))
	// a nil *OpenAPICatalog must not become a non-nil capability.Catalog
	if catalog != nil {
		pm.AddChecker(health.NewPlannerChecker(bp, catalog))
	} else {
		pm.AddChecker(health.NewPlannerChecker(bp, nil))
	}
	return pm
}
