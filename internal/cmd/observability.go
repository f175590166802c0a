package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	taskerrors "github.com/felixgeelhaar/taskplan/internal/errors"
	"github.com/felixgeelhaar/taskplan/internal/log"
	"github.com/felixgeelhaar/taskplan/internal/metrics"
	"github.com/felixgeelhaar/taskplan/internal/telemetry"
	"github.com/felixgeelhaar/taskplan/internal/ux"
	"github.com/felixgeelhaar/taskplan/internal/version"
)

// setupObservability configures logging and, when an endpoint is set,
// trace export. Cleanup runs when the invocation ends.
func (a *app) setupObservability(cmd *cobra.Command) error {
	base := log.DefaultConfig()
	base.Output = cmd.ErrOrStderr()
	if cmd.Name() == "serve" {
		base = log.ServerConfig()
		base.Output = cmd.OutOrStdout()
	}

	cfg, err := log.ConfigFromFlags(base, a.cc.LogLevel, a.cc.LogFormat)
	if err != nil {
		return taskerrors.Wrap(taskerrors.ErrCodeRequestInvalid, "invalid logging flags", err)
	}
	a.logger = log.New(cfg)
	log.SetDefaultLogger(a.logger)

	return a.setupTelemetry(cmd.Context())
}

func (a *app) setupTelemetry(ctx context.Context) error {
	if a.cc.TraceEndpoint == "" {
		return nil
	}

	lookup := a.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg, err := telemetry.ConfigFromEnv(lookup)
	if err != nil {
		return taskerrors.Wrap(taskerrors.ErrCodeRequestInvalid, "invalid trace configuration", err)
	}
	cfg.Enabled = true
	cfg.Endpoint = a.cc.TraceEndpoint
	cfg.ServiceVersion = version.GetInfo().Version

	shutdown, err := telemetry.InitProvider(ctx, cfg)
	if err != nil {
		a.logger.Warn("failed to initialize tracing", "error", err)
		return nil
	}
	a.logger.Debug("tracing enabled", "endpoint", cfg.Endpoint, "sample_rate", cfg.SampleRate)

	a.cleanup = append(a.cleanup, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			a.logger.Warn("failed to flush traces", "error", err)
		}
	})
	return nil
}

// instrument wraps a RunE with a command span, command metrics and
// coded error conversion.
func (a *app) instrument(name string, run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, span := telemetry.StartCommandSpan(cmd.Context(), name)
		defer span.End()
		cmd.SetContext(ctx)

		start := time.Now()
		err := ux.EnhanceError(run(cmd, args))
		metrics.Default().RecordCommand(name, time.Since(start), err)

		if err != nil {
			telemetry.RecordError(span, err)
			a.logger.WithError(err).Debug("command failed", "command", name)
			return err
		}
		telemetry.RecordSuccess(span)
		return nil
	}
}
