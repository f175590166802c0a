// Package cmd implements the taskplan command line.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskplan/internal/log"
	"github.com/felixgeelhaar/taskplan/internal/ux"
)

// app carries state shared by the commands of one invocation
type app struct {
	cc      *CommandContext
	logger  *log.Logger
	lookup  func(string) (string, bool)
	cleanup []func()
}

func (a *app) close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
	a.cleanup = nil
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskplan",
		Short: "Turn a classified project request into a dependency-ordered task plan",
		Long: `taskplan builds a project plan from an intent category and a set of
selected capabilities. Tasks are grouped into ordered phases, linked by
phase gates and fine-grained dependency rules, ordered topologically, and
annotated with the critical path and total effort.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd, a.lookup)
			if err != nil {
				return err
			}
			a.cc = cc
			return a.setupObservability(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("log-level", "", "log level: debug, info, warn, error (env "+EnvLogLevel+")")
	pf.String("log-format", "", "log format: text or json (env "+EnvLogFormat+")")
	pf.String("trace-endpoint", "", "OTLP/HTTP endpoint for traces, host:port or URL (env "+EnvTraceEndpoint+")")
	pf.String("blueprint", "", "blueprint file (default: "+ux.ConfigDirName+"/"+ux.BlueprintFileName+" or built-in)")
	pf.String("catalog", "", "OpenAPI capability catalog (default: "+ux.ConfigDirName+"/"+ux.CatalogFileName+" if present)")
	pf.Bool("no-color", false, "disable colored output")

	root.AddCommand(
		newPlanCmd(a),
		newBlueprintCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, flushing telemetry
// before it returns.
func ExecuteContext(ctx context.Context) error {
	a := &app{}
	defer a.close()
	return newRootCmd(a).ExecuteContext(ctx)
}
