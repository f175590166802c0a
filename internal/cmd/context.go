package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Environment fallbacks for the global flags
const (
	EnvLogLevel      = "TASKPLAN_LOG_LEVEL"
	EnvLogFormat     = "TASKPLAN_LOG_FORMAT"
	EnvTraceEndpoint = "TASKPLAN_TRACE_ENDPOINT"
	EnvBlueprint     = "TASKPLAN_BLUEPRINT"
	EnvCatalog       = "TASKPLAN_CATALOG"
	EnvNoColor       = "NO_COLOR"
)

// CommandContext holds the resolved global flags. A flag set on the
// command line wins over its environment variable, which wins over the
// flag default.
type CommandContext struct {
	LogLevel      string
	LogFormat     string
	TraceEndpoint string
	BlueprintPath string
	CatalogPath   string
	NoColor       bool
}

// NewCommandContext extracts the global flags from cmd. lookup reads the
// environment; nil means os.LookupEnv.
func NewCommandContext(cmd *cobra.Command, lookup func(string) (string, bool)) (*CommandContext, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	flags := cmd.Flags()

	str := func(name, env string) (string, error) {
		v, err := flags.GetString(name)
		if err != nil {
			return "", err
		}
		if flags.Changed(name) {
			return v, nil
		}
		if e, ok := lookup(env); ok && e != "" {
			return e, nil
		}
		return v, nil
	}

	cc := &CommandContext{}
	var err error
	if cc.LogLevel, err = str("log-level", EnvLogLevel); err != nil {
		return nil, err
	}
	if cc.LogFormat, err = str("log-format", EnvLogFormat); err != nil {
		return nil, err
	}
	if cc.TraceEndpoint, err = str("trace-endpoint", EnvTraceEndpoint); err != nil {
		return nil, err
	}
	if cc.BlueprintPath, err = str("blueprint", EnvBlueprint); err != nil {
		return nil, err
	}
	if cc.CatalogPath, err = str("catalog", EnvCatalog); err != nil {
		return nil, err
	}

	if cc.NoColor, err = flags.GetBool("no-color"); err != nil {
		return nil, err
	}
	if _, ok := lookup(EnvNoColor); ok && !flags.Changed("no-color") {
		cc.NoColor = true
	}

	return cc, nil
}
