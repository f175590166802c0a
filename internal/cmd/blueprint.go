package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskplan/internal/blueprint"
	taskerrors "github.com/felixgeelhaar/taskplan/internal/errors"
	"github.com/felixgeelhaar/taskplan/internal/ux"
)

func newBlueprintCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "blueprint",
		Short: "Inspect the planning blueprint",
		Long: `The blueprint defines the phases, scaffolding tasks, task durations,
dependency rules and intent categories the planner uses. A project can
override the built-in blueprint with ` + ux.ConfigDirName + `/` + ux.BlueprintFileName + ` or --blueprint.`,
	}
	c.AddCommand(newBlueprintShowCmd(a), newBlueprintValidateCmd(a))
	return c
}

func newBlueprintShowCmd(a *app) *cobra.Command {
	var format string
	c := &cobra.Command{
		Use:   "show",
		Short: "Print the effective blueprint",
		Args:  cobra.NoArgs,
	}
	c.RunE = a.instrument("blueprint show", func(cmd *cobra.Command, args []string) error {
		bp, source, err := a.loadBlueprint()
		if err != nil {
			return err
		}
		if format == ux.FormatText {
			return taskerrors.New(taskerrors.ErrCodeRequestInvalid, "blueprint show supports json and yaml")
		}
		formatter, err := ux.NewFormatter(format, &ux.FormatterOptions{Writer: cmd.OutOrStdout()})
		if err != nil {
			return taskerrors.Wrap(taskerrors.ErrCodeRequestInvalid, "invalid --format", err)
		}
		a.logger.Debug("showing blueprint", "source", source)
		return formatter.Format(bp)
	})
	c.Flags().StringVarP(&format, "format", "f", ux.FormatYAML, "output format: yaml or json")
	return c
}

func newBlueprintValidateCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a blueprint file",
		Long: `Validate a blueprint file: unique phase ids and orders, known task
types with positive durations, rule keys that name existing tasks, and at
least one intent category. Without a file the effective blueprint is checked.`,
		Args: cobra.MaximumNArgs(1),
	}
	c.RunE = a.instrument("blueprint validate", func(cmd *cobra.Command, args []string) error {
		var (
			bp     *blueprint.Blueprint
			source string
			err    error
		)
		if len(args) == 1 {
			source = args[0]
			bp, err = blueprint.Load(source)
		} else {
			bp, source, err = a.loadBlueprint()
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Blueprint %s is valid: %d phases, %d task templates, %d rules, %d categories\n",
			source, len(bp.Phases), len(bp.Tasks), len(bp.Rules), len(bp.Categories))
		return nil
	})
	return c
}
