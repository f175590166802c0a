package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskplan/internal/ux"
	"github.com/felixgeelhaar/taskplan/internal/version"
)

func newVersionCmd() *cobra.Command {
	var (
		verbose bool
		asJSON  bool
	)
	c := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print version information including version number, git commit,
build date, Go version, and platform.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.GetInfo()
			out := cmd.OutOrStdout()

			if asJSON {
				f, err := ux.NewFormatter(ux.FormatJSON, &ux.FormatterOptions{Writer: out})
				if err != nil {
					return err
				}
				return f.Format(info)
			}
			if verbose {
				fmt.Fprintln(out, info.String())
				return nil
			}
			fmt.Fprintf(out, "taskplan %s\n", info.Short())
			return nil
		},
	}
	c.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed version information")
	c.Flags().BoolVar(&asJSON, "json", false, "output version information as JSON")
	return c
}
