package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	taskerrors "github.com/felixgeelhaar/taskplan/internal/errors"
	"github.com/felixgeelhaar/taskplan/internal/plan"
	"github.com/felixgeelhaar/taskplan/internal/request"
	"github.com/felixgeelhaar/taskplan/internal/telemetry"
	"github.com/felixgeelhaar/taskplan/internal/tui"
	"github.com/felixgeelhaar/taskplan/internal/ux"
)

func newPlanCmd(a *app) *cobra.Command {
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Create, check and render task plans",
		Long: `Create, check and render task plans.

Use 'taskplan plan create' to build a plan from a category and capabilities.
Use 'taskplan plan validate' to re-check a saved plan.
Use 'taskplan plan visualize' to render a saved plan as a graph.
Use 'taskplan plan review' to browse a saved plan interactively.`,
	}
	planCmd.AddCommand(
		newPlanCreateCmd(a),
		newPlanValidateCmd(a),
		newPlanVisualizeCmd(a),
		newPlanReviewCmd(a),
	)
	return planCmd
}

type planCreateOptions struct {
	category     string
	confidence   float64
	capabilities []string
	in           string
	out          string
	saveRequest  string
	format       string
	interactive  bool
	force        bool
}

func newPlanCreateCmd(a *app) *cobra.Command {
	o := &planCreateOptions{}
	c := &cobra.Command{
		Use:   "create",
		Short: "Create a plan from an intent category and capabilities",
		Long: `Create a plan from an intent category and a capability selection.

The request comes from flags, a request file (--in) or an interactive form
(--interactive). Flags override values read from the file.

Example:
  taskplan plan create --category calendar_management \
    --capability im.v1.message.create \
    --capability calendar.v4.calendar_event.list --out plan.json`,
		Args: cobra.NoArgs,
	}
	c.RunE = a.instrument("plan create", func(cmd *cobra.Command, args []string) error {
		return a.runPlanCreate(cmd, o)
	})

	f := c.Flags()
	f.StringVar(&o.category, "category", "", "intent category")
	f.Float64Var(&o.confidence, "confidence", 0, "classifier confidence, recorded for reference")
	f.StringArrayVar(&o.capabilities, "capability", nil, "selected capability (repeatable, in selection order)")
	f.StringVar(&o.in, "in", "", "planning request file (YAML or JSON)")
	f.StringVar(&o.out, "out", "", "write the plan to this file (.json, .yaml or .yml)")
	f.StringVar(&o.saveRequest, "save-request", "", "write the effective request to this YAML file")
	f.StringVarP(&o.format, "format", "f", ux.FormatText, "output format: text, json, yaml")
	f.BoolVarP(&o.interactive, "interactive", "i", false, "fill the request in an interactive form")
	f.BoolVar(&o.force, "force", false, "overwrite --out without asking")
	return c
}

// buildRequest reads the request file, then applies flags that were set
func buildRequest(cmd *cobra.Command, o *planCreateOptions) (plan.Request, error) {
	var req plan.Request
	if o.in != "" {
		f, err := request.Load(o.in)
		if err != nil {
			var pathErr *os.PathError
			if errors.As(err, &pathErr) {
				return req, err
			}
			return req, taskerrors.Wrap(taskerrors.ErrCodeRequestInvalid, fmt.Sprintf("invalid request file %s", o.in), err)
		}
		req = f.PlanRequest()
	}

	flags := cmd.Flags()
	if flags.Changed("category") {
		req.Category = o.category
	}
	if flags.Changed("confidence") {
		req.Confidence = o.confidence
	}
	if flags.Changed("capability") {
		req.Capabilities = o.capabilities
	}
	if req.Capabilities == nil {
		req.Capabilities = []string{}
	}

	return req, nil
}

func (a *app) runPlanCreate(cmd *cobra.Command, o *planCreateOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	formatter, err := ux.NewFormatter(o.format, &ux.FormatterOptions{Writer: out, NoColor: a.cc.NoColor})
	if err != nil {
		return taskerrors.Wrap(taskerrors.ErrCodeRequestInvalid, "invalid --format", err)
	}

	bp, _, err := a.loadBlueprint()
	if err != nil {
		return err
	}
	catalog, err := a.loadCatalog(ctx)
	if err != nil {
		return err
	}

	req, err := buildRequest(cmd, o)
	if err != nil {
		return err
	}
	if o.interactive {
		var lister tui.CatalogLister
		if catalog != nil {
			lister = catalog
		}
		req, err = tui.RunRequestForm(bp, tui.RequestFormOptions{
			Catalog: lister,
			Initial: req,
			Input:   cmd.InOrStdin(),
			Output:  cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(req.Category) == "" {
		return taskerrors.New(taskerrors.ErrCodeRequestInvalid, "no intent category given").
			WithSuggestions(
				"Pass --category, one of: "+strings.Join(bp.CategoryNames(), ", "),
				"Or read a request file with --in request.yaml",
				"Or fill the request interactively with --interactive",
			)
	}

	if err := checkCatalog(catalog, req); err != nil {
		return err
	}

	if o.saveRequest != "" {
		if err := request.FromPlanRequest(req).Save(o.saveRequest); err != nil {
			return taskerrors.Wrap(taskerrors.ErrCodeFileWriteFailed, "cannot save request", err)
		}
	}

	ctx, span := telemetry.StartPlanSpan(ctx, req.Category, len(req.Capabilities))
	p, err := a.newAssembler(bp, catalog).Assemble(ctx, req)
	span.End()
	if err != nil {
		return err
	}

	if o.out != "" {
		if err := a.writePlan(cmd, p, o.out, o.force); err != nil {
			return err
		}
	}
	return formatter.Format(p)
}

// writePlan saves p, asking before overwriting an existing file
func (a *app) writePlan(cmd *cobra.Command, p *plan.Plan, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		if !ux.Confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("%s exists. Overwrite?", path), false) {
			return taskerrors.New(taskerrors.ErrCodeFileWriteFailed, fmt.Sprintf("not overwriting %s", path)).
				WithSuggestion("Use --force to overwrite without asking")
		}
	}
	if err := plan.SavePlan(p, path); err != nil {
		return taskerrors.Wrap(taskerrors.ErrCodeFileWriteFailed, "cannot save plan", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Plan written to %s\n", path)
	return nil
}

// loadPlanFile reads a saved plan, mapping decode failures to coded errors
func loadPlanFile(path string) (*plan.Plan, error) {
	p, err := plan.LoadPlan(path)
	if err == nil {
		return p, nil
	}
	var invalid *plan.ValidationError
	var pathErr *os.PathError
	if errors.As(err, &invalid) || errors.As(err, &pathErr) {
		return nil, err
	}
	return nil, taskerrors.NewFileUnmarshalError(path, "plan", err)
}

func newPlanValidateCmd(a *app) *cobra.Command {
	var in string
	c := &cobra.Command{
		Use:   "validate",
		Short: "Re-check every invariant of a saved plan",
		Long: `Re-check a saved plan: every task is ordered after its prerequisites,
the critical path is a chain of dependencies whose durations add up, and the
fingerprint matches the plan content.`,
		Args: cobra.NoArgs,
	}
	c.RunE = a.instrument("plan validate", func(cmd *cobra.Command, args []string) error {
		p, err := loadPlanFile(in)
		if err != nil {
			return err
		}
		if p.Fingerprint != "" {
			sum, err := plan.Fingerprint(p)
			if err != nil {
				return err
			}
			if sum != p.Fingerprint {
				return &plan.ValidationError{Problems: []string{
					fmt.Sprintf("fingerprint %s does not match content (%s)", p.Fingerprint, sum),
				}}
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid: %d tasks, critical path %s, total effort %s\n",
			in, len(p.Tasks), ux.Hours(p.CriticalPath.Duration), ux.Hours(p.TotalDuration))
		return nil
	})
	c.Flags().StringVar(&in, "in", "plan.json", "plan file")
	return c
}

func newPlanVisualizeCmd(a *app) *cobra.Command {
	var (
		in     string
		out    string
		format string
		gated  bool
	)
	c := &cobra.Command{
		Use:   "visualize",
		Short: "Render a saved plan as a DOT or Mermaid graph",
		Long: `Render a saved plan as a Graphviz DOT or Mermaid flowchart. Tasks are
grouped by phase and the critical path is highlighted.

With --gated, each phase boundary is drawn as one gate node instead of an
edge from every task of a phase to every task of the next.

Example:
  taskplan plan visualize --in plan.json --format mermaid --gated`,
		Args: cobra.NoArgs,
	}
	c.RunE = a.instrument("plan visualize", func(cmd *cobra.Command, args []string) error {
		p, err := loadPlanFile(in)
		if err != nil {
			return err
		}
		rendered, err := plan.Export(p, plan.ExportOptions{Format: plan.ExportFormat(format), Gated: gated})
		if err != nil {
			return taskerrors.Wrap(taskerrors.ErrCodeRequestInvalid, "cannot render plan", err)
		}
		if out == "" {
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		}
		if err := os.WriteFile(out, []byte(rendered), 0600); err != nil {
			return taskerrors.Wrap(taskerrors.ErrCodeFileWriteFailed, "cannot write graph", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Graph written to %s\n", out)
		return nil
	})
	f := c.Flags()
	f.StringVar(&in, "in", "plan.json", "plan file")
	f.StringVar(&out, "out", "", "write the graph to this file instead of stdout")
	f.StringVarP(&format, "format", "f", string(plan.ExportDOT), "graph format: dot or mermaid")
	f.BoolVar(&gated, "gated", false, "draw phase gates instead of dense cross-phase edges")
	return c
}

func newPlanReviewCmd(a *app) *cobra.Command {
	var in string
	c := &cobra.Command{
		Use:   "review",
		Short: "Browse a saved plan and approve or reject it",
		Long: `Launch an interactive terminal UI to browse a plan in execution order,
inspect each task and its prerequisites, and approve or reject the plan.
A rejected plan exits with a non-zero status.`,
		Args: cobra.NoArgs,
	}
	c.RunE = a.instrument("plan review", func(cmd *cobra.Command, args []string) error {
		p, err := loadPlanFile(in)
		if err != nil {
			return err
		}
		result, err := tui.RunPlanReview(p,
			tea.WithContext(cmd.Context()),
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(cmd.OutOrStdout()),
		)
		if err != nil {
			return err
		}
		if !result.Approved {
			reason := result.Reason
			if reason == "" {
				reason = "no reason given"
			}
			return fmt.Errorf("plan %s rejected: %s", p.ProjectName, reason)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Plan %s approved\n", p.ProjectName)
		return nil
	})
	c.Flags().StringVar(&in, "in", "plan.json", "plan file")
	return c
}
