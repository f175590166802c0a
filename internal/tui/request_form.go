package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/taskplan/internal/blueprint"
	"github.com/felixgeelhaar/taskplan/internal/capability"
	"github.com/felixgeelhaar/taskplan/internal/plan"
)

// CatalogLister lists the capabilities offered by a catalog
type CatalogLister interface {
	All() []capability.Info
}

// RequestFormOptions configures the planning request form
type RequestFormOptions struct {
	// Catalog, when set, turns the capability field into a multi-select
	Catalog CatalogLister
	// Initial prefills the form
	Initial plan.Request
	// Accessible runs the form in line-oriented accessible mode
	Accessible bool
	Input      io.Reader
	Output     io.Writer
}

// requestValues backs the form fields
type requestValues struct {
	category   string
	selected   []string
	freeform   string
	confidence float64
}

func (v *requestValues) request() plan.Request {
	caps := v.selected
	if caps == nil {
		caps = splitCapabilities(v.freeform)
	}
	return plan.Request{
		Category:     v.category,
		Confidence:   v.confidence,
		Capabilities: caps,
	}
}

// splitCapabilities splits on commas and whitespace, dropping empty entries
func splitCapabilities(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return []string{}
	}
	return fields
}

func validateCapabilities(raw string) error {
	_, err := capability.NewSelection(splitCapabilities(raw))
	return err
}

// newRequestForm builds the form and the values it writes to
func newRequestForm(bp *blueprint.Blueprint, opts RequestFormOptions) (*huh.Form, *requestValues) {
	v := &requestValues{
		category:   opts.Initial.Category,
		confidence: opts.Initial.Confidence,
	}

	categories := make([]huh.Option[string], 0, len(bp.Categories))
	for _, c := range bp.Categories {
		label := string(c.Name)
		if c.Description != "" {
			label = fmt.Sprintf("%s (%s)", c.Name, c.Description)
		}
		categories = append(categories, huh.NewOption(label, string(c.Name)))
	}
	if v.category == "" && len(bp.Categories) > 0 {
		v.category = string(bp.Categories[0].Name)
	}

	var capField huh.Field
	if opts.Catalog != nil && len(opts.Catalog.All()) > 0 {
		v.selected = append([]string{}, opts.Initial.Capabilities...)
		var choices []huh.Option[string]
		for _, info := range opts.Catalog.All() {
			label := string(info.ID)
			if info.Summary != "" {
				label = fmt.Sprintf("%s: %s", info.ID, info.Summary)
			}
			choices = append(choices, huh.NewOption(label, string(info.ID)))
		}
		capField = huh.NewMultiSelect[string]().
			Title("Capabilities").
			Description("Each selected capability becomes an implementation task").
			Options(choices...).
			Value(&v.selected)
	} else {
		v.freeform = strings.Join(opts.Initial.Capabilities, "\n")
		capField = huh.NewText().
			Title("Capabilities").
			Description("One identifier per line, e.g. im.v1.message.create. Leave empty for scaffolding only.").
			Value(&v.freeform).
			Validate(validateCapabilities)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Intent category").
				Options(categories...).
				Value(&v.category),
			capField,
		),
	).WithAccessible(opts.Accessible)

	if opts.Input != nil {
		form = form.WithInput(opts.Input)
	}
	if opts.Output != nil {
		form = form.WithOutput(opts.Output)
	}
	return form, v
}

// RunRequestForm asks for a category and capabilities and returns the
// resulting planning request
func RunRequestForm(bp *blueprint.Blueprint, opts RequestFormOptions) (plan.Request, error) {
	form, values := newRequestForm(bp, opts)
	if err := form.Run(); err != nil {
		return plan.Request{}, fmt.Errorf("request form: %w", err)
	}
	return values.request(), nil
}
