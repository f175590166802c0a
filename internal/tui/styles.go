// Package tui holds the interactive terminal surfaces: the plan review
// browser and the planning request form.
package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains lipgloss styles for the TUI
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Critical lipgloss.Style
	Key      lipgloss.Style
	Value    lipgloss.Style
	Muted    lipgloss.Style
	Approve  lipgloss.Style
	Reject   lipgloss.Style
}

// DefaultStyles returns the default lipgloss styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2).
			MarginTop(1),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginLeft(2),
		Item: lipgloss.NewStyle().
			PaddingLeft(4),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true).
			PaddingLeft(2),
		Critical: lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")),
		Key: lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true),
		Value: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginLeft(2),
		Approve: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true),
		Reject: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true),
	}
}
