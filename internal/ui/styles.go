package ui

import "github.com/charmbracelet/lipgloss"

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // Cyan/green - titles, active markers
	ColorHighlight = "205" // Magenta - focused controls, borders
	ColorDanger    = "196" // Red - errors, delete buttons
	ColorMuted     = "241" // Gray - hints, captions
	ColorText      = "252" // Light gray - normal text
	ColorDim       = "243" // Darker gray - unfocused borders
)

// Styles contains shared style definitions used by the page and modals.
var Styles = struct {
	Title   lipgloss.Style // Project name
	Section lipgloss.Style // Network headers
	Active  lipgloss.Style // "active" marker on the active network

	Layer        lipgloss.Style // Box around one layer editor
	LayerFocused lipgloss.Style // Same box when one of its controls has focus
	LayerLabel   lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonDanger  lipgloss.Style // Delete, unfocused

	FieldLabel lipgloss.Style
	Caption    lipgloss.Style // Table captions
	Muted      lipgloss.Style
	Empty      lipgloss.Style
	Status     lipgloss.Style
	Error      lipgloss.Style

	Box        lipgloss.Style // Modal box
	BoxCompact lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Section: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorHighlight)),
	Active: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Layer: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDim)).
		Padding(0, 1),
	LayerFocused: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(0, 1),
	LayerLabel: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Button: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)).
		Padding(0, 1),
	ButtonFocused: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true).
		Reverse(true).
		Padding(0, 1),
	ButtonDanger: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)).
		Padding(0, 1),
	FieldLabel: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Caption: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(1, 2).
		Margin(1),
	BoxCompact: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1).
		MarginTop(1),
}
