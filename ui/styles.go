package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/mediaimport/media"
)

// Palette shared by the console output and the views
var (
	colourAccent   = lipgloss.Color("110") // header text, library paths
	colourBackdrop = lipgloss.Color("236")
	colourOK       = lipgloss.Color("71")
	colourFail     = lipgloss.Color("167")
	colourFallback = lipgloss.Color("179") // capture time taken from the filesystem
	colourMuted    = lipgloss.Color("245")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(colourAccent).
			Background(colourBackdrop).
			Bold(true).
			Padding(0, 1).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().Foreground(colourOK).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(colourFail).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(colourFallback)
	InfoStyle    = lipgloss.NewStyle().Foreground(colourAccent)
	DimStyle     = lipgloss.NewStyle().Foreground(colourMuted)

	// ScanStyle marks the directory being scanned or renamed
	ScanStyle = lipgloss.NewStyle().Foreground(colourAccent).Bold(true).Underline(true)

	// SelectedStyle is a planned file that will be committed
	SelectedStyle = lipgloss.NewStyle().Foreground(colourOK)

	fallbackTagStyle = lipgloss.NewStyle().Foreground(colourFallback).Italic(true)
)

// OutcomeTag renders a short marker for items whose capture time did not come from metadata.
// Metadata resolved items get no marker.
func OutcomeTag(o media.Outcome) string {
	switch o {
	case media.Fallback:
		return fallbackTagStyle.Render("[fallback time]")
	case media.Failed:
		return ErrorStyle.Render("[no time]")
	default:
		return ""
	}
}
