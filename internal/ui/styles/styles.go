// Package styles provides shared lipgloss styles for UI components.
//
// Colours are assigned by role in the tree (directories, files, values,
// guides) so the static renderer, the spinner and the interactive browser
// look alike under every theme.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Colors of the active theme. Init replaces them.
var (
	Dir    color.Color = lipgloss.Color("62")
	File   color.Color = lipgloss.Color("252")
	Value  color.Color = lipgloss.Color("244")
	Guide  color.Color = lipgloss.Color("240")
	Cursor color.Color = lipgloss.Color("212")
	Match  color.Color = lipgloss.Color("212")
	Status color.Color = lipgloss.Color("82")
	Error  color.Color = lipgloss.Color("196")
)

var Bold = lipgloss.NewStyle().Bold(true)

// Role styles. applyTheme rebuilds them.
var (
	// TitleStyle renders the browser title and spinner
	TitleStyle = lipgloss.NewStyle().Foreground(Dir)

	// DirStyle renders expandable node names
	DirStyle = lipgloss.NewStyle().Foreground(Dir).Bold(true)

	// FileStyle renders leaf names
	FileStyle = lipgloss.NewStyle().Foreground(File)

	// ValueStyle renders document scalar values
	ValueStyle = lipgloss.NewStyle().Foreground(Value).Italic(true)

	// GuideStyle renders guide lines and expander markers
	GuideStyle = lipgloss.NewStyle().Foreground(Guide)

	// MutedStyle renders hints, counters and secondary text
	MutedStyle = lipgloss.NewStyle().Foreground(Guide)

	// CursorStyle renders the focused row in the browser
	CursorStyle = lipgloss.NewStyle().Foreground(Cursor).Bold(true)

	// MatchStyle for fuzzy-matched characters
	MatchStyle = lipgloss.NewStyle().
			Foreground(Match).
			Bold(true).
			Underline(true)

	StatusStyle = lipgloss.NewStyle().Foreground(Status)
	ErrorStyle  = lipgloss.NewStyle().Foreground(Error)
)
