// Package styles provides shared lipgloss styles for prj output.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/raphi011/prj/internal/project"
)

// Palette
var (
	Primary color.Color = lipgloss.Color("62")  // cyan/teal
	Accent  color.Color = lipgloss.Color("212") // pink
	Success color.Color = lipgloss.Color("82")  // green
	Error   color.Color = lipgloss.Color("196") // red
	Muted   color.Color = lipgloss.Color("240") // dark gray
	Warning color.Color = lipgloss.Color("214") // orange
)

var (
	Bold         = lipgloss.NewStyle().Bold(true)
	AccentStyle  = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
)

var typeColors = map[project.Type]color.Color{
	project.TypeClaude: lipgloss.Color("173"),
	project.TypeNode:   lipgloss.Color("34"),
	project.TypeGo:     lipgloss.Color("38"),
	project.TypeRust:   lipgloss.Color("166"),
	project.TypePython: lipgloss.Color("220"),
	project.TypeJava:   lipgloss.Color("124"),
	project.TypeDocs:   lipgloss.Color("105"),
}

// TypeStyle returns the style used for a project type label.
// Unknown and generic types are muted.
func TypeStyle(t project.Type) lipgloss.Style {
	if c, ok := typeColors[t]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return MutedStyle
}
