// Package ui renders command output for the terminal: colors, tables and
// page content.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// ANSI colors used across command output.
const (
	colorRed     = lipgloss.Color("1")
	colorGreen   = lipgloss.Color("2")
	colorYellow  = lipgloss.Color("3")
	colorMagenta = lipgloss.Color("5")
	colorCyan    = lipgloss.Color("6")
	colorWhite   = lipgloss.Color("7")
	colorGray    = lipgloss.Color("8")
)

var (
	Success = lipgloss.NewStyle().Foreground(colorGreen)
	Warning = lipgloss.NewStyle().Foreground(colorYellow)
	Failure = lipgloss.NewStyle().Foreground(colorRed)
	Label   = lipgloss.NewStyle().Foreground(colorCyan)
	Key     = lipgloss.NewStyle().Foreground(colorYellow)
	Faint   = lipgloss.NewStyle().Faint(true)
	Bold    = lipgloss.NewStyle().Bold(true)
	Italic  = lipgloss.NewStyle().Italic(true)
	Code    = lipgloss.NewStyle().Foreground(colorGray)
	Section = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	Heading = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
)

var statusColors = map[string]lipgloss.Color{
	"Open":        colorRed,
	"In Progress": colorYellow,
	"Resolved":    colorGreen,
	"Closed":      colorGray,
}

var priorityColors = map[string]lipgloss.Color{
	"Critical": colorRed,
	"High":     colorMagenta,
	"Medium":   colorYellow,
	"Low":      colorCyan,
}

// StatusColor returns the color for a ticket status; unknown statuses are white.
func StatusColor(status string) lipgloss.Color {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return colorWhite
}

// PriorityColor returns the color for a ticket priority; unknown priorities are white.
func PriorityColor(priority string) lipgloss.Color {
	if c, ok := priorityColors[priority]; ok {
		return c
	}
	return colorWhite
}

// Status renders a status label in its color.
func Status(status string) string {
	return lipgloss.NewStyle().Foreground(StatusColor(status)).Render(status)
}

// Priority renders a priority label in its color.
func Priority(priority string) string {
	return lipgloss.NewStyle().Foreground(PriorityColor(priority)).Render(priority)
}
