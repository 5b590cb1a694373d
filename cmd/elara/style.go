package main

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	outputStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	swatchStyle  = lipgloss.NewStyle().Padding(0, 1)
	defaultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// swatch renders a colour sample followed by its hex value.
func swatch(hex string) string {
	if hex == "" {
		return mutedStyle.Render("(unset)")
	}
	return swatchStyle.Background(lipgloss.Color(hex)).Render("  ") + " " + hex
}
