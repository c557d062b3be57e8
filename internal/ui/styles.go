package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Shipway colors and styles
var (
	ColorBlue   = lipgloss.Color("63")  // Informational
	ColorGreen  = lipgloss.Color("42")  // Success
	ColorYellow = lipgloss.Color("220") // Warning
	ColorRed    = lipgloss.Color("196") // Error
	ColorGray   = lipgloss.Color("240") // Subtle text

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	UnselectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	// Emoji icons
	IconSuccess = "✅"
	IconWarning = "⚠️ "
	IconError   = "❌"
	IconShip    = "🚢"
)

// Success renders a success line for the cmd layer.
func Success(msg string) string {
	return IconSuccess + " " + SuccessStyle.Render(msg)
}

// Error renders an error line for the cmd layer.
func Error(msg string) string {
	return IconError + " " + ErrorStyle.Render(msg)
}

// Warning renders a warning line for the cmd layer.
func Warning(msg string) string {
	return IconWarning + " " + WarningStyle.Render(msg)
}
