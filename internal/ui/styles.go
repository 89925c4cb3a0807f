// Package ui renders TempoFlow's terminal output: task tables, the
// productivity report and the interactive focus timer.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tempoflow-ai/tempoflow/internal/task"
)

var (
	ColorPrimary   = lipgloss.Color("205") // pink
	ColorSecondary = lipgloss.Color("241") // gray
	ColorSuccess   = lipgloss.Color("42")
	ColorError     = lipgloss.Color("160")
	ColorWarning   = lipgloss.Color("214")
	ColorText      = lipgloss.Color("252")
	ColorCyan      = lipgloss.Color("87")
	ColorBlue      = lipgloss.Color("75")

	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	StyleSectionTitle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Underline(true)

	// Chat transcript prefixes.
	StylePrefixUser      = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StylePrefixAssistant = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)

	StyleTimer = lipgloss.NewStyle().Bold(true).Foreground(ColorText).Padding(0, 1)
)

// PriorityStyle colors a task priority.
func PriorityStyle(p task.Priority) lipgloss.Style {
	switch p {
	case task.PriorityHigh:
		return StyleError
	case task.PriorityMedium:
		return StyleWarning
	default:
		return StyleSubtle
	}
}

// ScoreStyle colors a 0..100 score with the insight thresholds.
func ScoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 80:
		return StyleSuccess
	case score < 50:
		return StyleError
	default:
		return StyleWarning
	}
}
