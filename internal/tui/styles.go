// Package tui provides the terminal user interface for CodeTrack: the
// interactive stopwatch and the dashboard.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/codetrack/internal/model"
)

// Color palette for the TUI.
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#10B981") // Green
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorWarning   = lipgloss.Color("#F59E0B") // Yellow
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorSuccess   = lipgloss.Color("#10B981") // Green
	ColorActive    = lipgloss.Color("#3B82F6") // Blue
	ColorBorder    = lipgloss.Color("#4B5563") // Dark gray
)

// Base styles for the TUI.
var (
	// StyleTitle is used for section titles.
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StyleCourse = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	StyleProject = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorActive)

	StyleActivity = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	StyleDuration = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorActive)

	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)
)

// Box styles for different sections.
var (
	StyleTimerBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2).
			MarginBottom(1)

	// StyleActiveTimerBox is used while the stopwatch holds time.
	StyleActiveTimerBox = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorSuccess).
				Padding(1, 2).
				MarginBottom(1)

	StyleTableBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			MarginBottom(1)

	StyleChartBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginBottom(1)
)

// ParentStyle returns the style for a course or project label. A container
// color, when set, overrides the kind's default.
func ParentStyle(kind model.ParentKind, color string) lipgloss.Style {
	style := StyleCourse
	if kind == model.KindProject {
		style = StyleProject
	}
	if color != "" {
		style = style.Foreground(lipgloss.Color(color))
	}
	return style
}

// FormatActivity formats "parent / activity" with styles.
func FormatActivity(rec *model.ActivityRecord) string {
	if rec == nil {
		return ""
	}
	if rec.ParentTitle == "" {
		return StyleActivity.Render(rec.Title)
	}
	return ParentStyle(rec.ParentKind, rec.ParentColor).Render(rec.ParentTitle) + " / " + StyleActivity.Render(rec.Title)
}
