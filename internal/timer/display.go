package timer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/codetrack/internal/output"
)

// Display renders the stopwatch.
type Display struct {
	UseColor bool
}

// NewDisplay creates a new stopwatch display.
func NewDisplay() *Display {
	return &Display{UseColor: true}
}

// Styles for stopwatch display.
var (
	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")) // Purple

	runningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981")) // Green

	pausedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F59E0B")) // Yellow

	completedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")) // Blue

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")) // Gray

	hintStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#6B7280")) // Gray
)

func (d *Display) render(style lipgloss.Style, s string) string {
	if d.UseColor {
		return style.Render(s)
	}
	return s
}

// Render renders the stopwatch for an activity title.
func (d *Display) Render(snap Snapshot, title string) string {
	var sb strings.Builder

	stateStyle := titleStyle
	switch snap.State {
	case StateRunning:
		stateStyle = runningStyle
	case StatePaused:
		stateStyle = pausedStyle
	case StateCompleted:
		stateStyle = completedStyle
	}

	sb.WriteString(d.render(stateStyle, snap.State.String()))
	if title != "" {
		sb.WriteString(d.render(titleStyle, fmt.Sprintf(" %s", title)))
	}
	sb.WriteString("\n\n")

	sb.WriteString(d.render(clockStyle, output.FormatClock(snap.Seconds)))
	sb.WriteString("\n\n")

	sb.WriteString(d.render(hintStyle, Hint(snap)))
	return sb.String()
}

// Hint returns the key hint line for a state.
func Hint(snap Snapshot) string {
	switch snap.State {
	case StateRunning:
		return "Press SPACE to pause, ENTER to finish, R to reset, Q to quit"
	case StatePaused:
		return "[PAUSED] Press SPACE to resume, ENTER to finish, R to reset, Q to quit"
	case StateCompleted:
		return "Press ENTER to save, R to discard, Q to quit"
	default:
		return "Press SPACE to start, Q to quit"
	}
}
