package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/codetrack/internal/model"
	"github.com/manav03panchal/codetrack/internal/timer"
	"github.com/manav03panchal/codetrack/internal/tracker"
)

// StopwatchConfig holds configuration for the interactive stopwatch.
type StopwatchConfig struct {
	Timer    *timer.Coordinator
	Recorder *tracker.Recorder
	Activity *model.ActivityRecord
	Color    bool
	// AutoStart starts timing as soon as the program runs.
	AutoStart bool
}

// StopwatchModel times one activity.
type StopwatchModel struct {
	*timerControl

	activity  *model.ActivityRecord
	autoStart bool
	color     bool
	width     int

	keys stopwatchKeys
	help help.Model
}

// NewStopwatchModel creates a new stopwatch model.
func NewStopwatchModel(cfg StopwatchConfig) *StopwatchModel {
	return &StopwatchModel{
		timerControl: newTimerControl(cfg.Timer, cfg.Recorder),
		activity:     cfg.Activity,
		autoStart:    cfg.AutoStart,
		color:        cfg.Color,
		keys:         newStopwatchKeys(),
		help:         help.New(),
	}
}

// Init initializes the model.
func (m *StopwatchModel) Init() tea.Cmd {
	if m.autoStart {
		m.start(m.activity.ID)
	}
	return m.listen()
}

// Update handles messages and updates the model.
func (m *StopwatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		return m, m.listen()

	case savedMsg:
		m.handleSaved(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	}

	if m.form != nil {
		return m, m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *StopwatchModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Toggle):
		if m.coord.Snapshot().State == timer.StateCompleted {
			m.notify(timer.Hint(m.coord.Snapshot()))
			return nil
		}
		m.start(m.activity.ID)

	case key.Matches(msg, m.keys.Finish):
		return m.finish()

	case key.Matches(msg, m.keys.Reset):
		return m.reset()
	}
	return nil
}

// View renders the stopwatch.
func (m *StopwatchModel) View() string {
	sections := []string{
		StyleTitle.Render("CodeTrack Timer") + "  " + FormatActivity(m.activity),
	}

	snap := m.coord.Snapshot()
	if snap.ActivityID == "" {
		// Reset clears the binding; keep showing the activity being timed.
		snap.ActivityID = m.activity.ID
	}
	sections = append(sections, NewTimerComponent(snap, m.activity, m.width, m.color).View())

	if m.form != nil {
		sections = append(sections, m.form.View())
	}
	if line := m.statusLine(); line != "" {
		sections = append(sections, line)
	}
	sections = append(sections, m.help.View(m.keys))

	return strings.TrimRight(lipgloss.JoinVertical(lipgloss.Left, sections...), "\n") + "\n"
}

// RunStopwatch runs the interactive stopwatch and returns the sessions it
// saved.
func RunStopwatch(cfg StopwatchConfig) ([]*model.Session, error) {
	m := NewStopwatchModel(cfg)
	p := tea.NewProgram(m)
	_, err := p.Run()
	m.detach()
	return m.Saved(), err
}
