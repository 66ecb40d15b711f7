package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/codetrack/internal/model"
	"github.com/manav03panchal/codetrack/internal/output"
	"github.com/manav03panchal/codetrack/internal/report"
	"github.com/manav03panchal/codetrack/internal/timer"
	"github.com/manav03panchal/codetrack/internal/tracker"
)

// tickMsg redraws the clock and picks up background refreshes.
type tickMsg time.Time

// refreshedMsg reports a manual refresh.
type refreshedMsg struct {
	applied bool
	err     error
}

// DashboardConfig holds configuration for the dashboard.
type DashboardConfig struct {
	Store    *tracker.Store
	Timer    *timer.Coordinator
	Recorder *tracker.Recorder
	Period   report.Period
	Color    bool
	// TickInterval is how often the view redraws (default 1s).
	TickInterval time.Duration
	Now          func() time.Time
}

// DashboardModel is the main bubbletea model for the dashboard.
type DashboardModel struct {
	*timerControl

	store   *tracker.Store
	records []*model.ActivityRecord
	table   table.Model
	period  report.Period

	width  int
	height int
	color  bool

	tickInterval time.Duration
	now          func() time.Time

	keys dashboardKeys
	help help.Model
}

var dashboardColumns = []table.Column{
	{Title: "Activity", Width: 28},
	{Title: "Course / Project", Width: 24},
	{Title: "Total", Width: 10},
	{Title: "Sessions", Width: 8},
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel(cfg DashboardConfig) *DashboardModel {
	if cfg.TickInterval == 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Period == "" {
		cfg.Period = report.PeriodDay
	}

	t := table.New(
		table.WithColumns(dashboardColumns),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(ColorPrimary)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#FFFFFF")).Background(ColorPrimary)
	t.SetStyles(styles)

	m := &DashboardModel{
		timerControl: newTimerControl(cfg.Timer, cfg.Recorder),
		store:        cfg.Store,
		table:        t,
		period:       cfg.Period,
		color:        cfg.Color,
		tickInterval: cfg.TickInterval,
		now:          cfg.Now,
		keys:         newDashboardKeys(),
		help:         help.New(),
	}
	m.reload()
	return m
}

// Init initializes the model.
func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.listen(), m.tickCmd())
}

// Update handles messages and updates the model.
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.reload()
		return m, m.tickCmd()

	case snapshotMsg:
		return m, m.listen()

	case savedMsg:
		m.handleSaved(msg)
		m.reload()
		return m, nil

	case refreshedMsg:
		if msg.err != nil {
			m.fail(msg.err)
		} else if msg.applied {
			m.notify("Refreshed")
		}
		m.reload()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(3, min(len(m.records)+1, msg.Height/3)))
		return m, nil
	}

	if m.form != nil {
		return m, m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// handleKey handles keyboard input. Unhandled keys go to the table.
func (m *DashboardModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit(), true

	case key.Matches(msg, m.keys.Track):
		rec := m.selected()
		if rec == nil {
			m.notify("Create an activity first: codetrack activity create")
			return nil, true
		}
		m.start(rec.ID)
		return nil, true

	case key.Matches(msg, m.keys.Toggle):
		m.toggle()
		return nil, true

	case key.Matches(msg, m.keys.Finish):
		return m.finish(), true

	case key.Matches(msg, m.keys.Reset):
		return m.reset(), true

	case key.Matches(msg, m.keys.Period):
		m.period = nextPeriod(m.period)
		return nil, true

	case key.Matches(msg, m.keys.Refresh):
		return m.refreshCmd(), true
	}
	return nil, false
}

// View renders the dashboard.
func (m *DashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sections := []string{m.renderHeader()}

	sum := output.BuildSummary(m.store.UserID(), len(m.store.Courses()), len(m.store.Projects()), m.records, m.now())
	sections = append(sections, SummaryComponent{Summary: sum}.View(), "")

	snap := m.coord.Snapshot()
	var active *model.ActivityRecord
	if snap.ActivityID != "" {
		active, _ = m.store.Activity(snap.ActivityID)
	}
	sections = append(sections, NewTimerComponent(snap, active, m.width, m.color).View())

	if m.form != nil {
		sections = append(sections, m.form.View())
	}
	if line := m.statusLine(); line != "" {
		sections = append(sections, line)
	}

	if len(m.records) == 0 {
		sections = append(sections, StyleMuted.Render("No activities yet"))
	} else {
		sections = append(sections, StyleTableBox.Render(m.table.View()))
	}

	chart := &ChartComponent{
		Period:  m.period,
		Buckets: report.Bucketize(report.EntriesFrom(m.records), m.period, m.now()),
		Width:   m.width,
		Color:   m.color,
	}
	sections = append(sections, chart.View(), m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the dashboard header.
func (m *DashboardModel) renderHeader() string {
	title := StyleTitle.Render("CodeTrack Dashboard")
	timeStr := StyleSubtitle.Render(m.now().Format("Mon Jan 2, 15:04:05"))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", timeStr)
}

// reload copies the store's activities into the table, keeping the cursor.
func (m *DashboardModel) reload() {
	m.records = m.store.Activities()
	rows := make([]table.Row, 0, len(m.records))
	for _, r := range m.records {
		rows = append(rows, table.Row{
			r.Title,
			r.ParentTitle,
			output.FormatClock(r.TotalSeconds()),
			fmt.Sprintf("%d", len(r.Sessions)),
		})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m *DashboardModel) selected() *model.ActivityRecord {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.records) {
		return nil
	}
	return m.records[i]
}

// tickCmd returns a command that sends a tick message.
func (m *DashboardModel) tickCmd() tea.Cmd {
	return tea.Tick(m.tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *DashboardModel) refreshCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		applied, err := store.Refresh(context.Background())
		return refreshedMsg{applied: applied, err: err}
	}
}

// RunDashboard starts the dashboard TUI.
func RunDashboard(cfg DashboardConfig) error {
	m := NewDashboardModel(cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	m.detach()
	return err
}
