package tui

import "github.com/charmbracelet/bubbles/key"

// stopwatchKeys are the bindings of the interactive stopwatch.
type stopwatchKeys struct {
	Toggle key.Binding
	Finish key.Binding
	Reset  key.Binding
	Quit   key.Binding
}

func newStopwatchKeys() stopwatchKeys {
	return stopwatchKeys{
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
		Finish: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "finish & save")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k stopwatchKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Finish, k.Reset, k.Quit}
}

func (k stopwatchKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// dashboardKeys extend the stopwatch bindings with table navigation.
type dashboardKeys struct {
	stopwatchKeys
	Up      key.Binding
	Down    key.Binding
	Track   key.Binding
	Period  key.Binding
	Refresh key.Binding
}

func newDashboardKeys() dashboardKeys {
	sw := newStopwatchKeys()
	sw.Toggle = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume"))
	sw.Finish = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save timer"))
	sw.Reset = key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reset timer"))
	return dashboardKeys{
		stopwatchKeys: sw,
		Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Track:         key.NewBinding(key.WithKeys("enter", "t"), key.WithHelp("enter", "time activity")),
		Period:        key.NewBinding(key.WithKeys("tab", "p"), key.WithHelp("tab", "chart period")),
		Refresh:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (k dashboardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Track, k.Toggle, k.Finish, k.Reset, k.Period, k.Refresh, k.Quit}
}

func (k dashboardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Track},
		{k.Toggle, k.Finish, k.Reset},
		{k.Period, k.Refresh, k.Quit},
	}
}
