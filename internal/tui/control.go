package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/manav03panchal/codetrack/internal/model"
	"github.com/manav03panchal/codetrack/internal/output"
	"github.com/manav03panchal/codetrack/internal/timer"
	"github.com/manav03panchal/codetrack/internal/tracker"
	"github.com/manav03panchal/codetrack/internal/validate"
)

// snapshotMsg carries a stopwatch event into the program loop.
type snapshotMsg timer.Snapshot

// savedMsg reports the result of saving the stopwatch.
type savedMsg struct {
	session *model.Session
	err     error
}

type formKind int

const (
	formNone formKind = iota
	formNotes
	formConfirm
)

// timerControl drives the shared stopwatch from key presses and owns the
// notes and discard-confirmation forms. Both the stopwatch and the dashboard
// embed it.
type timerControl struct {
	coord    *timer.Coordinator
	recorder *tracker.Recorder
	events   chan timer.Snapshot

	form      *huh.Form
	formKind  formKind
	onConfirm func() tea.Cmd
	confirmed bool
	notes     string

	saving  bool
	saved   []*model.Session
	err     error
	message string
}

func newTimerControl(coord *timer.Coordinator, recorder *tracker.Recorder) *timerControl {
	tc := &timerControl{
		coord:    coord,
		recorder: recorder,
		events:   make(chan timer.Snapshot, 1),
	}
	coord.Stopwatch().SetCallback(func(_ timer.Event, snap timer.Snapshot) {
		select {
		case tc.events <- snap:
		default:
		}
	})
	return tc
}

// detach stops stopwatch events from reaching the program.
func (tc *timerControl) detach() {
	tc.coord.Stopwatch().SetCallback(nil)
}

func (tc *timerControl) listen() tea.Cmd {
	events := tc.events
	return func() tea.Msg {
		return snapshotMsg(<-events)
	}
}

// Saved returns the sessions saved during this program run.
func (tc *timerControl) Saved() []*model.Session {
	return tc.saved
}

func (tc *timerControl) fail(err error) {
	tc.err = err
	tc.message = ""
}

func (tc *timerControl) notify(msg string) {
	tc.err = nil
	tc.message = msg
}

func (tc *timerControl) ask(title string, action func() tea.Cmd) tea.Cmd {
	tc.confirmed = false
	tc.onConfirm = action
	tc.formKind = formConfirm
	tc.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Discard").
				Negative("Keep").
				Value(&tc.confirmed),
		),
	).WithShowHelp(false)
	return tc.form.Init()
}

func (tc *timerControl) askNotes() tea.Cmd {
	tc.notes = ""
	tc.formKind = formNotes
	tc.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Notes (optional)").
				CharLimit(validate.MaxNoteLength).
				Value(&tc.notes),
		),
	).WithShowHelp(false)
	return tc.form.Init()
}

func (tc *timerControl) closeForm() {
	tc.form = nil
	tc.formKind = formNone
	tc.onConfirm = nil
}

func (tc *timerControl) updateForm(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyEsc {
		tc.closeForm()
		return nil
	}

	form, cmd := tc.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		tc.form = f
	}

	switch tc.form.State {
	case huh.StateCompleted:
		return tea.Batch(cmd, tc.formDone(tc.confirmed))
	case huh.StateAborted:
		tc.closeForm()
	}
	return cmd
}

// formDone finishes the open form. confirmed only matters for confirmations.
func (tc *timerControl) formDone(confirmed bool) tea.Cmd {
	kind, action, notes := tc.formKind, tc.onConfirm, tc.notes
	tc.closeForm()

	switch kind {
	case formNotes:
		return tc.save(notes)
	case formConfirm:
		if confirmed && action != nil {
			return action()
		}
	}
	return nil
}

// start times activityID, resuming or pausing when it already owns the stopwatch.
func (tc *timerControl) start(activityID string) {
	snap := tc.coord.Snapshot()
	var err error
	switch {
	case snap.ActivityID == activityID && snap.State != timer.StateReady:
		err = tc.coord.Toggle()
	default:
		err = tc.coord.StartFor(activityID)
	}
	if err != nil {
		tc.fail(err)
		return
	}
	tc.err = nil
}

func (tc *timerControl) toggle() {
	if err := tc.coord.Toggle(); err != nil {
		tc.fail(err)
		return
	}
	tc.err = nil
}

// finish freezes the stopwatch and asks for notes before saving.
func (tc *timerControl) finish() tea.Cmd {
	if tc.saving {
		return nil
	}
	snap := tc.coord.Snapshot()
	if snap.State == timer.StateRunning || snap.State == timer.StatePaused {
		if _, err := tc.coord.Complete(); err != nil {
			tc.fail(err)
			return nil
		}
	} else if snap.State != timer.StateCompleted {
		tc.fail(timer.ErrNothingToSave)
		return nil
	}
	return tc.askNotes()
}

func (tc *timerControl) save(notes string) tea.Cmd {
	if tc.saving {
		return nil
	}
	tc.saving = true
	recorder := tc.recorder
	return func() tea.Msg {
		sess, err := recorder.SaveTimer(context.Background(), notes)
		return savedMsg{session: sess, err: err}
	}
}

func (tc *timerControl) handleSaved(msg savedMsg) {
	tc.saving = false
	if msg.err != nil {
		tc.fail(msg.err)
		return
	}
	tc.saved = append(tc.saved, msg.session)
	tc.notify(fmt.Sprintf("Saved %s", output.FormatClock(msg.session.Seconds)))
}

func (tc *timerControl) reset() tea.Cmd {
	snap := tc.coord.Snapshot()
	if !holdsTime(snap) {
		tc.coord.Discard()
		return nil
	}
	prompt := fmt.Sprintf("Discard %s of unsaved time?", output.FormatClock(snap.Seconds))
	return tc.ask(prompt, func() tea.Cmd {
		tc.coord.Discard()
		tc.notify("Timer reset")
		return nil
	})
}

func (tc *timerControl) quit() tea.Cmd {
	snap := tc.coord.Snapshot()
	if !holdsTime(snap) {
		tc.detach()
		return tea.Quit
	}
	prompt := fmt.Sprintf("Quit and discard %s of unsaved time?", output.FormatClock(snap.Seconds))
	return tc.ask(prompt, func() tea.Cmd {
		tc.coord.Discard()
		tc.detach()
		return tea.Quit
	})
}

// statusLine renders the last message or error.
func (tc *timerControl) statusLine() string {
	switch {
	case tc.saving:
		return StyleMuted.Render("Saving...")
	case tc.err != nil:
		return StyleError.Render(fmt.Sprintf("Error: %v", tc.err))
	case tc.message != "":
		return StyleSuccess.Render(tc.message)
	}
	return ""
}
