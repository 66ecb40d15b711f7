// Package timer provides the stopwatch used to time study sessions.
package timer

import (
	"fmt"
	"sync"
	"time"

	"github.com/manav03panchal/codetrack/internal/errors"
)

// State is the stopwatch lifecycle state.
type State int

const (
	StateReady State = iota
	StateRunning
	StatePaused
	StateCompleted
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateReady:
		return "READY"
	case StateRunning:
		return "RUNNING"
	case StatePaused:
		return "PAUSED"
	case StateCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

var (
	// ErrNothingToSave is returned when completing a stopwatch with no time on it.
	ErrNothingToSave = errors.New("no time on the stopwatch to save")
	// ErrInvalidTransition is returned for an operation the current state does not allow.
	ErrInvalidTransition = errors.New("invalid timer transition")
	// ErrNoActivity is returned when finishing a stopwatch not bound to an activity.
	ErrNoActivity = errors.New("timer is not attached to an activity")
)

// Event represents events from the stopwatch.
type Event int

const (
	EventTick Event = iota
	EventStarted
	EventPaused
	EventCompleted
	EventReset
)

// Snapshot is a copy of the stopwatch state.
type Snapshot struct {
	State      State
	Seconds    int
	ActivityID string
}

// Callback is called when events occur. It runs outside the stopwatch lock.
type Callback func(event Event, snap Snapshot)

// Ticker is the tick source driving a running stopwatch.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

type stdTicker struct {
	t *time.Ticker
}

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

// NewTicker wraps time.NewTicker.
func NewTicker(d time.Duration) Ticker {
	return stdTicker{t: time.NewTicker(d)}
}

// TickPeriod is the wall-clock time behind each counted second.
const TickPeriod = time.Second

// Option configures a Stopwatch.
type Option func(*Stopwatch)

// WithTicker replaces the tick source.
func WithTicker(f TickerFactory) Option {
	return func(s *Stopwatch) { s.newTicker = f }
}

// WithCallback sets the event callback.
func WithCallback(cb Callback) Option {
	return func(s *Stopwatch) { s.callback = cb }
}

// Stopwatch counts whole seconds for one activity at a time.
//
// Every Start spawns a ticker goroutine tagged with a generation number.
// Pause, Complete and Reset bump the generation, so a tick that was already
// in flight from an earlier run is dropped instead of counted.
type Stopwatch struct {
	mu         sync.Mutex
	state      State
	seconds    int
	activityID string
	generation uint64
	stop       chan struct{}

	newTicker TickerFactory
	callback  Callback
}

// NewStopwatch creates a READY stopwatch.
func NewStopwatch(opts ...Option) *Stopwatch {
	s := &Stopwatch{
		newTicker: NewTicker,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetCallback sets the event callback.
func (s *Stopwatch) SetCallback(cb Callback) {
	s.mu.Lock()
	s.callback = cb
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *Stopwatch) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Stopwatch) snapshotLocked() Snapshot {
	return Snapshot{State: s.state, Seconds: s.seconds, ActivityID: s.activityID}
}

// SetActivity binds the stopwatch to an activity.
func (s *Stopwatch) SetActivity(activityID string) {
	s.mu.Lock()
	s.activityID = activityID
	s.mu.Unlock()
}

// Start begins or resumes counting. Only READY and PAUSED stopwatches start.
func (s *Stopwatch) Start() error {
	s.mu.Lock()
	if s.state != StateReady && s.state != StatePaused {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot start a %s timer", ErrInvalidTransition, state)
	}

	s.cancelLocked()
	s.state = StateRunning
	gen := s.generation
	stop := make(chan struct{})
	s.stop = stop
	ticker := s.newTicker(TickPeriod)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	go s.run(gen, ticker, stop)
	s.emit(EventStarted, snap)
	return nil
}

func (s *Stopwatch) run(gen uint64, t Ticker, stop <-chan struct{}) {
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			if !s.tick(gen) {
				return
			}
		}
	}
}

func (s *Stopwatch) tick(gen uint64) bool {
	s.mu.Lock()
	if gen != s.generation || s.state != StateRunning {
		s.mu.Unlock()
		return false
	}
	s.seconds++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.emit(EventTick, snap)
	return true
}

// Tick adds one second while RUNNING and is a no-op otherwise.
func (s *Stopwatch) Tick() bool {
	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()
	return s.tick(gen)
}

// Pause stops counting and keeps the elapsed seconds.
func (s *Stopwatch) Pause() error {
	s.mu.Lock()
	if s.state != StateRunning {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot pause a %s timer", ErrInvalidTransition, state)
	}
	s.cancelLocked()
	s.state = StatePaused
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.emit(EventPaused, snap)
	return nil
}

// Complete freezes the stopwatch and returns the elapsed seconds. A stopwatch
// with no time on it is left as it is.
func (s *Stopwatch) Complete() (int, error) {
	s.mu.Lock()
	if s.state != StateRunning && s.state != StatePaused {
		state := s.state
		s.mu.Unlock()
		if state == StateReady {
			return 0, ErrNothingToSave
		}
		return 0, fmt.Errorf("%w: cannot complete a %s timer", ErrInvalidTransition, state)
	}
	if s.seconds == 0 {
		s.mu.Unlock()
		return 0, ErrNothingToSave
	}
	s.cancelLocked()
	s.state = StateCompleted
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.emit(EventCompleted, snap)
	return snap.Seconds, nil
}

// Reset clears the stopwatch back to READY from any state.
func (s *Stopwatch) Reset() {
	s.mu.Lock()
	s.cancelLocked()
	s.state = StateReady
	s.seconds = 0
	s.activityID = ""
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.emit(EventReset, snap)
}

// NeedsConfirmation reports whether closing now would lose unsaved time.
func (s *Stopwatch) NeedsConfirmation() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (s.state == StateRunning || s.state == StatePaused) && s.seconds > 0
}

func (s *Stopwatch) cancelLocked() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	s.generation++
}

func (s *Stopwatch) emit(event Event, snap Snapshot) {
	s.mu.Lock()
	cb := s.callback
	s.mu.Unlock()
	if cb != nil {
		cb(event, snap)
	}
}
