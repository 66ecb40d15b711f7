package timer

import (
	"fmt"
	"sync"

	"github.com/manav03panchal/codetrack/internal/errors"
)

// Coordinator is the single owner of the stopwatch. Every caller that wants
// to time an activity goes through it, so at most one activity holds
// unsaved time.
type Coordinator struct {
	mu sync.Mutex
	sw *Stopwatch
}

// NewCoordinator creates a coordinator owning sw.
func NewCoordinator(sw *Stopwatch) *Coordinator {
	return &Coordinator{sw: sw}
}

// Stopwatch returns the owned stopwatch.
func (c *Coordinator) Stopwatch() *Stopwatch {
	return c.sw
}

// Snapshot returns the stopwatch state.
func (c *Coordinator) Snapshot() Snapshot {
	return c.sw.Snapshot()
}

// StartFor starts or resumes timing activityID. Switching activities is only
// allowed while the stopwatch holds no time.
func (c *Coordinator) StartFor(activityID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.sw.Snapshot()
	if snap.ActivityID != "" && snap.ActivityID != activityID {
		if snap.Seconds > 0 {
			return fmt.Errorf("%w: %s", errors.ErrTimerBusy, snap.ActivityID)
		}
		c.sw.Reset()
		snap = c.sw.Snapshot()
	}

	switch snap.State {
	case StateRunning:
		return nil
	case StateCompleted:
		return fmt.Errorf("%w: save or discard the completed timer first", ErrInvalidTransition)
	}

	c.sw.SetActivity(activityID)
	return c.sw.Start()
}

// Toggle pauses a running stopwatch and resumes a paused or ready one.
func (c *Coordinator) Toggle() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.sw.Snapshot()
	if snap.ActivityID == "" {
		return ErrNoActivity
	}
	if snap.State == StateRunning {
		return c.sw.Pause()
	}
	return c.sw.Start()
}

// Complete freezes the stopwatch.
func (c *Coordinator) Complete() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sw.Complete()
}

// Finish completes the stopwatch unless it already is and reports the
// activity and seconds to record. The stopwatch keeps its time until
// Discard is called.
func (c *Coordinator) Finish() (string, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.sw.Snapshot()
	if snap.ActivityID == "" {
		return "", 0, ErrNoActivity
	}
	if snap.State != StateCompleted {
		if _, err := c.sw.Complete(); err != nil {
			return "", 0, err
		}
		snap = c.sw.Snapshot()
	}
	return snap.ActivityID, snap.Seconds, nil
}

// Discard resets the stopwatch, dropping any unsaved time.
func (c *Coordinator) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sw.Reset()
}

// NeedsConfirmation reports whether discarding now would lose time.
func (c *Coordinator) NeedsConfirmation() bool {
	return c.sw.NeedsConfirmation()
}
