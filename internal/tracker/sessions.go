package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/manav03panchal/codetrack/internal/errors"
	"github.com/manav03panchal/codetrack/internal/logging"
	"github.com/manav03panchal/codetrack/internal/model"
	"github.com/manav03panchal/codetrack/internal/validate"
)

// SessionInput describes a session to record.
type SessionInput struct {
	ActivityID string
	Seconds    int
	Notes      string
	// OccurredAt defaults to now.
	OccurredAt time.Time
	// Source defaults to manual.
	Source model.SessionSource
}

// RecordSession saves a session and adds it to its activity. Nothing changes
// locally unless the backend accepts it.
func (s *Store) RecordSession(ctx context.Context, in SessionInput) (*model.Session, error) {
	if err := s.requireUser(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.activities[in.ActivityID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrActivityNotFound, in.ActivityID)
	}
	if err := validate.Seconds(in.Seconds); err != nil {
		return nil, err
	}
	notes := validate.SanitizeNote(in.Notes)
	if err := validate.Note(notes); err != nil {
		return nil, err
	}

	now := s.now()
	occurred := in.OccurredAt
	if occurred.IsZero() {
		occurred = now
	}
	source := in.Source
	if source == "" {
		source = model.SourceManual
	}

	sess := model.NewSession(s.userID, rec.ID, s.newID(), in.Seconds, occurred, notes, source, now)
	if err := s.backend.CreateSession(ctx, s.userID, sess); err != nil {
		s.logger(ctx).Error().Err(err).
			Str(logging.KeyActivity, rec.ID).
			Int(logging.KeySeconds, in.Seconds).
			Msg("record session failed")
		return nil, systemError("record session", "failed to save session", err)
	}

	rec.Sessions = append([]*model.Session{sess}, rec.Sessions...)
	model.SortSessions(rec.Sessions)
	rev := s.commit(rec)

	s.logger(ctx).Debug().
		Str(logging.KeyActivity, rec.ID).
		Str(logging.KeySession, sess.ID).
		Int(logging.KeySeconds, sess.Seconds).
		Uint64(logging.KeyRevision, rev).
		Msg("session recorded")

	cp := *sess
	return &cp, nil
}

// DeleteSession removes the session at index (0 is the newest) from an
// activity and returns it.
func (s *Store) DeleteSession(ctx context.Context, activityID string, index int) (*model.Session, error) {
	if err := s.requireUser(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.activities[activityID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrActivityNotFound, activityID)
	}
	if index < 0 || index >= len(rec.Sessions) {
		return nil, fmt.Errorf("%w: index %d of %d", errors.ErrSessionNotFound, index, len(rec.Sessions))
	}

	sess := rec.Sessions[index]
	if err := s.backend.DeleteSession(ctx, s.userID, rec.ID, sess.ID); err != nil {
		s.logger(ctx).Error().Err(err).
			Str(logging.KeyActivity, rec.ID).
			Str(logging.KeySession, sess.ID).
			Msg("delete session failed")
		return nil, systemError("delete session", "failed to delete session", err)
	}

	rec.Sessions = append(rec.Sessions[:index:index], rec.Sessions[index+1:]...)
	s.commit(rec)

	cp := *sess
	return &cp, nil
}

// IndexOf returns the position of a session in its activity's list, or -1.
func IndexOf(rec *model.ActivityRecord, sessionID string) int {
	for i, sess := range rec.Sessions {
		if sess.ID == sessionID {
			return i
		}
	}
	return -1
}

// =============================================================================
// Timer recording
// =============================================================================

// Timer is the stopwatch side of a save: Finish freezes it and reports what
// to record, Discard clears it.
type Timer interface {
	Finish() (activityID string, seconds int, err error)
	Discard()
}

// Recorder saves stopwatch time as sessions.
type Recorder struct {
	store *Store
	timer Timer
}

// NewRecorder creates a recorder.
func NewRecorder(store *Store, timer Timer) *Recorder {
	return &Recorder{store: store, timer: timer}
}

// SaveTimer records the stopwatch time with notes. The stopwatch is cleared
// only after the session is saved; on failure it keeps its time for a retry.
func (r *Recorder) SaveTimer(ctx context.Context, notes string) (*model.Session, error) {
	activityID, seconds, err := r.timer.Finish()
	if err != nil {
		return nil, err
	}

	sess, err := r.store.RecordSession(ctx, SessionInput{
		ActivityID: activityID,
		Seconds:    seconds,
		Notes:      notes,
		Source:     model.SourceTimer,
	})
	if err != nil {
		return nil, err
	}

	r.timer.Discard()
	return sess, nil
}
