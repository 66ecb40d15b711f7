package model

import (
	"fmt"
	"time"
)

// SessionSource records how a session was produced.
type SessionSource string

const (
	SourceTimer  SessionSource = "timer"
	SourceManual SessionSource = "manual"
)

// Session is one completed or manually logged interval of time applied to an
// activity. Sessions are created and deleted, never updated in place.
type Session struct {
	Key        string        `json:"key"`
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	ActivityID string        `json:"activity_id"`
	Seconds    int           `json:"duration"`
	OccurredAt time.Time     `json:"occurred_at"`
	Notes      string        `json:"notes,omitempty"`
	Source     SessionSource `json:"source,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// SetKey sets the database key for this session.
func (s *Session) SetKey(key string) {
	s.Key = key
}

// GetKey returns the database key for this session.
func (s *Session) GetKey() string {
	return s.Key
}

// Duration returns the session length as a time.Duration.
func (s *Session) Duration() time.Duration {
	return time.Duration(s.Seconds) * time.Second
}

// GenerateSessionKey generates a database key for a session. Sessions are
// nested under their activity so they can be scanned and removed together.
func GenerateSessionKey(userID, activityID, id string) string {
	return fmt.Sprintf("%s:%s:%s:%s", PrefixSession, userID, activityID, id)
}

// SessionActivityPrefix returns the key prefix covering every session of an activity.
func SessionActivityPrefix(userID, activityID string) string {
	return fmt.Sprintf("%s:%s:%s:", PrefixSession, userID, activityID)
}

// NewSession creates a new session for an activity.
func NewSession(userID, activityID, id string, seconds int, occurredAt time.Time, notes string, source SessionSource, now time.Time) *Session {
	return &Session{
		Key:        GenerateSessionKey(userID, activityID, id),
		ID:         id,
		UserID:     userID,
		ActivityID: activityID,
		Seconds:    seconds,
		OccurredAt: occurredAt,
		Notes:      notes,
		Source:     source,
		CreatedAt:  now,
	}
}

// TotalSeconds sums the durations of the given sessions.
func TotalSeconds(sessions []*Session) int {
	total := 0
	for _, s := range sessions {
		total += s.Seconds
	}
	return total
}
