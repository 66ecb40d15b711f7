package model

import (
	"fmt"
	"sort"
	"time"
)

// Activity is a trackable unit of work that belongs to exactly one course or
// project.
type Activity struct {
	Key         string     `json:"key"`
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	ParentKind  ParentKind `json:"parent_kind"`
	ParentID    string     `json:"parent_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SetKey sets the database key for this activity.
func (a *Activity) SetKey(key string) {
	a.Key = key
}

// GetKey returns the database key for this activity.
func (a *Activity) GetKey() string {
	return a.Key
}

// GenerateActivityKey generates a database key for an activity.
func GenerateActivityKey(userID, id string) string {
	return fmt.Sprintf("%s:%s:%s", PrefixActivity, userID, id)
}

// NewActivity creates a new activity under the given parent.
func NewActivity(userID, id, title, description string, parentKind ParentKind, parentID string, now time.Time) *Activity {
	return &Activity{
		Key:         GenerateActivityKey(userID, id),
		ID:          id,
		UserID:      userID,
		Title:       title,
		Description: description,
		ParentKind:  parentKind,
		ParentID:    parentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ActivityRecord is an activity together with its sessions. Backends return
// it from fetches; the tracker store additionally fills in the parent's title
// and color and the revision of the last local change.
type ActivityRecord struct {
	*Activity
	Sessions []*Session `json:"sessions"`

	ParentTitle string `json:"parent_title,omitempty"`
	ParentColor string `json:"parent_color,omitempty"`
	Revision    uint64 `json:"revision"`
}

// TotalSeconds sums the durations of all sessions.
func (r *ActivityRecord) TotalSeconds() int {
	return TotalSeconds(r.Sessions)
}

// Clone returns a copy that shares no mutable state with r.
func (r *ActivityRecord) Clone() *ActivityRecord {
	activity := *r.Activity
	sessions := make([]*Session, len(r.Sessions))
	for i, s := range r.Sessions {
		cp := *s
		sessions[i] = &cp
	}
	return &ActivityRecord{
		Activity:    &activity,
		Sessions:    sessions,
		ParentTitle: r.ParentTitle,
		ParentColor: r.ParentColor,
		Revision:    r.Revision,
	}
}

// SortSessions orders sessions newest first: by occurrence, then creation,
// then id.
func SortSessions(sessions []*Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if !a.OccurredAt.Equal(b.OccurredAt) {
			return a.OccurredAt.After(b.OccurredAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}
