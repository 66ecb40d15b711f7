// Package model defines the domain models for CodeTrack.
package model

// Model is the interface that all database models must implement.
type Model interface {
	// SetKey sets the database key for this model.
	SetKey(key string)
	// GetKey returns the database key for this model.
	GetKey() string
}

// KeyPrefix constants for database key generation.
// Every per-user record is keyed as "<prefix>:<userID>:...".
const (
	PrefixUser     = "user"
	PrefixCourse   = "course"
	PrefixProject  = "project"
	PrefixActivity = "activity"
	PrefixSession  = "session"
)
