package model

import (
	"fmt"
	"time"
)

// User is the owner of every course, project, activity and session.
type User struct {
	Key         string    `json:"key"`
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// SetKey sets the database key for this user.
func (u *User) SetKey(key string) {
	u.Key = key
}

// GetKey returns the database key for this user.
func (u *User) GetKey() string {
	return u.Key
}

// GenerateUserKey generates a database key for a user.
func GenerateUserKey(userID string) string {
	return fmt.Sprintf("%s:%s", PrefixUser, userID)
}

// NewUser creates a new user record.
func NewUser(id, displayName string, now time.Time) *User {
	return &User{
		Key:         GenerateUserKey(id),
		ID:          id,
		DisplayName: displayName,
		CreatedAt:   now,
	}
}

// Starter records created for every new user.
const (
	SeedCourseTitle  = "Intro to Programming"
	SeedProjectTitle = "Portfolio Website"
)
