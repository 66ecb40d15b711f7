package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ParentKind identifies which kind of container an activity belongs to.
type ParentKind string

const (
	KindCourse  ParentKind = "course"
	KindProject ParentKind = "project"
)

// Valid reports whether k is a known container kind.
func (k ParentKind) Valid() bool {
	return k == KindCourse || k == KindProject
}

// Prefix returns the key prefix used for containers of this kind.
func (k ParentKind) Prefix() string {
	if k == KindCourse {
		return PrefixCourse
	}
	return PrefixProject
}

// Label returns the capitalized kind name for display.
func (k ParentKind) Label() string {
	switch k {
	case KindCourse:
		return "Course"
	case KindProject:
		return "Project"
	default:
		return "Unknown"
	}
}

// ParseParentKind parses "course" or "project" (case-insensitive, plural allowed).
func ParseParentKind(s string) (ParentKind, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s") {
	case "course":
		return KindCourse, nil
	case "project":
		return KindProject, nil
	default:
		return "", fmt.Errorf("unknown parent kind %q (use course or project)", s)
	}
}

// Container is a course or a project. Both share the same shape and act as
// the parent of zero or more activities.
type Container struct {
	Key         string     `json:"key"`
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Kind        ParentKind `json:"kind"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Color       string     `json:"color,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SetKey sets the database key for this container.
func (c *Container) SetKey(key string) {
	c.Key = key
}

// GetKey returns the database key for this container.
func (c *Container) GetKey() string {
	return c.Key
}

// GenerateContainerKey generates a database key for a course or project.
func GenerateContainerKey(kind ParentKind, userID, id string) string {
	return fmt.Sprintf("%s:%s:%s", kind.Prefix(), userID, id)
}

// NewContainer creates a new course or project.
func NewContainer(kind ParentKind, userID, id, title, description, color string, now time.Time) *Container {
	return &Container{
		Key:         GenerateContainerKey(kind, userID, id),
		ID:          id,
		UserID:      userID,
		Kind:        kind,
		Title:       title,
		Description: description,
		Color:       color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// hexColorRegex validates hex color format.
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateColor checks if a color string is a valid hex color.
func ValidateColor(color string) bool {
	if color == "" {
		return true
	}
	return hexColorRegex.MatchString(color)
}
