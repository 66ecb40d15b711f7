// Package tracker holds the in-memory view of a user's courses, projects,
// activities and sessions and routes every change through a Backend.
package tracker

import (
	"context"

	"github.com/manav03panchal/codetrack/internal/model"
)

// Backend is the persistence collaborator. Every call is scoped to userID;
// touching another user's record reports errors.ErrNotFound.
type Backend interface {
	FetchCourses(ctx context.Context, userID string) ([]*model.Container, error)
	FetchProjects(ctx context.Context, userID string) ([]*model.Container, error)
	// FetchActivities returns every activity with its sessions.
	FetchActivities(ctx context.Context, userID string) ([]*model.ActivityRecord, error)

	CreateContainer(ctx context.Context, userID string, c *model.Container) error
	UpdateContainer(ctx context.Context, userID string, c *model.Container) error
	// DeleteContainer also removes the container's activities and their sessions.
	DeleteContainer(ctx context.Context, userID string, kind model.ParentKind, id string) error

	CreateActivity(ctx context.Context, userID string, a *model.Activity) error
	UpdateActivity(ctx context.Context, userID string, a *model.Activity) error
	// DeleteActivity also removes the activity's sessions.
	DeleteActivity(ctx context.Context, userID, id string) error

	CreateSession(ctx context.Context, userID string, s *model.Session) error
	DeleteSession(ctx context.Context, userID, activityID, sessionID string) error
}

// Provisioner creates a user on first use and seeds starter records.
type Provisioner interface {
	Provision(ctx context.Context, userID, displayName string) (created bool, err error)
}
