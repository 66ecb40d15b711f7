package storage

import (
	"context"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/manav03panchal/codetrack/internal/errors"
	"github.com/manav03panchal/codetrack/internal/model"
)

// Gateway stores CodeTrack records in Badger. Keys embed the user id, so a
// lookup under one user can never see another user's records.
type Gateway struct {
	db  *DB
	now func() time.Time
}

// NewGateway creates a gateway over db.
func NewGateway(db *DB) *Gateway {
	return &Gateway{db: db, now: time.Now}
}

func userPrefix(prefix, userID string) string {
	return fmt.Sprintf("%s:%s:", prefix, userID)
}

func notFound(sentinel error, id string) error {
	return fmt.Errorf("%w: %s", sentinel, id)
}

func containerNotFound(kind model.ParentKind) error {
	if kind == model.KindProject {
		return errors.ErrProjectNotFound
	}
	return errors.ErrCourseNotFound
}

// Provision creates the user record and seeds one course and one project.
// It does nothing for a user that already exists.
func (g *Gateway) Provision(ctx context.Context, userID, displayName string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if displayName == "" {
		displayName = userID
	}

	created := false
	err := g.db.db.Update(func(txn *badger.Txn) error {
		exists, err := existsTxn(txn, model.GenerateUserKey(userID))
		if err != nil || exists {
			return err
		}

		now := g.now()
		records := []model.Model{
			model.NewUser(userID, displayName, now),
			model.NewContainer(model.KindCourse, userID, uuid.Must(uuid.NewV7()).String(), model.SeedCourseTitle, "", "", now),
			model.NewContainer(model.KindProject, userID, uuid.Must(uuid.NewV7()).String(), model.SeedProjectTitle, "", "", now),
		}
		for _, r := range records {
			if err := setTxn(txn, r); err != nil {
				return err
			}
		}
		created = true
		return nil
	})
	return created, err
}

// User returns a user record.
func (g *Gateway) User(ctx context.Context, userID string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u := &model.User{}
	if err := g.db.Get(model.GenerateUserKey(userID), u); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, notFound(errors.ErrUserNotFound, userID)
		}
		return nil, err
	}
	return u, nil
}

// FetchCourses returns the user's courses.
func (g *Gateway) FetchCourses(ctx context.Context, userID string) ([]*model.Container, error) {
	return g.fetchContainers(ctx, model.KindCourse, userID)
}

// FetchProjects returns the user's projects.
func (g *Gateway) FetchProjects(ctx context.Context, userID string) ([]*model.Container, error) {
	return g.fetchContainers(ctx, model.KindProject, userID)
}

func (g *Gateway) fetchContainers(ctx context.Context, kind model.ParentKind, userID string) ([]*model.Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return GetAllByPrefix(g.db, userPrefix(kind.Prefix(), userID), func() *model.Container {
		return &model.Container{}
	})
}

// FetchActivities returns the user's activities with their sessions, read
// in one transaction.
func (g *Gateway) FetchActivities(ctx context.Context, userID string) ([]*model.ActivityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []*model.ActivityRecord
	err := g.db.db.View(func(txn *badger.Txn) error {
		activities, err := scanTxn(txn, userPrefix(model.PrefixActivity, userID), func() *model.Activity {
			return &model.Activity{}
		})
		if err != nil {
			return err
		}
		sessions, err := scanTxn(txn, userPrefix(model.PrefixSession, userID), func() *model.Session {
			return &model.Session{}
		})
		if err != nil {
			return err
		}

		byActivity := make(map[string][]*model.Session)
		for _, s := range sessions {
			byActivity[s.ActivityID] = append(byActivity[s.ActivityID], s)
		}

		out = make([]*model.ActivityRecord, 0, len(activities))
		for _, a := range activities {
			out = append(out, &model.ActivityRecord{Activity: a, Sessions: byActivity[a.ID]})
		}
		return nil
	})
	return out, err
}

// CreateContainer stores a new course or project.
func (g *Gateway) CreateContainer(ctx context.Context, userID string, c *model.Container) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.UserID = userID
	c.Key = model.GenerateContainerKey(c.Kind, userID, c.ID)
	return g.db.Set(c)
}

// UpdateContainer replaces an existing course or project.
func (g *Gateway) UpdateContainer(ctx context.Context, userID string, c *model.Container) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := model.GenerateContainerKey(c.Kind, userID, c.ID)
	return g.db.db.Update(func(txn *badger.Txn) error {
		exists, err := existsTxn(txn, key)
		if err != nil {
			return err
		}
		if !exists {
			return notFound(containerNotFound(c.Kind), c.ID)
		}
		c.UserID = userID
		c.Key = key
		return setTxn(txn, c)
	})
}

// DeleteContainer removes a course or project together with its activities
// and their sessions.
func (g *Gateway) DeleteContainer(ctx context.Context, userID string, kind model.ParentKind, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := model.GenerateContainerKey(kind, userID, id)
	return g.db.db.Update(func(txn *badger.Txn) error {
		exists, err := existsTxn(txn, key)
		if err != nil {
			return err
		}
		if !exists {
			return notFound(containerNotFound(kind), id)
		}

		activities, err := scanTxn(txn, userPrefix(model.PrefixActivity, userID), func() *model.Activity {
			return &model.Activity{}
		})
		if err != nil {
			return err
		}
		for _, a := range activities {
			if a.ParentKind == kind && a.ParentID == id {
				if err := deleteActivityTxn(txn, userID, a.ID); err != nil {
					return err
				}
			}
		}
		return txn.Delete([]byte(key))
	})
}

// CreateActivity stores a new activity. Its parent must exist.
func (g *Gateway) CreateActivity(ctx context.Context, userID string, a *model.Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return g.db.db.Update(func(txn *badger.Txn) error {
		if err := requireParentTxn(txn, userID, a); err != nil {
			return err
		}
		a.UserID = userID
		a.Key = model.GenerateActivityKey(userID, a.ID)
		return setTxn(txn, a)
	})
}

// UpdateActivity replaces an existing activity.
func (g *Gateway) UpdateActivity(ctx context.Context, userID string, a *model.Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := model.GenerateActivityKey(userID, a.ID)
	return g.db.db.Update(func(txn *badger.Txn) error {
		exists, err := existsTxn(txn, key)
		if err != nil {
			return err
		}
		if !exists {
			return notFound(errors.ErrActivityNotFound, a.ID)
		}
		if err := requireParentTxn(txn, userID, a); err != nil {
			return err
		}
		a.UserID = userID
		a.Key = key
		return setTxn(txn, a)
	})
}

// DeleteActivity removes an activity and its sessions.
func (g *Gateway) DeleteActivity(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return g.db.db.Update(func(txn *badger.Txn) error {
		exists, err := existsTxn(txn, model.GenerateActivityKey(userID, id))
		if err != nil {
			return err
		}
		if !exists {
			return notFound(errors.ErrActivityNotFound, id)
		}
		return deleteActivityTxn(txn, userID, id)
	})
}

func deleteActivityTxn(txn *badger.Txn, userID, id string) error {
	if _, err := deletePrefixTxn(txn, model.SessionActivityPrefix(userID, id)); err != nil {
		return err
	}
	return txn.Delete([]byte(model.GenerateActivityKey(userID, id)))
}

func requireParentTxn(txn *badger.Txn, userID string, a *model.Activity) error {
	if !a.ParentKind.Valid() {
		return errors.ErrParentRequired
	}
	exists, err := existsTxn(txn, model.GenerateContainerKey(a.ParentKind, userID, a.ParentID))
	if err != nil {
		return err
	}
	if !exists {
		return notFound(containerNotFound(a.ParentKind), a.ParentID)
	}
	return nil
}

// CreateSession stores a new session. Its activity must exist.
func (g *Gateway) CreateSession(ctx context.Context, userID string, s *model.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return g.db.db.Update(func(txn *badger.Txn) error {
		exists, err := existsTxn(txn, model.GenerateActivityKey(userID, s.ActivityID))
		if err != nil {
			return err
		}
		if !exists {
			return notFound(errors.ErrActivityNotFound, s.ActivityID)
		}
		s.UserID = userID
		s.Key = model.GenerateSessionKey(userID, s.ActivityID, s.ID)
		return setTxn(txn, s)
	})
}

// DeleteSession removes one session.
func (g *Gateway) DeleteSession(ctx context.Context, userID, activityID, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := model.GenerateSessionKey(userID, activityID, sessionID)
	return g.db.db.Update(func(txn *badger.Txn) error {
		exists, err := existsTxn(txn, key)
		if err != nil {
			return err
		}
		if !exists {
			return notFound(errors.ErrSessionNotFound, sessionID)
		}
		return txn.Delete([]byte(key))
	})
}
