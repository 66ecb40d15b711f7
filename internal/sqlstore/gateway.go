package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/manav03panchal/codetrack/internal/errors"
	"github.com/manav03panchal/codetrack/internal/model"
)

const timeLayout = time.RFC3339Nano

// Gateway stores CodeTrack records in SQLite. Every query filters on
// user_id, so one user's rows are invisible to another.
type Gateway struct {
	db  *sql.DB
	uow UnitOfWork
	now func() time.Time
}

// NewGateway creates a gateway over db.
func NewGateway(db *sql.DB) *Gateway {
	return &Gateway{db: db, uow: NewUnitOfWork(db), now: time.Now}
}

// NewGatewayWithUoW creates a gateway whose writes go through uow.
func NewGatewayWithUoW(db *sql.DB, uow UnitOfWork) *Gateway {
	return &Gateway{db: db, uow: uow, now: time.Now}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
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

// affected turns a zero-row write into a not-found error.
func affected(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return missing
	}
	return nil
}

func rowExists(ctx context.Context, q DBTX, query string, args ...any) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, query, args...).Scan(&one)
	if stderrors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Provision creates the user row and seeds one course and one project. It
// does nothing for a user that already exists.
func (g *Gateway) Provision(ctx context.Context, userID, displayName string) (bool, error) {
	if displayName == "" {
		displayName = userID
	}

	created := false
	err := g.uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		exists, err := rowExists(ctx, tx, `SELECT 1 FROM users WHERE id = ?`, userID)
		if err != nil {
			return fmt.Errorf("checking user: %w", err)
		}
		if exists {
			return nil
		}

		now := g.now()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, display_name, created_at) VALUES (?, ?, ?)`,
			userID, displayName, formatTime(now),
		); err != nil {
			return fmt.Errorf("inserting user: %w", err)
		}

		seeds := []*model.Container{
			model.NewContainer(model.KindCourse, userID, uuid.Must(uuid.NewV7()).String(), model.SeedCourseTitle, "", "", now),
			model.NewContainer(model.KindProject, userID, uuid.Must(uuid.NewV7()).String(), model.SeedProjectTitle, "", "", now),
		}
		for _, c := range seeds {
			if err := insertContainer(ctx, tx, userID, c); err != nil {
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
	var u model.User
	var createdAt string
	err := g.db.QueryRowContext(ctx,
		`SELECT id, display_name, created_at FROM users WHERE id = ?`, userID,
	).Scan(&u.ID, &u.DisplayName, &createdAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, notFound(errors.ErrUserNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	u.Key = model.GenerateUserKey(u.ID)
	return &u, nil
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
	rows, err := g.db.QueryContext(ctx,
		`SELECT id, title, description, color, created_at, updated_at
		FROM containers WHERE user_id = ? AND kind = ? ORDER BY created_at, id`,
		userID, string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("listing %ss: %w", kind, err)
	}
	defer rows.Close()

	var out []*model.Container
	for rows.Next() {
		c := &model.Container{Kind: kind, UserID: userID}
		var createdAt, updatedAt string
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Color, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", kind, err)
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		c.Key = model.GenerateContainerKey(kind, userID, c.ID)
		out = append(out, c)
	}
	return out, rows.Err()
}

// FetchActivities returns the user's activities with their sessions, read
// in one transaction.
func (g *Gateway) FetchActivities(ctx context.Context, userID string) ([]*model.ActivityRecord, error) {
	var out []*model.ActivityRecord
	err := g.uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		activities, err := scanActivities(ctx, tx, userID)
		if err != nil {
			return err
		}
		sessions, err := scanSessions(ctx, tx, userID)
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

func scanActivities(ctx context.Context, q DBTX, userID string) ([]*model.Activity, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, parent_kind, parent_id, title, description, created_at, updated_at
		FROM activities WHERE user_id = ? ORDER BY created_at, id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	var out []*model.Activity
	for rows.Next() {
		a := &model.Activity{UserID: userID}
		var kind, createdAt, updatedAt string
		if err := rows.Scan(&a.ID, &kind, &a.ParentID, &a.Title, &a.Description, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		a.ParentKind = model.ParentKind(kind)
		if a.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		a.Key = model.GenerateActivityKey(userID, a.ID)
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanSessions(ctx context.Context, q DBTX, userID string) ([]*model.Session, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, activity_id, seconds, occurred_at, notes, source, created_at
		FROM sessions WHERE user_id = ? ORDER BY occurred_at DESC, id DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var out []*model.Session
	for rows.Next() {
		s := &model.Session{UserID: userID}
		var source, occurredAt, createdAt string
		if err := rows.Scan(&s.ID, &s.ActivityID, &s.Seconds, &occurredAt, &s.Notes, &source, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		s.Source = model.SessionSource(source)
		if s.OccurredAt, err = parseTime(occurredAt); err != nil {
			return nil, err
		}
		if s.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		s.Key = model.GenerateSessionKey(userID, s.ActivityID, s.ID)
		out = append(out, s)
	}
	return out, rows.Err()
}

func insertContainer(ctx context.Context, q DBTX, userID string, c *model.Container) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO containers (id, user_id, kind, title, description, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, userID, string(c.Kind), c.Title, c.Description, c.Color,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting %s: %w", c.Kind, err)
	}
	c.UserID = userID
	c.Key = model.GenerateContainerKey(c.Kind, userID, c.ID)
	return nil
}

// CreateContainer stores a new course or project.
func (g *Gateway) CreateContainer(ctx context.Context, userID string, c *model.Container) error {
	return insertContainer(ctx, g.db, userID, c)
}

// UpdateContainer replaces an existing course or project.
func (g *Gateway) UpdateContainer(ctx context.Context, userID string, c *model.Container) error {
	res, err := g.db.ExecContext(ctx,
		`UPDATE containers SET title = ?, description = ?, color = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND kind = ?`,
		c.Title, c.Description, c.Color, formatTime(c.UpdatedAt),
		c.ID, userID, string(c.Kind),
	)
	if err != nil {
		return fmt.Errorf("updating %s: %w", c.Kind, err)
	}
	if err := affected(res, notFound(containerNotFound(c.Kind), c.ID)); err != nil {
		return err
	}
	c.UserID = userID
	c.Key = model.GenerateContainerKey(c.Kind, userID, c.ID)
	return nil
}

// DeleteContainer removes a course or project. Its activities and their
// sessions go with it through ON DELETE CASCADE.
func (g *Gateway) DeleteContainer(ctx context.Context, userID string, kind model.ParentKind, id string) error {
	res, err := g.db.ExecContext(ctx,
		`DELETE FROM containers WHERE id = ? AND user_id = ? AND kind = ?`,
		id, userID, string(kind),
	)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", kind, err)
	}
	return affected(res, notFound(containerNotFound(kind), id))
}

func requireParent(ctx context.Context, q DBTX, userID string, a *model.Activity) error {
	if !a.ParentKind.Valid() {
		return errors.ErrParentRequired
	}
	exists, err := rowExists(ctx, q,
		`SELECT 1 FROM containers WHERE id = ? AND user_id = ? AND kind = ?`,
		a.ParentID, userID, string(a.ParentKind),
	)
	if err != nil {
		return fmt.Errorf("checking parent: %w", err)
	}
	if !exists {
		return notFound(containerNotFound(a.ParentKind), a.ParentID)
	}
	return nil
}

// CreateActivity stores a new activity. Its parent must exist.
func (g *Gateway) CreateActivity(ctx context.Context, userID string, a *model.Activity) error {
	return g.uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		if err := requireParent(ctx, tx, userID, a); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO activities (id, user_id, parent_kind, parent_id, title, description, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, userID, string(a.ParentKind), a.ParentID, a.Title, a.Description,
			formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
		); err != nil {
			return fmt.Errorf("inserting activity: %w", err)
		}
		a.UserID = userID
		a.Key = model.GenerateActivityKey(userID, a.ID)
		return nil
	})
}

// UpdateActivity replaces an existing activity.
func (g *Gateway) UpdateActivity(ctx context.Context, userID string, a *model.Activity) error {
	return g.uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		exists, err := rowExists(ctx, tx, `SELECT 1 FROM activities WHERE id = ? AND user_id = ?`, a.ID, userID)
		if err != nil {
			return fmt.Errorf("checking activity: %w", err)
		}
		if !exists {
			return notFound(errors.ErrActivityNotFound, a.ID)
		}
		if err := requireParent(ctx, tx, userID, a); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE activities SET parent_kind = ?, parent_id = ?, title = ?, description = ?, updated_at = ?
			WHERE id = ? AND user_id = ?`,
			string(a.ParentKind), a.ParentID, a.Title, a.Description, formatTime(a.UpdatedAt),
			a.ID, userID,
		); err != nil {
			return fmt.Errorf("updating activity: %w", err)
		}
		a.UserID = userID
		a.Key = model.GenerateActivityKey(userID, a.ID)
		return nil
	})
}

// DeleteActivity removes an activity and, by cascade, its sessions.
func (g *Gateway) DeleteActivity(ctx context.Context, userID, id string) error {
	res, err := g.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting activity: %w", err)
	}
	return affected(res, notFound(errors.ErrActivityNotFound, id))
}

// CreateSession stores a new session. Its activity must exist.
func (g *Gateway) CreateSession(ctx context.Context, userID string, s *model.Session) error {
	return g.uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		exists, err := rowExists(ctx, tx, `SELECT 1 FROM activities WHERE id = ? AND user_id = ?`, s.ActivityID, userID)
		if err != nil {
			return fmt.Errorf("checking activity: %w", err)
		}
		if !exists {
			return notFound(errors.ErrActivityNotFound, s.ActivityID)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (id, user_id, activity_id, seconds, occurred_at, notes, source, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ID, userID, s.ActivityID, s.Seconds, formatTime(s.OccurredAt), s.Notes, string(s.Source),
			formatTime(s.CreatedAt),
		); err != nil {
			return fmt.Errorf("inserting session: %w", err)
		}
		s.UserID = userID
		s.Key = model.GenerateSessionKey(userID, s.ActivityID, s.ID)
		return nil
	})
}

// DeleteSession removes one session.
func (g *Gateway) DeleteSession(ctx context.Context, userID, activityID, sessionID string) error {
	res, err := g.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE id = ? AND activity_id = ? AND user_id = ?`,
		sessionID, activityID, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return affected(res, notFound(errors.ErrSessionNotFound, sessionID))
}
