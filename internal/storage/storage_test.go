package storage

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/codetrack/internal/errors"
	"github.com/manav03panchal/codetrack/internal/model"
	"github.com/manav03panchal/codetrack/internal/tracker"
)

var _ tracker.Backend = (*Gateway)(nil)
var _ tracker.Provisioner = (*Gateway)(nil)

// Helper to create an in-memory database for testing
func setupTestDB(t *testing.T) *DB {
	db, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func setupGateway(t *testing.T, userID string) (*Gateway, *model.Container, *model.Container) {
	t.Helper()
	g := NewGateway(setupTestDB(t))
	ctx := context.Background()

	created, err := g.Provision(ctx, userID, "")
	require.NoError(t, err)
	require.True(t, created)

	courses, err := g.FetchCourses(ctx, userID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	projects, err := g.FetchProjects(ctx, userID)
	require.NoError(t, err)
	require.Len(t, projects, 1)

	return g, courses[0], projects[0]
}

var now = time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

// =============================================================================
// DB Tests
// =============================================================================

func TestOpenClose(t *testing.T) {
	t.Run("in_memory", func(t *testing.T) {
		db, err := Open(Options{InMemory: true})
		require.NoError(t, err)
		assert.NotNil(t, db.Badger())
		assert.Equal(t, "", db.Path())
		assert.NoError(t, db.Close())
	})

	t.Run("empty_path_uses_in_memory", func(t *testing.T) {
		db, err := Open(Options{Path: ""})
		require.NoError(t, err)
		db.Close()
	})

	t.Run("on_disk_reopen", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "db")

		db, err := Open(Options{Path: dir})
		require.NoError(t, err)
		assert.Equal(t, dir, db.Path())
		require.NoError(t, db.Set(model.NewUser("alice", "Alice", now)))
		require.NoError(t, db.Close())

		db, err = Open(Options{Path: dir})
		require.NoError(t, err)
		defer db.Close()

		u := &model.User{}
		require.NoError(t, db.Get(model.GenerateUserKey("alice"), u))
		assert.Equal(t, "Alice", u.DisplayName)
	})

	t.Run("locked_by_another_handle", func(t *testing.T) {
		dir := t.TempDir()
		db, err := Open(Options{Path: dir})
		require.NoError(t, err)
		defer db.Close()

		_, err = Open(Options{Path: dir})
		require.Error(t, err)
		assert.True(t, errors.IsSystemError(err))
	})
}

func TestIsDatabaseCorrupted(t *testing.T) {
	assert.False(t, IsDatabaseCorrupted(nil))
	assert.True(t, IsDatabaseCorrupted(errors.ErrDatabaseCorrupted))
	assert.True(t, IsDatabaseCorrupted(stderrors.New("MANIFEST has CRC checksum mismatch")))
	assert.False(t, IsDatabaseCorrupted(stderrors.New("permission denied")))
}

// =============================================================================
// CRUD Tests
// =============================================================================

func TestCRUD(t *testing.T) {
	db := setupTestDB(t)
	c := model.NewContainer(model.KindCourse, "alice", "c1", "Algorithms", "", "", now)

	require.NoError(t, db.Set(c))

	exists, err := db.Exists(c.Key)
	require.NoError(t, err)
	assert.True(t, exists)

	got := &model.Container{}
	require.NoError(t, db.Get(c.Key, got))
	assert.Equal(t, "Algorithms", got.Title)
	assert.Equal(t, c.Key, got.Key)

	keys, err := db.ListByPrefix("course:alice:")
	require.NoError(t, err)
	assert.Equal(t, []string{c.Key}, keys)

	require.NoError(t, db.Delete(c.Key))
	err = db.Get(c.Key, got)
	assert.True(t, IsErrKeyNotFound(err))

	exists, err = db.Exists(c.Key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetAllByPrefixIsolatesUsers(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Set(model.NewContainer(model.KindCourse, "al", "c1", "Mine", "", "", now)))
	require.NoError(t, db.Set(model.NewContainer(model.KindCourse, "alice", "c2", "Not mine", "", "", now)))

	got, err := GetAllByPrefix(db, userPrefix(model.PrefixCourse, "al"), func() *model.Container {
		return &model.Container{}
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Mine", got[0].Title)
}

// =============================================================================
// Gateway Tests
// =============================================================================

func TestProvision(t *testing.T) {
	g, course, project := setupGateway(t, "alice")
	ctx := context.Background()

	assert.Equal(t, model.SeedCourseTitle, course.Title)
	assert.Equal(t, model.SeedProjectTitle, project.Title)

	u, err := g.User(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.DisplayName)

	created, err := g.Provision(ctx, "alice", "Alice")
	require.NoError(t, err)
	assert.False(t, created)

	courses, err := g.FetchCourses(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, courses, 1, "second provision must not seed again")

	_, err = g.User(ctx, "bob")
	assert.ErrorIs(t, err, errors.ErrUserNotFound)
}

func TestFetchForNewUserIsEmpty(t *testing.T) {
	g := NewGateway(setupTestDB(t))
	ctx := context.Background()

	courses, err := g.FetchCourses(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, courses)

	activities, err := g.FetchActivities(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, activities)
}

func TestActivityAndSessions(t *testing.T) {
	g, course, _ := setupGateway(t, "alice")
	ctx := context.Background()

	a := model.NewActivity("alice", "a1", "Trees", "", model.KindCourse, course.ID, now)
	require.NoError(t, g.CreateActivity(ctx, "alice", a))

	s1 := model.NewSession("alice", "a1", "s1", 600, now, "", model.SourceManual, now)
	s2 := model.NewSession("alice", "a1", "s2", 8100, now, "notes", model.SourceTimer, now)
	require.NoError(t, g.CreateSession(ctx, "alice", s1))
	require.NoError(t, g.CreateSession(ctx, "alice", s2))

	recs, err := g.FetchActivities(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Trees", recs[0].Title)
	assert.Equal(t, 8700, recs[0].TotalSeconds())

	require.NoError(t, g.DeleteSession(ctx, "alice", "a1", "s1"))
	recs, err = g.FetchActivities(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 8100, recs[0].TotalSeconds())

	err = g.DeleteSession(ctx, "alice", "a1", "s1")
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)

	a.Title = "Binary Trees"
	require.NoError(t, g.UpdateActivity(ctx, "alice", a))

	require.NoError(t, g.DeleteActivity(ctx, "alice", "a1"))
	recs, err = g.FetchActivities(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, recs)

	keys, err := g.db.ListByPrefix(model.SessionActivityPrefix("alice", "a1"))
	require.NoError(t, err)
	assert.Empty(t, keys, "sessions removed with their activity")
}

func TestCreateActivityRequiresParent(t *testing.T) {
	g, _, _ := setupGateway(t, "alice")

	a := model.NewActivity("alice", "a1", "Trees", "", model.KindProject, "missing", now)
	err := g.CreateActivity(context.Background(), "alice", a)
	assert.ErrorIs(t, err, errors.ErrProjectNotFound)
	assert.True(t, errors.IsNotFound(err))

	s := model.NewSession("alice", "a1", "s1", 60, now, "", model.SourceManual, now)
	assert.ErrorIs(t, g.CreateSession(context.Background(), "alice", s), errors.ErrActivityNotFound)
}

func TestUserScoping(t *testing.T) {
	g, course, _ := setupGateway(t, "alice")
	ctx := context.Background()

	a := model.NewActivity("alice", "a1", "Trees", "", model.KindCourse, course.ID, now)
	require.NoError(t, g.CreateActivity(ctx, "alice", a))

	_, err := g.Provision(ctx, "bob", "Bob")
	require.NoError(t, err)

	recs, err := g.FetchActivities(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, recs)

	assert.ErrorIs(t, g.DeleteActivity(ctx, "bob", "a1"), errors.ErrNotFound)
	assert.ErrorIs(t, g.UpdateActivity(ctx, "bob", a), errors.ErrNotFound)
	assert.ErrorIs(t, g.DeleteContainer(ctx, "bob", model.KindCourse, course.ID), errors.ErrNotFound)
}

func TestContainerCRUD(t *testing.T) {
	g, course, _ := setupGateway(t, "alice")
	ctx := context.Background()

	c := model.NewContainer(model.KindProject, "alice", "p2", "CLI Tool", "", "#10B981", now)
	require.NoError(t, g.CreateContainer(ctx, "alice", c))

	c.Title = "CLI Tools"
	require.NoError(t, g.UpdateContainer(ctx, "alice", c))

	projects, err := g.FetchProjects(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, projects, 2)

	missing := model.NewContainer(model.KindCourse, "alice", "nope", "x", "", "", now)
	assert.ErrorIs(t, g.UpdateContainer(ctx, "alice", missing), errors.ErrCourseNotFound)

	// Deleting a course cascades to its activities and their sessions.
	a := model.NewActivity("alice", "a1", "Trees", "", model.KindCourse, course.ID, now)
	require.NoError(t, g.CreateActivity(ctx, "alice", a))
	require.NoError(t, g.CreateSession(ctx, "alice", model.NewSession("alice", "a1", "s1", 60, now, "", model.SourceManual, now)))

	require.NoError(t, g.DeleteContainer(ctx, "alice", model.KindCourse, course.ID))

	courses, err := g.FetchCourses(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, courses)
	recs, err := g.FetchActivities(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, recs)
	keys, err := g.db.ListByPrefix(userPrefix(model.PrefixSession, "alice"))
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestCancelledContext(t *testing.T) {
	g := NewGateway(setupTestDB(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.FetchActivities(ctx, "alice")
	assert.ErrorIs(t, err, context.Canceled)
}

// =============================================================================
// Store integration
// =============================================================================

func TestStoreOverBadger(t *testing.T) {
	g := NewGateway(setupTestDB(t))
	ctx := context.Background()

	store := tracker.NewStore(g, "alice")
	require.NoError(t, store.Init(ctx, "Alice"))

	courses := store.Courses()
	require.Len(t, courses, 1)

	rec, err := store.CreateActivity(ctx, tracker.ActivityInput{Title: "Learn Python", ParentKind: model.KindCourse, ParentID: courses[0].ID})
	require.NoError(t, err)

	_, err = store.RecordSession(ctx, tracker.SessionInput{ActivityID: rec.ID, Seconds: 8100, OccurredAt: now})
	require.NoError(t, err)

	fresh := tracker.NewStore(g, "alice")
	require.NoError(t, fresh.Load(ctx))
	got, err := fresh.FindActivity("learn python")
	require.NoError(t, err)
	assert.Equal(t, 8100, got.TotalSeconds())
	assert.Equal(t, model.SeedCourseTitle, got.ParentTitle)
}
