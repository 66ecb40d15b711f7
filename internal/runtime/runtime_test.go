package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/codetrack/internal/config"
	"github.com/manav03panchal/codetrack/internal/errors"
	"github.com/manav03panchal/codetrack/internal/model"
	"github.com/manav03panchal/codetrack/internal/output"
	"github.com/manav03panchal/codetrack/internal/timer"
	"github.com/manav03panchal/codetrack/internal/tracker"
)

// isolate points config and data at a temp dir and an in-memory database.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("CODETRACK_DATA_DIR", t.TempDir())
	t.Setenv("CODETRACK_DATABASE", config.MemoryDatabase)
	t.Setenv("CODETRACK_USER", "alice")
	t.Setenv("CODETRACK_BACKEND", "")
}

func newContext(t *testing.T, opts Options) *Context {
	t.Helper()
	c, err := New(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

// =============================================================================
// Context Tests
// =============================================================================

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.NotEmpty(t, opts.ConfigPath)
	assert.Equal(t, output.FormatCLI, opts.Format)
	assert.Equal(t, output.ColorAuto, opts.ColorMode)
	assert.False(t, opts.Debug)
}

func TestNew(t *testing.T) {
	for _, backend := range []string{config.BackendBadger, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			isolate(t)
			c := newContext(t, Options{Backend: backend})

			assert.Equal(t, backend, c.Config.Backend)
			assert.True(t, c.Store.Loaded())
			assert.Equal(t, "alice", c.Store.UserID())
			assert.Len(t, c.Store.Courses(), 1)
			assert.Len(t, c.Store.Projects(), 1)
			assert.Equal(t, timer.StateReady, c.Timer.Snapshot().State)
		})
	}
}

func TestNewWithOptions(t *testing.T) {
	isolate(t)
	c := newContext(t, Options{
		User:      "bob",
		Format:    output.FormatJSON,
		ColorMode: output.ColorNever,
		Debug:     true,
	})

	assert.Equal(t, "bob", c.Store.UserID())
	assert.Equal(t, "bob", c.Config.UserName)
	assert.Equal(t, output.FormatJSON, c.Formatter.Format)
	assert.Equal(t, output.ColorNever, c.Formatter.ColorMode)
	assert.True(t, c.IsJSON())
	assert.True(t, c.Debug)
}

func TestNewRejectsBadFlags(t *testing.T) {
	isolate(t)
	_, err := New(context.Background(), Options{Backend: "postgres"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend")
}

func TestNewWithoutUserDefersLoad(t *testing.T) {
	isolate(t)
	t.Setenv("CODETRACK_USER", "")

	c := newContext(t, Options{})
	assert.False(t, c.Store.Loaded())

	_, err := c.Store.CreateContainer(context.Background(), model.KindCourse, tracker.ContainerInput{Title: "Go"})
	assert.ErrorIs(t, err, errors.ErrNoUser)
}

func TestNewWithConfigFile(t *testing.T) {
	isolate(t)
	t.Setenv("CODETRACK_USER", "")
	os.Unsetenv("CODETRACK_USER")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user: carol\nuser_name: Carol\nbackend: sqlite\n"), 0o644))

	c := newContext(t, Options{ConfigPath: path})
	assert.Equal(t, "carol", c.Store.UserID())
	assert.Equal(t, config.BackendSQLite, c.Config.Backend)
}

func TestDataPersistsAcrossContexts(t *testing.T) {
	for _, backend := range []string{config.BackendBadger, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			t.Setenv("CODETRACK_DATA_DIR", t.TempDir())
			t.Setenv("CODETRACK_DATABASE", "")
			t.Setenv("CODETRACK_USER", "alice")
			ctx := context.Background()

			c, err := New(ctx, Options{Backend: backend})
			require.NoError(t, err)
			course := c.Store.Courses()[0]
			_, err = c.Store.CreateActivity(ctx, tracker.ActivityInput{
				Title: "Binary Trees", ParentKind: model.KindCourse, ParentID: course.ID,
			})
			require.NoError(t, err)
			require.NoError(t, c.Close())

			c = newContext(t, Options{Backend: backend})
			rec, err := c.Store.FindActivity("binary trees")
			require.NoError(t, err)
			assert.Equal(t, course.Title, rec.ParentTitle)
		})
	}
}

func TestRecorderSavesTimer(t *testing.T) {
	isolate(t)
	ticks := make(chan time.Time)
	c := newContext(t, Options{Ticker: func(time.Duration) timer.Ticker { return chanTicker(ticks) }})
	ctx := context.Background()

	rec, err := c.Store.CreateActivity(ctx, tracker.ActivityInput{
		Title: "Loops", ParentKind: model.KindCourse, ParentID: c.Store.Courses()[0].ID,
	})
	require.NoError(t, err)

	require.NoError(t, c.Timer.StartFor(rec.ID))
	ticks <- time.Now()
	ticks <- time.Now()
	require.Eventually(t, func() bool { return c.Timer.Snapshot().Seconds == 2 }, time.Second, 5*time.Millisecond)

	sess, err := c.Recorder.SaveTimer(ctx, "practice")
	require.NoError(t, err)
	assert.Equal(t, 2, sess.Seconds)
	assert.Equal(t, model.SourceTimer, sess.Source)
	assert.Equal(t, timer.StateReady, c.Timer.Snapshot().State)
}

func TestStopwatchCountsWallClockSeconds(t *testing.T) {
	isolate(t)
	t.Setenv("CODETRACK_TICK_INTERVAL", "100ms")

	var requested time.Duration
	c := newContext(t, Options{Ticker: func(d time.Duration) timer.Ticker {
		requested = d
		return chanTicker(make(chan time.Time))
	}})

	rec, err := c.Store.CreateActivity(context.Background(), tracker.ActivityInput{
		Title: "Loops", ParentKind: model.KindCourse, ParentID: c.Store.Courses()[0].ID,
	})
	require.NoError(t, err)
	require.NoError(t, c.Timer.StartFor(rec.ID))
	c.Timer.Discard()

	assert.Equal(t, time.Second, requested)
}

type chanTicker chan time.Time

func (c chanTicker) C() <-chan time.Time { return c }
func (c chanTicker) Stop()               {}

func TestAutoRefreshStopsOnClose(t *testing.T) {
	isolate(t)
	c, err := New(context.Background(), Options{})
	require.NoError(t, err)

	require.NoError(t, c.StartAutoRefresh())
	assert.NoError(t, c.Close())
}

// =============================================================================
// Error rendering
// =============================================================================

func TestFormatError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Empty(t, FormatError(nil, false))
	})

	t.Run("suggestion", func(t *testing.T) {
		err := fmt.Errorf("find: %w", errors.ErrActivityNotFound)
		out := FormatError(err, false)
		assert.Contains(t, out, "✗ find: activity not found")
		assert.Contains(t, out, "codetrack activity list")
	})

	t.Run("examples", func(t *testing.T) {
		out := FormatError(errors.ErrInvalidDuration, false)
		assert.Contains(t, out, "Examples:")
		assert.Contains(t, out, "codetrack log 1h30m")
	})

	t.Run("system", func(t *testing.T) {
		err := errors.NewSystemError("failed to save session", fmt.Errorf("disk"))
		assert.Contains(t, FormatError(err, false), "System error:")
	})

	t.Run("field_errors", func(t *testing.T) {
		var errs criterio.FieldErrorsBuilder
		errs = errs.Append("title", fmt.Errorf("cannot be empty"))
		errs = errs.Append("color", fmt.Errorf("must be #RRGGBB"))
		err := fmt.Errorf("create activity: %w", errs.ToError())

		out := FormatError(err, false)
		assert.Contains(t, out, "╭ Validation Error")
		assert.Contains(t, out, "│ create activity")
		assert.Contains(t, out, "│ ✗ title: cannot be empty")
		assert.Contains(t, out, "│ ✗ color: must be #RRGGBB")
	})
}

func TestReportError(t *testing.T) {
	t.Run("no_context", func(t *testing.T) {
		var buf bytes.Buffer
		ReportError(nil, &buf, errors.ErrTimerBusy)
		assert.Contains(t, buf.String(), "Save or reset the running timer first.")
	})

	t.Run("json", func(t *testing.T) {
		isolate(t)
		c := newContext(t, Options{Format: output.FormatJSON})
		var buf bytes.Buffer
		c.Formatter.Writer = &buf

		ReportError(c, &bytes.Buffer{}, fmt.Errorf("show: %w", errors.ErrSessionNotFound))

		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "not_found", got["category"])
	})
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 2, ExitCode(errors.ErrActivityNotFound))
	assert.Equal(t, 2, ExitCode(errors.NewUserError("bad", "")))
	assert.Equal(t, 1, ExitCode(errors.NewSystemError("boom", nil)))
	assert.Equal(t, 1, ExitCode(fmt.Errorf("mystery")))
}
