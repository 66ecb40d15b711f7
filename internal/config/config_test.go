package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, BackendBadger, cfg.Backend)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, "day", cfg.Chart.Period)
	assert.NotEmpty(t, cfg.DataDir)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().RefreshInterval, cfg.RefreshInterval)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
user: alice
backend: sqlite
data_dir: /tmp/ct
refresh_interval: 90s
log:
  level: debug
  json: true
chart:
  period: week
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.User)
	assert.Equal(t, "alice", cfg.UserName)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, 90*time.Second, cfg.RefreshInterval)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, "week", cfg.Chart.Period)
	assert.Equal(t, "/tmp/ct/codetrack.db", cfg.SQLitePath())
	assert.Equal(t, "/tmp/ct/db", cfg.BadgerPath())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "user: alice\nbackend: sqlite\n")

	t.Setenv("CODETRACK_USER", "bob")
	t.Setenv("CODETRACK_BACKEND", "BADGER")
	t.Setenv("CODETRACK_DATABASE", MemoryDatabase)
	t.Setenv("CODETRACK_REFRESH_INTERVAL", "2m")
	t.Setenv("CODETRACK_LOG_JSON", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bob", cfg.User)
	assert.Equal(t, BackendBadger, cfg.Backend)
	assert.True(t, cfg.InMemory())
	assert.Equal(t, 2*time.Minute, cfg.RefreshInterval)
	assert.True(t, cfg.Log.JSON)
}

func TestLoad_EmptyUserFromEnv(t *testing.T) {
	t.Setenv("CODETRACK_USER", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.User)
}

func TestLoad_ParseError(t *testing.T) {
	path := writeConfig(t, "user: [unterminated\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestValidate_ReportsEveryField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "postgres"
	cfg.User = "has space"
	cfg.RefreshInterval = 10 * time.Millisecond
	cfg.Log.Level = "chatty"
	cfg.Chart.Period = "year"

	err := cfg.Validate()

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 5)

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field)
	}
	assert.Equal(t, []string{"backend", "user", "refresh_interval", "log.level", "chart.period"}, fields)
}

func TestLoad_InvalidFileIsRejected(t *testing.T) {
	path := writeConfig(t, "backend: mongo\n")

	_, err := Load(path)

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "backend", fieldErrs[0].Field)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, "config.yaml", filepath.Base(DefaultPath()))
	assert.Equal(t, AppName, filepath.Base(filepath.Dir(DefaultPath())))
}
