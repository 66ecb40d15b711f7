package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureJSON(t *testing.T, level zerolog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Init(Config{Level: level, JSON: true, Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })
	return &buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, zerolog.InfoLevel, cfg.Level)
	assert.False(t, cfg.JSON)
}

func TestDebugConfig(t *testing.T) {
	cfg := DebugConfig()
	assert.Equal(t, zerolog.DebugLevel, cfg.Level)
	assert.True(t, cfg.JSON)
	assert.True(t, cfg.AddCaller)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{" WARN ", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"loud", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInit(t *testing.T) {
	t.Run("debug_flag", func(t *testing.T) {
		captureJSON(t, zerolog.DebugLevel)
		assert.True(t, Debug)
	})

	t.Run("level_filters", func(t *testing.T) {
		buf := captureJSON(t, zerolog.WarnLevel)
		Info("hidden")
		assert.Empty(t, buf.String())
		Warn("shown")
		assert.Contains(t, buf.String(), "shown")
		assert.False(t, Debug)
	})

	t.Run("console_output", func(t *testing.T) {
		var buf bytes.Buffer
		Init(Config{Level: zerolog.InfoLevel, Output: &buf})
		t.Cleanup(func() { Init(DefaultConfig()) })

		Info("plain text line", KeyCount, 3)
		assert.Contains(t, buf.String(), "plain text line")
		assert.Contains(t, buf.String(), "count=3")
	})
}

func TestLoggingFunctions(t *testing.T) {
	buf := captureJSON(t, zerolog.DebugLevel)

	tests := []struct {
		name  string
		log   func(string, ...any)
		level string
	}{
		{"info", Info, "info"},
		{"debug", DebugLog, "debug"},
		{"warn", Warn, "warn"},
		{"error", Error, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.log(tt.name+" message", KeyActivity, "a1")

			entry := lastLine(t, buf)
			assert.Equal(t, tt.name+" message", entry["message"])
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "a1", entry[KeyActivity])
		})
	}
}

func TestWithAndComponent(t *testing.T) {
	buf := captureJSON(t, zerolog.InfoLevel)

	l := With(KeyUser, "u1")
	l.Info().Msg("with fields")
	assert.Equal(t, "u1", lastLine(t, buf)[KeyUser])

	c := Component("store")
	c.Info().Msg("component")
	assert.Equal(t, "store", lastLine(t, buf)[KeyComponent])
}

func TestLogOperation(t *testing.T) {
	buf := captureJSON(t, zerolog.DebugLevel)

	LogOperation("record_session", KeySeconds, 90)

	entry := lastLine(t, buf)
	assert.Equal(t, "record_session", entry[KeyOperation])
	assert.EqualValues(t, 90, entry[KeySeconds])
}

func TestBadgerLogger(t *testing.T) {
	buf := captureJSON(t, zerolog.DebugLevel)

	BadgerLogger{}.Infof("noise %d", 1)
	BadgerLogger{}.Debugf("noise %d", 2)
	assert.Empty(t, buf.String())

	BadgerLogger{}.Warningf("value log %s", "gc")
	entry := lastLine(t, buf)
	assert.Equal(t, "value log gc", entry["message"])
	assert.Equal(t, "badger", entry[KeyComponent])
}

// =============================================================================
// Request context
// =============================================================================

func TestGenerateRequestID(t *testing.T) {
	id1 := GenerateRequestID()
	id2 := GenerateRequestID()
	assert.Len(t, id1, 8)
	assert.NotEqual(t, id1, id2)
}

func TestRequestIDFromContext(t *testing.T) {
	t.Run("set", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "abc123")
		assert.Equal(t, "abc123", RequestIDFromContext(ctx))
	})

	t.Run("generated", func(t *testing.T) {
		assert.NotEmpty(t, RequestIDFromContext(NewRequestContext()))
	})

	t.Run("missing", func(t *testing.T) {
		assert.Empty(t, RequestIDFromContext(context.Background()))
	})

	t.Run("nil_context", func(t *testing.T) {
		//nolint:staticcheck // nil context is handled explicitly
		assert.Empty(t, RequestIDFromContext(nil))
	})
}

func TestFromContext(t *testing.T) {
	buf := captureJSON(t, zerolog.InfoLevel)

	l := FromContext(WithRequestID(context.Background(), "req-1"))
	l.Info().Msg("scoped")
	assert.Equal(t, "req-1", lastLine(t, buf)[KeyRequestID])

	l = FromContext(context.Background())
	l.Info().Msg("unscoped")
	_, ok := lastLine(t, buf)[KeyRequestID]
	assert.False(t, ok)
}
