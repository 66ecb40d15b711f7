// Package logging provides structured logging for CodeTrack.
// It wraps a package-level zerolog logger with console or JSON output.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	// defaultLogger is the package-level logger instance.
	defaultLogger zerolog.Logger
	loggerMu      sync.RWMutex

	// Debug indicates if debug mode is enabled.
	Debug bool
)

func init() {
	defaultLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()
}

// Config holds logger configuration.
type Config struct {
	Level     zerolog.Level // Minimum log level
	JSON      bool          // Use JSON output format
	Output    io.Writer     // Output destination (default: stderr)
	AddCaller bool          // Include source file and line number
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  zerolog.InfoLevel,
		Output: os.Stderr,
	}
}

// DebugConfig returns a configuration suitable for debug mode.
func DebugConfig() Config {
	return Config{
		Level:     zerolog.DebugLevel,
		JSON:      true,
		Output:    os.Stderr,
		AddCaller: true,
	}
}

// ParseLevel converts a level name such as "warn" into a zerolog level.
// An empty name means info.
func ParseLevel(name string) (zerolog.Level, error) {
	if strings.TrimSpace(name) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// Init initializes the global logger with the given configuration.
func Init(cfg Config) {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if !cfg.JSON {
		output = zerolog.ConsoleWriter{Out: output, NoColor: !isTerminal(output)}
	}

	ctx := zerolog.New(output).Level(cfg.Level).With().Timestamp()
	if cfg.AddCaller {
		ctx = ctx.Caller()
	}

	defaultLogger = ctx.Logger()
	Debug = cfg.Level <= zerolog.DebugLevel
}

// InitDebug initializes the logger in debug mode with JSON output.
func InitDebug() {
	Init(DebugConfig())
}

// Logger returns the current logger instance.
func Logger() zerolog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

// With returns a logger with additional key/value fields.
func With(fields ...any) zerolog.Logger {
	return Logger().With().Fields(fields).Logger()
}

// Component returns a logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return Logger().With().Str(KeyComponent, name).Logger()
}

// Info logs at INFO level.
func Info(msg string, fields ...any) {
	l := Logger()
	l.Info().Fields(fields).Msg(msg)
}

// DebugLog logs at DEBUG level.
func DebugLog(msg string, fields ...any) {
	l := Logger()
	l.Debug().Fields(fields).Msg(msg)
}

// Warn logs at WARN level.
func Warn(msg string, fields ...any) {
	l := Logger()
	l.Warn().Fields(fields).Msg(msg)
}

// Error logs at ERROR level.
func Error(msg string, fields ...any) {
	l := Logger()
	l.Error().Fields(fields).Msg(msg)
}

// Common structured logging fields.
const (
	KeyRequestID = "request_id"
	KeyComponent = "component"
	KeyOperation = "op"
	KeyUser      = "user_id"
	KeyActivity  = "activity_id"
	KeySession   = "session_id"
	KeyContainer = "container_id"
	KeySeconds   = "seconds"
	KeyRevision  = "revision"
	KeyCount     = "count"
)

// LogOperation logs an operation at debug level.
func LogOperation(op string, fields ...any) {
	l := Logger()
	l.Debug().Str(KeyOperation, op).Fields(fields).Msg("operation")
}
