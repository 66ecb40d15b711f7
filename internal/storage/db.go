// Package storage provides the Badger-backed persistence layer for CodeTrack.
package storage

import (
	"fmt"
	"os"
	"strings"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/manav03panchal/codetrack/internal/errors"
	"github.com/manav03panchal/codetrack/internal/logging"
)

// DB wraps a Badger database connection.
type DB struct {
	db   *badger.DB
	path string
}

// Options configures the database connection.
type Options struct {
	// Path is the database directory path. Empty string uses in-memory mode.
	Path string
	// InMemory forces in-memory mode regardless of Path.
	InMemory bool
}

// Open opens or creates a database at the given path.
func Open(opts Options) (*DB, error) {
	var (
		badgerOpts badger.Options
		path       string
	)

	if opts.InMemory || opts.Path == "" {
		// In-memory mode for testing
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Path, 0o755); err != nil {
			return nil, errors.NewSystemErrorWithOp("open", "cannot create data directory", err)
		}
		badgerOpts = badger.DefaultOptions(opts.Path)
		path = opts.Path
	}

	badgerOpts = badgerOpts.
		WithLogger(logging.BadgerLogger{}).
		WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, classifyOpenError(err)
	}

	logging.DebugLog("database opened", "backend", "badger", "path", path)
	return &DB{db: db, path: path}, nil
}

func classifyOpenError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "directory lock"):
		return errors.NewSystemErrorWithOp("open", "database is in use by another codetrack process", err)
	case IsDatabaseCorrupted(err):
		return errors.NewSystemErrorWithOp("open", "database files are damaged",
			fmt.Errorf("%w: %v", errors.ErrDatabaseCorrupted, err))
	default:
		return errors.NewSystemErrorWithOp("open", "failed to open database", err)
	}
}

// IsDatabaseCorrupted checks if the given error indicates database corruption.
func IsDatabaseCorrupted(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errors.ErrDatabaseCorrupted) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"checksum mismatch", "corrupt", "unexpected eof", "bad magic", "truncated"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// Path returns the database directory, or "" in memory.
func (d *DB) Path() string {
	return d.path
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Badger returns the underlying Badger database for advanced operations.
func (d *DB) Badger() *badger.DB {
	return d.db
}
