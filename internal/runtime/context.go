// Package runtime wires configuration, logging, storage and the tracker
// together for a single CodeTrack invocation.
package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/manav03panchal/codetrack/internal/config"
	"github.com/manav03panchal/codetrack/internal/logging"
	"github.com/manav03panchal/codetrack/internal/output"
	"github.com/manav03panchal/codetrack/internal/sqlstore"
	"github.com/manav03panchal/codetrack/internal/storage"
	"github.com/manav03panchal/codetrack/internal/timer"
	"github.com/manav03panchal/codetrack/internal/tracker"
)

// Context holds the application runtime context.
type Context struct {
	Config    *config.Config
	Formatter *output.Formatter

	Store    *tracker.Store
	Timer    *timer.Coordinator
	Recorder *tracker.Recorder

	// Debug mode
	Debug bool

	closeBackend func() error
}

// Options configures the runtime context. Non-empty fields override the
// config file and environment.
type Options struct {
	ConfigPath string
	User       string
	Backend    string
	Database   string

	Format    output.Format
	ColorMode output.ColorMode
	Debug     bool

	// Ticker replaces the stopwatch's wall-clock ticker.
	Ticker timer.TickerFactory
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		ConfigPath: config.DefaultPath(),
		Format:     output.FormatCLI,
		ColorMode:  output.ColorAuto,
	}
}

// New loads configuration, opens the configured backend and loads the
// user's data.
func New(ctx context.Context, opts Options) (*Context, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(cfg, opts); err != nil {
		return nil, err
	}

	initLogging(cfg, opts.Debug)

	backend, closeBackend, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}

	store := tracker.NewStore(backend, cfg.User)
	if err := store.Init(ctx, cfg.UserName); err != nil {
		_ = closeBackend()
		return nil, err
	}

	var swOpts []timer.Option
	if opts.Ticker != nil {
		swOpts = append(swOpts, timer.WithTicker(opts.Ticker))
	}
	coord := timer.NewCoordinator(timer.NewStopwatch(swOpts...))

	formatter := output.NewFormatter()
	if opts.Format != "" {
		formatter.Format = opts.Format
	}
	if opts.ColorMode != "" {
		formatter.ColorMode = opts.ColorMode
	}

	return &Context{
		Config:       cfg,
		Formatter:    formatter,
		Store:        store,
		Timer:        coord,
		Recorder:     tracker.NewRecorder(store, coord),
		Debug:        opts.Debug,
		closeBackend: closeBackend,
	}, nil
}

func applyOverrides(cfg *config.Config, opts Options) error {
	changed := false
	if opts.User != "" {
		if cfg.UserName == cfg.User {
			cfg.UserName = opts.User
		}
		cfg.User = opts.User
		changed = true
	}
	if opts.Backend != "" {
		cfg.Backend = opts.Backend
		changed = true
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
		changed = true
	}
	if !changed {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

func initLogging(cfg *config.Config, debug bool) {
	if debug {
		logging.InitDebug()
		return
	}
	lc := logging.DefaultConfig()
	if level, err := logging.ParseLevel(cfg.Log.Level); err == nil {
		lc.Level = level
	}
	lc.JSON = cfg.Log.JSON
	logging.Init(lc)
}

func openBackend(cfg *config.Config) (tracker.Backend, func() error, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := sqlstore.OpenDB(cfg.SQLitePath())
		if err != nil {
			return nil, nil, err
		}
		logging.DebugLog("opened sqlite backend", "path", cfg.SQLitePath())
		return sqlstore.NewGateway(db), db.Close, nil
	default:
		db, err := storage.Open(storage.Options{
			Path:     cfg.BadgerPath(),
			InMemory: cfg.InMemory(),
		})
		if err != nil {
			return nil, nil, err
		}
		return storage.NewGateway(db), db.Close, nil
	}
}

// Close stops background work and closes the backend.
func (c *Context) Close() error {
	if c.Store != nil {
		c.Store.Stop()
	}
	if c.Timer != nil {
		c.Timer.Stopwatch().Reset()
	}
	if c.closeBackend != nil {
		return c.closeBackend()
	}
	return nil
}

// StartAutoRefresh reloads the store on the configured interval until Close.
func (c *Context) StartAutoRefresh() error {
	return c.Store.StartAutoRefresh(c.Config.RefreshInterval)
}

// Now returns the current time.
func (c *Context) Now() time.Time {
	return time.Now()
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// Debugf prints debug output if debug mode is enabled.
func (c *Context) Debugf(format string, args ...any) {
	if c.Debug {
		logging.DebugLog(fmt.Sprintf(format, args...))
	}
}
