package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
)

// Validate checks that the configuration is valid and reports every bad
// field at once.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	switch c.Backend {
	case BackendBadger, BackendSQLite:
	default:
		errs = errs.Append("backend", fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendBadger, BackendSQLite))
	}

	if c.DataDir == "" && !c.InMemory() {
		errs = errs.Append("data_dir", fmt.Errorf("cannot be empty"))
	}

	if strings.ContainsAny(c.User, " \t\n:") {
		errs = errs.Append("user", fmt.Errorf("%q must not contain whitespace or ':'", c.User))
	}

	if c.RefreshInterval < time.Second {
		errs = errs.Append("refresh_interval", fmt.Errorf("must be at least 1s, got %s", c.RefreshInterval))
	}

	if c.Log.Level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
			errs = errs.Append("log.level", fmt.Errorf("unknown level %q", c.Log.Level))
		}
	}

	switch strings.ToLower(c.Chart.Period) {
	case "day", "week", "month":
	default:
		errs = errs.Append("chart.period", fmt.Errorf("unknown period %q (want day, week or month)", c.Chart.Period))
	}

	return errs.ToError()
}
