package logging

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

// BadgerLogger adapts the package logger to badger's Logger interface.
// Badger is chatty at info level, so only warnings and errors pass through.
type BadgerLogger struct{}

func (BadgerLogger) Errorf(format string, args ...any) {
	l := Component("badger")
	l.Error().Msgf(format, args...)
}

func (BadgerLogger) Warningf(format string, args ...any) {
	l := Component("badger")
	l.Warn().Msgf(format, args...)
}

func (BadgerLogger) Infof(string, ...any) {}

func (BadgerLogger) Debugf(string, ...any) {}
