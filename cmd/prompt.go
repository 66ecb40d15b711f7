package cmd

import (
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/manav03panchal/codetrack/internal/errors"
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// requireTerminal fails early for commands that draw a full-screen UI.
func requireTerminal(command string) error {
	if isTerminal(os.Stdin) && isTerminal(os.Stdout) {
		return nil
	}
	return errors.NewUserError(
		"'codetrack "+command+"' needs an interactive terminal",
		"Use 'codetrack log' to record time from scripts.")
}

// requireUser stops read commands from printing an empty store when no
// user is configured.
func requireUser() error {
	if ctx.Store.UserID() == "" {
		return errors.ErrNoUser
	}
	return nil
}

// confirm asks before a destructive change. assumeYes skips the prompt;
// without a terminal the change is refused.
func confirm(title string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if !isTerminal(os.Stdin) {
		return false, errors.NewUserError("Refusing to delete without confirmation",
			"Pass --yes to delete from scripts.")
	}

	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return ok, nil
}
