package errors

import "errors"

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	ErrActivityNotFound: "Use 'codetrack activity list' to see your activities.",
	ErrSessionNotFound:  "Use 'codetrack session list <activity>' to see session indexes (0 is the newest).",
	ErrCourseNotFound:   "Use 'codetrack course list' to see your courses.",
	ErrProjectNotFound:  "Use 'codetrack project list' to see your projects.",
	ErrEmptyTitle:       "Give it a non-empty title of at most 128 characters.",
	ErrInvalidColor:     "Use hex color format like '#FF5733' or '#00FF00'.",
	ErrInvalidDuration:  "Try formats like '1h30m', '90m', '2h', or '45 minutes'.",
	ErrInvalidTimestamp: "Try formats like 'yesterday', '2 days ago', or '2026-03-01'.",
	ErrInvalidPeriod:    "Use one of: day, week, month.",
	ErrParentRequired:   "Pass --course <name> or --project <name>.",
	ErrTimerBusy:        "Save or reset the running timer first.",
	ErrNoUser:           "Set a user with --user, CODETRACK_USER, or 'user:' in the config file.",

	ErrDatabaseCorrupted: "Move the data directory aside and let codetrack create a fresh one.",
	ErrPermissionDenied:  "Check file permissions in your data directory (~/.local/share/codetrack/).",
}

// GetSuggestion returns a suggestion for an error, if available.
// An explicit UserError suggestion wins over the sentinel table.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}

	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}

	return ""
}

// CommandExamples provides example commands for common errors.
var CommandExamples = map[error][]string{
	ErrInvalidDuration: {
		"codetrack log 1h30m on \"Binary Trees\"",
		"codetrack log \"45 minutes\" on homework --date yesterday",
	},
	ErrParentRequired: {
		"codetrack activity create \"Binary Trees\" --course \"Intro to Programming\"",
		"codetrack activity create \"Landing page\" --project \"Portfolio Website\"",
	},
}

// GetExamples returns example commands for an error.
func GetExamples(err error) []string {
	for knownErr, examples := range CommandExamples {
		if errors.Is(err, knownErr) {
			return examples
		}
	}
	return nil
}
