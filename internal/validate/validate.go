// Package validate provides input validation helpers for CodeTrack.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/manav03panchal/codetrack/internal/errors"
)

const (
	// MaxTitleLength is the maximum length for an activity, course or project title.
	MaxTitleLength = 128
	// MaxNoteLength is the maximum length for session notes and descriptions.
	MaxNoteLength = 4096
	// MaxUserIDLength is the maximum length for a user identifier.
	MaxUserIDLength = 64
	// MaxSessionSeconds caps a single session at one week.
	MaxSessionSeconds = 7 * 24 * 3600
)

var (
	hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	userIDRegex   = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._@-]*$`)
)

// Title validates a trimmed title for the named field.
func Title(field, title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.Invalid(field, title, errors.ErrEmptyTitle)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return errors.NewUserErrorWithField(field, title,
			"Title too long",
			fmt.Sprintf("Titles must be %d characters or fewer", MaxTitleLength))
	}
	return nil
}

// Note validates session notes or a description.
func Note(note string) error {
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return errors.NewUserError(
			"Note too long",
			fmt.Sprintf("Notes must be %d characters or fewer", MaxNoteLength))
	}
	return nil
}

// HexColor validates a hex color code. Empty means no color.
func HexColor(color string) error {
	if color == "" {
		return nil
	}
	if !hexColorRegex.MatchString(color) {
		return errors.Invalid("color", color, errors.ErrInvalidColor)
	}
	return nil
}

// Seconds validates a session duration.
func Seconds(seconds int) error {
	if seconds <= 0 {
		return errors.Invalid("duration", fmt.Sprint(seconds), errors.ErrInvalidDuration)
	}
	if seconds > MaxSessionSeconds {
		return errors.NewUserErrorWithField("duration", fmt.Sprint(seconds),
			"Session too long",
			"A single session can be at most 7 days")
	}
	return nil
}

// UserID validates a user identifier.
func UserID(id string) error {
	if id == "" {
		return errors.ErrNoUser
	}
	if len(id) > MaxUserIDLength || !userIDRegex.MatchString(id) {
		return errors.NewUserErrorWithField("user", id,
			"Invalid user id",
			"User ids start with a letter or number and contain only letters, numbers, '.', '_', '@' or '-'")
	}
	return nil
}

// NonEmpty validates that a string is not empty.
func NonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewUserError(
			field+" cannot be empty",
			"Provide a value for "+field)
	}
	return nil
}

// InRange validates that an integer is within a range.
func InRange(field string, value, lo, hi int) error {
	if value < lo || value > hi {
		return errors.NewUserErrorWithField(field, fmt.Sprint(value),
			"Value out of range",
			fmt.Sprintf("Must be between %d and %d", lo, hi))
	}
	return nil
}
