package errors

import (
	"errors"
	"syscall"

	"github.com/hay-kot/criterio"
)

// Category represents the type of error for display and handling purposes.
type Category int

const (
	// CategoryUnknown is the default for unclassified errors.
	CategoryUnknown Category = iota
	// CategoryUser indicates an error the user can fix (bad input, missing args).
	CategoryUser
	// CategoryNotFound indicates a referenced record does not exist for the user.
	CategoryNotFound
	// CategorySystem indicates a persistence or OS level failure.
	CategorySystem
	// CategoryInternal indicates an internal bug or unexpected state.
	CategoryInternal
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryUser:
		return "user"
	case CategoryNotFound:
		return "not_found"
	case CategorySystem:
		return "system"
	case CategoryInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Classify determines the category of an error.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	// System failures win: a backend may report not-found wrapped in one.
	if IsSystemError(err) || isSystemLevel(err) {
		return CategorySystem
	}
	var fieldErrs criterio.FieldErrors
	if IsUserError(err) || errors.As(err, &fieldErrs) {
		return CategoryUser
	}
	if IsNotFound(err) {
		return CategoryNotFound
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Category
	}

	return CategoryUnknown
}

// isSystemLevel checks if an error is a system-level error.
func isSystemLevel(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOSPC, syscall.EACCES, syscall.EPERM, syscall.EIO, syscall.EROFS:
			return true
		}
	}

	return errors.Is(err, ErrDatabaseCorrupted) || errors.Is(err, ErrPermissionDenied)
}

// ClassifiedError wraps an error with its classification.
type ClassifiedError struct {
	Err      error
	Category Category
}

func (e *ClassifiedError) Error() string {
	return e.Err.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// WithCategory wraps an error with an explicit category.
func WithCategory(err error, category Category) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{
		Err:      err,
		Category: category,
	}
}

// Internal marks err as an unexpected state.
func Internal(err error) error {
	return WithCategory(err, CategoryInternal)
}

// FormatByCategory returns a user-appropriate error message based on category.
func FormatByCategory(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	suggestion := GetSuggestion(err)

	switch Classify(err) {
	case CategoryUser, CategoryNotFound:
		if suggestion != "" {
			return msg + "\n\nTry: " + suggestion
		}
		return msg
	case CategorySystem:
		if suggestion != "" {
			return "System error: " + msg + "\n\n" + suggestion
		}
		return "System error: " + msg
	case CategoryInternal:
		return "Internal error: " + msg
	default:
		return msg
	}
}
