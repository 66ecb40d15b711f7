package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/manav03panchal/codetrack/internal/errors"
)

func TestTimeParseErrorError(t *testing.T) {
	err := &TimeParseError{
		Input:   "badtime",
		Field:   "date",
		Message: "could not parse date",
	}
	assert.Equal(t, "invalid date 'badtime': could not parse date", err.Error())
}

func TestFormatWithExamples(t *testing.T) {
	t.Run("with_examples", func(t *testing.T) {
		result := NewDurationError("soon").FormatWithExamples()
		assert.Contains(t, result, "invalid duration 'soon'")
		assert.Contains(t, result, "Valid examples:")
		assert.Contains(t, result, "  - 1h30m\n")
		assert.Contains(t, result, "hours (h)")
	})

	t.Run("no_examples_no_suggestion", func(t *testing.T) {
		err := &TimeParseError{Input: "x", Field: "date", Message: "bad"}
		assert.Equal(t, err.Error(), err.FormatWithExamples())
	})
}

func TestToUserError(t *testing.T) {
	tests := []struct {
		name     string
		err      *TimeParseError
		sentinel error
		field    string
	}{
		{"duration", NewDurationError("soon"), errors.ErrInvalidDuration, "duration"},
		{"timestamp", NewTimestampError("blursday"), errors.ErrInvalidTimestamp, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ue := tt.err.ToUserError()
			assert.Equal(t, tt.field, ue.Field)
			assert.Equal(t, tt.err.Input, ue.Value)
			assert.ErrorIs(t, ue, tt.sentinel)
			assert.Contains(t, ue.Suggestion, "e.g. ")
			assert.Equal(t, errors.CategoryUser, errors.Classify(ue))
		})
	}
}
