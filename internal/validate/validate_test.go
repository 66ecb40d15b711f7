package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/manav03panchal/codetrack/internal/errors"
)

// =============================================================================
// Validation Tests
// =============================================================================

func TestTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"valid", "Binary Trees", false},
		{"unicode", "Álgebra lineal", false},
		{"max_length", strings.Repeat("a", MaxTitleLength), false},
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"too_long", strings.Repeat("a", MaxTitleLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Title("title", tt.title)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.IsUserError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("empty_matches_sentinel", func(t *testing.T) {
		assert.ErrorIs(t, Title("title", " "), errors.ErrEmptyTitle)
	})
}

func TestNote(t *testing.T) {
	assert.NoError(t, Note(""))
	assert.NoError(t, Note(strings.Repeat("é", MaxNoteLength)))
	assert.Error(t, Note(strings.Repeat("é", MaxNoteLength+1)))
}

func TestHexColor(t *testing.T) {
	tests := []struct {
		color   string
		wantErr bool
	}{
		{"", false},
		{"#FF5733", false},
		{"#00ff00", false},
		{"FF5733", true},
		{"#FFF", true},
		{"#GGGGGG", true},
	}

	for _, tt := range tests {
		t.Run(tt.color, func(t *testing.T) {
			err := HexColor(tt.color)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidColor)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSeconds(t *testing.T) {
	assert.NoError(t, Seconds(1))
	assert.NoError(t, Seconds(MaxSessionSeconds))
	assert.ErrorIs(t, Seconds(0), errors.ErrInvalidDuration)
	assert.ErrorIs(t, Seconds(-5), errors.ErrInvalidDuration)
	assert.True(t, errors.IsUserError(Seconds(MaxSessionSeconds+1)))
}

func TestUserID(t *testing.T) {
	assert.NoError(t, UserID("alice"))
	assert.NoError(t, UserID("alice@example.com"))
	assert.ErrorIs(t, UserID(""), errors.ErrNoUser)
	assert.Error(t, UserID("-alice"))
	assert.Error(t, UserID("a:b"))
	assert.Error(t, UserID(strings.Repeat("a", MaxUserIDLength+1)))
}

func TestInRange(t *testing.T) {
	assert.NoError(t, InRange("index", 0, 0, 3))
	err := InRange("index", 12, 0, 3)
	assert.Error(t, err)
	ue, ok := errors.AsUserError(err)
	assert.True(t, ok)
	assert.Equal(t, "Must be between 0 and 3", ue.Suggestion)
}

func TestNonEmpty(t *testing.T) {
	assert.NoError(t, NonEmpty("activity", "x"))
	assert.Error(t, NonEmpty("activity", " \t"))
}

// =============================================================================
// Sanitize Tests
// =============================================================================

func TestSanitizeTitle(t *testing.T) {
	assert.Equal(t, "Binary Trees", SanitizeTitle("  Binary\x07 Trees \n"))
}

func TestSanitizeNote(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trim", "  hello  ", "hello"},
		{"null_bytes", "a\x00b", "ab"},
		{"crlf", "line1\r\nline2\rline3", "line1\nline2\nline3"},
		{"control", "bell\x07ring\tok", "bellring\tok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeNote(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "Intro t...", Truncate("Intro to Programming", 10))
	assert.Equal(t, "ñañ", Truncate("ñañaña", 3))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "one", FirstLine("one\ntwo"))
	assert.Equal(t, "solo", FirstLine("solo"))
}
