package parser

import (
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// TimestampResult holds the parsed timestamp and any error.
type TimestampResult struct {
	Time  time.Time
	Error error
}

// ParseTimestamp parses a natural language timestamp relative to now.
func ParseTimestamp(input string, now time.Time) TimestampResult {
	input = strings.TrimSpace(input)
	switch strings.ToLower(input) {
	case "", "now", "today":
		return TimestampResult{Time: now}
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}

	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return TimestampResult{Error: err}
	}

	return TimestampResult{Time: result.Time}
}

// ParseSessionDate parses the occurrence date of a manually logged session.
// Dates after now are rejected since a session cannot have happened yet.
func ParseSessionDate(input string, now time.Time) (time.Time, error) {
	result := ParseTimestamp(input, now)
	if result.Error != nil {
		return time.Time{}, NewTimestampError(input).ToUserError()
	}
	if result.Time.After(now) {
		e := NewTimestampError(input)
		e.Message = "date is in the future"
		return time.Time{}, e.ToUserError()
	}
	return result.Time, nil
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Monday starting t's week.
func StartOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	return time.Date(t.Year(), t.Month(), t.Day()-weekday+1, 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
