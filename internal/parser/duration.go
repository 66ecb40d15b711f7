package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DurationResult represents the result of parsing a duration.
type DurationResult struct {
	Duration time.Duration
	Valid    bool
}

// Seconds returns the duration rounded to whole seconds.
func (r DurationResult) Seconds() int {
	return int(math.Round(r.Duration.Seconds()))
}

// durationPattern matches duration expressions like "2h", "30m", "1h30m", "2.5h", etc.
var durationPattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(h|hr|hrs|hour|hours|m|min|mins|minute|minutes|s|sec|secs|second|seconds)?\s*(?:(\d+(?:\.\d+)?)\s*(m|min|mins|minute|minutes|s|sec|secs|second|seconds))?$`)

// clockPattern matches stopwatch readings like "25:00" or "1:02:03".
var clockPattern = regexp.MustCompile(`^(\d+):([0-5]\d)(?::([0-5]\d))?$`)

// ParseDuration parses a human-readable duration string.
// Supports formats like:
//   - "2h" or "2 hours"
//   - "30m" or "30 minutes"
//   - "1h30m" or "1 hour 30 minutes"
//   - "2.5h" (2 hours 30 minutes)
//   - "25:00" (MM:SS) and "1:02:03" (HH:MM:SS)
//
// A bare number is taken as hours.
func ParseDuration(input string) DurationResult {
	input = strings.TrimSpace(input)
	if input == "" {
		return DurationResult{}
	}

	if d, err := time.ParseDuration(input); err == nil {
		if d <= 0 {
			return DurationResult{}
		}
		return DurationResult{Duration: d, Valid: true}
	}

	if m := clockPattern.FindStringSubmatch(input); m != nil {
		return parseClock(m)
	}

	matches := durationPattern.FindStringSubmatch(input)
	if matches == nil {
		return DurationResult{}
	}

	var totalDuration time.Duration

	if matches[1] != "" {
		value, _ := strconv.ParseFloat(matches[1], 64)
		unit := strings.ToLower(matches[2])
		if unit == "" {
			unit = "h"
		}
		totalDuration += unitToDuration(value, unit)
	}

	// Second number and unit (for "1h 30m" style)
	if matches[3] != "" {
		value, _ := strconv.ParseFloat(matches[3], 64)
		totalDuration += unitToDuration(value, strings.ToLower(matches[4]))
	}

	if totalDuration <= 0 {
		return DurationResult{}
	}

	return DurationResult{Duration: totalDuration, Valid: true}
}

func parseClock(m []string) DurationResult {
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])

	var d time.Duration
	if m[3] == "" {
		d = time.Duration(a)*time.Minute + time.Duration(b)*time.Second
	} else {
		c, _ := strconv.Atoi(m[3])
		d = time.Duration(a)*time.Hour + time.Duration(b)*time.Minute + time.Duration(c)*time.Second
	}

	if d <= 0 {
		return DurationResult{}
	}
	return DurationResult{Duration: d, Valid: true}
}

// unitToDuration converts a value and unit to a duration.
func unitToDuration(value float64, unit string) time.Duration {
	switch unit {
	case "h", "hr", "hrs", "hour", "hours":
		return time.Duration(value * float64(time.Hour))
	case "m", "min", "mins", "minute", "minutes":
		return time.Duration(value * float64(time.Minute))
	case "s", "sec", "secs", "second", "seconds":
		return time.Duration(value * float64(time.Second))
	default:
		return time.Duration(value * float64(time.Hour))
	}
}

// ParseSeconds parses input into whole seconds, returning a user error with
// examples when it cannot.
func ParseSeconds(input string) (int, error) {
	result := ParseDuration(input)
	if !result.Valid || result.Seconds() <= 0 {
		return 0, NewDurationError(input).ToUserError()
	}
	return result.Seconds(), nil
}

// IsDurationLike checks if a string looks like a duration expression.
func IsDurationLike(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s[0] < '0' || s[0] > '9' {
		return false
	}
	if clockPattern.MatchString(s) {
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	for _, ind := range []string{"h", "m", "s"} {
		if strings.Contains(s, ind) {
			return true
		}
	}
	return false
}
