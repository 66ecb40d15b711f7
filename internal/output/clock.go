package output

import "fmt"

// FormatClock renders seconds as a stopwatch reading: MM:SS below one hour,
// HH:MM:SS from one hour up. Negative input reads as zero.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// FormatDuration renders seconds as whole hours and minutes, e.g. "2h 15m".
// Leftover seconds are dropped.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
}

// FormatHours renders a bucketed hour value with one decimal.
func FormatHours(hours float64) string {
	return fmt.Sprintf("%.1fh", hours)
}
