package validate

import (
	"strings"
	"unicode"
)

// SanitizeTitle trims a title and drops control characters.
func SanitizeTitle(title string) string {
	title = strings.TrimSpace(title)

	var sb strings.Builder
	for _, r := range title {
		if !unicode.IsControl(r) {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

// SanitizeNote cleans notes or a description for storage.
func SanitizeNote(note string) string {
	note = strings.TrimSpace(note)
	note = strings.ReplaceAll(note, "\x00", "")

	// Normalize line endings
	note = strings.ReplaceAll(note, "\r\n", "\n")
	note = strings.ReplaceAll(note, "\r", "\n")

	return StripControlChars(note)
}

// StripControlChars removes all control characters except newline and tab.
func StripControlChars(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if !unicode.IsControl(r) || r == '\n' || r == '\t' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Truncate shortens s to at most maxRunes runes, ending in "..." when cut.
func Truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// FirstLine returns the first line of s, used for one-row table cells.
func FirstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
