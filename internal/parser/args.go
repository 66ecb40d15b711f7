package parser

import (
	"regexp"
	"strings"
)

// LogArgs holds the parsed arguments of a manual log entry:
// "<duration> on <activity> [with note '...']".
type LogArgs struct {
	RawDuration string
	Activity    string
	Note        string

	HasActivity bool
	HasNote     bool
}

// Keywords for natural language parsing.
var (
	activityKeywords = map[string]bool{"on": true, "to": true, "for": true}
	skipWords        = map[string]bool{"log": true, "spent": true}
)

// noteRegex matches 'with note "..."' or "with note '...'" patterns.
var noteRegex = regexp.MustCompile(`(?i)with\s+note\s+['"]([^'"]+)['"]`)

// ParseLog parses command-line arguments of a manual log entry. Everything
// before the activity keyword is the duration, everything after it names the
// activity.
func ParseLog(args []string) *LogArgs {
	result := &LogArgs{}
	if len(args) == 0 {
		return result
	}

	fullInput := strings.Join(quoteMultiWord(args), " ")

	// Extract note first (it can contain spaces)
	if match := noteRegex.FindStringSubmatch(fullInput); match != nil {
		result.Note = match[1]
		result.HasNote = true
		fullInput = noteRegex.ReplaceAllString(fullInput, "")
	}

	var durationTokens, activityTokens []string
	inActivity := false

	for _, token := range tokenize(fullInput) {
		lower := strings.ToLower(token)
		if !inActivity && skipWords[lower] {
			continue
		}
		if !inActivity && activityKeywords[lower] {
			inActivity = true
			continue
		}
		if inActivity {
			activityTokens = append(activityTokens, token)
		} else {
			durationTokens = append(durationTokens, token)
		}
	}

	result.RawDuration = strings.Join(durationTokens, " ")
	result.Activity = strings.Join(activityTokens, " ")
	result.HasActivity = result.Activity != ""

	return result
}

// Merge merges flag values into parsed args (flags override).
func (a *LogArgs) Merge(activityFlag, noteFlag string) {
	if activityFlag != "" {
		a.Activity = activityFlag
		a.HasActivity = true
	}
	if noteFlag != "" {
		a.Note = noteFlag
		a.HasNote = true
	}
}

// quoteMultiWord re-quotes arguments the shell already grouped, so
// tokenize keeps them together.
func quoteMultiWord(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if strings.ContainsRune(a, ' ') && !strings.ContainsAny(a, `"'`) {
			a = `"` + a + `"`
		}
		out[i] = a
	}
	return out
}

// tokenize splits input into tokens, preserving quoted strings.
func tokenize(input string) []string {
	var tokens []string
	var current strings.Builder
	inQuote := false
	quoteChar := rune(0)

	for _, r := range input {
		if (r == '"' || r == '\'') && !inQuote {
			inQuote = true
			quoteChar = r
			continue
		}
		if r == quoteChar && inQuote {
			inQuote = false
			quoteChar = 0
			continue
		}
		if r == ' ' && !inQuote {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			continue
		}
		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}
