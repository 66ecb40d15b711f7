package runtime

import (
	stderrors "errors"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hay-kot/criterio"

	"github.com/manav03panchal/codetrack/internal/errors"
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// FormatError renders err for the terminal. Field errors are listed one per
// line; everything else gets its category prefix, suggestion and examples.
func FormatError(err error, color bool) string {
	if err == nil {
		return ""
	}
	paint := func(s lipgloss.Style, text string) string {
		if !color {
			return text
		}
		return s.Render(text)
	}

	var fieldErrs criterio.FieldErrors
	if stderrors.As(err, &fieldErrs) {
		return formatFieldErrors(err, fieldErrs, paint)
	}

	var b strings.Builder
	b.WriteString(paint(errorStyle, "✗ "+errors.FormatByCategory(err)))
	b.WriteString("\n")
	if examples := errors.GetExamples(err); len(examples) > 0 {
		b.WriteString(paint(mutedStyle, "\nExamples:"))
		b.WriteString("\n")
		for _, ex := range examples {
			b.WriteString(paint(mutedStyle, "  "+ex))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func formatFieldErrors(wrapped error, fieldErrs criterio.FieldErrors, paint func(lipgloss.Style, string) string) string {
	var b strings.Builder

	// Keep any context the caller wrapped around the field errors.
	errStr := wrapped.Error()
	context := ""
	if idx := strings.Index(errStr, fieldErrs.Error()); idx > 0 {
		context = strings.TrimSuffix(errStr[:idx], ": ")
	}

	b.WriteString(paint(errorStyle, "╭ Validation Error"))
	b.WriteString("\n")
	if context != "" {
		b.WriteString(paint(errorStyle, "│") + " " + paint(mutedStyle, context) + "\n")
		b.WriteString(paint(errorStyle, "│") + "\n")
	}
	for _, fe := range fieldErrs {
		line := paint(errorStyle, "│") + " " + paint(errorStyle, "✗") + " "
		if fe.Field != "" {
			line += paint(mutedStyle, fe.Field+": ")
		}
		line += fe.Err.Error()
		b.WriteString(line + "\n")
	}
	b.WriteString(paint(errorStyle, "╵"))
	b.WriteString("\n")
	return b.String()
}

// ReportError writes err in the context's output format. With no context
// (setup failed) it falls back to plain text.
func ReportError(c *Context, w io.Writer, err error) {
	if err == nil {
		return
	}
	if c != nil && c.IsJSON() {
		_ = c.JSONFormatter().PrintError(err)
		return
	}
	color := false
	if c != nil {
		color = c.Formatter.IsColorEnabled()
	}
	_, _ = io.WriteString(w, FormatError(err, color))
}

// ExitCode maps an error category to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch errors.Classify(err) {
	case errors.CategoryUser, errors.CategoryNotFound:
		return 2
	default:
		return 1
	}
}
