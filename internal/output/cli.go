package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/codetrack/internal/model"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#10B981") // Green
	colorMuted     = lipgloss.Color("#6B7280") // Gray
	colorWarning   = lipgloss.Color("#F59E0B") // Yellow
	colorError     = lipgloss.Color("#EF4444") // Red
	colorSuccess   = lipgloss.Color("#10B981") // Green

	// Styles
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	styleActivity = lipgloss.NewStyle().
			Foreground(colorSecondary)

	styleDuration = lipgloss.NewStyle().
			Bold(true)

	styleNote = lipgloss.NewStyle().
			Italic(true).
			Foreground(colorMuted)
)

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

func (c *CLIFormatter) render(style lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return style.Render(text)
	}
	return text
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.render(styleTitle, text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.render(styleSuccess, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.render(styleWarning, "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.render(styleError, "✗ "+text))
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(c.render(styleMuted, text))
}

// ContainerName formats a course or project title in its color tag.
func (c *CLIFormatter) ContainerName(title, color string) string {
	style := styleTitle
	if color != "" {
		style = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
	}
	return c.render(style, title)
}

// ActivityName formats an activity title.
func (c *CLIFormatter) ActivityName(title string) string {
	return c.render(styleActivity, title)
}

// Duration formats a duration string.
func (c *CLIFormatter) Duration(text string) string {
	return c.render(styleDuration, text)
}

// Note formats a note.
func (c *CLIFormatter) Note(text string) string {
	return c.render(styleNote, text)
}

// ParentLabel renders "Course: Intro to Programming" for an activity.
func (c *CLIFormatter) ParentLabel(rec *model.ActivityRecord) string {
	return rec.ParentKind.Label() + ": " + c.ContainerName(rec.ParentTitle, rec.ParentColor)
}

// PrintContainers lists courses or projects with their activity counts and
// logged time.
func (c *CLIFormatter) PrintContainers(kind model.ParentKind, containers []*model.Container, activities []*model.ActivityRecord) {
	if len(containers) == 0 {
		c.Muted(fmt.Sprintf("No %ss yet.", kind))
		c.Muted(fmt.Sprintf("Use 'codetrack %s create <title>' to add one.", kind))
		return
	}

	counts := make(map[string]int)
	totals := make(map[string]int)
	for _, a := range activities {
		if a.ParentKind == kind {
			counts[a.ParentID]++
			totals[a.ParentID] += a.TotalSeconds()
		}
	}

	rows := make([]TableRow, 0, len(containers))
	for _, ct := range containers {
		rows = append(rows, TableRow{Columns: []string{
			ShortID(ct.ID),
			c.ContainerName(ct.Title, ct.Color),
			fmt.Sprint(counts[ct.ID]),
			FormatDuration(totals[ct.ID]),
		}})
	}
	c.PrintTable([]string{"ID", kind.Label(), "Activities", "Total"}, rows)
}

// PrintActivities lists activities with their parent and total time.
func (c *CLIFormatter) PrintActivities(records []*model.ActivityRecord) {
	if len(records) == 0 {
		c.Muted("No activities yet.")
		c.Muted("Use 'codetrack activity create <title> --course <course>' to add one.")
		return
	}

	rows := make([]TableRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, TableRow{Columns: []string{
			ShortID(r.ID),
			c.ActivityName(r.Title),
			r.ParentKind.Label() + ": " + c.ContainerName(r.ParentTitle, r.ParentColor),
			fmt.Sprint(len(r.Sessions)),
			c.Duration(FormatDuration(r.TotalSeconds())),
		}})
	}
	c.PrintTable([]string{"ID", "Activity", "Parent", "Sessions", "Total"}, rows)
}

// PrintActivity prints one activity with up to limit of its newest sessions.
// A limit of zero shows all sessions.
func (c *CLIFormatter) PrintActivity(rec *model.ActivityRecord, limit int) {
	c.Title(rec.Title)
	c.Printf("  %s\n", c.ParentLabel(rec))
	if rec.Description != "" {
		c.Printf("  %s\n", c.Note(rec.Description))
	}
	c.Printf("  Total: %s across %d sessions\n", c.Duration(FormatDuration(rec.TotalSeconds())), len(rec.Sessions))
	c.Println()
	c.PrintSessions(rec, limit)
}

// PrintSessions lists an activity's sessions newest first with the index
// used by 'session delete'.
func (c *CLIFormatter) PrintSessions(rec *model.ActivityRecord, limit int) {
	if len(rec.Sessions) == 0 {
		c.Muted("No sessions logged yet.")
		return
	}

	sessions := rec.Sessions
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}

	rows := make([]TableRow, 0, len(sessions))
	for i, s := range sessions {
		rows = append(rows, TableRow{Columns: []string{
			fmt.Sprint(i),
			FormatDay(s.OccurredAt),
			FormatClock(s.Seconds),
			string(s.Source),
			c.Note(firstLine(s.Notes)),
		}})
	}
	c.PrintTable([]string{"#", "Date", "Duration", "Source", "Notes"}, rows)

	if hidden := len(rec.Sessions) - len(sessions); hidden > 0 {
		c.Muted(fmt.Sprintf("… %d older sessions", hidden))
	}
}

// PrintSessionRecorded confirms a saved session.
func (c *CLIFormatter) PrintSessionRecorded(rec *model.ActivityRecord, s *model.Session) {
	c.Success(fmt.Sprintf("Logged %s on %s", FormatDuration(s.Seconds), rec.Title))
	if s.Notes != "" {
		c.Printf("  Notes: %s\n", c.Note(s.Notes))
	}
	c.Printf("  Date: %s\n", FormatDay(s.OccurredAt))
	c.Printf("  Activity total: %s\n", c.Duration(FormatDuration(rec.TotalSeconds())))
}

// PrintSessionDeleted confirms a removed session.
func (c *CLIFormatter) PrintSessionDeleted(rec *model.ActivityRecord, s *model.Session) {
	c.Success(fmt.Sprintf("Deleted %s session from %s", FormatClock(s.Seconds), rec.Title))
	c.Printf("  Activity total: %s\n", c.Duration(FormatDuration(rec.TotalSeconds())))
}

// PrintSummary prints the default status view.
func (c *CLIFormatter) PrintSummary(sum Summary) {
	c.Title("CodeTrack")
	if sum.User != "" {
		c.Muted("Signed in as " + sum.User)
	}
	c.Println()

	if sum.Activities == 0 {
		c.Muted("No activities yet.")
		c.Muted("Use 'codetrack activity create <title> --course <course>' to begin.")
		return
	}

	c.Printf("  Today:      %s\n", c.Duration(FormatDuration(sum.TodaySeconds)))
	c.Printf("  This week:  %s\n", c.Duration(FormatDuration(sum.WeekSeconds)))
	c.Printf("  All time:   %s\n", c.Duration(FormatDuration(sum.TotalSeconds)))
	c.Printf("  %d courses, %d projects, %d activities, %d sessions\n",
		sum.Courses, sum.Projects, sum.Activities, sum.Sessions)

	if len(sum.Top) > 0 {
		c.Println()
		c.Println(c.render(styleBold, "Most time this week"))
		for _, t := range sum.Top {
			pct := 0.0
			if sum.WeekSeconds > 0 {
				pct = float64(t.Seconds) / float64(sum.WeekSeconds) * 100
			}
			c.Printf("  %s %-24s %s\n", ProgressBar(pct, 20), t.Title, FormatDuration(t.Seconds))
		}
	}
}

// ProgressBar creates a simple progress bar.
func ProgressBar(percentage float64, width int) string {
	if percentage > 100 {
		percentage = 100
	}
	if percentage < 0 {
		percentage = 0
	}

	filled := int(float64(width) * percentage / 100)
	empty := width - filled

	return strings.Repeat("█", filled) + strings.Repeat("░", empty)
}

// TableRow is one row of a CLI table.
type TableRow struct {
	Columns []string
}

// PrintTable prints a simple table. Column widths are measured on the
// rendered cells, so styled text lines up.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) && lipgloss.Width(col) > widths[i] {
				widths[i] = lipgloss.Width(col)
			}
		}
	}

	pad := func(s string, w int) string {
		return s + strings.Repeat(" ", max(0, w-lipgloss.Width(s))) + "  "
	}

	var headerLine strings.Builder
	for i, h := range headers {
		headerLine.WriteString(pad(h, widths[i]))
	}
	c.Println(c.render(styleBold, strings.TrimRight(headerLine.String(), " ")))

	var sep strings.Builder
	for _, w := range widths {
		sep.WriteString(strings.Repeat("─", w) + "  ")
	}
	c.Println(strings.TrimRight(sep.String(), " "))

	for _, row := range rows {
		var rowLine strings.Builder
		for i, col := range row.Columns {
			if i < len(widths) {
				rowLine.WriteString(pad(col, widths[i]))
			}
		}
		c.Println(strings.TrimRight(rowLine.String(), " "))
	}
}

// ShortID returns the last eight characters of an id. Time-ordered ids
// share their leading characters, so the tail is the distinctive part.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
