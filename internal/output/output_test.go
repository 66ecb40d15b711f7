package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cterrors "github.com/manav03panchal/codetrack/internal/errors"
	"github.com/manav03panchal/codetrack/internal/model"
	"github.com/manav03panchal/codetrack/internal/report"
)

func plain(buf *bytes.Buffer) *CLIFormatter {
	return NewCLIFormatter(&Formatter{Writer: buf, Format: FormatCLI, ColorMode: ColorNever})
}

func sampleRecord() *model.ActivityRecord {
	day := time.Date(2026, 3, 11, 9, 0, 0, 0, time.Local)
	return &model.ActivityRecord{
		Activity: model.NewActivity("u1", "0190c0de-0000-7000-8000-00000000abcd", "Learn Python", "chapter work", model.KindCourse, "c1", day),
		Sessions: []*model.Session{
			model.NewSession("u1", "a1", "s2", 8100, day, "loops\nand more", model.SourceManual, day),
			model.NewSession("u1", "a1", "s1", 125, day.AddDate(0, 0, -1), "", model.SourceTimer, day),
		},
		ParentTitle: "Intro to Programming",
	}
}

// =============================================================================
// Time Formatter Tests
// =============================================================================

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{60, "01:00"},
		{3599, "59:59"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{-5, "00:00"},
		{100 * 3600, "100:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatClock(tt.seconds))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0h 0m"},
		{125, "0h 2m"},
		{8100, "2h 15m"},
		{3599, "0h 59m"},
		{90061, "25h 1m"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.seconds))
		})
	}
}

func TestFormatDurationRoundTrip(t *testing.T) {
	for _, hm := range [][2]int{{0, 0}, {0, 59}, {1, 0}, {7, 30}, {123, 45}} {
		secs := hm[0]*3600 + hm[1]*60 + 17
		var h, m int
		_, err := fmt.Sscanf(FormatDuration(secs), "%dh %dm", &h, &m)
		require.NoError(t, err)
		assert.Equal(t, hm, [2]int{h, m})
	}
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "2.3h", FormatHours(2.3))
	assert.Equal(t, "0.0h", FormatHours(0))
}

// =============================================================================
// Formatter Tests
// =============================================================================

func TestNewFormatter(t *testing.T) {
	f := NewFormatter()
	assert.Equal(t, FormatCLI, f.Format)
	assert.Equal(t, ColorAuto, f.ColorMode)
}

func TestFormatterIsColorEnabled(t *testing.T) {
	var buf bytes.Buffer

	assert.True(t, (&Formatter{Writer: &buf, ColorMode: ColorAlways}).IsColorEnabled())
	assert.False(t, (&Formatter{Writer: &buf, ColorMode: ColorNever}).IsColorEnabled())
	assert.False(t, (&Formatter{Writer: &buf, ColorMode: ColorAuto}).IsColorEnabled(), "buffer is not a terminal")
	assert.False(t, (&Formatter{Writer: &buf, Format: FormatPlain, ColorMode: ColorAlways}).IsColorEnabled())
}

func TestParseFormatAndColor(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCLI, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)

	m, err := ParseColorMode("never")
	require.NoError(t, err)
	assert.Equal(t, ColorNever, m)

	_, err = ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestFormatterWidthFallback(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, 72, (&Formatter{Writer: &buf}).Width(72))
}

func TestFormatterJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Writer: &buf}

	require.NoError(t, f.JSON(map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a":1}`, buf.String())
}

// =============================================================================
// CLI Formatter Tests
// =============================================================================

func TestCLIFormatterMessages(t *testing.T) {
	var buf bytes.Buffer
	c := plain(&buf)

	c.Title("Title")
	c.Success("saved")
	c.Warning("careful")
	c.Error("broken")
	c.Muted("quiet")

	assert.Equal(t, "Title\n✓ saved\n⚠ careful\n✗ broken\nquiet\n", buf.String())
}

func TestCLIFormatterColorAlways(t *testing.T) {
	var buf bytes.Buffer
	c := NewCLIFormatter(&Formatter{Writer: &buf, ColorMode: ColorAlways})
	assert.Contains(t, c.ContainerName("Intro", "#FF5733"), "Intro")
	assert.Equal(t, "Intro", plain(&buf).ContainerName("Intro", "#FF5733"))
}

func TestPrintActivities(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		plain(&buf).PrintActivities(nil)
		assert.Contains(t, buf.String(), "No activities yet.")
	})

	t.Run("rows", func(t *testing.T) {
		var buf bytes.Buffer
		plain(&buf).PrintActivities([]*model.ActivityRecord{sampleRecord()})

		out := buf.String()
		assert.Contains(t, out, "Learn Python")
		assert.Contains(t, out, "Course: Intro to Programming")
		assert.Contains(t, out, "2h 17m")
		assert.Contains(t, out, "0000abcd")
	})
}

func TestPrintActivity(t *testing.T) {
	var buf bytes.Buffer
	plain(&buf).PrintActivity(sampleRecord(), 1)

	out := buf.String()
	assert.Contains(t, out, "Learn Python\n")
	assert.Contains(t, out, "Total: 2h 17m across 2 sessions")
	assert.Contains(t, out, "02:15:00")
	assert.Contains(t, out, "loops …")
	assert.NotContains(t, out, "02:05")
	assert.Contains(t, out, "1 older sessions")
}

func TestPrintSessionsIndexes(t *testing.T) {
	var buf bytes.Buffer
	plain(&buf).PrintSessions(sampleRecord(), 0)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[2], "0 "))
	assert.True(t, strings.HasPrefix(lines[3], "1 "))
	assert.Contains(t, lines[3], "02:05")
}

func TestPrintContainers(t *testing.T) {
	var buf bytes.Buffer
	now := time.Now()
	courses := []*model.Container{
		model.NewContainer(model.KindCourse, "u1", "c1", "Intro to Programming", "", "", now),
		model.NewContainer(model.KindCourse, "u1", "c2", "Databases", "", "", now),
	}

	plain(&buf).PrintContainers(model.KindCourse, courses, []*model.ActivityRecord{sampleRecord()})

	out := buf.String()
	assert.Contains(t, out, "Course")
	assert.Regexp(t, `Intro to Programming\s+1\s+2h 17m`, out)
	assert.Regexp(t, `Databases\s+0\s+0h 0m`, out)
}

func TestPrintSessionRecorded(t *testing.T) {
	var buf bytes.Buffer
	rec := sampleRecord()
	plain(&buf).PrintSessionRecorded(rec, rec.Sessions[0])

	assert.Contains(t, buf.String(), "✓ Logged 2h 15m on Learn Python")
	assert.Contains(t, buf.String(), "Activity total: 2h 17m")
}

func TestPrintTableAlignsStyledCells(t *testing.T) {
	var buf bytes.Buffer
	c := NewCLIFormatter(&Formatter{Writer: &buf, ColorMode: ColorNever})

	c.PrintTable([]string{"A", "B"}, []TableRow{{Columns: []string{"x", "1"}}, {Columns: []string{"longer", "2"}}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "A       B", lines[0])
	assert.Equal(t, "x       1", lines[2])
	assert.Equal(t, "longer  2", lines[3])
}

func TestPrintTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	plain(&buf).PrintTable([]string{"A"}, nil)
	assert.Empty(t, buf.String())
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░", ProgressBar(50, 10))
	assert.Equal(t, "██████████", ProgressBar(150, 10))
	assert.Equal(t, "░░░░░░░░░░", ProgressBar(-3, 10))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0000abcd", ShortID("0190c0de-0000-7000-8000-00000000abcd"))
	assert.Equal(t, "c1", ShortID("c1"))
}

// =============================================================================
// Summary Tests
// =============================================================================

func TestBuildSummary(t *testing.T) {
	now := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC) // Wednesday
	rec := &model.ActivityRecord{
		Activity: &model.Activity{ID: "a", Title: "Trees"},
		Sessions: []*model.Session{
			{Seconds: 600, OccurredAt: now.Add(-time.Hour)},
			{Seconds: 1200, OccurredAt: now.AddDate(0, 0, -2)},
			{Seconds: 3600, OccurredAt: now.AddDate(0, 0, -10)},
		},
	}
	other := &model.ActivityRecord{
		Activity: &model.Activity{ID: "b", Title: "Website"},
		Sessions: []*model.Session{{Seconds: 60, OccurredAt: now}},
	}

	sum := BuildSummary("alice", 1, 1, []*model.ActivityRecord{rec, other}, now)

	assert.Equal(t, 2, sum.Activities)
	assert.Equal(t, 4, sum.Sessions)
	assert.Equal(t, 660, sum.TodaySeconds)
	assert.Equal(t, 1860, sum.WeekSeconds)
	assert.Equal(t, 5460, sum.TotalSeconds)
	require.Len(t, sum.Top, 2)
	assert.Equal(t, "Trees", sum.Top[0].Title)
	assert.Equal(t, 1800, sum.Top[0].Seconds)
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	plain(&buf).PrintSummary(Summary{User: "alice", Activities: 1, Sessions: 1, TodaySeconds: 8100, WeekSeconds: 8100, TotalSeconds: 8100,
		Top: []ActivitySeconds{{Title: "Learn Python", Seconds: 8100}}})

	out := buf.String()
	assert.Contains(t, out, "Signed in as alice")
	assert.Contains(t, out, "Today:      2h 15m")
	assert.Contains(t, out, "Learn Python")
}

// =============================================================================
// Chart Tests
// =============================================================================

func TestRenderChart(t *testing.T) {
	buckets := []report.Bucket{
		{Label: "Mar 10", Series: []report.Value{{ActivityID: "a", ActivityTitle: "Algorithms", Hours: 1.0}}},
		{Label: "Mar 11", Series: []report.Value{
			{ActivityID: "a", ActivityTitle: "Algorithms", Hours: 1.0},
			{ActivityID: "b", ActivityTitle: "Website", Hours: 1.0},
		}},
	}

	out := RenderChart(buckets, 39, false)
	lines := strings.Split(out, "\n")

	// 39 - 6 label - 9 = 24 cells for the largest bucket.
	assert.Equal(t, "Mar 10  "+strings.Repeat("█", 12)+strings.Repeat(" ", 12)+" 1.0h", lines[0])
	assert.Equal(t, "Mar 11  "+strings.Repeat("█", 12)+strings.Repeat("▓", 12)+" 2.0h", lines[1])
	assert.Contains(t, out, "██ Algorithms\n")
	assert.Contains(t, out, "▓▓ Website\n")
}

func TestRenderChartEmpty(t *testing.T) {
	assert.Empty(t, RenderChart(nil, 80, false))
}

func TestPrintStats(t *testing.T) {
	t.Run("no_data", func(t *testing.T) {
		var buf bytes.Buffer
		plain(&buf).PrintStats(report.PeriodWeek, nil)
		assert.Contains(t, buf.String(), "Hours by week")
		assert.Contains(t, buf.String(), "No sessions logged yet.")
	})

	t.Run("totals", func(t *testing.T) {
		var buf bytes.Buffer
		plain(&buf).PrintStats(report.PeriodDay, []report.Bucket{
			{Label: "Mar 11", Series: []report.Value{{ActivityID: "a", ActivityTitle: "Algorithms", Hours: 1.5}}},
		})
		assert.Contains(t, buf.String(), "Total: 1.5h")
	})
}

// =============================================================================
// JSON Formatter Tests
// =============================================================================

func TestJSONFormatterPrintActivity(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSONFormatter(&Formatter{Writer: &buf, Format: FormatJSON})

	require.NoError(t, j.PrintActivity(sampleRecord()))

	var out ActivityOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 8225, out.TotalSeconds)
	assert.Equal(t, "2h 17m", out.TotalTime)
	assert.Equal(t, "Intro to Programming", out.ParentTitle)
	require.Len(t, out.Sessions, 2)
	assert.Equal(t, 0, out.Sessions[0].Index)
	assert.Equal(t, "02:15:00", out.Sessions[0].Duration)
	assert.Equal(t, "manual", out.Sessions[0].Source)
}

func TestJSONFormatterPrintActivities(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSONFormatter(&Formatter{Writer: &buf, Format: FormatJSON})

	require.NoError(t, j.PrintActivities([]*model.ActivityRecord{sampleRecord()}))

	var out ActivitiesResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 8225, out.TotalSeconds)
	require.Len(t, out.Activities, 1)
	assert.Nil(t, out.Activities[0].Sessions)
}

func TestJSONFormatterPrintStatsEmpty(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSONFormatter(&Formatter{Writer: &buf, Format: FormatJSON})

	require.NoError(t, j.PrintStats(report.PeriodMonth, nil))
	assert.JSONEq(t, `{"period":"month","buckets":[],"totals":[]}`, buf.String())
}

func TestNewErrorResponse(t *testing.T) {
	t.Run("user", func(t *testing.T) {
		resp := NewErrorResponse(cterrors.Invalid("duration", "x", cterrors.ErrInvalidDuration))
		assert.Equal(t, "user", resp.Category)
		assert.NotEmpty(t, resp.Suggestion)
	})

	t.Run("system", func(t *testing.T) {
		resp := NewErrorResponse(cterrors.NewSystemError("failed to save session", errors.New("disk")))
		assert.Equal(t, "system", resp.Category)
		assert.Equal(t, "failed to save session", resp.Error)
	})
}
