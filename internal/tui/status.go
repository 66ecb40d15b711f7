package tui

import (
	"fmt"
	"strings"

	"github.com/manav03panchal/codetrack/internal/model"
	"github.com/manav03panchal/codetrack/internal/output"
	"github.com/manav03panchal/codetrack/internal/report"
	"github.com/manav03panchal/codetrack/internal/timer"
)

// holdsTime reports whether the stopwatch has time that is not saved yet.
func holdsTime(snap timer.Snapshot) bool {
	return snap.State != timer.StateReady && snap.Seconds > 0
}

// TimerComponent displays the stopwatch for one activity.
type TimerComponent struct {
	Snap     timer.Snapshot
	Activity *model.ActivityRecord
	Width    int
	Color    bool
}

// NewTimerComponent creates a new timer component.
func NewTimerComponent(snap timer.Snapshot, activity *model.ActivityRecord, width int, color bool) *TimerComponent {
	return &TimerComponent{Snap: snap, Activity: activity, Width: width, Color: color}
}

// View renders the timer component.
func (tc *TimerComponent) View() string {
	box := StyleTimerBox
	if holdsTime(tc.Snap) {
		box = StyleActiveTimerBox
	}
	if tc.Width > 4 {
		box = box.Width(tc.Width - 4)
	}

	if tc.Activity == nil && tc.Snap.ActivityID == "" {
		var content strings.Builder
		content.WriteString(StyleMuted.Render("No timer running"))
		content.WriteString("\n\n")
		content.WriteString(StyleSubtitle.Render("Select an activity and press ENTER to start timing"))
		return box.Render(content.String())
	}

	title := tc.Snap.ActivityID
	if tc.Activity != nil {
		title = tc.Activity.Title
	}
	d := timer.NewDisplay()
	d.UseColor = tc.Color
	return box.Render(d.Render(tc.Snap, title))
}

// SummaryComponent shows today's, this week's and all-time totals.
type SummaryComponent struct {
	Summary output.Summary
}

// View renders the summary line.
func (sc SummaryComponent) View() string {
	s := sc.Summary
	parts := []string{
		fmt.Sprintf("Today %s", StyleDuration.Render(output.FormatDuration(s.TodaySeconds))),
		fmt.Sprintf("Week %s", StyleDuration.Render(output.FormatDuration(s.WeekSeconds))),
		fmt.Sprintf("Total %s", StyleDuration.Render(output.FormatDuration(s.TotalSeconds))),
		StyleMuted.Render(fmt.Sprintf("%d activities, %d sessions", s.Activities, s.Sessions)),
	}
	return strings.Join(parts, "   ")
}

// ChartComponent renders a bucketed stacked chart.
type ChartComponent struct {
	Period  report.Period
	Buckets []report.Bucket
	Width   int
	Color   bool
}

// View renders the chart component.
func (cc *ChartComponent) View() string {
	var content strings.Builder
	content.WriteString(StyleTitle.Render(fmt.Sprintf("Hours by %s", cc.Period)))
	content.WriteString("\n")

	width := max(cc.Width-6, 30)
	chart := output.RenderChart(cc.Buckets, width, cc.Color)
	if chart == "" {
		content.WriteString(StyleMuted.Render("No sessions logged yet"))
	} else {
		content.WriteString(strings.TrimRight(chart, "\n"))
	}

	box := StyleChartBox
	if cc.Width > 4 {
		box = box.Width(cc.Width - 4)
	}
	return box.Render(content.String())
}

// nextPeriod cycles day, week, month.
func nextPeriod(p report.Period) report.Period {
	switch p {
	case report.PeriodDay:
		return report.PeriodWeek
	case report.PeriodWeek:
		return report.PeriodMonth
	default:
		return report.PeriodDay
	}
}
