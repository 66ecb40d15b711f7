package output

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/codetrack/internal/report"
)

// Series colors and, for colorless output, glyphs; both cycle.
var (
	seriesPalette = []lipgloss.Color{
		"#7C3AED", // Purple
		"#10B981", // Green
		"#F59E0B", // Yellow
		"#3B82F6", // Blue
		"#EF4444", // Red
		"#EC4899", // Pink
		"#14B8A6", // Teal
		"#6B7280", // Gray
	}
	seriesGlyphs = []string{"█", "▓", "▒", "░", "#", "=", "+", "*"}
)

// SeriesStyle returns the style and glyph for the i-th series.
func SeriesStyle(i int) (lipgloss.Style, string) {
	return lipgloss.NewStyle().Foreground(seriesPalette[i%len(seriesPalette)]), seriesGlyphs[i%len(seriesGlyphs)]
}

// RenderChart draws buckets as horizontal stacked bars, one row per bucket,
// followed by a legend. width is the full line width available. Returns ""
// when there is nothing to draw.
func RenderChart(buckets []report.Bucket, width int, color bool) string {
	if len(buckets) == 0 {
		return ""
	}

	titles := report.Titles(buckets)
	index := make(map[string]int, len(titles))
	for i, t := range titles {
		index[t] = i
	}

	labelWidth := 0
	maxTotal := 0.0
	for _, b := range buckets {
		labelWidth = max(labelWidth, lipgloss.Width(b.Label))
		maxTotal = math.Max(maxTotal, b.Total())
	}

	// label, two spaces, bar, space, value like "12.5h"
	barWidth := max(10, width-labelWidth-9)

	var sb strings.Builder
	for _, b := range buckets {
		sb.WriteString(fmt.Sprintf("%-*s  ", labelWidth, b.Label))

		drawn := 0
		cum := 0.0
		for _, v := range b.Series {
			cum += v.Hours
			end := min(scale(cum, maxTotal, barWidth), barWidth)
			if end <= drawn {
				continue
			}
			style, glyph := SeriesStyle(index[v.ActivityTitle])
			if color {
				glyph = "█"
			}
			seg := strings.Repeat(glyph, end-drawn)
			if color {
				seg = style.Render(seg)
			}
			sb.WriteString(seg)
			drawn = end
		}

		sb.WriteString(strings.Repeat(" ", barWidth-drawn))
		sb.WriteString(" " + FormatHours(b.Total()) + "\n")
	}

	sb.WriteString("\n")
	for i, t := range titles {
		style, glyph := SeriesStyle(i)
		key := glyph + glyph
		if color {
			key = style.Render("██")
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", key, t))
	}

	return sb.String()
}

func scale(hours, maxTotal float64, width int) int {
	if maxTotal <= 0 {
		return 0
	}
	return int(math.Round(hours / maxTotal * float64(width)))
}

// PrintStats renders a period chart with per-activity totals.
func (c *CLIFormatter) PrintStats(period report.Period, buckets []report.Bucket) {
	c.Title(fmt.Sprintf("Hours by %s", period))
	chart := RenderChart(buckets, min(c.Width(80), 100), c.IsColorEnabled())
	if chart == "" {
		c.Muted("No sessions logged yet.")
		return
	}
	c.Println()
	c.Print(chart)

	totals := report.Totals(buckets)
	rows := make([]TableRow, 0, len(totals))
	var sum float64
	for _, v := range totals {
		rows = append(rows, TableRow{Columns: []string{c.ActivityName(v.ActivityTitle), FormatHours(v.Hours)}})
		sum += v.Hours
	}
	c.Println()
	c.PrintTable([]string{"Activity", "Hours"}, rows)
	c.Muted(fmt.Sprintf("Total: %s", FormatHours(math.Round(sum*10)/10)))
}
