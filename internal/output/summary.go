package output

import (
	"sort"
	"time"

	"github.com/manav03panchal/codetrack/internal/model"
	"github.com/manav03panchal/codetrack/internal/parser"
)

// Summary is the data behind the status view.
type Summary struct {
	User         string            `json:"user"`
	Courses      int               `json:"courses"`
	Projects     int               `json:"projects"`
	Activities   int               `json:"activities"`
	Sessions     int               `json:"sessions"`
	TodaySeconds int               `json:"today_seconds"`
	WeekSeconds  int               `json:"week_seconds"`
	TotalSeconds int               `json:"total_seconds"`
	Top          []ActivitySeconds `json:"top,omitempty"`
}

// ActivitySeconds pairs an activity title with logged seconds.
type ActivitySeconds struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Seconds int    `json:"seconds"`
}

// BuildSummary totals activity records relative to now. Top holds up to
// three activities with the most time this week.
func BuildSummary(user string, courses, projects int, records []*model.ActivityRecord, now time.Time) Summary {
	sum := Summary{
		User:       user,
		Courses:    courses,
		Projects:   projects,
		Activities: len(records),
	}

	today := parser.StartOfDay(now)
	week := parser.StartOfWeek(now)

	var top []ActivitySeconds
	for _, r := range records {
		weekSecs := 0
		for _, s := range r.Sessions {
			sum.Sessions++
			sum.TotalSeconds += s.Seconds
			at := s.OccurredAt.In(now.Location())
			if !at.Before(today) {
				sum.TodaySeconds += s.Seconds
			}
			if !at.Before(week) {
				sum.WeekSeconds += s.Seconds
				weekSecs += s.Seconds
			}
		}
		if weekSecs > 0 {
			top = append(top, ActivitySeconds{ID: r.ID, Title: r.Title, Seconds: weekSecs})
		}
	}

	sort.Slice(top, func(i, j int) bool {
		if top[i].Seconds != top[j].Seconds {
			return top[i].Seconds > top[j].Seconds
		}
		return top[i].Title < top[j].Title
	})
	if len(top) > 3 {
		top = top[:3]
	}
	sum.Top = top

	return sum
}
