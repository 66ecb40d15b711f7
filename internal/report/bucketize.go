// Package report groups logged sessions into calendar buckets for charting.
package report

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/manav03panchal/codetrack/internal/errors"
	"github.com/manav03panchal/codetrack/internal/model"
	"github.com/manav03panchal/codetrack/internal/parser"
)

// Period selects the bucket size.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Number of trailing buckets per period.
const (
	DayBuckets   = 7
	WeekBuckets  = 5
	MonthBuckets = 6
)

// ParsePeriod parses "day", "week" or "month" (case-insensitive).
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return p, nil
	case "":
		return PeriodDay, nil
	default:
		return "", errors.Invalid("period", s, errors.ErrInvalidPeriod)
	}
}

// Entry is one session flattened with its activity's identity.
type Entry struct {
	ActivityID    string
	ActivityTitle string
	Seconds       int
	OccurredAt    time.Time
}

// Value is the hours one activity logged within a bucket.
type Value struct {
	ActivityID    string  `json:"activity_id"`
	ActivityTitle string  `json:"activity_title"`
	Hours         float64 `json:"hours"`
}

// Bucket is one reporting window [Start, End).
type Bucket struct {
	Label  string    `json:"label"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Series []Value   `json:"series"`
}

// Total returns the hours of every activity in the bucket.
func (b Bucket) Total() float64 {
	var total float64
	for _, v := range b.Series {
		total += v.Hours
	}
	return roundHours(total)
}

// ByTitle returns hours keyed by activity title.
func (b Bucket) ByTitle() map[string]float64 {
	out := make(map[string]float64, len(b.Series))
	for _, v := range b.Series {
		out[v.ActivityTitle] = roundHours(out[v.ActivityTitle] + v.Hours)
	}
	return out
}

// EntriesFrom flattens activity records into entries.
func EntriesFrom(records []*model.ActivityRecord) []Entry {
	var entries []Entry
	for _, r := range records {
		for _, s := range r.Sessions {
			entries = append(entries, Entry{
				ActivityID:    r.ID,
				ActivityTitle: r.Title,
				Seconds:       s.Seconds,
				OccurredAt:    s.OccurredAt,
			})
		}
	}
	return entries
}

// Bucketize assigns each entry to the calendar bucket containing its date,
// using now's location for boundaries. Buckets run oldest to newest and
// include empty windows. Entries outside the window are ignored. When filter
// is given only those activity ids count. No entries yields nil.
func Bucketize(entries []Entry, period Period, now time.Time, filter ...string) []Bucket {
	entries = applyFilter(entries, filter)
	if len(entries) == 0 {
		return nil
	}

	buckets := windows(period, now)
	seconds := make([]map[string]int, len(buckets))
	titles := make(map[string]string)

	for _, e := range entries {
		at := e.OccurredAt.In(now.Location())
		i := sort.Search(len(buckets), func(i int) bool { return buckets[i].End.After(at) })
		if i == len(buckets) || at.Before(buckets[i].Start) {
			continue
		}
		if seconds[i] == nil {
			seconds[i] = make(map[string]int)
		}
		seconds[i][e.ActivityID] += e.Seconds
		titles[e.ActivityID] = e.ActivityTitle
	}

	for i := range buckets {
		for id, secs := range seconds[i] {
			buckets[i].Series = append(buckets[i].Series, Value{
				ActivityID:    id,
				ActivityTitle: titles[id],
				Hours:         roundHours(float64(secs) / 3600),
			})
		}
		sortValues(buckets[i].Series)
	}

	return buckets
}

// Totals sums hours per activity across buckets.
func Totals(buckets []Bucket) []Value {
	byID := make(map[string]*Value)
	for _, b := range buckets {
		for _, v := range b.Series {
			acc, ok := byID[v.ActivityID]
			if !ok {
				acc = &Value{ActivityID: v.ActivityID, ActivityTitle: v.ActivityTitle}
				byID[v.ActivityID] = acc
			}
			acc.Hours = roundHours(acc.Hours + v.Hours)
		}
	}

	out := make([]Value, 0, len(byID))
	for _, v := range byID {
		out = append(out, *v)
	}
	sortValues(out)
	return out
}

// Titles returns the distinct activity titles across buckets in series order.
func Titles(buckets []Bucket) []string {
	var titles []string
	for _, v := range Totals(buckets) {
		titles = append(titles, v.ActivityTitle)
	}
	return titles
}

func windows(period Period, now time.Time) []Bucket {
	var (
		n     int
		start time.Time
		step  func(time.Time, int) time.Time
		label string
	)

	switch period {
	case PeriodWeek:
		n, label = WeekBuckets, "Jan 2"
		start = parser.StartOfWeek(now)
		step = func(t time.Time, k int) time.Time { return t.AddDate(0, 0, 7*k) }
	case PeriodMonth:
		n, label = MonthBuckets, "Jan 2006"
		start = parser.StartOfMonth(now)
		step = func(t time.Time, k int) time.Time { return t.AddDate(0, k, 0) }
	default:
		n, label = DayBuckets, "Jan 2"
		start = parser.StartOfDay(now)
		step = func(t time.Time, k int) time.Time { return t.AddDate(0, 0, k) }
	}

	buckets := make([]Bucket, n)
	for i := 0; i < n; i++ {
		s := step(start, i-(n-1))
		buckets[i] = Bucket{
			Label: s.Format(label),
			Start: s,
			End:   step(s, 1),
		}
	}
	return buckets
}

func applyFilter(entries []Entry, ids []string) []Entry {
	if len(ids) == 0 {
		return entries
	}
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}

	var out []Entry
	for _, e := range entries {
		if keep[e.ActivityID] {
			out = append(out, e)
		}
	}
	return out
}

func sortValues(values []Value) {
	sort.Slice(values, func(i, j int) bool {
		if values[i].ActivityTitle != values[j].ActivityTitle {
			return values[i].ActivityTitle < values[j].ActivityTitle
		}
		return values[i].ActivityID < values[j].ActivityID
	})
}

func roundHours(h float64) float64 {
	return math.Round(h*10) / 10
}
