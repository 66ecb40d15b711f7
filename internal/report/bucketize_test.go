package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/codetrack/internal/errors"
	"github.com/manav03panchal/codetrack/internal/model"
)

// Wednesday, 11 March 2026.
var now = time.Date(2026, time.March, 11, 15, 30, 0, 0, time.UTC)

func at(month time.Month, day, hour int) time.Time {
	return time.Date(2026, month, day, hour, 0, 0, 0, time.UTC)
}

func labels(buckets []Bucket) []string {
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = b.Label
	}
	return out
}

// =============================================================================
// Windows
// =============================================================================

func TestBucketize_DayWindow(t *testing.T) {
	entries := []Entry{{ActivityID: "a", ActivityTitle: "Trees", Seconds: 3600, OccurredAt: at(3, 11, 9)}}

	buckets := Bucketize(entries, PeriodDay, now)

	require.Len(t, buckets, DayBuckets)
	assert.Equal(t, []string{"Mar 5", "Mar 6", "Mar 7", "Mar 8", "Mar 9", "Mar 10", "Mar 11"}, labels(buckets))
	assert.Equal(t, at(3, 5, 0), buckets[0].Start)
	assert.Equal(t, at(3, 12, 0), buckets[6].End)
}

func TestBucketize_WeekWindow(t *testing.T) {
	entries := []Entry{{ActivityID: "a", ActivityTitle: "Trees", Seconds: 3600, OccurredAt: at(3, 11, 9)}}

	buckets := Bucketize(entries, PeriodWeek, now)

	require.Len(t, buckets, WeekBuckets)
	assert.Equal(t, []string{"Feb 9", "Feb 16", "Feb 23", "Mar 2", "Mar 9"}, labels(buckets))
	for _, b := range buckets {
		assert.Equal(t, time.Monday, b.Start.Weekday())
	}
}

func TestBucketize_MonthWindow(t *testing.T) {
	entries := []Entry{{ActivityID: "a", ActivityTitle: "Trees", Seconds: 3600, OccurredAt: at(3, 11, 9)}}

	buckets := Bucketize(entries, PeriodMonth, now)

	require.Len(t, buckets, MonthBuckets)
	assert.Equal(t, []string{"Oct 2025", "Nov 2025", "Dec 2025", "Jan 2026", "Feb 2026", "Mar 2026"}, labels(buckets))
}

// =============================================================================
// Assignment
// =============================================================================

func TestBucketize_ThreeDistinctDays(t *testing.T) {
	entries := []Entry{
		{ActivityID: "a", ActivityTitle: "Trees", Seconds: 5400, OccurredAt: at(3, 6, 23)},
		{ActivityID: "a", ActivityTitle: "Trees", Seconds: 1800, OccurredAt: at(3, 9, 0)},
		{ActivityID: "a", ActivityTitle: "Trees", Seconds: 8100, OccurredAt: at(3, 11, 8)},
	}

	buckets := Bucketize(entries, PeriodDay, now)

	want := map[string]float64{"Mar 6": 1.5, "Mar 9": 0.5, "Mar 11": 2.3}
	var sum float64
	for _, b := range buckets {
		assert.Equal(t, want[b.Label], b.ByTitle()["Trees"], b.Label)
		sum += b.Total()
	}
	assert.InDelta(t, 4.3, sum, 1e-9)
}

func TestBucketize_CalendarNotRolling(t *testing.T) {
	// 23:30 the day before is less than 24h ago but belongs to yesterday.
	entries := []Entry{{ActivityID: "a", ActivityTitle: "Trees", Seconds: 3600, OccurredAt: time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)}}

	buckets := Bucketize(entries, PeriodDay, now)

	assert.Equal(t, 1.0, buckets[5].Total())
	assert.Zero(t, buckets[6].Total())
}

func TestBucketize_UsesNowLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	localNow := time.Date(2026, 3, 11, 10, 0, 0, 0, loc)
	// 02:00 UTC on the 11th is still the 10th in UTC-5.
	entries := []Entry{{ActivityID: "a", ActivityTitle: "Trees", Seconds: 3600, OccurredAt: at(3, 11, 2)}}

	buckets := Bucketize(entries, PeriodDay, localNow)

	assert.Equal(t, "Mar 10", buckets[5].Label)
	assert.Equal(t, 1.0, buckets[5].Total())
}

func TestBucketize_IgnoresOutsideWindow(t *testing.T) {
	entries := []Entry{
		{ActivityID: "a", ActivityTitle: "Trees", Seconds: 3600, OccurredAt: at(3, 4, 23)},
		{ActivityID: "a", ActivityTitle: "Trees", Seconds: 3600, OccurredAt: at(3, 12, 1)},
		{ActivityID: "a", ActivityTitle: "Trees", Seconds: 360, OccurredAt: at(3, 5, 0)},
	}

	buckets := Bucketize(entries, PeriodDay, now)

	var total float64
	for _, b := range buckets {
		total += b.Total()
	}
	assert.Equal(t, 0.1, total)
}

func TestBucketize_SeriesPerActivity(t *testing.T) {
	entries := []Entry{
		{ActivityID: "b", ActivityTitle: "Website", Seconds: 900, OccurredAt: at(3, 11, 9)},
		{ActivityID: "a", ActivityTitle: "Algorithms", Seconds: 1800, OccurredAt: at(3, 11, 10)},
		{ActivityID: "a", ActivityTitle: "Algorithms", Seconds: 1800, OccurredAt: at(3, 11, 11)},
	}

	today := Bucketize(entries, PeriodDay, now)[6]

	require.Len(t, today.Series, 2)
	assert.Equal(t, Value{ActivityID: "a", ActivityTitle: "Algorithms", Hours: 1.0}, today.Series[0])
	assert.Equal(t, Value{ActivityID: "b", ActivityTitle: "Website", Hours: 0.3}, today.Series[1])
}

func TestBucketize_Filter(t *testing.T) {
	entries := []Entry{
		{ActivityID: "a", ActivityTitle: "Algorithms", Seconds: 3600, OccurredAt: at(3, 11, 9)},
		{ActivityID: "b", ActivityTitle: "Website", Seconds: 3600, OccurredAt: at(3, 11, 9)},
	}

	t.Run("restricts_to_ids", func(t *testing.T) {
		buckets := Bucketize(entries, PeriodDay, now, "b")
		assert.Equal(t, []string{"Website"}, Titles(buckets))
	})

	t.Run("no_match_is_empty", func(t *testing.T) {
		assert.Nil(t, Bucketize(entries, PeriodDay, now, "zzz"))
	})
}

func TestBucketize_NoEntries(t *testing.T) {
	assert.Nil(t, Bucketize(nil, PeriodDay, now))
	assert.Nil(t, Bucketize([]Entry{}, PeriodMonth, now))
}

// =============================================================================
// Helpers
// =============================================================================

func TestTotals(t *testing.T) {
	entries := []Entry{
		{ActivityID: "a", ActivityTitle: "Algorithms", Seconds: 1800, OccurredAt: at(3, 9, 9)},
		{ActivityID: "a", ActivityTitle: "Algorithms", Seconds: 3600, OccurredAt: at(3, 11, 9)},
		{ActivityID: "b", ActivityTitle: "Website", Seconds: 7200, OccurredAt: at(3, 10, 9)},
	}

	totals := Totals(Bucketize(entries, PeriodWeek, now))

	assert.Equal(t, []Value{
		{ActivityID: "a", ActivityTitle: "Algorithms", Hours: 1.5},
		{ActivityID: "b", ActivityTitle: "Website", Hours: 2.0},
	}, totals)
}

func TestEntriesFrom(t *testing.T) {
	rec := &model.ActivityRecord{
		Activity: &model.Activity{ID: "a", Title: "Algorithms"},
		Sessions: []*model.Session{
			{Seconds: 60, OccurredAt: at(3, 1, 0)},
			{Seconds: 120, OccurredAt: at(3, 2, 0)},
		},
	}

	entries := EntriesFrom([]*model.ActivityRecord{rec})

	require.Len(t, entries, 2)
	assert.Equal(t, Entry{ActivityID: "a", ActivityTitle: "Algorithms", Seconds: 120, OccurredAt: at(3, 2, 0)}, entries[1])
	assert.Nil(t, EntriesFrom(nil))
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"day", PeriodDay, false},
		{"WEEK", PeriodWeek, false},
		{" month ", PeriodMonth, false},
		{"", PeriodDay, false},
		{"year", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePeriod(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidPeriod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
