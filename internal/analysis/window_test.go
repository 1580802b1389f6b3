package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWindowForAnchorsToFriday(t *testing.T) {
	a := NewAttributor()

	tests := []struct {
		name      string
		day       time.Time
		wantStart time.Time
	}{
		{"friday itself", date(2024, 3, 1), date(2024, 3, 1)},
		{"saturday", date(2024, 3, 2), date(2024, 3, 1)},
		{"sunday", date(2024, 3, 3), date(2024, 3, 1)},
		{"monday rolls forward", date(2024, 3, 4), date(2024, 3, 8)},
		{"thursday rolls forward", date(2024, 3, 7), date(2024, 3, 8)},
		{"year boundary", date(2024, 12, 31), date(2025, 1, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.WindowFor(tt.day)
			assert.Equal(t, tt.wantStart, w.Start)
			assert.Equal(t, time.Friday, w.Start.Weekday())
			assert.Equal(t, tt.wantStart.AddDate(0, 0, 2), w.End())
		})
	}
}

func TestWindowForIsIdempotent(t *testing.T) {
	a := NewAttributor()

	// A window's own start maps back to itself, and weekend dates always land
	// inside the window they map to.
	for d := date(2024, 1, 1); d.Year() == 2024; d = d.AddDate(0, 0, 1) {
		w := a.WindowFor(d)
		assert.Equal(t, w, a.WindowFor(w.Start), "start of %v must map to itself", d)
		if wd := d.Weekday(); wd == time.Friday || wd == time.Saturday || wd == time.Sunday {
			assert.True(t, w.Contains(d), "weekend date %v must sit inside its window", d)
		}
	}
}

func TestWindowForPartitionsDates(t *testing.T) {
	a := NewAttributor()

	// No date maps to two different windows: repeated attribution of the same
	// date is stable, and a full week maps to exactly one window.
	week := []time.Time{
		date(2024, 3, 4), date(2024, 3, 5), date(2024, 3, 6), date(2024, 3, 7),
		date(2024, 3, 8), date(2024, 3, 9), date(2024, 3, 10),
	}
	want := Window{Start: date(2024, 3, 8)}
	for _, d := range week {
		assert.Equal(t, want, a.WindowFor(d))
		assert.Equal(t, a.WindowFor(d), a.WindowFor(d))
	}
}

func TestWindowsSetSemantics(t *testing.T) {
	a := NewAttributor()

	ordered := []time.Time{date(2024, 3, 2), date(2024, 3, 10), date(2024, 3, 16)}
	shuffledWithDupes := []time.Time{
		date(2024, 3, 16), date(2024, 3, 2), date(2024, 3, 10),
		date(2024, 3, 2), date(2024, 3, 3), // same window as 03-02
	}

	assert.Equal(t, a.Windows(ordered), a.Windows(shuffledWithDupes))
	assert.Len(t, a.Windows(shuffledWithDupes), 3)
}

func TestCalendarMatchQueries(t *testing.T) {
	matchDates := []time.Time{
		date(2024, 3, 2),  // Saturday
		date(2024, 3, 10), // Sunday
		date(2024, 3, 16), // Saturday
	}
	cal := NewCalendar(matchDates)

	callDates := []time.Time{
		date(2024, 3, 2), date(2024, 3, 2), date(2024, 3, 3),
		date(2024, 3, 9), date(2024, 3, 10), date(2024, 3, 10),
		date(2024, 3, 16),
	}

	for _, d := range callDates {
		assert.True(t, cal.IsMatchWindowDay(d), "call on %v must fall in a match window", d)
	}

	assert.True(t, cal.IsMatchDay(date(2024, 3, 2)))
	assert.False(t, cal.IsMatchDay(date(2024, 3, 3)), "exact-day check is independent of windows")
	assert.False(t, cal.IsMatchWindowDay(date(2024, 3, 23)))

	windows := cal.MatchWindows()
	require.Len(t, windows, 3)
	assert.Equal(t, date(2024, 3, 1), windows[0].Start)
	assert.Equal(t, date(2024, 3, 8), windows[1].Start)
	assert.Equal(t, date(2024, 3, 15), windows[2].Start)
}

func TestCalendarHandlesTimestampInputs(t *testing.T) {
	// Dates arriving with a time-of-day component normalize to the same
	// window as their midnight equivalents.
	noon := time.Date(2024, 3, 2, 12, 30, 0, 0, time.UTC)
	cal := NewCalendar([]time.Time{noon})

	assert.True(t, cal.IsMatchDay(date(2024, 3, 2)))
	assert.True(t, cal.IsMatchWindowDay(date(2024, 3, 1)))
}
