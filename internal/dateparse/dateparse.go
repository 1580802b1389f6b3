package dateparse

import (
	"strings"
	"time"
)

// Preference selects which side of an ambiguous numeric date wins. The call
// exports use day-first dates while some match exports come out of
// spreadsheets month-first, so the caller states its expectation up front.
type Preference int

const (
	DayFirst Preference = iota
	MonthFirst
)

// DefaultRetryThreshold is the failure rate above which the preferred layout
// ordering is abandoned and the fallback layouts are scored column-wide.
const DefaultRetryThreshold = 0.20

// fallbackLayouts are scored one at a time when the preferred ordering fails
// too often; the layout with the most successes wins the whole column.
var fallbackLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"01/02/2006",
}

var dayFirstLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z",
	"02/01/2006",
	"02-01-2006",
	"2/1/2006",
	"02/01/2006 15:04",
}

var monthFirstLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z",
	"01/02/2006",
	"01-02-2006",
	"1/2/2006",
	"01/02/2006 15:04",
}

// Result carries the normalized column: one entry per input value, each either
// a valid calendar date (UTC midnight) or explicitly invalid, plus the number
// of excluded rows. Excluded rows are dropped downstream but never silently
// lost.
type Result struct {
	Dates    []time.Time
	Valid    []bool
	Excluded int
	Layout   string // winning fallback layout, empty when the preference held
}

// Parse attempts a single value against the given preference's layouts.
// The date is truncated to UTC midnight.
func Parse(value string, pref Preference) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range layoutsFor(pref) {
		if t, err := time.Parse(layout, value); err == nil {
			return midnight(t), true
		}
	}
	return time.Time{}, false
}

// NormalizeColumn parses a whole column of raw date-like values. The preferred
// layout ordering is tried first; if its failure rate exceeds
// DefaultRetryThreshold the fallback layouts are each scored against the full
// column and the highest-scoring one replaces the first pass. Output length
// always equals input length.
func NormalizeColumn(values []string, pref Preference) Result {
	res := Result{
		Dates: make([]time.Time, len(values)),
		Valid: make([]bool, len(values)),
	}

	failures := 0
	for i, v := range values {
		if d, ok := Parse(v, pref); ok {
			res.Dates[i] = d
			res.Valid[i] = true
		} else {
			failures++
		}
	}

	if len(values) > 0 && float64(failures)/float64(len(values)) > DefaultRetryThreshold {
		if layout, dates, valid, retryFailures := bestFallback(values); retryFailures < failures {
			res.Dates = dates
			res.Valid = valid
			res.Layout = layout
			failures = retryFailures
		}
	}

	res.Excluded = failures
	return res
}

// bestFallback parses the column with each fallback layout in turn and
// returns the one yielding the highest success count.
func bestFallback(values []string) (string, []time.Time, []bool, int) {
	bestFailures := len(values) + 1
	var bestLayout string
	var bestDates []time.Time
	var bestValid []bool

	for _, layout := range fallbackLayouts {
		dates := make([]time.Time, len(values))
		valid := make([]bool, len(values))
		failures := 0
		for i, v := range values {
			t, err := time.Parse(layout, strings.TrimSpace(v))
			if err != nil {
				failures++
				continue
			}
			dates[i] = midnight(t)
			valid[i] = true
		}
		if failures < bestFailures {
			bestFailures = failures
			bestLayout = layout
			bestDates = dates
			bestValid = valid
		}
	}
	return bestLayout, bestDates, bestValid, bestFailures
}

func layoutsFor(pref Preference) []string {
	if pref == MonthFirst {
		return monthFirstLayouts
	}
	return dayFirstLayouts
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
