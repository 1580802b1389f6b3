package analysis

import (
	"sort"
	"time"
)

// WindowLength is the number of days covered by a weekend window.
const WindowLength = 3

// DefaultAnchor pins every window start to Friday, giving the
// Friday-through-Sunday weekend used for matchday analysis.
const DefaultAnchor = time.Friday

// Window is a fixed-length weekend date range identified by its start date.
// Start always falls on the anchor weekday; End is Start plus two days.
type Window struct {
	Start time.Time `json:"start"`
}

// End returns the last date covered by the window (inclusive).
func (w Window) End() time.Time {
	return w.Start.AddDate(0, 0, WindowLength-1)
}

// Contains reports whether d falls inside [Start, End].
func (w Window) Contains(d time.Time) bool {
	d = Day(d)
	return !d.Before(w.Start) && !d.After(w.End())
}

// Day truncates a timestamp to its calendar date at UTC midnight.
// All window arithmetic operates on values normalized through Day, so
// Window values compare equal regardless of how their inputs were built.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Attributor maps calendar dates to weekend windows under a fixed anchor
// weekday. The attribution rule is the forward rule: dates on the anchor day
// or the two days after it anchor back to that anchor occurrence, while
// earlier days of the cycle anchor forward to the upcoming one. For the
// default Friday anchor that means Friday, Saturday and Sunday belong to the
// weekend they sit in, and Monday through Thursday belong to the weekend
// ahead of them. The rule is applied identically to match and call dates.
type Attributor struct {
	Anchor time.Weekday
}

// NewAttributor returns an attributor using the default Friday anchor.
func NewAttributor() Attributor {
	return Attributor{Anchor: DefaultAnchor}
}

// WindowFor returns the window a date is attributed to. The mapping is total
// and deterministic: every date belongs to exactly one window, and
// WindowFor(w.Start) yields w itself.
func (a Attributor) WindowFor(d time.Time) Window {
	d = Day(d)
	offset := (int(d.Weekday()) - int(a.Anchor) + 7) % 7
	if offset < WindowLength {
		return Window{Start: d.AddDate(0, 0, -offset)}
	}
	return Window{Start: d.AddDate(0, 0, 7-offset)}
}

// Windows deduplicates the windows containing the given dates. Duplicate and
// reordered inputs produce the same set.
func (a Attributor) Windows(dates []time.Time) map[Window]bool {
	set := make(map[Window]bool, len(dates))
	for _, d := range dates {
		set[a.WindowFor(d)] = true
	}
	return set
}

// Calendar joins a set of match dates with the attribution rule, exposing the
// per-date classification queries the aggregator needs. A Calendar is a pure
// value derived from its inputs; it performs no I/O and is never persisted.
type Calendar struct {
	attributor   Attributor
	matchDays    map[time.Time]bool
	matchWindows map[Window]bool
}

// NewCalendar builds a calendar from the given match dates using the default
// Friday anchor.
func NewCalendar(matchDates []time.Time) *Calendar {
	attributor := NewAttributor()
	days := make(map[time.Time]bool, len(matchDates))
	for _, d := range matchDates {
		days[Day(d)] = true
	}
	return &Calendar{
		attributor:   attributor,
		matchDays:    days,
		matchWindows: attributor.Windows(matchDates),
	}
}

// WindowFor returns the window a date is attributed to.
func (c *Calendar) WindowFor(d time.Time) Window {
	return c.attributor.WindowFor(d)
}

// IsMatchDay reports whether d is exactly the date of a match, independent of
// any window logic.
func (c *Calendar) IsMatchDay(d time.Time) bool {
	return c.matchDays[Day(d)]
}

// IsMatchWindowDay reports whether d is attributed to a window that contains
// at least one match date.
func (c *Calendar) IsMatchWindowDay(d time.Time) bool {
	return c.matchWindows[c.attributor.WindowFor(d)]
}

// MatchWindows returns the distinct match windows in chronological order.
func (c *Calendar) MatchWindows() []Window {
	windows := make([]Window, 0, len(c.matchWindows))
	for w := range c.matchWindows {
		windows = append(windows, w)
	}
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Start.Before(windows[j].Start)
	})
	return windows
}
