package analysis

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountByWindowWorkedExample(t *testing.T) {
	cal := NewCalendar([]time.Time{
		date(2024, 3, 2), date(2024, 3, 10), date(2024, 3, 16),
	})
	callDates := []time.Time{
		date(2024, 3, 2), date(2024, 3, 2), date(2024, 3, 3),
		date(2024, 3, 9), date(2024, 3, 10), date(2024, 3, 10),
		date(2024, 3, 16),
	}

	counts := CountByWindow(callDates, cal)

	require.Len(t, counts, 3)
	assert.Equal(t, Window{Start: date(2024, 3, 1)}, counts[0].Window)
	assert.Equal(t, 3, counts[0].Calls)
	assert.Equal(t, Window{Start: date(2024, 3, 8)}, counts[1].Window)
	assert.Equal(t, 3, counts[1].Calls)
	assert.Equal(t, Window{Start: date(2024, 3, 15)}, counts[2].Window)
	assert.Equal(t, 1, counts[2].Calls)
	for _, c := range counts {
		assert.True(t, c.HasMatch)
	}
}

func TestCountByWindowClassifiesNonMatchWeekends(t *testing.T) {
	cal := NewCalendar([]time.Time{date(2024, 3, 2)})
	callDates := []time.Time{date(2024, 3, 2), date(2024, 3, 9)}

	counts := CountByWindow(callDates, cal)

	require.Len(t, counts, 2)
	assert.True(t, counts[0].HasMatch)
	assert.False(t, counts[1].HasMatch)
}

func TestCompareAveragesAndGrouping(t *testing.T) {
	cal := NewCalendar([]time.Time{date(2024, 3, 2)})
	callDates := []time.Time{
		// Match weekend: 2 calls on Saturday, 1 on Sunday.
		date(2024, 3, 2), date(2024, 3, 2), date(2024, 3, 3),
		// Non-match weekend a week later: 1 call on each day.
		date(2024, 3, 9), date(2024, 3, 10),
	}

	cmp := Compare(callDates, cal)

	assert.Equal(t, 3, cmp.Match.Calls)
	assert.Equal(t, 2, cmp.Match.Days)
	assert.InDelta(t, 1.5, cmp.Match.Average, 1e-9)
	assert.Equal(t, 2, cmp.NonMatch.Calls)
	assert.Equal(t, 2, cmp.NonMatch.Days)
	assert.InDelta(t, 1.0, cmp.NonMatch.Average, 1e-9)
}

func TestCompareEmptyGroupAverageIsZero(t *testing.T) {
	cal := NewCalendar([]time.Time{date(2024, 3, 2)})
	// Every call lands in the match window; the non-match group is empty.
	cmp := Compare([]time.Time{date(2024, 3, 2), date(2024, 3, 3)}, cal)

	assert.Equal(t, 0, cmp.NonMatch.Calls)
	assert.Equal(t, 0, cmp.NonMatch.Days)
	assert.Equal(t, 0.0, cmp.NonMatch.Average)
	assert.False(t, math.IsNaN(cmp.NonMatch.Average))
	assert.False(t, cmp.Welch.Defined)
}

func TestCompareEmptyInput(t *testing.T) {
	cal := NewCalendar(nil)
	cmp := Compare(nil, cal)

	assert.Equal(t, 0.0, cmp.Match.Average)
	assert.Equal(t, 0.0, cmp.NonMatch.Average)
	assert.False(t, cmp.Welch.Defined)
}

func TestWelchSignSymmetry(t *testing.T) {
	a := []float64{4, 7, 5, 6, 9}
	b := []float64{2, 3, 2, 4}

	ab := Welch(a, b)
	ba := Welch(b, a)

	require.True(t, ab.Defined)
	require.True(t, ba.Defined)
	assert.InDelta(t, -ab.T, ba.T, 1e-12)
	assert.InDelta(t, ab.DF, ba.DF, 1e-12)
}

func TestWelchKnownValue(t *testing.T) {
	a := []float64{10, 12, 14}
	b := []float64{8, 9}

	res := Welch(a, b)

	require.True(t, res.Defined)
	// mean_a=12, var_a=4, mean_b=8.5, var_b=0.5
	// se = 4/3 + 0.5/2 = 19/12
	wantT := (12.0 - 8.5) / math.Sqrt(19.0/12.0)
	se := 19.0 / 12.0
	wantDF := se * se / (math.Pow(4.0/3.0, 2)/2 + math.Pow(0.25, 2)/1)
	assert.InDelta(t, wantT, res.T, 1e-12)
	assert.InDelta(t, wantDF, res.DF, 1e-12)
}

func TestWelchUndefinedCases(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
	}{
		{"singleton group b", []float64{3, 4, 5}, []float64{2}},
		{"singleton group a", []float64{1}, []float64{3, 4}},
		{"empty groups", nil, nil},
		{"zero variance both", []float64{2, 2}, []float64{2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Welch(tt.a, tt.b)
			assert.False(t, res.Defined)
			assert.False(t, math.IsNaN(res.T))
			assert.False(t, math.IsNaN(res.DF))
		})
	}
}

func TestResultBreakdown(t *testing.T) {
	matches := []MatchOutcome{
		{Date: date(2024, 3, 2), Result: "W"},
		{Date: date(2024, 3, 10), Result: "L"},
		{Date: date(2024, 3, 16), Result: "W"},
	}
	cal := NewCalendar([]time.Time{date(2024, 3, 2), date(2024, 3, 10), date(2024, 3, 16)})
	callDates := []time.Time{
		date(2024, 3, 2), date(2024, 3, 2), date(2024, 3, 3), // W window
		date(2024, 3, 9), date(2024, 3, 10),                  // L window
		date(2024, 3, 16),                                    // W window
	}

	breakdown := ResultBreakdown(callDates, matches, cal)

	assert.Equal(t, map[string]int{"W": 4, "L": 2}, breakdown)
}

func TestResultBreakdownTwoMatchesOneWindow(t *testing.T) {
	// Two matches in the same weekend credit that weekend's calls to each
	// result, matching a date-range join.
	matches := []MatchOutcome{
		{Date: date(2024, 3, 2), Result: "W"},
		{Date: date(2024, 3, 3), Result: "D"},
	}
	cal := NewCalendar([]time.Time{date(2024, 3, 2), date(2024, 3, 3)})
	callDates := []time.Time{date(2024, 3, 2), date(2024, 3, 3)}

	breakdown := ResultBreakdown(callDates, matches, cal)

	assert.Equal(t, map[string]int{"W": 2, "D": 2}, breakdown)
}

func TestResultBreakdownSkipsUnknownResults(t *testing.T) {
	matches := []MatchOutcome{{Date: date(2024, 3, 2), Result: ""}}
	cal := NewCalendar([]time.Time{date(2024, 3, 2)})

	breakdown := ResultBreakdown([]time.Time{date(2024, 3, 2)}, matches, cal)

	assert.Empty(t, breakdown)
}

func TestResultBreakdownEmptyJoin(t *testing.T) {
	matches := []MatchOutcome{{Date: date(2024, 3, 2), Result: "W"}}
	cal := NewCalendar([]time.Time{date(2024, 3, 2)})

	// No call falls inside any match window.
	breakdown := ResultBreakdown([]time.Time{date(2024, 3, 20)}, matches, cal)

	assert.Empty(t, breakdown)
}

func TestWelchJSONNullWhenUndefined(t *testing.T) {
	undefined, err := json.Marshal(WelchResult{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(undefined))

	defined, err := json.Marshal(WelchResult{T: 1.5, DF: 3, Defined: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"t":1.5,"df":3,"defined":true}`, string(defined))
}
