package analysis

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	lo "github.com/samber/lo"
)

// MatchOutcome pairs a match date with its categorical result, the only match
// attributes the aggregator consumes.
type MatchOutcome struct {
	Date   time.Time
	Result string
}

// GroupStats summarizes one comparison group of call dates.
type GroupStats struct {
	Calls   int     `json:"calls"`
	Days    int     `json:"days"`
	Average float64 `json:"average"`
}

// WelchResult holds the two-sample unequal-variance t-statistic and its
// Welch-Satterthwaite degrees of freedom. Defined is false when either group
// has fewer than two per-date samples or the variance term is zero; callers
// must treat an undefined result as "no statistic", never as NaN.
// No p-value is computed: the platform reports the statistic and degrees of
// freedom only, a deliberate limitation carried over from the source analysis.
type WelchResult struct {
	T       float64 `json:"t"`
	DF      float64 `json:"df"`
	Defined bool    `json:"defined"`
}

// MarshalJSON renders an undefined result as null so API consumers never see
// a zero-valued statistic that looks real.
func (r WelchResult) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return []byte("null"), nil
	}
	type welchJSON WelchResult
	return json.Marshal(welchJSON(r))
}

// Comparison is the match-weekend versus non-match-weekend summary.
type Comparison struct {
	Match    GroupStats  `json:"match"`
	NonMatch GroupStats  `json:"non_match"`
	Welch    WelchResult `json:"welch"`
}

// WindowCount is the call count attributed to a single window.
type WindowCount struct {
	Window   Window `json:"window"`
	Calls    int    `json:"calls"`
	HasMatch bool   `json:"has_match"`
}

// CountByWindow groups call dates into their windows and reports per-window
// call counts with the window's match classification, in chronological order.
func CountByWindow(callDates []time.Time, cal *Calendar) []WindowCount {
	grouped := lo.GroupBy(callDates, func(d time.Time) Window {
		return cal.WindowFor(d)
	})

	counts := make([]WindowCount, 0, len(grouped))
	for w, dates := range grouped {
		counts = append(counts, WindowCount{
			Window:   w,
			Calls:    len(dates),
			HasMatch: cal.IsMatchWindowDay(w.Start),
		})
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Window.Start.Before(counts[j].Window.Start)
	})
	return counts
}

// Compare splits call dates into the match-window and non-match-window groups
// and computes totals, per-day averages, and the Welch statistic over the two
// groups' per-date call counts.
func Compare(callDates []time.Time, cal *Calendar) Comparison {
	var matchDates, nonMatchDates []time.Time
	for _, d := range callDates {
		if cal.IsMatchWindowDay(d) {
			matchDates = append(matchDates, Day(d))
		} else {
			nonMatchDates = append(nonMatchDates, Day(d))
		}
	}

	matchCounts := perDateCounts(matchDates)
	nonMatchCounts := perDateCounts(nonMatchDates)

	return Comparison{
		Match:    groupStats(len(matchDates), matchCounts),
		NonMatch: groupStats(len(nonMatchDates), nonMatchCounts),
		Welch:    Welch(matchCounts, nonMatchCounts),
	}
}

// ResultBreakdown totals match-window calls per match result category. A call
// date inside a match window is credited once per match in that window, which
// mirrors a date-range join between calls and matches. Matches outside every
// call's window and calls outside every match window contribute nothing.
func ResultBreakdown(callDates []time.Time, matches []MatchOutcome, cal *Calendar) map[string]int {
	resultsByWindow := make(map[Window][]string)
	for _, m := range matches {
		w := cal.WindowFor(m.Date)
		if m.Result == "" {
			continue
		}
		resultsByWindow[w] = append(resultsByWindow[w], m.Result)
	}

	breakdown := make(map[string]int)
	for _, d := range callDates {
		for _, result := range resultsByWindow[cal.WindowFor(d)] {
			breakdown[result]++
		}
	}
	return breakdown
}

// groupStats derives totals from a group's size and per-date counts. The
// average of an empty group is 0, never NaN.
func groupStats(total int, perDate []float64) GroupStats {
	stats := GroupStats{Calls: total, Days: len(perDate)}
	if stats.Days > 0 {
		stats.Average = float64(stats.Calls) / float64(stats.Days)
	}
	return stats
}

// perDateCounts collapses a slice of (already day-truncated) dates into one
// count per distinct date.
func perDateCounts(dates []time.Time) []float64 {
	counted := lo.CountValues(dates)
	counts := make([]float64, 0, len(counted))
	for _, n := range counted {
		counts = append(counts, float64(n))
	}
	return counts
}

// Welch computes the unequal-variance two-sample t-statistic
//
//	t = (mean_a - mean_b) / sqrt(var_a/n_a + var_b/n_b)
//
// with Welch-Satterthwaite degrees of freedom. Each group needs at least two
// samples for a defined sample variance; a zero variance term would divide by
// zero. Both cases yield Defined == false.
func Welch(a, b []float64) WelchResult {
	na, nb := float64(len(a)), float64(len(b))
	if len(a) < 2 || len(b) < 2 {
		return WelchResult{}
	}

	va := sampleVariance(a)
	vb := sampleVariance(b)
	sea := va / na
	seb := vb / nb
	se := sea + seb
	if se == 0 {
		return WelchResult{}
	}

	t := (mean(a) - mean(b)) / math.Sqrt(se)
	df := se * se / (sea*sea/(na-1) + seb*seb/(nb-1))
	return WelchResult{T: t, DF: df, Defined: true}
}

func mean(xs []float64) float64 {
	return lo.Sum(xs) / float64(len(xs))
}

// sampleVariance is the unbiased (n-1 denominator) variance.
func sampleVariance(xs []float64) float64 {
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return ss / float64(len(xs)-1)
}
