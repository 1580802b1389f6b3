package dateparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreference(t *testing.T) {
	tests := []struct {
		name  string
		value string
		pref  Preference
		want  time.Time
		ok    bool
	}{
		{"iso", "2024-03-02", DayFirst, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), true},
		{"iso timestamp", "2024-03-02 18:45:00", DayFirst, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), true},
		{"day first slash", "02/03/2024", DayFirst, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), true},
		{"month first slash", "03/02/2024", MonthFirst, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), true},
		{"day first dash", "02-03-2024", DayFirst, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), true},
		{"whitespace", "  2024-03-02  ", DayFirst, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", DayFirst, time.Time{}, false},
		{"garbage", "not a date", DayFirst, time.Time{}, false},
		{"impossible day-first", "25/25/2024", DayFirst, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.value, tt.pref)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNormalizeColumnSameLength(t *testing.T) {
	values := []string{"2024-03-02", "garbage", "", "2024-03-04"}

	res := NormalizeColumn(values, DayFirst)

	require.Len(t, res.Dates, len(values))
	require.Len(t, res.Valid, len(values))
	assert.Equal(t, []bool{true, false, false, true}, res.Valid)
	assert.Equal(t, 2, res.Excluded)
}

func TestNormalizeColumnKeepsPreferenceUnderThreshold(t *testing.T) {
	// One failure out of six stays below the 20% retry threshold, so the
	// ambiguous value keeps its day-first reading.
	values := []string{
		"01/02/2024", "02/02/2024", "03/02/2024",
		"04/02/2024", "05/02/2024", "junk",
	}

	res := NormalizeColumn(values, DayFirst)

	assert.Empty(t, res.Layout)
	assert.Equal(t, 1, res.Excluded)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), res.Dates[0])
}

func TestNormalizeColumnRetriesWithBestFallback(t *testing.T) {
	// Month-first data fed to a day-first caller: values with day > 12 fail
	// the preferred ordering often enough to trigger the fallback scoring,
	// and the MM/DD/YYYY layout wins on success count.
	values := []string{
		"03/13/2024", "03/14/2024", "03/15/2024",
		"03/16/2024", "03/17/2024", "03/18/2024",
	}

	res := NormalizeColumn(values, DayFirst)

	assert.Equal(t, "01/02/2006", res.Layout)
	assert.Equal(t, 0, res.Excluded)
	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), res.Dates[0])
	assert.Equal(t, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), res.Dates[5])
}

func TestNormalizeColumnFallbackNotWorseThanPreference(t *testing.T) {
	// A column that is mostly unparseable triggers the retry, but the first
	// pass is kept when no fallback does better.
	values := []string{"garbage", "junk", "??", "2024-03-02"}

	res := NormalizeColumn(values, DayFirst)

	assert.Equal(t, 3, res.Excluded)
	assert.True(t, res.Valid[3])
}

func TestNormalizeColumnEmpty(t *testing.T) {
	res := NormalizeColumn(nil, DayFirst)

	assert.Empty(t, res.Dates)
	assert.Zero(t, res.Excluded)
}

func TestDetectDateColumnStrategies(t *testing.T) {
	t.Run("exact name", func(t *testing.T) {
		m, err := DetectDateColumn([]string{"id", "llamado_fecha", "provincia"}, nil, DayFirst)
		require.NoError(t, err)
		assert.Equal(t, 1, m.Index)
		assert.Equal(t, "exact", m.Strategy)
	})

	t.Run("substring spanish token", func(t *testing.T) {
		m, err := DetectDateColumn([]string{"id", "Fecha_Llamado"}, nil, DayFirst)
		require.NoError(t, err)
		assert.Equal(t, 1, m.Index)
		assert.Equal(t, "substring", m.Strategy)
	})

	t.Run("substring english token", func(t *testing.T) {
		m, err := DetectDateColumn([]string{"team", "Kickoff_Date"}, nil, DayFirst)
		require.NoError(t, err)
		assert.Equal(t, 1, m.Index)
		assert.Equal(t, "substring", m.Strategy)
	})

	t.Run("value probe", func(t *testing.T) {
		sample := func(col int) string {
			return []string{"Boca", "2024-03-02", "W"}[col]
		}
		m, err := DetectDateColumn([]string{"team", "when", "outcome"}, sample, DayFirst)
		require.NoError(t, err)
		assert.Equal(t, 1, m.Index)
		assert.Equal(t, "probe", m.Strategy)
	})

	t.Run("not found lists columns", func(t *testing.T) {
		headers := []string{"team", "outcome"}
		_, err := DetectDateColumn(headers, nil, DayFirst)

		var missing *MissingDateColumnError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, headers, missing.Columns)
		assert.Contains(t, missing.Error(), "team, outcome")
	})
}
