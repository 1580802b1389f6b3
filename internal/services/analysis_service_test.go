package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchday-analytics/internal/models"
)

func callOn(y int, m time.Month, d int) *models.CallRecord {
	return &models.CallRecord{OccurredOn: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func matchOn(y int, m time.Month, d int, result string) *models.MatchRecord {
	rec := &models.MatchRecord{
		Team:       "Boca Juniors",
		OccurredOn: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Opponent:   "River Plate",
	}
	if result != "" {
		rec.Result = &result
	}
	return rec
}

// seededRepo holds three match weekends in March 2024 with calls on each,
// plus one call on a weekend without a match.
func seededRepo() *fakeRepo {
	return &fakeRepo{
		calls: []*models.CallRecord{
			callOn(2024, 3, 1), callOn(2024, 3, 2), callOn(2024, 3, 3),
			callOn(2024, 3, 8), callOn(2024, 3, 9), callOn(2024, 3, 10),
			callOn(2024, 3, 15),
			callOn(2024, 3, 20),
		},
		matches: []*models.MatchRecord{
			matchOn(2024, 3, 2, models.ResultWin),
			matchOn(2024, 3, 10, models.ResultLoss),
			matchOn(2024, 3, 16, models.ResultWin),
		},
	}
}

func TestGetWeekendReport(t *testing.T) {
	svc := NewAnalysisService(seededRepo(), testLogger(), testMetrics)

	report, err := svc.GetWeekendReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.MatchWindows)
	assert.Equal(t, 8, report.TotalCalls)
	require.Len(t, report.Windows, 4)

	// Windows come back sorted by start date.
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), report.Windows[0].Window.Start)
	assert.Equal(t, 3, report.Windows[0].Calls)
	assert.True(t, report.Windows[0].HasMatch)

	assert.Equal(t, 3, report.Windows[1].Calls)
	assert.Equal(t, 1, report.Windows[2].Calls)

	// The 2024-03-20 call lands in the following weekend, which has no match.
	assert.Equal(t, time.Date(2024, 3, 22, 0, 0, 0, 0, time.UTC), report.Windows[3].Window.Start)
	assert.Equal(t, 1, report.Windows[3].Calls)
	assert.False(t, report.Windows[3].HasMatch)
}

func TestGetComparison(t *testing.T) {
	t.Run("splits call days into match and non-match groups", func(t *testing.T) {
		svc := NewAnalysisService(seededRepo(), testLogger(), testMetrics)

		report, err := svc.GetComparison(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 8, report.CallCount)
		assert.Equal(t, 3, report.MatchCount)

		// Seven calls fall on match-weekend days spread over seven distinct
		// days; one call falls outside every match weekend.
		assert.Equal(t, 7, report.Match.Calls)
		assert.Equal(t, 7, report.Match.Days)
		assert.InDelta(t, 1.0, report.Match.Average, 1e-9)
		assert.Equal(t, 1, report.NonMatch.Calls)
		assert.Equal(t, 1, report.NonMatch.Days)
	})

	t.Run("welch undefined for a single non-match day", func(t *testing.T) {
		svc := NewAnalysisService(seededRepo(), testLogger(), testMetrics)

		report, err := svc.GetComparison(context.Background())
		require.NoError(t, err)
		assert.False(t, report.Welch.Defined)
	})

	t.Run("empty datasets yield zero groups", func(t *testing.T) {
		svc := NewAnalysisService(&fakeRepo{}, testLogger(), testMetrics)

		report, err := svc.GetComparison(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, report.Match.Calls)
		assert.Equal(t, 0, report.NonMatch.Calls)
		assert.False(t, report.Welch.Defined)
	})
}

func TestGetResultBreakdown(t *testing.T) {
	t.Run("credits calls to the weekend match outcome", func(t *testing.T) {
		svc := NewAnalysisService(seededRepo(), testLogger(), testMetrics)

		report, err := svc.GetResultBreakdown(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 4, report.ByResult[models.ResultWin])
		assert.Equal(t, 3, report.ByResult[models.ResultLoss])
	})

	t.Run("skips matches without an outcome", func(t *testing.T) {
		repo := seededRepo()
		repo.matches = []*models.MatchRecord{matchOn(2024, 3, 2, "")}
		svc := NewAnalysisService(repo, testLogger(), testMetrics)

		report, err := svc.GetResultBreakdown(context.Background())
		require.NoError(t, err)
		assert.Empty(t, report.ByResult)
	})
}
