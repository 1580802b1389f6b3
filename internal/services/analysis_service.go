package services

import (
	"context"
	"fmt"
	"time"

	"matchday-analytics/internal/analysis"
	"matchday-analytics/internal/models"
	"matchday-analytics/internal/repository"
	"matchday-analytics/pkg/logging"
	"matchday-analytics/pkg/metrics"
)

// AnalysisService joins call and match records over the match-weekend
// calendar. Every report is computed from the raw records on request;
// nothing derived is persisted.
type AnalysisService struct {
	repo    repository.MatchdayRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(repo repository.MatchdayRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *AnalysisService {
	return &AnalysisService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// WeekendReport lists call volume per match weekend.
type WeekendReport struct {
	Windows      []analysis.WindowCount `json:"windows"`
	MatchWindows int                    `json:"match_windows"`
	TotalCalls   int                    `json:"total_calls"`
}

// ComparisonReport wraps the match/non-match comparison with the record
// counts it was computed from.
type ComparisonReport struct {
	analysis.Comparison
	CallCount  int `json:"call_count"`
	MatchCount int `json:"match_count"`
}

// ResultReport breaks call volume down by the outcome of the weekend's match.
type ResultReport struct {
	ByResult map[string]int `json:"by_result"`
}

// GetWeekendReport computes per-window call counts across all weekends
// touched by a call or a match.
func (s *AnalysisService) GetWeekendReport(ctx context.Context) (*WeekendReport, error) {
	timer := s.metrics.NewTimer(s.metrics.AnalysisDuration.WithLabelValues("weekends"))
	defer timer.ObserveDuration()

	callDates, cal, _, err := s.loadInputs(ctx)
	if err != nil {
		return nil, err
	}

	counts := analysis.CountByWindow(callDates, cal)
	report := &WeekendReport{
		Windows:      counts,
		MatchWindows: len(cal.MatchWindows()),
	}
	for _, wc := range counts {
		report.TotalCalls += wc.Calls
	}

	s.metrics.AnalysisWindowsPerRun.Observe(float64(len(counts)))
	s.logger.Info(ctx, "[ANALYSIS_WEEKENDS] Weekend report computed", logging.Fields{
		"windows":       len(counts),
		"match_windows": report.MatchWindows,
		"total_calls":   report.TotalCalls,
	})

	return report, nil
}

// GetComparison computes match-weekend versus non-match call statistics,
// including the Welch t-statistic over per-day call counts.
func (s *AnalysisService) GetComparison(ctx context.Context) (*ComparisonReport, error) {
	timer := s.metrics.NewTimer(s.metrics.AnalysisDuration.WithLabelValues("comparison"))
	defer timer.ObserveDuration()

	callDates, cal, matches, err := s.loadInputs(ctx)
	if err != nil {
		return nil, err
	}

	comparison := analysis.Compare(callDates, cal)
	if !comparison.Welch.Defined {
		s.metrics.AnalysisUndefinedWelch.Inc()
	}

	s.logger.Info(ctx, "[ANALYSIS_COMPARISON] Comparison computed", logging.Fields{
		"match_days":     comparison.Match.Days,
		"non_match_days": comparison.NonMatch.Days,
		"welch_defined":  comparison.Welch.Defined,
	})

	return &ComparisonReport{
		Comparison: comparison,
		CallCount:  len(callDates),
		MatchCount: len(matches),
	}, nil
}

// GetResultBreakdown computes call volume per match outcome (win, draw,
// loss). Matches without a recorded outcome are skipped.
func (s *AnalysisService) GetResultBreakdown(ctx context.Context) (*ResultReport, error) {
	timer := s.metrics.NewTimer(s.metrics.AnalysisDuration.WithLabelValues("results"))
	defer timer.ObserveDuration()

	callDates, cal, matches, err := s.loadInputs(ctx)
	if err != nil {
		return nil, err
	}

	outcomes := make([]analysis.MatchOutcome, 0, len(matches))
	for _, m := range matches {
		outcome := analysis.MatchOutcome{Date: m.OccurredOn}
		if m.Result != nil {
			outcome.Result = *m.Result
		}
		outcomes = append(outcomes, outcome)
	}

	byResult := analysis.ResultBreakdown(callDates, outcomes, cal)
	s.logger.Info(ctx, "[ANALYSIS_RESULTS] Result breakdown computed", logging.Fields{
		"result_groups": len(byResult),
	})

	return &ResultReport{ByResult: byResult}, nil
}

// loadInputs fetches both datasets and builds the weekend calendar.
func (s *AnalysisService) loadInputs(ctx context.Context) ([]time.Time, *analysis.Calendar, []*models.MatchRecord, error) {
	callDates, err := s.repo.ListCallDates(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load call dates: %w", err)
	}

	matches, err := s.repo.ListMatches(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load matches: %w", err)
	}

	matchDates := make([]time.Time, len(matches))
	for i, m := range matches {
		matchDates[i] = m.OccurredOn
	}

	return callDates, analysis.NewCalendar(matchDates), matches, nil
}
