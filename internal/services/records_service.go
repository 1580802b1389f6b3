package services

import (
	"context"

	"matchday-analytics/internal/models"
	"matchday-analytics/internal/repository"
	"matchday-analytics/pkg/logging"
	"matchday-analytics/pkg/metrics"
)

// RecordsService exposes raw call and match records.
type RecordsService struct {
	repo    repository.MatchdayRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewRecordsService creates a new records service
func NewRecordsService(repo repository.MatchdayRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *RecordsService {
	return &RecordsService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// GetCalls retrieves call records with filtering
func (s *RecordsService) GetCalls(ctx context.Context, filter repository.CallFilter) ([]*models.CallRecord, int, error) {
	return s.repo.GetCalls(ctx, filter)
}

// GetMatches retrieves match records with filtering
func (s *RecordsService) GetMatches(ctx context.Context, filter repository.MatchFilter) ([]*models.MatchRecord, int, error) {
	return s.repo.GetMatches(ctx, filter)
}

// ListIngestRuns retrieves recent ingest run summaries
func (s *RecordsService) ListIngestRuns(ctx context.Context, limit int) ([]*models.IngestRun, error) {
	return s.repo.ListIngestRuns(ctx, limit)
}

// HealthCheck verifies the backing store is reachable
func (s *RecordsService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}
