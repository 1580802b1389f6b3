package repository

import (
	"context"
	"fmt"
	"time"

	"matchday-analytics/internal/models"
	"matchday-analytics/pkg/database"
	"matchday-analytics/pkg/logging"
	"matchday-analytics/pkg/metrics"
)

// MatchdayRepository provides data access for call and match records.
type MatchdayRepository interface {
	// Call operations
	CreateCallsBatch(ctx context.Context, calls []*models.CallRecord) error
	GetCalls(ctx context.Context, filter CallFilter) ([]*models.CallRecord, int, error)
	ListCallDates(ctx context.Context) ([]time.Time, error)

	// Match operations
	CreateMatchesBatch(ctx context.Context, matches []*models.MatchRecord) error
	GetMatches(ctx context.Context, filter MatchFilter) ([]*models.MatchRecord, int, error)
	ListMatches(ctx context.Context) ([]*models.MatchRecord, error)

	// Ingest diagnostics
	CreateIngestRun(ctx context.Context, run *models.IngestRun) error
	ListIngestRuns(ctx context.Context, limit int) ([]*models.IngestRun, error)

	// Utility operations
	HealthCheck(ctx context.Context) error
}

// CallFilter defines filters for querying call records.
type CallFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  *string
	Limit     int
	Offset    int
}

// MatchFilter defines filters for querying match records.
type MatchFilter struct {
	Team      *string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// matchdayRepository implements MatchdayRepository
type matchdayRepository struct {
	db      *database.PostgresDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewMatchdayRepository creates a new matchday repository
func NewMatchdayRepository(db *database.PostgresDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) MatchdayRepository {
	return &matchdayRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// CreateCallsBatch inserts call records in a single transaction. Calls have
// no natural key (several calls can share a day and category), so duplicate
// protection lives at the ingest-run level, not here.
func (r *matchdayRepository) CreateCallsBatch(ctx context.Context, calls []*models.CallRecord) error {
	if len(calls) == 0 {
		return nil
	}

	timer := time.Now()
	defer func() {
		duration := time.Since(timer)
		r.metrics.IngestionBatchSize.Observe(float64(len(calls)))
		r.logger.Debug(ctx, "[REPO_BATCH_INSERT] Call batch insert completed", logging.Fields{
			"count":       len(calls),
			"duration_ms": duration.Milliseconds(),
		})
	}()

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO call_records (occurred_on, category, created_at)
		VALUES ($1, $2, $3)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, call := range calls {
		if _, err := stmt.ExecContext(ctx, call.OccurredOn, call.Category, call.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert call record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetCalls retrieves call records with filtering and pagination
func (r *matchdayRepository) GetCalls(ctx context.Context, filter CallFilter) ([]*models.CallRecord, int, error) {
	query := `
		SELECT id, occurred_on, category, created_at
		FROM call_records
		WHERE 1=1
	`
	args := []interface{}{}
	argNum := 1

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND occurred_on >= $%d", argNum)
		args = append(args, *filter.StartDate)
		argNum++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND occurred_on <= $%d", argNum)
		args = append(args, *filter.EndDate)
		argNum++
	}

	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", argNum)
		args = append(args, *filter.Category)
		argNum++
	}

	countQuery := "SELECT COUNT(*) FROM (" + query + ") AS count_query"
	var totalCount int
	err := r.db.GetContext(ctx, "count_calls", &totalCount, countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count call records: %w", err)
	}

	query += " ORDER BY occurred_on DESC, id"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	var calls []*models.CallRecord
	err = r.db.SelectContext(ctx, "get_calls", &calls, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get call records: %w", err)
	}

	return calls, totalCount, nil
}

// ListCallDates returns every call date, one entry per record, for the
// analysis core. Dates repeat when multiple calls share a day.
func (r *matchdayRepository) ListCallDates(ctx context.Context) ([]time.Time, error) {
	query := `SELECT occurred_on FROM call_records ORDER BY occurred_on`

	var dates []time.Time
	if err := r.db.SelectContext(ctx, "list_call_dates", &dates, query); err != nil {
		return nil, fmt.Errorf("failed to list call dates: %w", err)
	}

	return dates, nil
}

// CreateMatchesBatch inserts match records in a single transaction. The
// (team, occurred_on, opponent) key makes re-ingestion idempotent.
func (r *matchdayRepository) CreateMatchesBatch(ctx context.Context, matches []*models.MatchRecord) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO match_records (
			team, occurred_on, opponent, competition, venue, home_or_away,
			goals_for, goals_against, result, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (team, occurred_on, opponent) DO UPDATE SET
			competition = EXCLUDED.competition,
			venue = EXCLUDED.venue,
			home_or_away = EXCLUDED.home_or_away,
			goals_for = EXCLUDED.goals_for,
			goals_against = EXCLUDED.goals_against,
			result = EXCLUDED.result
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, m := range matches {
		_, err := stmt.ExecContext(ctx,
			m.Team,
			m.OccurredOn,
			m.Opponent,
			m.Competition,
			m.Venue,
			m.HomeOrAway,
			m.GoalsFor,
			m.GoalsAgainst,
			m.Result,
			m.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert match record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetMatches retrieves match records with filtering and pagination
func (r *matchdayRepository) GetMatches(ctx context.Context, filter MatchFilter) ([]*models.MatchRecord, int, error) {
	query := `
		SELECT id, team, occurred_on, opponent, competition, venue, home_or_away,
		       goals_for, goals_against, result, created_at
		FROM match_records
		WHERE 1=1
	`
	args := []interface{}{}
	argNum := 1

	if filter.Team != nil {
		query += fmt.Sprintf(" AND team = $%d", argNum)
		args = append(args, *filter.Team)
		argNum++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND occurred_on >= $%d", argNum)
		args = append(args, *filter.StartDate)
		argNum++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND occurred_on <= $%d", argNum)
		args = append(args, *filter.EndDate)
		argNum++
	}

	countQuery := "SELECT COUNT(*) FROM (" + query + ") AS count_query"
	var totalCount int
	err := r.db.GetContext(ctx, "count_matches", &totalCount, countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count match records: %w", err)
	}

	query += " ORDER BY occurred_on, team"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	var matches []*models.MatchRecord
	err = r.db.SelectContext(ctx, "get_matches", &matches, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get match records: %w", err)
	}

	return matches, totalCount, nil
}

// ListMatches returns every match record, for the analysis core.
func (r *matchdayRepository) ListMatches(ctx context.Context) ([]*models.MatchRecord, error) {
	query := `
		SELECT id, team, occurred_on, opponent, competition, venue, home_or_away,
		       goals_for, goals_against, result, created_at
		FROM match_records
		ORDER BY occurred_on, team
	`

	var matches []*models.MatchRecord
	if err := r.db.SelectContext(ctx, "list_matches", &matches, query); err != nil {
		return nil, fmt.Errorf("failed to list match records: %w", err)
	}

	return matches, nil
}

// CreateIngestRun persists one ingestion pass for diagnostics.
func (r *matchdayRepository) CreateIngestRun(ctx context.Context, run *models.IngestRun) error {
	query := `
		INSERT INTO ingest_runs (
			dataset, source_file, total_rows, loaded_rows, excluded_rows,
			date_column, started_at, finished_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		run.Dataset,
		run.SourceFile,
		run.TotalRows,
		run.LoadedRows,
		run.ExcludedRows,
		run.DateColumn,
		run.StartedAt,
		run.FinishedAt,
	).Scan(&run.ID)

	if err != nil {
		return fmt.Errorf("failed to create ingest run: %w", err)
	}

	return nil
}

// ListIngestRuns retrieves the most recent ingest runs.
func (r *matchdayRepository) ListIngestRuns(ctx context.Context, limit int) ([]*models.IngestRun, error) {
	query := `
		SELECT id, dataset, source_file, total_rows, loaded_rows, excluded_rows,
		       date_column, started_at, finished_at
		FROM ingest_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	var runs []*models.IngestRun
	if err := r.db.SelectContext(ctx, "list_ingest_runs", &runs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list ingest runs: %w", err)
	}

	return runs, nil
}

// HealthCheck performs a repository health check
func (r *matchdayRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) IsTransient() bool {
	return false
}
