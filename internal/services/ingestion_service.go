package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"matchday-analytics/internal/dateparse"
	"matchday-analytics/internal/models"
	"matchday-analytics/internal/repository"
	"matchday-analytics/pkg/logging"
	"matchday-analytics/pkg/metrics"
)

// IngestionService loads call and match CSV exports into the store.
type IngestionService struct {
	repo    repository.MatchdayRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
	clock   clockwork.Clock
}

// IngestionResult contains per-dataset ingestion statistics
type IngestionResult struct {
	Dataset      string
	SourceFile   string
	TotalRows    int
	LoadedRows   int
	ExcludedRows int
	DateColumn   string
	DateLayout   string
	Duration     time.Duration
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(repo repository.MatchdayRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector, clock clockwork.Clock) *IngestionService {
	return &IngestionService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
		clock:   clock,
	}
}

// IngestCalls loads an emergency-call CSV export. Call exports carry
// day-first dates and ship Latin-1 encoded.
func (s *IngestionService) IngestCalls(ctx context.Context, path string, batchSize int) (*IngestionResult, error) {
	startTime := s.clock.Now().UTC()

	s.logger.Info(ctx, "[INGEST_START] Starting call ingestion", logging.Fields{
		"source_file": path,
		"batch_size":  batchSize,
		"stage":       "INITIALIZATION",
	})

	headers, rows, err := readCSV(path, true)
	if err != nil {
		s.metrics.RecordIngestionError("read_error")
		return nil, err
	}

	col, err := dateparse.DetectDateColumn(headers, columnSampler(rows), dateparse.DayFirst)
	if err != nil {
		s.metrics.RecordIngestionError("missing_date_column")
		return nil, err
	}

	s.logger.Info(ctx, "[INGEST_DATE_COLUMN] Resolved date column", logging.Fields{
		"dataset":  "calls",
		"column":   col.Name,
		"strategy": col.Strategy,
		"stage":    "COLUMN_DETECTION",
	})

	normalized := dateparse.NormalizeColumn(columnValues(rows, col.Index), dateparse.DayFirst)
	// "categor" substring-matches both English exports and accented
	// Spanish headers ("categoría").
	categoryCol := lookupColumn(headers, "categoria", "category", "categor")

	result := &IngestionResult{
		Dataset:      "calls",
		SourceFile:   path,
		TotalRows:    len(rows),
		ExcludedRows: normalized.Excluded,
		DateColumn:   col.Name,
		DateLayout:   normalized.Layout,
	}

	batch := make([]*models.CallRecord, 0, batchSize)
	for i, row := range rows {
		if !normalized.Valid[i] {
			continue
		}

		call := &models.CallRecord{
			OccurredOn: normalized.Dates[i],
			CreatedAt:  s.clock.Now().UTC(),
		}
		if categoryCol >= 0 && categoryCol < len(row) {
			if category := strings.TrimSpace(row[categoryCol]); category != "" {
				call.Category = &category
			}
		}

		batch = append(batch, call)
		if len(batch) >= batchSize {
			if err := s.repo.CreateCallsBatch(ctx, batch); err != nil {
				return nil, fmt.Errorf("failed to insert call batch: %w", err)
			}
			result.LoadedRows += len(batch)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := s.repo.CreateCallsBatch(ctx, batch); err != nil {
			return nil, fmt.Errorf("failed to insert final call batch: %w", err)
		}
		result.LoadedRows += len(batch)
	}

	return s.finishRun(ctx, result, startTime)
}

// IngestMatches loads a football-match CSV export for one team. Two export
// shapes are recognised: per-team result rows (Rival / Win_Draw_Loss columns)
// and fixture rows (Home / Away / Score columns), distinguished by header.
func (s *IngestionService) IngestMatches(ctx context.Context, path, team string, batchSize int) (*IngestionResult, error) {
	startTime := s.clock.Now().UTC()

	s.logger.Info(ctx, "[INGEST_START] Starting match ingestion", logging.Fields{
		"source_file": path,
		"team":        team,
		"batch_size":  batchSize,
		"stage":       "INITIALIZATION",
	})

	headers, rows, err := readCSV(path, false)
	if err != nil {
		s.metrics.RecordIngestionError("read_error")
		return nil, err
	}

	col, err := dateparse.DetectDateColumn(headers, columnSampler(rows), dateparse.DayFirst)
	if err != nil {
		s.metrics.RecordIngestionError("missing_date_column")
		return nil, err
	}

	normalized := dateparse.NormalizeColumn(columnValues(rows, col.Index), dateparse.DayFirst)

	result := &IngestionResult{
		Dataset:      "matches",
		SourceFile:   path,
		TotalRows:    len(rows),
		ExcludedRows: normalized.Excluded,
		DateColumn:   col.Name,
		DateLayout:   normalized.Layout,
	}

	shape := detectMatchShape(headers)
	s.logger.Info(ctx, "[INGEST_MATCH_SHAPE] Resolved match export shape", logging.Fields{
		"dataset": "matches",
		"shape":   shape.name,
		"column":  col.Name,
		"stage":   "COLUMN_DETECTION",
	})

	batch := make([]*models.MatchRecord, 0, batchSize)
	for i, row := range rows {
		if !normalized.Valid[i] {
			continue
		}

		match, err := shape.build(row, team)
		if err != nil {
			result.ExcludedRows++
			s.metrics.RecordIngestionError("row_error")
			continue
		}
		if match == nil {
			// Fixture row that does not involve the requested team.
			result.ExcludedRows++
			continue
		}

		match.OccurredOn = normalized.Dates[i]
		match.CreatedAt = s.clock.Now().UTC()

		batch = append(batch, match)
		if len(batch) >= batchSize {
			if err := s.repo.CreateMatchesBatch(ctx, batch); err != nil {
				return nil, fmt.Errorf("failed to insert match batch: %w", err)
			}
			result.LoadedRows += len(batch)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := s.repo.CreateMatchesBatch(ctx, batch); err != nil {
			return nil, fmt.Errorf("failed to insert final match batch: %w", err)
		}
		result.LoadedRows += len(batch)
	}

	return s.finishRun(ctx, result, startTime)
}

// finishRun records metrics and persists the run summary.
func (s *IngestionService) finishRun(ctx context.Context, result *IngestionResult, startTime time.Time) (*IngestionResult, error) {
	finishedAt := s.clock.Now().UTC()
	result.Duration = finishedAt.Sub(startTime)

	s.metrics.RecordIngestedRows(result.Dataset, result.LoadedRows, result.ExcludedRows)
	s.metrics.IngestionDuration.Observe(result.Duration.Seconds())

	run := &models.IngestRun{
		Dataset:      result.Dataset,
		SourceFile:   result.SourceFile,
		TotalRows:    result.TotalRows,
		LoadedRows:   result.LoadedRows,
		ExcludedRows: result.ExcludedRows,
		DateColumn:   result.DateColumn,
		StartedAt:    startTime,
		FinishedAt:   finishedAt,
	}
	if err := s.repo.CreateIngestRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record ingest run: %w", err)
	}

	s.logger.Info(ctx, "[INGEST_COMPLETE] Ingestion completed", logging.Fields{
		"dataset":          result.Dataset,
		"total_rows":       result.TotalRows,
		"loaded_rows":      result.LoadedRows,
		"excluded_rows":    result.ExcludedRows,
		"date_column":      result.DateColumn,
		"date_layout":      result.DateLayout,
		"duration_seconds": result.Duration.Seconds(),
		"stage":            "COMPLETE",
	})

	return result, nil
}

// matchShape builds a MatchRecord from one row of a recognised export shape.
// build returns (nil, nil) when the row is valid but not relevant.
type matchShape struct {
	name  string
	build func(row []string, team string) (*models.MatchRecord, error)
}

// detectMatchShape picks the export shape from the header row. Fixture
// exports carry Home and Away columns; anything else is treated as the
// per-team result shape.
func detectMatchShape(headers []string) matchShape {
	home := lookupColumn(headers, "home")
	away := lookupColumn(headers, "away")
	if home >= 0 && away >= 0 {
		score := lookupColumn(headers, "score", "resultado")
		return matchShape{
			name: "fixtures",
			build: func(row []string, team string) (*models.MatchRecord, error) {
				return buildFixtureMatch(row, team, home, away, score)
			},
		}
	}

	opponent := lookupColumn(headers, "rival", "opponent")
	competition := lookupColumn(headers, "tournament", "torneo", "competition")
	venue := lookupColumn(headers, "instance", "instancia", "venue")
	goalsFor := lookupColumn(headers, "goals_for", "goles_favor")
	goalsAgainst := lookupColumn(headers, "goals_against", "goles_contra")
	outcome := lookupColumn(headers, "win_draw_loss", "resultado", "result")
	return matchShape{
		name: "team_results",
		build: func(row []string, team string) (*models.MatchRecord, error) {
			return buildTeamResultMatch(row, team, opponent, competition, venue, goalsFor, goalsAgainst, outcome)
		},
	}
}

// buildTeamResultMatch maps a per-team result row onto a MatchRecord.
func buildTeamResultMatch(row []string, team string, opponent, competition, venue, goalsFor, goalsAgainst, outcome int) (*models.MatchRecord, error) {
	match := &models.MatchRecord{Team: team}

	if v := cell(row, opponent); v != "" {
		match.Opponent = v
	} else {
		return nil, fmt.Errorf("missing opponent")
	}
	if v := cell(row, competition); v != "" {
		match.Competition = &v
	}
	if v := cell(row, venue); v != "" {
		match.Venue = &v
	}

	if v := cell(row, goalsFor); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid goals for: %w", err)
		}
		match.GoalsFor = &n
	}
	if v := cell(row, goalsAgainst); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid goals against: %w", err)
		}
		match.GoalsAgainst = &n
	}

	if v := cell(row, outcome); v != "" {
		if result := models.NormalizeResult(v); result != "" {
			match.Result = &result
		}
	}
	if match.Result == nil && match.GoalsFor != nil && match.GoalsAgainst != nil {
		result := models.DeriveResult(*match.GoalsFor, *match.GoalsAgainst)
		match.Result = &result
	}

	return match, nil
}

// buildFixtureMatch maps a fixture row onto a MatchRecord from the
// perspective of the requested team. Rows for other teams yield nil.
func buildFixtureMatch(row []string, team string, home, away, score int) (*models.MatchRecord, error) {
	homeTeam := cell(row, home)
	awayTeam := cell(row, away)
	if homeTeam == "" || awayTeam == "" {
		return nil, fmt.Errorf("missing home or away team")
	}

	var opponent, side string
	switch {
	case strings.EqualFold(homeTeam, team):
		opponent, side = awayTeam, models.VenueHome
	case strings.EqualFold(awayTeam, team):
		opponent, side = homeTeam, models.VenueAway
	default:
		return nil, nil
	}

	match := &models.MatchRecord{
		Team:       team,
		Opponent:   opponent,
		HomeOrAway: &side,
	}

	if v := cell(row, score); v != "" {
		homeGoals, awayGoals, err := models.ParseScore(v)
		if err != nil {
			return nil, err
		}
		gf, ga := homeGoals, awayGoals
		if side == models.VenueAway {
			gf, ga = awayGoals, homeGoals
		}
		match.GoalsFor = &gf
		match.GoalsAgainst = &ga
		result := models.DeriveResult(gf, ga)
		match.Result = &result
	}

	return match, nil
}

// readCSV reads a CSV file into a header row and data rows. latin1 selects
// an ISO 8859-1 decode for exports that predate UTF-8 tooling.
func readCSV(path string, latin1 bool) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var reader *csv.Reader
	if latin1 {
		reader = csv.NewReader(transform.NewReader(file, charmap.ISO8859_1.NewDecoder()))
	} else {
		reader = csv.NewReader(file)
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty csv file: %s", path)
	}

	return records[0], records[1:], nil
}

// columnSampler adapts rows to the sampling callback used during column
// detection: the first non-empty value in the column, scanning past ragged
// and blank rows.
func columnSampler(rows [][]string) func(col int) string {
	return func(col int) string {
		for _, row := range rows {
			if col < len(row) && strings.TrimSpace(row[col]) != "" {
				return row[col]
			}
		}
		return ""
	}
}

// columnValues extracts one column across all rows. Ragged rows contribute
// an empty value, which the normalizer excludes.
func columnValues(rows [][]string, col int) []string {
	values := make([]string, len(rows))
	for i, row := range rows {
		if col < len(row) {
			values[i] = row[col]
		}
	}
	return values
}

// lookupColumn finds the first header matching any of the given names,
// case-insensitively, by exact match then substring. Returns -1 when absent.
func lookupColumn(headers []string, names ...string) int {
	for _, name := range names {
		for i, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
	}
	for _, name := range names {
		for i, h := range headers {
			if strings.Contains(strings.ToLower(h), name) {
				return i
			}
		}
	}
	return -1
}

// cell returns the trimmed value at col, or "" for absent columns.
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
