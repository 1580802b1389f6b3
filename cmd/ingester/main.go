package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jonboulle/clockwork"

	"matchday-analytics/internal/config"
	"matchday-analytics/internal/repository"
	"matchday-analytics/internal/services"
	"matchday-analytics/pkg/database"
	"matchday-analytics/pkg/logging"
	"matchday-analytics/pkg/metrics"
)

func main() {
	// Parse command-line flags; empty values fall back to configuration.
	callsPath := flag.String("calls", "", "Path to the emergency-call CSV export")
	matchesPath := flag.String("matches", "", "Path to the football-match CSV export")
	team := flag.String("team", "", "Team whose matches define the weekends")
	batchSize := flag.Int("batch-size", 0, "Number of records to insert per batch")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if *callsPath == "" {
		*callsPath = cfg.Ingest.CallsPath
	}
	if *matchesPath == "" {
		*matchesPath = cfg.Ingest.MatchesPath
	}
	if *team == "" {
		*team = cfg.Ingest.Team
	}
	if *batchSize <= 0 {
		*batchSize = cfg.Ingest.BatchSize
	}

	// Initialize logger
	logger := logging.NewStructuredLogger("matchday-ingester", "1.0.0", logging.ParseLevel(cfg.Logging.Level))

	ctx := context.Background()
	logger.Info(ctx, "[INGESTER_START] Starting matchday data ingestion", logging.Fields{
		"version":      "1.0.0",
		"calls_path":   *callsPath,
		"matches_path": *matchesPath,
		"team":         *team,
		"batch_size":   *batchSize,
	})

	// Initialize metrics collector
	metricsCollector := metrics.NewCollector("matchday_ingester")

	// Initialize database
	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}

	db, err := database.NewPostgresDB(dbConfig, logger, metricsCollector)
	if err != nil {
		logger.Fatal(ctx, "[INGESTER_ERROR] Failed to connect to database", logging.Fields{}, err)
	}
	defer db.Close()

	// Initialize repository and service
	repo := repository.NewMatchdayRepository(db, logger, metricsCollector)
	ingestionService := services.NewIngestionService(repo, logger, metricsCollector, clockwork.NewRealClock())

	// Ingest both datasets
	callsResult, err := ingestionService.IngestCalls(ctx, *callsPath, *batchSize)
	if err != nil {
		logger.Fatal(ctx, "[INGESTION_ERROR] Call ingestion failed", logging.Fields{
			"source_file": *callsPath,
		}, err)
	}

	matchesResult, err := ingestionService.IngestMatches(ctx, *matchesPath, *team, *batchSize)
	if err != nil {
		logger.Fatal(ctx, "[INGESTION_ERROR] Match ingestion failed", logging.Fields{
			"source_file": *matchesPath,
		}, err)
	}

	// Print results
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("INGESTION COMPLETE")
	fmt.Println(strings.Repeat("=", 80))
	for _, result := range []*services.IngestionResult{callsResult, matchesResult} {
		fmt.Printf("Dataset:       %s\n", result.Dataset)
		fmt.Printf("Source File:   %s\n", result.SourceFile)
		fmt.Printf("Date Column:   %s (%s)\n", result.DateColumn, result.DateLayout)
		fmt.Printf("Total Rows:    %d\n", result.TotalRows)
		fmt.Printf("Loaded Rows:   %d\n", result.LoadedRows)
		fmt.Printf("Excluded Rows: %d\n", result.ExcludedRows)
		fmt.Printf("Duration:      %v\n", result.Duration)
		fmt.Println(strings.Repeat("-", 80))
	}

	logger.Info(ctx, "[INGESTER_COMPLETE] Ingestion completed successfully", logging.Fields{
		"calls_loaded":     callsResult.LoadedRows,
		"calls_excluded":   callsResult.ExcludedRows,
		"matches_loaded":   matchesResult.LoadedRows,
		"matches_excluded": matchesResult.ExcludedRows,
	})
}
