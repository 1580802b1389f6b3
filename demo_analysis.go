package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"matchday-analytics/internal/analysis"
	"matchday-analytics/internal/dateparse"
)

// DemoAnalysis runs the full call/match weekend analysis without a database
func main() {
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println("MATCHDAY ANALYTICS - WEEKEND ANALYSIS DEMONSTRATION")
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println()

	callsPath := "data/calls.csv"
	matchesPath := "data/matches.csv"
	if len(os.Args) > 2 {
		callsPath = os.Args[1]
		matchesPath = os.Args[2]
	}

	callDates, callsTotal, callsExcluded, err := loadDates(callsPath)
	if err != nil {
		fmt.Printf("Error loading calls: %v\n", err)
		os.Exit(1)
	}

	matchDates, matchesTotal, matchesExcluded, err := loadDates(matchesPath)
	if err != nil {
		fmt.Printf("Error loading matches: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Calls:   %d rows, %d loaded, %d excluded\n", callsTotal, len(callDates), callsExcluded)
	fmt.Printf("Matches: %d rows, %d loaded, %d excluded\n", matchesTotal, len(matchDates), matchesExcluded)
	fmt.Println()

	cal := analysis.NewCalendar(matchDates)

	fmt.Println("─────────────────────────────────────────────────────────────")
	fmt.Println("Call volume per weekend (Friday through Sunday)")
	fmt.Println("─────────────────────────────────────────────────────────────")

	counts := analysis.CountByWindow(callDates, cal)
	for _, wc := range counts {
		marker := " "
		if wc.HasMatch {
			marker = "⚽"
		}
		fmt.Printf("  %s  %s → %s  %4d calls\n",
			marker,
			wc.Window.Start.Format("2006-01-02"),
			wc.Window.End().Format("2006-01-02"),
			wc.Calls,
		)
	}
	fmt.Println()

	fmt.Println("─────────────────────────────────────────────────────────────")
	fmt.Println("Match weekends versus other days")
	fmt.Println("─────────────────────────────────────────────────────────────")

	comparison := analysis.Compare(callDates, cal)
	fmt.Printf("  Match weekends:  %d calls over %d days (%.2f per day)\n",
		comparison.Match.Calls, comparison.Match.Days, comparison.Match.Average)
	fmt.Printf("  Other days:      %d calls over %d days (%.2f per day)\n",
		comparison.NonMatch.Calls, comparison.NonMatch.Days, comparison.NonMatch.Average)

	if comparison.Welch.Defined {
		fmt.Printf("  Welch t-statistic: %.4f (df %.1f)\n", comparison.Welch.T, comparison.Welch.DF)
	} else {
		fmt.Println("  Welch t-statistic: undefined (not enough per-day samples)")
	}
	fmt.Println()

	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println("✅ WEEKEND ANALYSIS DEMONSTRATION COMPLETE")
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Println("The system successfully:")
	fmt.Println("  ✓ Detected the date column in each export")
	fmt.Println("  ✓ Normalized mixed date formats to calendar days")
	fmt.Println("  ✓ Attributed every day to its Friday-to-Sunday weekend")
	fmt.Println("  ✓ Compared match-weekend and non-match call volume")
	fmt.Println()
	fmt.Println("With a database, this would:")
	fmt.Println("  • Store raw records in call_records and match_records tables")
	fmt.Println("  • Recompute every report on request from the raw records")
	fmt.Println("  • Serve reports via REST API endpoints")
	fmt.Println("  • Provide real-time metrics and monitoring")
	fmt.Println()
}

// loadDates reads a CSV export, finds its date column, and returns the
// normalized dates of the parseable rows.
func loadDates(path string) ([]time.Time, int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, 0, err
	}
	if len(records) == 0 {
		return nil, 0, 0, fmt.Errorf("empty csv file: %s", path)
	}

	headers, rows := records[0], records[1:]
	col, err := dateparse.DetectDateColumn(headers, func(c int) string {
		for _, row := range rows {
			if c < len(row) && row[c] != "" {
				return row[c]
			}
		}
		return ""
	}, dateparse.DayFirst)
	if err != nil {
		return nil, 0, 0, err
	}

	values := make([]string, len(rows))
	for i, row := range rows {
		if col.Index < len(row) {
			values[i] = row[col.Index]
		}
	}

	result := dateparse.NormalizeColumn(values, dateparse.DayFirst)
	dates := make([]time.Time, 0, len(rows))
	for i, ok := range result.Valid {
		if ok {
			dates = append(dates, result.Dates[i])
		}
	}

	return dates, len(rows), result.Excluded, nil
}
