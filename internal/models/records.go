package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CallRecord is one normalized emergency-call record. Multiple records may
// share a date; the date is the only attribute the analysis core uses.
type CallRecord struct {
	ID         int64     `json:"id" db:"id"`
	OccurredOn time.Time `json:"occurred_on" db:"occurred_on"`
	Category   *string   `json:"category,omitempty" db:"category"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// MatchRecord is one normalized football match result. The categorical
// attributes are used only for the result breakdown, never for window
// computation. NULL-able fields are pointers.
type MatchRecord struct {
	ID           int64     `json:"id" db:"id"`
	Team         string    `json:"team" db:"team"`
	OccurredOn   time.Time `json:"occurred_on" db:"occurred_on"`
	Opponent     string    `json:"opponent" db:"opponent"`
	Competition  *string   `json:"competition,omitempty" db:"competition"`
	Venue        *string   `json:"venue,omitempty" db:"venue"`
	HomeOrAway   *string   `json:"home_or_away,omitempty" db:"home_or_away"`
	GoalsFor     *int      `json:"goals_for,omitempty" db:"goals_for"`
	GoalsAgainst *int      `json:"goals_against,omitempty" db:"goals_against"`
	Result       *string   `json:"result,omitempty" db:"result"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Match result categories.
const (
	ResultWin  = "W"
	ResultDraw = "D"
	ResultLoss = "L"
)

// Home/away designations for fixture-shaped exports.
const (
	VenueHome = "home"
	VenueAway = "away"
)

// ParseScore splits a "4-0" style score into home and away goals.
func ParseScore(score string) (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(score), "-", 2)
	if len(parts) != 2 {
		return 0, 0, &ValidationError{
			Field:   "score",
			Value:   score,
			Message: "invalid score format, expected H-A",
		}
	}

	home, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, &ValidationError{Field: "score", Value: score, Message: "invalid home goals"}
	}
	away, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, &ValidationError{Field: "score", Value: score, Message: "invalid away goals"}
	}
	return home, away, nil
}

// DeriveResult classifies a scoreline from the tracked team's perspective.
func DeriveResult(goalsFor, goalsAgainst int) string {
	switch {
	case goalsFor > goalsAgainst:
		return ResultWin
	case goalsFor < goalsAgainst:
		return ResultLoss
	default:
		return ResultDraw
	}
}

// NormalizeResult maps the result spellings seen across exports ("W", "Win",
// "Loss", "Draw", "T", Spanish "G"/"E"/"P") to the canonical single-letter
// categories. Unrecognized values return "".
func NormalizeResult(raw string) string {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "W", "WIN", "G", "GANADO":
		return ResultWin
	case "D", "T", "DRAW", "TIE", "E", "EMPATE":
		return ResultDraw
	case "L", "LOSS", "LOST", "P", "PERDIDO":
		return ResultLoss
	default:
		return ""
	}
}

// IngestRun records one ingestion pass over a source file, keeping the row
// exclusion counts observable after the fact.
type IngestRun struct {
	ID           int64     `json:"id" db:"id"`
	Dataset      string    `json:"dataset" db:"dataset"` // "calls" or "matches"
	SourceFile   string    `json:"source_file" db:"source_file"`
	TotalRows    int       `json:"total_rows" db:"total_rows"`
	LoadedRows   int       `json:"loaded_rows" db:"loaded_rows"`
	ExcludedRows int       `json:"excluded_rows" db:"excluded_rows"`
	DateColumn   string    `json:"date_column" db:"date_column"`
	StartedAt    time.Time `json:"started_at" db:"started_at"`
	FinishedAt   time.Time `json:"finished_at" db:"finished_at"`
}

// ValidationError represents a data validation error on a single field.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsTransient returns false as validation errors are permanent
func (e *ValidationError) IsTransient() bool {
	return false
}

// Describe renders the error with its field context for diagnostics output.
func (e *ValidationError) Describe() string {
	return fmt.Sprintf("%s=%q: %s", e.Field, e.Value, e.Message)
}
