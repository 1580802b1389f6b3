package models

import (
	"testing"
)

// TestParseScore covers the H-A scoreline splitting used for the fixtures
// shaped match export.
func TestParseScore(t *testing.T) {
	tests := []struct {
		name     string
		score    string
		wantErr  bool
		wantHome int
		wantAway int
	}{
		{name: "plain win", score: "4-0", wantHome: 4, wantAway: 0},
		{name: "draw with spaces", score: " 1 - 1 ", wantHome: 1, wantAway: 1},
		{name: "double digits", score: "10-2", wantHome: 10, wantAway: 2},
		{name: "missing separator", score: "40", wantErr: true},
		{name: "non numeric home", score: "x-1", wantErr: true},
		{name: "non numeric away", score: "1-y", wantErr: true},
		{name: "empty", score: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home, away, err := ParseScore(tt.score)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseScore() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if home != tt.wantHome {
				t.Errorf("home = %v, want %v", home, tt.wantHome)
			}
			if away != tt.wantAway {
				t.Errorf("away = %v, want %v", away, tt.wantAway)
			}
		})
	}
}

func TestDeriveResult(t *testing.T) {
	tests := []struct {
		name         string
		goalsFor     int
		goalsAgainst int
		want         string
	}{
		{name: "win", goalsFor: 2, goalsAgainst: 0, want: ResultWin},
		{name: "loss", goalsFor: 0, goalsAgainst: 3, want: ResultLoss},
		{name: "draw", goalsFor: 1, goalsAgainst: 1, want: ResultDraw},
		{name: "goalless draw", goalsFor: 0, goalsAgainst: 0, want: ResultDraw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveResult(tt.goalsFor, tt.goalsAgainst); got != tt.want {
				t.Errorf("DeriveResult(%d, %d) = %v, want %v", tt.goalsFor, tt.goalsAgainst, got, tt.want)
			}
		})
	}
}

func TestNormalizeResult(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"W", ResultWin},
		{"Win", ResultWin},
		{"g", ResultWin},
		{"Draw", ResultDraw},
		{"T", ResultDraw},
		{"empate", ResultDraw},
		{"Loss", ResultLoss},
		{"P", ResultLoss},
		{" l ", ResultLoss},
		{"??", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := NormalizeResult(tt.raw); got != tt.want {
				t.Errorf("NormalizeResult(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// TestValidationError tests error handling
func TestValidationError(t *testing.T) {
	err := &ValidationError{
		Field:   "score",
		Value:   "abc",
		Message: "invalid score format",
	}

	if err.Error() != "invalid score format" {
		t.Errorf("Error() = %v, want %v", err.Error(), "invalid score format")
	}

	if err.IsTransient() {
		t.Error("ValidationError should not be transient")
	}

	if err.Describe() != `score="abc": invalid score format` {
		t.Errorf("Describe() = %v", err.Describe())
	}
}
