package dateparse

import (
	"fmt"
	"strings"
)

// Date-bearing column names seen verbatim in the source exports.
var exactNames = []string{"llamado_fecha", "match_date", "fecha", "date"}

// Name fragments accepted by the substring strategy: the Spanish token used
// by the call exports plus the English one used by the match exports.
var nameTokens = []string{"fecha", "date"}

// ColumnMatch identifies the detected date column and the strategy that
// found it.
type ColumnMatch struct {
	Index    int
	Name     string
	Strategy string // "exact", "substring", or "probe"
}

// MissingDateColumnError reports that no date-like column was found. The
// available column names are carried so the caller can offer a manual choice.
type MissingDateColumnError struct {
	Columns []string
}

func (e *MissingDateColumnError) Error() string {
	return fmt.Sprintf("no date column detected among columns: %s", strings.Join(e.Columns, ", "))
}

// DetectDateColumn finds the date-bearing column in a header row. Strategies
// run in order: exact name match, case-insensitive substring match on the
// date tokens, then a value-sniffing probe that parses each column's first
// non-empty sample. sample may be nil to skip the probe.
func DetectDateColumn(headers []string, sample func(col int) string, pref Preference) (ColumnMatch, error) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.TrimSpace(strings.ToLower(h))
	}

	for _, want := range exactNames {
		for i, h := range normalized {
			if h == want {
				return ColumnMatch{Index: i, Name: headers[i], Strategy: "exact"}, nil
			}
		}
	}

	for i, h := range normalized {
		for _, token := range nameTokens {
			if strings.Contains(h, token) {
				return ColumnMatch{Index: i, Name: headers[i], Strategy: "substring"}, nil
			}
		}
	}

	if sample != nil {
		for i := range headers {
			if v := sample(i); v != "" {
				if _, ok := Parse(v, pref); ok {
					return ColumnMatch{Index: i, Name: headers[i], Strategy: "probe"}, nil
				}
			}
		}
	}

	return ColumnMatch{}, &MissingDateColumnError{Columns: append([]string(nil), headers...)}
}
