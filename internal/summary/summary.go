// =============================================================================
// Monthly Transaction Report - Summary Module
// =============================================================================
//
// This module combines the normalizer counters with the input/output row
// counts into one Metrics record, and persists that record as summary.json.
//
// summary.json is a flat, pretty-printed key -> integer object:
//
//   {
//     "rows_in": 4,
//     "rows_out": 1,
//     "duplicates_removed": 1,
//     "below_threshold_excluded": 1,
//     "invalid_labels": 2,
//     "invalid_dates": 0,
//     "invalid_amounts": 0,
//     "invalid_currency": 2,
//     "rows_excluded": 2
//   }
//
// =============================================================================

package summary

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ginjaninja78/txn-monthly-report/internal/normalizer"
)

// =============================================================================
// METRICS
// =============================================================================

// Metrics is the durable quality record of one run. It is created once by
// Aggregate and not modified afterwards.
type Metrics struct {
	RowsIn                 int `json:"rows_in"`
	RowsOut                int `json:"rows_out"`
	DuplicatesRemoved      int `json:"duplicates_removed"`
	BelowThresholdExcluded int `json:"below_threshold_excluded"`
	InvalidLabels          int `json:"invalid_labels"`
	InvalidDates           int `json:"invalid_dates"`
	InvalidAmounts         int `json:"invalid_amounts"`
	InvalidCurrency        int `json:"invalid_currency"`
	RowsExcluded           int `json:"rows_excluded"`
}

// Aggregate builds the Metrics of a run.
//
// rows_excluded = rows_in - rows_out - duplicates_removed
func Aggregate(rowsIn, rowsOut int, c normalizer.Counters) Metrics {
	return Metrics{
		RowsIn:                 rowsIn,
		RowsOut:                rowsOut,
		DuplicatesRemoved:      c.DuplicatesRemoved,
		BelowThresholdExcluded: c.BelowThresholdExcluded,
		InvalidLabels:          c.InvalidLabels,
		InvalidDates:           c.InvalidDates,
		InvalidAmounts:         c.InvalidAmounts,
		InvalidCurrency:        c.InvalidCurrency,
		RowsExcluded:           rowsIn - rowsOut - c.DuplicatesRemoved,
	}
}

// Consistent reports whether the counters add up. A negative rows_excluded
// means the upstream counts disagree; it is a data-integrity warning, not an
// error.
func (m Metrics) Consistent() bool {
	return m.RowsExcluded >= 0
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// Marshal renders the metrics as indented JSON with a trailing newline.
func Marshal(m Metrics) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary: %w", err)
	}
	return append(data, '\n'), nil
}

// Write persists the metrics to path, replacing any previous file.
func Write(m Metrics, path string) error {
	data, err := Marshal(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// Read loads a summary.json written by Write.
func Read(path string) (Metrics, error) {
	var m Metrics
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("failed to read summary: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("failed to parse summary: %w", err)
	}
	return m, nil
}
