package summary

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/txn-monthly-report/internal/normalizer"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name         string
		rowsIn       int
		rowsOut      int
		counters     normalizer.Counters
		wantExcluded int
		consistent   bool
	}{
		{
			name:         "typical run",
			rowsIn:       4,
			rowsOut:      1,
			counters:     normalizer.Counters{DuplicatesRemoved: 1, BelowThresholdExcluded: 1},
			wantExcluded: 2,
			consistent:   true,
		},
		{
			name:         "empty input",
			wantExcluded: 0,
			consistent:   true,
		},
		{
			name:         "inconsistent upstream counts",
			rowsIn:       1,
			rowsOut:      1,
			counters:     normalizer.Counters{DuplicatesRemoved: 2},
			wantExcluded: -2,
			consistent:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Aggregate(tt.rowsIn, tt.rowsOut, tt.counters)

			if m.RowsExcluded != tt.wantExcluded {
				t.Errorf("RowsExcluded = %d, want %d", m.RowsExcluded, tt.wantExcluded)
			}
			if m.RowsExcluded != m.RowsIn-m.RowsOut-m.DuplicatesRemoved {
				t.Errorf("rows_excluded identity broken: %+v", m)
			}
			if m.Consistent() != tt.consistent {
				t.Errorf("Consistent() = %v, want %v", m.Consistent(), tt.consistent)
			}
		})
	}
}

func TestAggregate_CopiesCounters(t *testing.T) {
	c := normalizer.Counters{
		DuplicatesRemoved:      1,
		BelowThresholdExcluded: 2,
		InvalidLabels:          3,
		InvalidDates:           4,
		InvalidAmounts:         5,
		InvalidCurrency:        6,
		MissingIdentity:        7,
		OutOfPeriod:            8,
	}

	m := Aggregate(30, 10, c)

	want := Metrics{
		RowsIn: 30, RowsOut: 10,
		DuplicatesRemoved: 1, BelowThresholdExcluded: 2, InvalidLabels: 3,
		InvalidDates: 4, InvalidAmounts: 5, InvalidCurrency: 6,
		RowsExcluded: 19,
	}
	if m != want {
		t.Errorf("Aggregate = %+v, want %+v", m, want)
	}
}

func TestMarshal_KeyOrderAndIndent(t *testing.T) {
	data, err := Marshal(Metrics{RowsIn: 4, RowsOut: 1, DuplicatesRemoved: 1, RowsExcluded: 2})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	want := `{
  "rows_in": 4,
  "rows_out": 1,
  "duplicates_removed": 1,
  "below_threshold_excluded": 0,
  "invalid_labels": 0,
  "invalid_dates": 0,
  "invalid_amounts": 0,
  "invalid_currency": 0,
  "rows_excluded": 2
}
`
	if string(data) != want {
		t.Errorf("unexpected summary:\n%s", data)
	}
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	m := Metrics{RowsIn: 3, RowsOut: 2, InvalidCurrency: 1, RowsExcluded: 1}

	if err := Write(m, path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != m {
		t.Errorf("Read = %+v, want %+v", got, m)
	}
}

func TestWrite_MissingDirectory(t *testing.T) {
	err := Write(Metrics{}, filepath.Join(t.TempDir(), "missing", "summary.json"))
	if err == nil || !strings.Contains(err.Error(), "failed to write summary") {
		t.Errorf("expected write error, got %v", err)
	}
}
