package csvparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/txn-monthly-report/internal/config"
)

func TestParse(t *testing.T) {
	input := "\ufeff id , date ,amount,status\n" +
		"A1, 2024-05-10 ,\"10,50\",approved\n" +
		"A2,2024-05-11\n"

	records, err := Parse(strings.NewReader(input), config.CSVSettings{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0]["id"] != "A1" || records[0]["date"] != "2024-05-10" || records[0]["amount"] != "10,50" {
		t.Errorf("unexpected first record: %v", records[0])
	}
	if _, ok := records[1]["amount"]; ok {
		t.Errorf("short row must not carry missing fields: %v", records[1])
	}
}

func TestParse_Delimiter(t *testing.T) {
	input := "id;amount\nA1;3,5\n"

	records, err := Parse(strings.NewReader(input), config.CSVSettings{Delimiter: "semicolon"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 1 || records[0]["amount"] != "3,5" {
		t.Errorf("unexpected records: %v", records)
	}
}

func TestParse_Empty(t *testing.T) {
	for _, input := range []string{"", "id,date,amount\n"} {
		records, err := Parse(strings.NewReader(input), config.CSVSettings{})
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}
		if len(records) != 0 {
			t.Errorf("Parse(%q) = %v, want no records", input, records)
		}
	}
}

func TestReadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	if err := os.WriteFile(path, []byte("id,amount\nA1,1.00\nA2,2.00\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	records, err := ReadRecords(path, config.CSVSettings{Delimiter: ","})
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(records) != 2 || records[1]["id"] != "A2" {
		t.Errorf("unexpected records: %v", records)
	}
}

func TestReadRecords_MissingFile(t *testing.T) {
	if _, err := ReadRecords(filepath.Join(t.TempDir(), "nope.csv"), config.CSVSettings{}); err == nil {
		t.Error("expected an error for a missing file")
	}
}
