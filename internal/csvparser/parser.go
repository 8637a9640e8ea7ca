// =============================================================================
// Monthly Transaction Report - CSV Parser Module
// =============================================================================
//
// This module reads a transactions export into raw records. The first row
// holds the column headers; every following row becomes one RawRecord keyed
// by header. Header names and values are trimmed. Nothing else is
// interpreted here: deciding what a row means is the normalizer's job.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/txn-monthly-report/internal/config"
	"github.com/ginjaninja78/txn-monthly-report/internal/types"
)

// utf8BOM is stripped from the first header when present.
const utf8BOM = "\ufeff"

// ReadRecords reads a CSV file and returns one record per data row.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV parsing settings.
//
// RETURNS:
//   - The records, in file order. An empty file yields no records.
//   - An error if the file cannot be opened or is not valid CSV.
func ReadRecords(filePath string, settings config.CSVSettings) ([]types.RawRecord, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	records, err := Parse(bufio.NewReader(file), settings)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return records, nil
}

// Parse reads CSV content from r.
func Parse(r io.Reader, settings config.CSVSettings) ([]types.RawRecord, error) {
	csvReader := csv.NewReader(r)
	if err := configureReader(csvReader, settings); err != nil {
		return nil, err
	}

	header, err := csvReader.Read()
	if err == io.EOF {
		return []types.RawRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	headers := cleanHeaders(header)

	var records []types.RawRecord
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		records = append(records, toRecord(headers, row))
	}

	if records == nil {
		records = []types.RawRecord{}
	}
	return records, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) error {
	comma, err := settings.Comma()
	if err != nil {
		return err
	}
	reader.Comma = comma

	// Exports are often ragged; short rows simply miss fields.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return nil
}

// cleanHeaders trims header names.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, utf8BOM)
		}
		cleaned[i] = strings.TrimSpace(header)
	}
	return cleaned
}

// toRecord maps a data row onto the headers. Missing trailing cells are
// absent from the record; cells beyond the last header are dropped.
func toRecord(headers, row []string) types.RawRecord {
	record := make(types.RawRecord, len(headers))
	for i, header := range headers {
		if i >= len(row) {
			break
		}
		record[header] = strings.TrimSpace(row[i])
	}
	return record
}
