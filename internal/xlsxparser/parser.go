// =============================================================================
// Monthly Transaction Report - XLSX Parser Module
// =============================================================================
//
// This module reads a transactions workbook into raw records, for sources
// that export spreadsheets instead of CSV. It follows the same contract as
// the CSV parser:
//   - the first row of the sheet holds the column headers
//   - every following row becomes one RawRecord keyed by header
//   - header names and cell values are trimmed
//
// Cell values are read as displayed (formatted) text, so an amount shown as
// "10,50" reaches the normalizer as "10,50".
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/txn-monthly-report/internal/config"
	"github.com/ginjaninja78/txn-monthly-report/internal/types"
)

// ReadRecords reads a workbook and returns one record per data row.
//
// PARAMETERS:
//   - filePath: The path to the XLSX file.
//   - settings: Which sheet to read; the first sheet when empty.
//
// RETURNS:
//   - The records, in sheet order. An empty sheet yields no records.
//   - An error if the workbook or sheet cannot be read.
func ReadRecords(filePath string, settings config.XLSXSettings) ([]types.RawRecord, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := settings.Sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", filePath)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}

	return rowsToRecords(rows), nil
}

// rowsToRecords maps data rows onto the header row.
func rowsToRecords(rows [][]string) []types.RawRecord {
	records := []types.RawRecord{}
	if len(rows) == 0 {
		return records
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	for _, row := range rows[1:] {
		// excelize returns an empty slice for a blank row between data rows.
		if isRowEmpty(row) {
			continue
		}
		record := make(types.RawRecord, len(headers))
		for i, header := range headers {
			if i >= len(row) {
				break
			}
			record[header] = strings.TrimSpace(row[i])
		}
		records = append(records, record)
	}

	return records
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
