// =============================================================================
// Monthly Transaction Report - Run Request Validation
// =============================================================================
//
// This module checks a run request before any work starts:
//   - the target month label has the YYYY-MM shape
//   - the input path names a row source the pipeline can read
//
// Only the shape of the month is checked here. A well-shaped label such as
// "2024-13" passes and simply matches no rows during normalization.
//
// ERROR HANDLING:
//   Every failure is a *ValidationError that wraps one of the sentinel errors
//   below, so callers can branch with errors.Is and still print the field
//   and value that failed.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Sentinel errors.
var (
	ErrInvalidMonth     = errors.New("month must be 'YYYY-MM'")
	ErrUnsupportedInput = errors.New("unsupported input format")
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single failed check on a run request.
type ValidationError struct {
	// Field is the request field that failed validation.
	Field string

	// Value is the actual value that failed validation.
	Value string

	// Err is the sentinel describing the rule that was violated.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v (value: '%s')", e.Field, e.Err, e.Value)
}

// Unwrap exposes the sentinel to errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// =============================================================================
// INPUT KINDS
// =============================================================================

// InputKind identifies the row source used for an input file.
type InputKind string

const (
	InputCSV  InputKind = "csv"
	InputXLSX InputKind = "xlsx"
)

// legacyFormats are spreadsheet formats the XLSX reader cannot open.
var legacyFormats = map[string]bool{
	".xls": true,
	".ods": true,
}

// =============================================================================
// CHECKS
// =============================================================================

// ValidateMonth checks that month is exactly 7 characters with '-' at
// index 4.
//
// RETURNS:
//   - nil when the shape is right.
//   - A *ValidationError wrapping ErrInvalidMonth otherwise.
func ValidateMonth(month string) error {
	if len(month) != 7 || month[4] != '-' {
		return &ValidationError{Field: "month", Value: month, Err: ErrInvalidMonth}
	}
	return nil
}

// DetectInputKind picks the row source for a path by its extension.
// ".xlsx" selects the workbook reader; anything else is read as CSV.
//
// RETURNS:
//   - The input kind.
//   - A *ValidationError wrapping ErrUnsupportedInput for legacy
//     spreadsheet formats.
func DetectInputKind(path string) (InputKind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".xlsx":
		return InputXLSX, nil
	case legacyFormats[ext]:
		return "", &ValidationError{Field: "input", Value: path, Err: ErrUnsupportedInput}
	default:
		return InputCSV, nil
	}
}

// ValidateRequest runs every check for a file-based run and returns all
// failures joined, or nil.
func ValidateRequest(month, inputPath string) error {
	var errs []error
	if err := ValidateMonth(month); err != nil {
		errs = append(errs, err)
	}
	if _, err := DetectInputKind(inputPath); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
