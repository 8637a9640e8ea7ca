// =============================================================================
// Monthly Transaction Report - File Manager Utility
// =============================================================================
//
// This module provides the file layout helpers shared by the pipeline and
// the notifier:
//   - Month folder naming ("2024-05" -> "202405")
//   - Output directory management
//   - Error log generation
//
// OUTPUT LAYOUT:
//   <output root>/
//     202405/
//       report.xml
//       summary.json
//       email_*.eml / email_error_*.log   (notification evidence)
//
// Re-running a month overwrites report.xml and summary.json in place.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Artifact file names inside a month folder.
const (
	ReportFileName  = "report.xml"
	SummaryFileName = "summary.json"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// MonthFolder returns the folder name of a month label: the label with
// every '-' removed.
func MonthFolder(month string) string {
	return strings.ReplaceAll(month, "-", "")
}

// EnsureMonthDir creates <root>/<MonthFolder(month)> if it does not exist.
//
// PARAMETERS:
//   - root: The output root directory.
//   - month: The month label.
//
// RETURNS:
//   - The month directory path.
//   - An error if the folder name is not a single path element or the
//     directory cannot be created.
func EnsureMonthDir(root, month string) (string, error) {
	folder := MonthFolder(month)
	if folder == "" || folder == "." || folder == ".." || strings.ContainsAny(folder, `/\`) {
		return "", fmt.Errorf("invalid month folder %q", folder)
	}
	dir := filepath.Join(root, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return dir, nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// ErrorLogEntry represents a single error log entry.
type ErrorLogEntry struct {
	Timestamp time.Time
	Stage     string
	Message   string
}

// WriteErrorLog writes error entries to a plain-text log file, replacing
// any previous log at path.
//
// PARAMETERS:
//   - path: The log file path.
//   - title: The first line of the log.
//   - entries: The error entries to write.
//
// RETURNS:
//   - An error if writing fails.
func WriteErrorLog(path, title string, entries []ErrorLogEntry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "%s\n", title)

	for _, entry := range entries {
		fmt.Fprintf(writer, "[%s] %s: %s\n",
			entry.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			entry.Stage,
			entry.Message)
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush error log: %w", err)
	}
	return nil
}
