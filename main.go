// =============================================================================
// Monthly Transaction Report - Main Entry Point
// =============================================================================
//
// This is the main entry point for the txnreport CLI. It delegates command
// execution to the cmd package.
//
// USAGE:
//   txnreport process --month YYYY-MM   - Build the report for one month
//   txnreport serve                     - Run the local REST API
//   txnreport schema                    - Print the XSD of report.xml
//   txnreport version                   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Pipeline, normalizer, writers, notifier, HTTP API
//   - pkg/       : Shared file layout utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/txn-monthly-report/cmd"
)

func main() {
	cmd.Execute()
}
