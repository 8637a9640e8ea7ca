// =============================================================================
// Monthly Transaction Report - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs the pipeline for one
// month from the command line.
//
// COMMAND USAGE:
//   txnreport process --month YYYY-MM [flags]
//
// FLAGS:
//   --month       : Target month, YYYY-MM (required)
//   --input       : Transactions file, .csv or .xlsx (default: input_path)
//   --output      : Output root directory (default: output_dir)
//   --send-email  : Email the report, or save it as .eml when SMTP is unset
//
// OUTPUT:
//   Status: ok
//   Report XML: outputs/202405/report.xml
//   Summary JSON: outputs/202405/summary.json
//   Email: saved - SMTP not configured; email saved to ...
//
// A failed run prints its stage and error and exits non-zero.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/txn-monthly-report/internal/config"
	"github.com/ginjaninja78/txn-monthly-report/internal/pipeline"
	"github.com/ginjaninja78/txn-monthly-report/internal/validation"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	month      string
	inputPath  string
	outputRoot string
	sendEmail  bool
)

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Build the monthly report for one month",
	Long: `The process command reads the transactions file, keeps the valid
transactions of the target month, and writes report.xml and summary.json to
<output>/<YYYYMM>/. Existing files for the month are overwritten.

Rows are dropped when they have no identity, repeat an identity already
seen, have an unparseable or out-of-month date, or an amount that is not a
positive number. Unknown labels and missing currencies are replaced by
defaults and counted in summary.json.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&month, "month", "", "Target month in YYYY-MM format")
	processCmd.Flags().StringVar(&inputPath, "input", "", "Path to the transactions file (.csv or .xlsx)")
	processCmd.Flags().StringVar(&outputRoot, "output", "", "Base output directory")
	processCmd.Flags().BoolVar(&sendEmail, "send-email", false, "Send email with summary and XML attachment")

	processCmd.MarkFlagRequired("month")
}

// =============================================================================
// PROCESSING LOGIC
// =============================================================================

// runProcess executes the processing pipeline.
func runProcess(cmd *cobra.Command) error {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return err
	}
	if inputPath == "" {
		inputPath = cfg.InputPath
	}
	if outputRoot == "" {
		outputRoot = cfg.OutputDir
	}

	if err := validation.ValidateRequest(month, inputPath); err != nil {
		return err
	}

	log := newLogger(cfg)
	p := newPipeline(cfg, outputRoot, log)

	res := p.RunFile(cmd.Context(), pipeline.Request{
		Month:     month,
		InputPath: inputPath,
		SendEmail: sendEmail,
	})

	printResult(cmd.OutOrStdout(), res)

	if !res.OK() {
		return fmt.Errorf("run failed at %s", res.Stage)
	}
	return nil
}

// printResult writes the human-readable run outcome.
func printResult(w io.Writer, res pipeline.Result) {
	fmt.Fprintln(w, "Status:", res.Status)
	if res.ReportPath != "" {
		fmt.Fprintln(w, "Report XML:", res.ReportPath)
	}
	if res.SummaryPath != "" {
		fmt.Fprintln(w, "Summary JSON:", res.SummaryPath)
	}
	if res.Notification != nil {
		fmt.Fprintln(w, "Email:", res.Notification.Status, "-", res.Notification.Message)
	}
	if !res.OK() {
		fmt.Fprintf(w, "Error (%s): %s\n", res.Stage, res.Error)
	}
}
