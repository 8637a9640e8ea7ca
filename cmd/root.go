// =============================================================================
// Monthly Transaction Report - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (txnreport)
//   ├── processCmd (txnreport process)
//   ├── serveCmd   (txnreport serve)
//   ├── schemaCmd  (txnreport schema)
//   └── versionCmd (txnreport version)
//
// START-UP:
//   Before any subcommand runs, the root command
//   1. loads the .env file (its values override the process environment)
//   2. leaves configuration loading to the subcommand, which reads the
//      --config file with the environment applied on top
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/txn-monthly-report/internal/config"
	"github.com/ginjaninja78/txn-monthly-report/internal/logger"
	"github.com/ginjaninja78/txn-monthly-report/internal/notify"
	"github.com/ginjaninja78/txn-monthly-report/internal/pipeline"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// envFile holds the path to the dotenv file.
var envFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "txnreport",
	Short: "Monthly transaction report - normalize a month of transactions into XML and JSON",
	Long: `txnreport turns a raw transactions export into a clean monthly report.

For a target month it normalizes and deduplicates the rows, keeps the valid
transactions of that month, and writes:
  - report.xml    the canonical transactions
  - summary.json  the data quality metrics of the run

under <output>/<YYYYMM>/. The report can optionally be emailed.

Example Usage:
  txnreport process --month 2024-05
  txnreport process --month 2024-05 --input ./data/may.xlsx --send-email
  txnreport serve                      # Run the local REST API`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnvFile(envFile)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file; a missing file means defaults",
	)

	rootCmd.PersistentFlags().StringVar(
		&envFile,
		"env-file",
		".env",
		"Path to a dotenv file loaded at start-up",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadEnvFile loads path into the process environment, overriding variables
// that are already set. A missing file is ignored.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Overload(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// newLogger builds the process logger from the configured level.
func newLogger(cfg *config.MainConfig) zerolog.Logger {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logger.New(level)
}

// newPipeline wires a pipeline from the configuration.
func newPipeline(cfg *config.MainConfig, outputRoot string, log zerolog.Logger) *pipeline.Pipeline {
	return pipeline.New(pipeline.Options{
		OutputRoot:   outputRoot,
		Fields:       cfg.Fields,
		CSVSettings:  cfg.CSVSettings,
		XLSXSettings: cfg.XLSXSettings,
		Notifier:     notify.NewMailer(cfg.Email, notify.WithLogger(log)),
		Logger:       log,
	})
}
