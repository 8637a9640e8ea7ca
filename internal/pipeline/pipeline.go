// =============================================================================
// Monthly Transaction Report - Pipeline Module
// =============================================================================
//
// This module orchestrates one monthly run, from raw rows to the files on
// disk.
//
// PIPELINE:
//   1. Load rows (RunFile only): CSV or XLSX, chosen by extension
//   2. Normalize and filter the rows for the target month
//   3. Aggregate the quality metrics
//   4. Ensure <output root>/<YYYYMM> exists
//   5. Write report.xml
//   6. Write summary.json
//   7. Optionally notify (email or .eml evidence)
//
// ERROR HANDLING:
//   Every failing stage returns a *StageError. Run folds it into a Result
//   with Status "error" instead of returning it, so callers always get a
//   Result. Files written before the failure are left in place.
//   A failed notification never changes Status.
//
// CONCURRENCY:
//   A run is synchronous. Runs share nothing except the output directory:
//   two runs for the same month race and the last writer wins.
//
// =============================================================================

package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/txn-monthly-report/internal/config"
	"github.com/ginjaninja78/txn-monthly-report/internal/csvparser"
	"github.com/ginjaninja78/txn-monthly-report/internal/metrics"
	"github.com/ginjaninja78/txn-monthly-report/internal/normalizer"
	"github.com/ginjaninja78/txn-monthly-report/internal/notify"
	"github.com/ginjaninja78/txn-monthly-report/internal/summary"
	"github.com/ginjaninja78/txn-monthly-report/internal/types"
	"github.com/ginjaninja78/txn-monthly-report/internal/validation"
	"github.com/ginjaninja78/txn-monthly-report/internal/xlsxparser"
	"github.com/ginjaninja78/txn-monthly-report/internal/xmlwriter"
	"github.com/ginjaninja78/txn-monthly-report/pkg/utils"
)

// Run outcomes.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one monthly run.
type Result struct {
	// Status is "ok" or "error".
	Status string `json:"status"`

	// Stage names the failing stage when Status is "error".
	Stage Stage `json:"stage,omitempty"`

	// Error is the failure message when Status is "error".
	Error string `json:"error,omitempty"`

	ReportPath  string `json:"report_path,omitempty"`
	SummaryPath string `json:"summary_path,omitempty"`

	// Metrics is set once aggregation has run, even if a later stage failed.
	Metrics *summary.Metrics `json:"metrics,omitempty"`

	// Notification is set only when a notification was requested.
	Notification *notify.Result `json:"email_result,omitempty"`
}

// OK reports whether the run succeeded.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Request describes one run.
type Request struct {
	// Month is the target month, "YYYY-MM".
	Month string

	// Rows are the raw records for Run. RunFile loads them from InputPath.
	Rows      []types.RawRecord
	InputPath string

	SendEmail bool
}

// =============================================================================
// PIPELINE STRUCTURE
// =============================================================================

// Options configures a Pipeline.
type Options struct {
	// OutputRoot is the directory that receives one folder per month.
	OutputRoot string

	// Fields overrides the normalizer's header candidates.
	Fields normalizer.Fields

	CSVSettings  config.CSVSettings
	XLSXSettings config.XLSXSettings

	// Notifier delivers the report when a request asks for it.
	Notifier notify.Notifier

	// Now is the clock used for the report timestamp. Defaults to time.Now.
	Now func() time.Time

	Logger zerolog.Logger
}

// Pipeline runs monthly reports. It holds no per-run state and may be
// shared between goroutines.
type Pipeline struct {
	opts       Options
	normalizer *normalizer.Normalizer
}

// New creates a Pipeline.
//
// PARAMETERS:
//   - opts: The pipeline options. A zero Now uses the wall clock.
//
// RETURNS:
//   - A new Pipeline instance.
func New(opts Options) *Pipeline {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{
		opts:       opts,
		normalizer: normalizer.New(opts.Fields),
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// RunFile loads req.InputPath and runs the pipeline on its rows.
func (p *Pipeline) RunFile(ctx context.Context, req Request) Result {
	log := p.opts.Logger.With().Str("month", req.Month).Str("input", req.InputPath).Logger()

	if err := validation.ValidateMonth(req.Month); err != nil {
		return p.fail(&StageError{Stage: StageRequest, Err: err}, Result{})
	}

	rows, err := p.load(req.InputPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read input")
		return p.fail(&StageError{Stage: StageRead, Err: err}, Result{})
	}
	log.Debug().Int("rows", len(rows)).Msg("Read input rows")

	req.Rows = rows
	return p.Run(ctx, req)
}

// Run executes the pipeline for req.Rows.
//
// RETURNS:
//   - A Result describing the outcome. Run never panics on bad input and
//     never returns a partially filled Result with Status "ok".
func (p *Pipeline) Run(ctx context.Context, req Request) Result {
	start := time.Now()
	log := p.opts.Logger.With().Str("month", req.Month).Logger()

	if err := validation.ValidateMonth(req.Month); err != nil {
		return p.fail(&StageError{Stage: StageRequest, Err: err}, Result{})
	}

	// =========================================================================
	// STEP 1: NORMALIZE AND AGGREGATE
	// =========================================================================

	transactions, counters := p.normalizer.Normalize(req.Rows, req.Month)
	m := summary.Aggregate(len(req.Rows), len(transactions), counters)
	metrics.RecordRows(m.RowsIn, m.RowsOut, counters)

	result := Result{Metrics: &m}
	log.Debug().
		Int("rows_in", m.RowsIn).
		Int("rows_out", m.RowsOut).
		Int("missing_identity", counters.MissingIdentity).
		Int("out_of_period", counters.OutOfPeriod).
		Msg("Normalized rows")

	if !m.Consistent() {
		log.Warn().
			Int("rows_excluded", m.RowsExcluded).
			Msg("Data integrity warning: rows_excluded is negative")
	}

	// =========================================================================
	// STEP 2: WRITE ARTIFACTS
	// =========================================================================

	dir, err := utils.EnsureMonthDir(p.opts.OutputRoot, req.Month)
	if err != nil {
		return p.fail(&StageError{Stage: StageOutputDir, Err: err}, result)
	}

	reportPath := filepath.Join(dir, utils.ReportFileName)
	if err := xmlwriter.WriteFile(reportPath, req.Month, transactions, p.opts.Now()); err != nil {
		return p.fail(&StageError{Stage: StageReport, Err: err}, result)
	}
	result.ReportPath = reportPath
	log.Debug().Str("path", reportPath).Int("transactions", len(transactions)).Msg("Wrote report")

	summaryPath := filepath.Join(dir, utils.SummaryFileName)
	if err := summary.Write(m, summaryPath); err != nil {
		return p.fail(&StageError{Stage: StageSummary, Err: err}, result)
	}
	result.SummaryPath = summaryPath

	// =========================================================================
	// STEP 3: NOTIFY
	// =========================================================================

	if req.SendEmail {
		n := p.notify(ctx, notify.Notice{
			Month:      req.Month,
			Metrics:    m,
			ReportPath: reportPath,
			OutputDir:  dir,
		})
		result.Notification = &n
		metrics.NotificationsTotal.WithLabelValues(string(n.Status)).Inc()
		log.Info().Str("status", string(n.Status)).Str("message", n.Message).Msg("Notification finished")
	}

	// =========================================================================
	// COMPLETE
	// =========================================================================

	result.Status = StatusOK
	metrics.RunsTotal.WithLabelValues(StatusOK).Inc()
	metrics.RunDuration.Observe(time.Since(start).Seconds())

	log.Info().
		Int("rows_in", m.RowsIn).
		Int("rows_out", m.RowsOut).
		Int("rows_excluded", m.RowsExcluded).
		Str("report", reportPath).
		Msg("Run complete")

	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// load reads the rows of an input file with the reader for its kind.
func (p *Pipeline) load(path string) ([]types.RawRecord, error) {
	kind, err := validation.DetectInputKind(path)
	if err != nil {
		return nil, err
	}
	if kind == validation.InputXLSX {
		return xlsxparser.ReadRecords(path, p.opts.XLSXSettings)
	}
	return csvparser.ReadRecords(path, p.opts.CSVSettings)
}

// notify calls the notifier and turns a missing notifier or a panic into a
// failed notification.
func (p *Pipeline) notify(ctx context.Context, n notify.Notice) (res notify.Result) {
	if p.opts.Notifier == nil {
		return notify.Result{Status: notify.StatusFailed, Message: "no notifier configured"}
	}
	defer func() {
		if r := recover(); r != nil {
			res = notify.Result{Status: notify.StatusFailed, Message: fmt.Sprintf("notifier panicked: %v", r)}
		}
	}()
	return p.opts.Notifier.Notify(ctx, n)
}

// fail folds a stage error into result.
func (p *Pipeline) fail(err *StageError, result Result) Result {
	result.Status = StatusError
	result.Stage = err.Stage
	result.Error = err.Error()

	metrics.RunsTotal.WithLabelValues(StatusError).Inc()
	metrics.StageFailures.WithLabelValues(string(err.Stage)).Inc()
	p.opts.Logger.Error().Err(err.Err).Str("stage", string(err.Stage)).Msg("Run failed")

	return result
}
