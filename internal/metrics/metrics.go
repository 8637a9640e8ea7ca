// Package metrics exposes operational counters of the report pipeline for
// Prometheus. These are process-wide and cumulative across runs; the
// per-run quality record is summary.Metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ginjaninja78/txn-monthly-report/internal/normalizer"
)

var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txnreport_runs_total",
		Help: "Total number of pipeline runs, labelled by outcome (ok, error).",
	}, []string{"status"})

	StageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txnreport_stage_failures_total",
		Help: "Total number of failed runs, labelled by the stage that failed.",
	}, []string{"stage"})

	RowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txnreport_rows_total",
		Help: "Total number of rows seen by the normalizer, labelled by outcome.",
	}, []string{"outcome"})

	CorrectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txnreport_soft_corrections_total",
		Help: "Total number of fields replaced by their default, labelled by field.",
	}, []string{"field"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "txnreport_run_duration_seconds",
		Help:    "End-to-end pipeline run latency in seconds.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txnreport_notifications_total",
		Help: "Total number of report notifications, labelled by status (sent, saved, failed).",
	}, []string{"status"})
)

// RecordRows adds the row outcomes of one normalization pass.
func RecordRows(rowsIn, rowsOut int, c normalizer.Counters) {
	RowsTotal.WithLabelValues("in").Add(float64(rowsIn))
	RowsTotal.WithLabelValues("out").Add(float64(rowsOut))
	RowsTotal.WithLabelValues("duplicate").Add(float64(c.DuplicatesRemoved))
	RowsTotal.WithLabelValues("below_threshold").Add(float64(c.BelowThresholdExcluded))
	RowsTotal.WithLabelValues("invalid_date").Add(float64(c.InvalidDates))
	RowsTotal.WithLabelValues("invalid_amount").Add(float64(c.InvalidAmounts))
	RowsTotal.WithLabelValues("missing_identity").Add(float64(c.MissingIdentity))
	RowsTotal.WithLabelValues("out_of_period").Add(float64(c.OutOfPeriod))

	CorrectionsTotal.WithLabelValues("label").Add(float64(c.InvalidLabels))
	CorrectionsTotal.WithLabelValues("currency").Add(float64(c.InvalidCurrency))
}
