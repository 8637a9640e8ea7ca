// =============================================================================
// Monthly Transaction Report - Notification Module
// =============================================================================
//
// This module delivers a finished month report to a mailbox. The pipeline
// only knows the Notifier interface; the SMTP implementation lives in
// mailer.go.
//
// A notification never fails a run. Whatever happens on the wire, the
// outcome comes back as a Result and the message itself is kept on disk as
// an .eml file next to the report:
//
//   status  | file(s) written in the month folder
//   --------+----------------------------------------------------------
//   saved   | email_<YYYYMM>.eml                 (SMTP not configured)
//   sent    | email_evidence_<YYYYMM>_SENT.eml
//   failed  | email_<YYYYMM>_AUTHFAILED.eml      (login rejected)
//   failed  | email_<YYYYMM>_FAILED.eml + email_error_<YYYYMM>.log
//
// =============================================================================

package notify

import (
	"context"

	"github.com/ginjaninja78/txn-monthly-report/internal/summary"
)

// Status is the outcome of one notification attempt.
type Status string

const (
	StatusSent   Status = "sent"
	StatusSaved  Status = "saved"
	StatusFailed Status = "failed"
)

// Notice is what the pipeline hands to a notifier after a successful run.
type Notice struct {
	Month      string
	Metrics    summary.Metrics
	ReportPath string

	// OutputDir is the month folder; evidence files are written there.
	OutputDir string
}

// Result describes what happened to a notification.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// Notifier delivers a report notice. Implementations must not panic and
// must report every failure through Result.
type Notifier interface {
	Notify(ctx context.Context, n Notice) Result
}
