package notify

import (
	"context"
	"errors"
	"fmt"
	"net/textproto"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"

	"github.com/ginjaninja78/txn-monthly-report/internal/config"
	"github.com/ginjaninja78/txn-monthly-report/pkg/utils"
)

// authHint is shown when the SMTP server rejects the login.
const authHint = "Authentication failed. For Gmail, enable 2-Step Verification and use an App Password."

// dialTimeout bounds connecting to and talking with the SMTP server.
const dialTimeout = 30 * time.Second

// =============================================================================
// MAILER
// =============================================================================

// Mailer sends report notices over SMTP and keeps every message as an .eml
// file in the month folder.
type Mailer struct {
	cfg    config.EmailConfig
	now    func() time.Time
	logger zerolog.Logger
}

// MailerOption configures a Mailer.
type MailerOption func(*Mailer)

// WithClock sets the time source used for the Date header and error logs.
func WithClock(now func() time.Time) MailerOption {
	return func(m *Mailer) { m.now = now }
}

// WithLogger sets the mailer logger.
func WithLogger(l zerolog.Logger) MailerOption {
	return func(m *Mailer) { m.logger = l }
}

// NewMailer creates a Mailer for the given email settings.
func NewMailer(cfg config.EmailConfig, opts ...MailerOption) *Mailer {
	m := &Mailer{
		cfg:    cfg,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Notify composes the report email and sends it, or saves it when SMTP is
// not configured.
func (m *Mailer) Notify(ctx context.Context, n Notice) Result {
	folder := utils.MonthFolder(n.Month)
	evidence := func(name string) string {
		return filepath.Join(n.OutputDir, name)
	}

	msg, err := m.compose(n)
	if err != nil {
		return Result{Status: StatusFailed, Message: fmt.Sprintf("failed to compose email: %v", err)}
	}

	smtp := m.cfg.SMTP
	if !smtp.Configured() {
		path := evidence(fmt.Sprintf("email_%s.eml", folder))
		if err := msg.WriteToFile(path); err != nil {
			return Result{Status: StatusFailed, Message: fmt.Sprintf("failed to save email: %v", err)}
		}
		return Result{
			Status:  StatusSaved,
			Message: fmt.Sprintf("SMTP not configured; email saved to %s", path),
			Path:    path,
		}
	}

	sendErr := m.send(ctx, msg)
	if sendErr == nil {
		path := evidence(fmt.Sprintf("email_evidence_%s_SENT.eml", folder))
		if err := msg.WriteToFile(path); err != nil {
			m.logger.Warn().Err(err).Str("path", path).Msg("Email sent but evidence copy could not be saved")
		}
		return Result{
			Status:  StatusSent,
			Message: fmt.Sprintf("Email sent to %s (copy saved to %s)", m.cfg.To, path),
			Path:    path,
		}
	}

	m.logger.Error().Err(sendErr).Str("host", smtp.Host).Int("port", smtp.Port).Msg("Failed to send report email")

	if isAuthFailure(sendErr) {
		path := evidence(fmt.Sprintf("email_%s_AUTHFAILED.eml", folder))
		if err := msg.WriteToFile(path); err != nil {
			m.logger.Warn().Err(err).Str("path", path).Msg("Could not save failed email")
		}
		return Result{
			Status:  StatusFailed,
			Message: fmt.Sprintf("%s Saved EML to %s. Error: %v", authHint, path, sendErr),
			Path:    path,
		}
	}

	path := evidence(fmt.Sprintf("email_%s_FAILED.eml", folder))
	if err := msg.WriteToFile(path); err != nil {
		m.logger.Warn().Err(err).Str("path", path).Msg("Could not save failed email")
	}
	logPath := evidence(fmt.Sprintf("email_error_%s.log", folder))
	logErr := utils.WriteErrorLog(logPath, "Error sending email:", []utils.ErrorLogEntry{
		{Timestamp: m.now(), Stage: "smtp", Message: sendErr.Error()},
	})
	if logErr != nil {
		m.logger.Warn().Err(logErr).Str("path", logPath).Msg("Could not write email error log")
	}
	return Result{
		Status:  StatusFailed,
		Message: fmt.Sprintf("Saved EML to %s; see %s for details.", path, logPath),
		Path:    path,
	}
}

// compose builds the message with the report attached.
func (m *Mailer) compose(n Notice) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", m.cfg.From, err)
	}
	if err := msg.To(m.cfg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", m.cfg.To, err)
	}
	msg.Subject(Subject(n.Month))
	msg.SetDateWithValue(m.now())
	msg.SetMessageID()

	body := ComposeBody(n.Month, n.Metrics, AnalyzeReport(n.ReportPath))
	msg.SetBodyString(mail.TypeTextPlain, body)
	msg.AttachFile(n.ReportPath, mail.WithFileName(filepath.Base(n.ReportPath)))

	return msg, nil
}

// send dials the configured server and delivers msg.
func (m *Mailer) send(ctx context.Context, msg *mail.Msg) error {
	smtp := m.cfg.SMTP

	opts := []mail.Option{
		mail.WithPort(smtp.Port),
		mail.WithTimeout(dialTimeout),
	}
	switch {
	case smtp.SSL:
		opts = append(opts, mail.WithSSL(), mail.WithTLSPolicy(mail.NoTLS))
	case smtp.UseTLS():
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if smtp.User != "" && smtp.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(smtp.User),
			mail.WithPassword(smtp.Password),
		)
	}

	client, err := mail.NewClient(smtp.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to deliver email via %s:%d: %w", smtp.Host, smtp.Port, err)
	}
	return nil
}

// isAuthFailure reports whether err is an SMTP login rejection.
func isAuthFailure(err error) bool {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		return tpErr.Code == 535 || tpErr.Code == 534
	}
	return false
}
