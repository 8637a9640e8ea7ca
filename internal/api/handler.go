package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/txn-monthly-report/internal/logger"
	"github.com/ginjaninja78/txn-monthly-report/internal/notify"
	"github.com/ginjaninja78/txn-monthly-report/internal/pipeline"
	"github.com/ginjaninja78/txn-monthly-report/internal/validation"
)

// Runner executes a file-based monthly run.
type Runner interface {
	RunFile(ctx context.Context, req pipeline.Request) pipeline.Result
}

// Options configures the HTTP handler.
type Options struct {
	Runner Runner

	// DefaultInput is used when a /run request names no input.
	DefaultInput string

	// RequestTimeout bounds each request. Zero disables the timeout.
	RequestTimeout time.Duration

	Logger zerolog.Logger
}

// target is what a run request is served by. It is swapped as a whole on
// configuration reload.
type target struct {
	runner       Runner
	defaultInput string
}

// Handler holds all HTTP handler dependencies.
type Handler struct {
	target atomic.Pointer[target]
	router chi.Router
}

// New creates an HTTP handler and registers all routes.
func New(opts Options) *Handler {
	h := &Handler{}
	h.Swap(opts.Runner, opts.DefaultInput)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(opts.Logger))
	r.Use(middleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}

	r.Get("/health", h.health)
	r.Post("/run", h.run)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	h.router = r
	return h
}

// Swap replaces the runner and default input used by later requests.
func (h *Handler) Swap(runner Runner, defaultInput string) {
	h.target.Store(&target{runner: runner, defaultInput: defaultInput})
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// GET /health
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// runResponse is the body of a /run reply.
type runResponse struct {
	ID          string         `json:"id"`
	Status      string         `json:"status"`
	ReportPath  *string        `json:"report_path"`
	SummaryPath *string        `json:"summary_path"`
	Metrics     any            `json:"metrics"`
	Email       *notify.Result `json:"email"`
	Stage       pipeline.Stage `json:"stage,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// POST /run runs one month synchronously.
//
// The body is loosely typed: an unreadable body is treated as an empty
// object, so it fails the month check like a missing month does.
func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	_ = json.NewDecoder(r.Body).Decode(&payload)

	month, _ := payload["month"].(string)
	if err := validation.ValidateMonth(month); err != nil {
		writeError(w, http.StatusBadRequest, validation.ErrInvalidMonth.Error())
		return
	}

	t := h.target.Load()
	input, ok := payload["input"].(string)
	if !ok {
		input = t.defaultInput
	}

	id := uuid.New().String()
	log := logger.FromContext(r.Context()).With().Str("run_id", id).Str("month", month).Logger()
	log.Info().Str("input", input).Msg("Run requested")

	res := t.runner.RunFile(logger.WithContext(r.Context(), log), pipeline.Request{
		Month:     month,
		InputPath: input,
		SendEmail: truthy(payload["send_email"]),
	})

	resp := runResponse{
		ID:          id,
		Status:      "completed",
		ReportPath:  optional(res.ReportPath),
		SummaryPath: optional(res.SummaryPath),
		Metrics:     map[string]any{},
		Email:       res.Notification,
	}
	if res.Metrics != nil {
		resp.Metrics = res.Metrics
	}

	status := http.StatusOK
	if !res.OK() {
		resp.Status = "failed"
		resp.Stage = res.Stage
		resp.Error = res.Error
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, resp)
}

// truthy mirrors how a loosely typed client flag is read: false, zero,
// empty and null are off.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return false
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
