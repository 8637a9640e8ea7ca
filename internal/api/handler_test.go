package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/txn-monthly-report/internal/logger"
	"github.com/ginjaninja78/txn-monthly-report/internal/notify"
	"github.com/ginjaninja78/txn-monthly-report/internal/pipeline"
	"github.com/ginjaninja78/txn-monthly-report/internal/summary"
)

type fakeRunner struct {
	requests []pipeline.Request
	result   pipeline.Result
}

func (f *fakeRunner) RunFile(_ context.Context, req pipeline.Request) pipeline.Result {
	f.requests = append(f.requests, req)
	return f.result
}

func okResult() pipeline.Result {
	m := summary.Metrics{RowsIn: 4, RowsOut: 1, DuplicatesRemoved: 1, BelowThresholdExcluded: 1, RowsExcluded: 2}
	return pipeline.Result{
		Status:      pipeline.StatusOK,
		ReportPath:  "outputs/202405/report.xml",
		SummaryPath: "outputs/202405/summary.json",
		Metrics:     &m,
	}
}

func newHandler(runner Runner) *Handler {
	return New(Options{Runner: runner, DefaultInput: "./data/transactions.csv", Logger: zerolog.Nop()})
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func TestHealth(t *testing.T) {
	rec, body := do(t, newHandler(&fakeRunner{}), http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("GET /health = %d %v", rec.Code, body)
	}
}

func TestRun_InvalidMonth(t *testing.T) {
	bodies := []string{
		`{"month":"2024/05"}`,
		`{"month":"202405"}`,
		`{"month":202405}`,
		`{}`,
		`not json`,
		``,
	}

	for _, b := range bodies {
		runner := &fakeRunner{}
		rec, body := do(t, newHandler(runner), http.MethodPost, "/run", b)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", b, rec.Code)
		}
		if body["error"] != "month must be 'YYYY-MM'" {
			t.Errorf("body %q: error = %v", b, body["error"])
		}
		if len(runner.requests) != 0 {
			t.Errorf("body %q: runner must not be called", b)
		}
	}
}

func TestRun_Completed(t *testing.T) {
	runner := &fakeRunner{result: okResult()}
	rec, body := do(t, newHandler(runner), http.MethodPost, "/run", `{"month":"2024-05"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if body["status"] != "completed" || body["report_path"] != "outputs/202405/report.xml" {
		t.Errorf("unexpected body: %v", body)
	}
	if id, _ := body["id"].(string); len(id) != 36 {
		t.Errorf("expected a UUID id, got %v", body["id"])
	}
	metrics, _ := body["metrics"].(map[string]any)
	if metrics["rows_excluded"] != float64(2) {
		t.Errorf("unexpected metrics: %v", body["metrics"])
	}
	if body["email"] != nil {
		t.Errorf("email should be null without send_email: %v", body["email"])
	}

	req := runner.requests[0]
	if req.Month != "2024-05" || req.InputPath != "./data/transactions.csv" || req.SendEmail {
		t.Errorf("unexpected pipeline request: %+v", req)
	}
}

func TestRun_InputAndEmail(t *testing.T) {
	res := okResult()
	res.Notification = &notify.Result{Status: notify.StatusSaved, Message: "saved", Path: "email_202405.eml"}
	runner := &fakeRunner{result: res}

	_, body := do(t, newHandler(runner), http.MethodPost, "/run",
		`{"month":"2024-05","input":"in/may.xlsx","send_email":true}`)

	req := runner.requests[0]
	if req.InputPath != "in/may.xlsx" || !req.SendEmail {
		t.Errorf("unexpected pipeline request: %+v", req)
	}
	email, _ := body["email"].(map[string]any)
	if email["status"] != "saved" {
		t.Errorf("unexpected email: %v", body["email"])
	}
}

func TestRun_Failed(t *testing.T) {
	runner := &fakeRunner{result: pipeline.Result{
		Status: pipeline.StatusError,
		Stage:  pipeline.StageRead,
		Error:  "read: failed to open file",
	}}

	rec, body := do(t, newHandler(runner), http.MethodPost, "/run", `{"month":"2024-05"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body["status"] != "failed" || body["stage"] != "read" || body["report_path"] != nil {
		t.Errorf("unexpected body: %v", body)
	}
	if m, ok := body["metrics"].(map[string]any); !ok || len(m) != 0 {
		t.Errorf("expected empty metrics object, got %v", body["metrics"])
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{nil, false},
		{true, true},
		{false, false},
		{"yes", true},
		{"", false},
		{float64(1), true},
		{float64(0), false},
		{[]any{}, false},
	}
	for _, tt := range tests {
		if got := truthy(tt.in); got != tt.want {
			t.Errorf("truthy(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSwap(t *testing.T) {
	first := &fakeRunner{result: okResult()}
	second := &fakeRunner{result: okResult()}
	h := newHandler(first)

	h.Swap(second, "other.csv")
	do(t, h, http.MethodPost, "/run", `{"month":"2024-05"}`)

	if len(first.requests) != 0 || len(second.requests) != 1 {
		t.Fatal("requests should go to the swapped runner")
	}
	if second.requests[0].InputPath != "other.csv" {
		t.Errorf("default input not swapped: %s", second.requests[0].InputPath)
	}
}

func TestRequestLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	h := New(Options{Runner: &fakeRunner{}, Logger: logger.NewWithWriter(buf)})

	do(t, h, http.MethodGet, "/health", "")

	out := buf.String()
	for _, want := range []string{`"path":"/health"`, `"status":200`, `"request_id"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s: %s", want, out)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec, _ := do(t, newHandler(&fakeRunner{}), http.MethodGet, "/metrics", "")

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Errorf("GET /metrics = %d", rec.Code)
	}
}
