package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/txn-monthly-report/internal/notify"
	"github.com/ginjaninja78/txn-monthly-report/internal/pipeline"
)

func TestPrintResult(t *testing.T) {
	tests := []struct {
		name string
		res  pipeline.Result
		want string
	}{
		{
			name: "ok with email",
			res: pipeline.Result{
				Status:       pipeline.StatusOK,
				ReportPath:   "out/202405/report.xml",
				SummaryPath:  "out/202405/summary.json",
				Notification: &notify.Result{Status: notify.StatusSaved, Message: "saved it"},
			},
			want: "Status: ok\nReport XML: out/202405/report.xml\nSummary JSON: out/202405/summary.json\nEmail: saved - saved it\n",
		},
		{
			name: "error",
			res:  pipeline.Result{Status: pipeline.StatusError, Stage: pipeline.StageRead, Error: "read: missing"},
			want: "Status: error\nError (read): read: missing\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			printResult(buf, tt.res)
			if buf.String() != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", buf.String(), tt.want)
			}
		})
	}
}

func TestProcessCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "transactions.csv")
	csv := "id,date,amount,status,type\nA1,2024-05-10,10.00,approved,DEBIT\n"
	if err := os.WriteFile(input, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "outputs")

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{
		"process",
		"--config", filepath.Join(dir, "missing.yaml"),
		"--env-file", "",
		"--month", "2024-05",
		"--input", input,
		"--output", out,
	})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("process: %v\n%s", err, buf.String())
	}
	if !strings.Contains(buf.String(), "Status: ok") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
	for _, name := range []string{"report.xml", "summary.json"} {
		if _, err := os.Stat(filepath.Join(out, "202405", name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestSchemaCommand(t *testing.T) {
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"schema", "--env-file", ""})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("schema: %v", err)
	}
	if !strings.Contains(buf.String(), "TransactionsReport") {
		t.Errorf("unexpected schema output:\n%s", buf.String())
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := loadEnvFile(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing file should be ignored: %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TXNREPORT_TEST_VAR=from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TXNREPORT_TEST_VAR", "from-env")

	if err := loadEnvFile(path); err != nil {
		t.Fatalf("loadEnvFile: %v", err)
	}
	if got := os.Getenv("TXNREPORT_TEST_VAR"); got != "from-file" {
		t.Errorf("dotenv should override the environment, got %q", got)
	}
}
