package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestMonthFolder(t *testing.T) {
	tests := map[string]string{
		"2024-05": "202405",
		"1999-12": "199912",
		"202405":  "202405",
	}
	for in, want := range tests {
		if got := MonthFolder(in); got != want {
			t.Errorf("MonthFolder(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEnsureMonthDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "outputs")

	dir, err := EnsureMonthDir(root, "2024-05")
	if err != nil {
		t.Fatalf("EnsureMonthDir: %v", err)
	}
	if dir != filepath.Join(root, "202405") {
		t.Errorf("unexpected dir %s", dir)
	}
	if !FileExists(dir) {
		t.Fatal("directory was not created")
	}

	// Idempotent.
	if _, err := EnsureMonthDir(root, "2024-05"); err != nil {
		t.Errorf("second EnsureMonthDir: %v", err)
	}
}

func TestEnsureMonthDir_RootIsFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(root, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := EnsureMonthDir(root, "2024-05"); err == nil {
		t.Error("expected an error when the root is a file")
	}
}

func TestEnsureMonthDir_RejectsPathLikeMonths(t *testing.T) {
	root := filepath.Join(t.TempDir(), "outputs")
	for _, month := range []string{"", "-", "../-..", "20/4-05", `20\4-05`} {
		if dir, err := EnsureMonthDir(root, month); err == nil {
			t.Errorf("EnsureMonthDir(%q) = %s, want an error", month, dir)
		}
	}
}

func TestWriteErrorLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "email_error_202405.log")
	ts := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)

	err := WriteErrorLog(path, "Error sending email:", []ErrorLogEntry{
		{Timestamp: ts, Stage: "smtp", Message: "connection refused"},
	})
	if err != nil {
		t.Fatalf("WriteErrorLog: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Error sending email:\n[2024-06-01 08:30:00] smtp: connection refused\n"
	if string(data) != want {
		t.Errorf("log = %q, want %q", data, want)
	}
	if !strings.HasPrefix(string(data), "Error sending email:") {
		t.Error("missing title")
	}
}
