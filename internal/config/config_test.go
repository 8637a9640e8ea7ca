package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMainConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadMainConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadMainConfig: %v", err)
	}
	if cfg.OutputDir != "./outputs" || cfg.InputPath != "./data/transactions.csv" {
		t.Errorf("unexpected paths: %+v", cfg)
	}
	if cfg.Server.RequestTimeout != 60*time.Second {
		t.Errorf("RequestTimeout = %s", cfg.Server.RequestTimeout)
	}
	if got := cfg.Fields.Identity; len(got) != 3 || got[0] != "id" {
		t.Errorf("default identity candidates not applied: %v", got)
	}
}

func TestLoadMainConfig_File(t *testing.T) {
	path := writeConfig(t, `
input_path: ./in/tx.xlsx
output_dir: /tmp/reports
log_level: debug
csv_settings:
  delimiter: ";"
xlsx_settings:
  sheet: Export
fields:
  identity: [ref, id]
server:
  addr: ":9000"
  request_timeout: 5s
email:
  to: finance@example.com
  smtp:
    provider: gmail
    user: bot@example.com
`)

	cfg, err := LoadMainConfig(path)
	if err != nil {
		t.Fatalf("LoadMainConfig: %v", err)
	}
	if cfg.InputPath != "./in/tx.xlsx" || cfg.OutputDir != "/tmp/reports" || cfg.XLSXSettings.Sheet != "Export" {
		t.Errorf("unexpected paths: %+v", cfg)
	}
	if comma, _ := cfg.CSVSettings.Comma(); comma != ';' {
		t.Errorf("Comma = %q", comma)
	}
	if cfg.Fields.Identity[0] != "ref" || cfg.Fields.Amount[0] != "amount" {
		t.Errorf("field override not merged with defaults: %+v", cfg.Fields)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.RequestTimeout != 5*time.Second {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	smtp := cfg.Email.SMTP
	if smtp.Host != "smtp.gmail.com" || smtp.Port != 587 || !smtp.UseTLS() || smtp.SSL {
		t.Errorf("gmail defaults not applied: %+v", smtp)
	}
	if cfg.Email.From != "bot@example.com" || cfg.Email.To != "finance@example.com" {
		t.Errorf("unexpected addresses: %+v", cfg.Email)
	}
}

func TestLoadMainConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bad yaml", body: "output_dir: [unterminated"},
		{name: "bad level", body: "log_level: loud"},
		{name: "bad delimiter", body: "csv_settings:\n  delimiter: '::'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadMainConfig(writeConfig(t, tt.body)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestApplyEnvironment(t *testing.T) {
	env := map[string]string{
		"SMTP_HOST":  "mail.example.com",
		"SMTP_PORT":  "465",
		"SMTP_USER":  "u",
		"SMTP_PASS":  "p",
		"SMTP_TLS":   "yes",
		"EMAIL_FROM": "reports@example.com",
		"EMAIL_TO":   "ops@example.org",
	}
	var cfg MainConfig
	applyEnvironment(&cfg, func(k string) string { return env[k] })
	applyMainConfigDefaults(&cfg)

	smtp := cfg.Email.SMTP
	if !smtp.Configured() || smtp.Host != "mail.example.com" || smtp.User != "u" || smtp.Password != "p" {
		t.Errorf("environment not applied: %+v", smtp)
	}
	// Port 465 means implicit TLS regardless of SMTP_TLS.
	if !smtp.SSL || smtp.UseTLS() {
		t.Errorf("port 465 must force SSL: ssl=%v tls=%v", smtp.SSL, smtp.UseTLS())
	}
	if cfg.Email.From != "reports@example.com" || cfg.Email.To != "ops@example.org" {
		t.Errorf("unexpected addresses: %+v", cfg.Email)
	}
}

func TestSMTPConfig_NotConfigured(t *testing.T) {
	if Default().Email.SMTP.Configured() {
		t.Error("default SMTP settings must be unconfigured")
	}
}

func TestLoader_Reload(t *testing.T) {
	path := writeConfig(t, "output_dir: ./a\n")
	l, err := NewLoader(path)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}

	var seen string
	l.OnChange(func(c *MainConfig) { seen = c.OutputDir })

	if err := os.WriteFile(path, []byte("output_dir: ./b\n"), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if _, err := l.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if l.Config().OutputDir != "./b" || seen != "./b" {
		t.Errorf("reload not applied: current=%s seen=%s", l.Config().OutputDir, seen)
	}

	if err := os.WriteFile(path, []byte("log_level: loud\n"), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if _, err := l.Reload(); err == nil {
		t.Error("expected invalid config to be rejected")
	}
	if l.Config().OutputDir != "./b" {
		t.Error("previous config must stay in effect after a failed reload")
	}
}

func TestLoader_Watch(t *testing.T) {
	path := writeConfig(t, "output_dir: ./a\n")
	l, err := NewLoader(path)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}

	changes := make(chan string, 32)
	l.OnChange(func(c *MainConfig) {
		select {
		case changes <- c.OutputDir:
		default:
		}
	})

	stop, err := l.Watch(nil)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer stop()

	waitFor := func(want string) {
		t.Helper()
		timeout := time.After(5 * time.Second)
		for {
			select {
			case got := <-changes:
				if got == want {
					return
				}
			case <-timeout:
				t.Fatalf("no reload to %s observed; current=%s", want, l.Config().OutputDir)
			}
		}
	}

	// In-place write.
	if err := os.WriteFile(path, []byte("output_dir: ./b\n"), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	waitFor("./b")

	// Save by rename, then an in-place write to confirm the watch survived.
	tmp := filepath.Join(filepath.Dir(path), ".config.yaml.swp")
	if err := os.WriteFile(tmp, []byte("output_dir: ./c\n"), 0644); err != nil {
		t.Fatalf("write temp: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename: %v", err)
	}
	waitFor("./c")

	if err := os.WriteFile(path, []byte("output_dir: ./d\n"), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	waitFor("./d")
}
