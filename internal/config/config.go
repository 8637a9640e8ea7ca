// =============================================================================
// Monthly Transaction Report - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration.
//
// SOURCES (later wins):
//   1. Built-in defaults
//   2. config.yaml (optional; a missing file means "defaults only")
//   3. Environment variables for the mail transport (SMTP_*, EMAIL_*),
//      typically provided through a .env file
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/txn-monthly-report/internal/normalizer"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// PATH SETTINGS
	// =========================================================================

	// InputPath is the default transactions file (.csv or .xlsx).
	// Default: "./data/transactions.csv"
	InputPath string `yaml:"input_path"`

	// OutputDir is the root under which one directory per month is created.
	// Default: "./outputs"
	OutputDir string `yaml:"output_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// CSVSettings contains settings for reading CSV input.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// XLSXSettings contains settings for reading XLSX input.
	XLSXSettings XLSXSettings `yaml:"xlsx_settings"`

	// Fields overrides the source column names consulted for each
	// canonical field. Empty lists keep the built-in names.
	Fields normalizer.Fields `yaml:"fields"`

	// =========================================================================
	// SERVER SETTINGS
	// =========================================================================

	Server ServerConfig `yaml:"server"`

	// =========================================================================
	// EMAIL SETTINGS
	// =========================================================================

	Email EmailConfig `yaml:"email"`
}

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields in the CSV.
	// Common values: "," (comma), "|" (pipe), "\t" (tab), ";" (semicolon)
	// Default: ","
	Delimiter string `yaml:"delimiter"`
}

// XLSXSettings contains settings for reading XLSX workbooks.
type XLSXSettings struct {
	// Sheet is the worksheet to read. Empty means the first sheet.
	Sheet string `yaml:"sheet"`
}

// ServerConfig holds the HTTP boundary settings.
type ServerConfig struct {
	// Addr is the listen address.
	// Default: "127.0.0.1:8000"
	Addr string `yaml:"addr"`

	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// RequestTimeout bounds one /run request.
	// Default: 60s
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// EmailConfig holds the report notification settings.
type EmailConfig struct {
	From string     `yaml:"from"`
	To   string     `yaml:"to"`
	SMTP SMTPConfig `yaml:"smtp"`
}

// SMTPConfig holds the mail transport settings.
// An empty Host or a zero Port means "not configured": the message is saved
// as an .eml file instead of being sent.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// Provider fills host and port for well-known providers.
	// Supported: "gmail"
	Provider string `yaml:"provider"`

	// TLS enables STARTTLS. Default: true
	TLS *bool `yaml:"tls"`

	// SSL enables implicit TLS. Forced on for port 465.
	SSL bool `yaml:"ssl"`
}

// Configured reports whether the transport can be dialed.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.Port != 0
}

// UseTLS reports whether STARTTLS is requested.
func (s SMTPConfig) UseTLS() bool {
	return s.TLS == nil || *s.TLS
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file. A missing file is
//     not an error; defaults and environment are used.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read or parsed, or is invalid.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvironment(&config, os.Getenv)
	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when no file and no environment
// are present.
func Default() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// applyEnvironment overlays the mail settings read from the environment.
func applyEnvironment(config *MainConfig, getenv func(string) string) {
	smtp := &config.Email.SMTP

	if v := getenv("SMTP_HOST"); v != "" {
		smtp.Host = v
	}
	if v := getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			smtp.Port = port
		}
	}
	if v := getenv("SMTP_USER"); v != "" {
		smtp.User = v
	}
	if v := getenv("SMTP_PASS"); v != "" {
		smtp.Password = v
	}
	if v := getenv("SMTP_PROVIDER"); v != "" {
		smtp.Provider = v
	}
	if v := getenv("SMTP_TLS"); v != "" {
		b := parseBool(v)
		smtp.TLS = &b
	}
	if v := getenv("SMTP_SSL"); v != "" {
		smtp.SSL = parseBool(v)
	}
	if v := getenv("EMAIL_FROM"); v != "" {
		config.Email.From = v
	}
	if v := getenv("EMAIL_TO"); v != "" {
		config.Email.To = v
	}
}

// parseBool accepts "1", "true" and "yes" in any case.
func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputPath == "" {
		config.InputPath = "./data/transactions.csv"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./outputs"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ","
	}
	config.Fields = config.Fields.WithDefaults()

	if config.Server.Addr == "" {
		config.Server.Addr = "127.0.0.1:8000"
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 10 * time.Second
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 90 * time.Second
	}
	if config.Server.RequestTimeout == 0 {
		config.Server.RequestTimeout = 60 * time.Second
	}

	smtp := &config.Email.SMTP
	if strings.EqualFold(smtp.Provider, "gmail") {
		if smtp.Host == "" {
			smtp.Host = "smtp.gmail.com"
		}
		if smtp.Port == 0 {
			smtp.Port = 587
		}
	}
	if smtp.Port == 465 {
		off := false
		smtp.SSL = true
		smtp.TLS = &off
	}

	if config.Email.From == "" {
		config.Email.From = smtp.User
	}
	if config.Email.From == "" {
		config.Email.From = "noreply@example.com"
	}
	if config.Email.To == "" {
		config.Email.To = "ops@example.com"
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	if _, err := zerolog.ParseLevel(strings.ToLower(config.LogLevel)); err != nil {
		return fmt.Errorf("log_level %q: %w", config.LogLevel, err)
	}
	if _, err := config.CSVSettings.Comma(); err != nil {
		return err
	}
	if config.Email.SMTP.Port < 0 || config.Email.SMTP.Port > 65535 {
		return fmt.Errorf("smtp port %d out of range", config.Email.SMTP.Port)
	}
	return nil
}

// Comma resolves the configured delimiter to a single rune.
func (s CSVSettings) Comma() (rune, error) {
	switch s.Delimiter {
	case "", ",", "comma":
		return ',', nil
	case "\\t", "\t", "tab", "TAB":
		return '\t', nil
	case "|", "pipe", "PIPE":
		return '|', nil
	case ";", "semicolon":
		return ';', nil
	}
	r := []rune(s.Delimiter)
	if len(r) != 1 {
		return 0, fmt.Errorf("csv delimiter %q must be a single character", s.Delimiter)
	}
	return r[0], nil
}
