package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wexinc/gantt/internal/logging"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	if cfg.Syntax.DateFormat != "YYYY-MM-DD" {
		t.Errorf("expected syntax.date_format 'YYYY-MM-DD', got %q", cfg.Syntax.DateFormat)
	}
	if cfg.Syntax.AxisFormat != DefaultAxisFormat {
		t.Errorf("expected syntax.axis_format %q, got %q", DefaultAxisFormat, cfg.Syntax.AxisFormat)
	}
	if cfg.Output.Format != OutputJSON {
		t.Errorf("expected output.format 'json', got %q", cfg.Output.Format)
	}
	if cfg.Detect.Threshold != 0.3 {
		t.Errorf("expected detect.threshold 0.3, got %v", cfg.Detect.Threshold)
	}
	if !cfg.CSV.IncludeBOM || !cfg.CSV.IncludeHeaders {
		t.Error("expected csv BOM and headers enabled by default")
	}
	if cfg.Store.Path != ".gantt/projects.db" {
		t.Errorf("expected store.path '.gantt/projects.db', got %q", cfg.Store.Path)
	}
	if cfg.Store.MaxAutoVersions != 60 || cfg.Store.MaxManualVersions != 10 {
		t.Errorf("unexpected version caps %d/%d", cfg.Store.MaxAutoVersions, cfg.Store.MaxManualVersions)
	}
	if len(cfg.Watch.Extensions) != 3 {
		t.Errorf("expected 3 watch extensions, got %v", cfg.Watch.Extensions)
	}
	if cfg.Watch.Debounce != 300*time.Millisecond {
		t.Errorf("expected watch.debounce 300ms, got %v", cfg.Watch.Debounce)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging.level 'info', got %q", cfg.Logging.Level)
	}
}

func TestConfig_ApplyDefaults_ZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Syntax.DateFormat != "YYYY-MM-DD" {
		t.Errorf("expected default date format, got %q", cfg.Syntax.DateFormat)
	}
	if cfg.Output.Format != OutputJSON {
		t.Errorf("expected default output format, got %q", cfg.Output.Format)
	}
	if cfg.Store.Path != DefaultStorePath {
		t.Errorf("expected default store path, got %q", cfg.Store.Path)
	}
	if cfg.Watch.Debounce != DefaultDebounce {
		t.Errorf("expected default debounce, got %v", cfg.Watch.Debounce)
	}
	if len(cfg.Watch.Extensions) == 0 {
		t.Error("expected default extensions")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestConfig_ApplyDefaults_PreservesExistingValues(t *testing.T) {
	cfg := &Config{
		Syntax: SyntaxConfig{DateFormat: "DD/MM/YYYY"},
		Store:  StoreConfig{Path: "/var/lib/gantt.db"},
		Watch:  WatchConfig{Extensions: []string{"TXT", " .Csv "}, Debounce: time.Second},
	}
	cfg.ApplyDefaults()

	if cfg.Syntax.DateFormat != "DD/MM/YYYY" {
		t.Errorf("date format overwritten: %q", cfg.Syntax.DateFormat)
	}
	if cfg.Store.Path != "/var/lib/gantt.db" {
		t.Errorf("store path overwritten: %q", cfg.Store.Path)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("debounce overwritten: %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.Extensions[0] != ".txt" || cfg.Watch.Extensions[1] != ".csv" {
		t.Errorf("extensions should be normalized, got %v", cfg.Watch.Extensions)
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	if err := NewConfig().Validate(); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestConfig_Validate_InvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"date format without year", func(c *Config) { c.Syntax.DateFormat = "MM-DD" }, "syntax.date_format"},
		{"csv date format", func(c *Config) { c.CSV.DateFormat = "whenever" }, "csv.date_format"},
		{"output format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"threshold too high", func(c *Config) { c.Detect.Threshold = 1.5 }, "detect.threshold"},
		{"threshold negative", func(c *Config) { c.Detect.Threshold = -0.1 }, "detect.threshold"},
		{"auto versions", func(c *Config) { c.Store.MaxAutoVersions = -1 }, "store.max_auto_versions"},
		{"manual versions", func(c *Config) { c.Store.MaxManualVersions = -1 }, "store.max_manual_versions"},
		{"debounce", func(c *Config) { c.Watch.Debounce = -time.Second }, "watch.debounce"},
		{"empty extension", func(c *Config) { c.Watch.Extensions = []string{".md", ""} }, "watch.extensions[1]"},
		{"log level", func(c *Config) { c.Logging.Level = "chatty" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			var errs ValidationErrors
			if !errors.As(err, &errs) {
				t.Fatalf("expected ValidationErrors, got %T (%v)", err, err)
			}
			if len(errs) != 1 || errs[0].Field != tt.field {
				t.Errorf("expected one error on %q, got %v", tt.field, errs)
			}
		})
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := NewConfig()
	cfg.Output.Format = "xml"
	cfg.Detect.Threshold = 2

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if !strings.HasPrefix(err.Error(), "multiple validation errors:") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestValidationErrors_Error(t *testing.T) {
	if got := (ValidationErrors{}).Error(); got != "" {
		t.Errorf("empty errors should render empty, got %q", got)
	}
	single := ValidationErrors{{Field: "a", Message: "bad"}}
	if got := single.Error(); got != "a: bad" {
		t.Errorf("single error = %q", got)
	}
}

func TestConfig_LoggerConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.Logging.Level = "warn"
	cfg.Logging.JSON = true

	lc := cfg.LoggerConfig(false)
	if lc.Level != logging.LevelWarn || !lc.JSONFormat || lc.Console {
		t.Errorf("unexpected logger config %+v", lc)
	}
	if lc.LogDir != DefaultLogDir {
		t.Errorf("expected log dir %q, got %q", DefaultLogDir, lc.LogDir)
	}

	verbose := cfg.LoggerConfig(true)
	if verbose.Level != logging.LevelDebug || !verbose.Console {
		t.Error("verbose should enable debug console output")
	}
}
