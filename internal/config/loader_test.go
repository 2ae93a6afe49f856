package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load("nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
	if loadErr.Path != "nonexistent/config.yaml" {
		t.Errorf("expected path 'nonexistent/config.yaml', got %q", loadErr.Path)
	}
	if !errors.Is(err, ErrConfigNotFound) {
		t.Error("expected ErrConfigNotFound in the chain")
	}
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	originalDir, _ := os.Getwd()
	_ = os.Chdir(tmpDir)
	defer func() { _ = os.Chdir(originalDir) }()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected defaults, got %v", err)
	}
	if cfg.Detect.Threshold != DefaultThreshold {
		t.Errorf("expected default threshold, got %v", cfg.Detect.Threshold)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
syntax:
  date_format: DD/MM/YYYY
  axis_format: "%d %b"

output:
  format: YAML

detect:
  threshold: 0.45

csv:
  include_bom: false
  date_format: DD/MM/YYYY

store:
  path: /tmp/plans.db
  max_auto_versions: 5

watch:
  extensions: [.txt, md]
  debounce: 1s

logging:
  level: debug
  json: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Syntax.DateFormat != "DD/MM/YYYY" {
		t.Errorf("expected syntax.date_format 'DD/MM/YYYY', got %q", cfg.Syntax.DateFormat)
	}
	if cfg.Syntax.AxisFormat != "%d %b" {
		t.Errorf("expected syntax.axis_format '%%d %%b', got %q", cfg.Syntax.AxisFormat)
	}
	if cfg.Output.Format != OutputYAML {
		t.Errorf("expected output.format normalized to 'yaml', got %q", cfg.Output.Format)
	}
	if cfg.Detect.Threshold != 0.45 {
		t.Errorf("expected detect.threshold 0.45, got %v", cfg.Detect.Threshold)
	}
	if cfg.CSV.IncludeBOM {
		t.Error("expected csv.include_bom false")
	}
	if !cfg.CSV.IncludeHeaders {
		t.Error("expected csv.include_headers to keep its default")
	}
	if cfg.Store.Path != "/tmp/plans.db" || cfg.Store.MaxAutoVersions != 5 {
		t.Errorf("unexpected store config %+v", cfg.Store)
	}
	if cfg.Store.MaxManualVersions != DefaultMaxManualVersions {
		t.Errorf("expected default manual cap, got %d", cfg.Store.MaxManualVersions)
	}
	if len(cfg.Watch.Extensions) != 2 || cfg.Watch.Extensions[1] != ".md" {
		t.Errorf("unexpected extensions %v", cfg.Watch.Extensions)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected watch.debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.JSON {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
detect:
  threshold: 0.4
`)

	t.Setenv("GANTT_DETECT_THRESHOLD", "0.7")
	t.Setenv("GANTT_WATCH_DEBOUNCE", "2s")
	t.Setenv("GANTT_STORE_PATH", "/data/gantt.db")
	t.Setenv("GANTT_CSV_INCLUDE_BOM", "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Detect.Threshold != 0.7 {
		t.Errorf("expected detect.threshold 0.7 from env, got %v", cfg.Detect.Threshold)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("expected watch.debounce 2s from env, got %v", cfg.Watch.Debounce)
	}
	if cfg.Store.Path != "/data/gantt.db" {
		t.Errorf("expected store.path from env, got %q", cfg.Store.Path)
	}
	if cfg.CSV.IncludeBOM {
		t.Error("expected csv.include_bom false from env")
	}
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeConfig(t, `
detect:
  threshold: 3
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var loadErr *LoadError
	if !errors.As(err, &loadErr) || loadErr.Message != "configuration validation failed" {
		t.Fatalf("expected validation LoadError, got %v", err)
	}
	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Error("expected ValidationErrors in the chain")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "detect: [unclosed")

	_, err := Load(path)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) || loadErr.Message != "failed to read config file" {
		t.Fatalf("expected read LoadError, got %v", err)
	}
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	cfg := NewConfig()
	cfg.Detect.Threshold = 0.55
	if err := Write(cfg, filepath.Join(dir, DefaultConfigPath), false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	loaded, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir() error = %v", err)
	}
	if loaded.Detect.Threshold != 0.55 {
		t.Errorf("expected threshold 0.55, got %v", loaded.Detect.Threshold)
	}
	if loaded.Watch.Debounce != DefaultDebounce {
		t.Errorf("expected debounce to survive the YAML round trip, got %v", loaded.Watch.Debounce)
	}
}

func TestWrite_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Write(NewConfig(), path, false); err != nil {
		t.Fatalf("first Write() error = %v", err)
	}
	if err := Write(NewConfig(), path, false); err == nil {
		t.Error("expected error when file exists")
	}
	if err := Write(NewConfig(), path, true); err != nil {
		t.Errorf("overwrite Write() error = %v", err)
	}
}
