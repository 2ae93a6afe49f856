// Package config provides configuration data structures for gantt.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/wexinc/gantt/internal/dates"
	"github.com/wexinc/gantt/internal/logging"
)

// Config represents the complete gantt configuration loaded from
// .gantt/config.yaml.
type Config struct {
	Syntax  SyntaxConfig  `mapstructure:"syntax"  yaml:"syntax"  json:"syntax"`
	Output  OutputConfig  `mapstructure:"output"  yaml:"output"  json:"output"`
	Detect  DetectConfig  `mapstructure:"detect"  yaml:"detect"  json:"detect"`
	CSV     CSVConfig     `mapstructure:"csv"     yaml:"csv"     json:"csv"`
	Store   StoreConfig   `mapstructure:"store"   yaml:"store"   json:"store"`
	Watch   WatchConfig   `mapstructure:"watch"   yaml:"watch"   json:"watch"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`
}

// SyntaxConfig holds the directives assumed for new documents.
type SyntaxConfig struct {
	// DateFormat is the date template, built from YYYY, MM and DD.
	DateFormat string `mapstructure:"date_format" yaml:"date_format" json:"date_format"`
	// AxisFormat is passed through to the chart renderer.
	AxisFormat string `mapstructure:"axis_format" yaml:"axis_format" json:"axis_format"`
}

// OutputFormat is the encoding used when printing documents.
type OutputFormat string

const (
	// OutputJSON prints documents as indented JSON.
	OutputJSON OutputFormat = "json"
	// OutputYAML prints documents as YAML.
	OutputYAML OutputFormat = "yaml"
)

// OutputConfig configures how commands print documents.
type OutputConfig struct {
	Format OutputFormat `mapstructure:"format" yaml:"format" json:"format"`
}

// DetectConfig configures the schedule classifier.
type DetectConfig struct {
	// Threshold is the confidence at or above which text counts as a schedule.
	Threshold float64 `mapstructure:"threshold" yaml:"threshold" json:"threshold"`
}

// CSVConfig configures CSV export and import.
type CSVConfig struct {
	IncludeBOM     bool   `mapstructure:"include_bom"     yaml:"include_bom"     json:"include_bom"`
	IncludeHeaders bool   `mapstructure:"include_headers" yaml:"include_headers" json:"include_headers"`
	DateFormat     string `mapstructure:"date_format"     yaml:"date_format"     json:"date_format"`
}

// StoreConfig configures project persistence.
type StoreConfig struct {
	// Path is the sqlite database file.
	Path string `mapstructure:"path" yaml:"path" json:"path"`
	// MaxAutoVersions caps automatic snapshots kept per project.
	MaxAutoVersions int `mapstructure:"max_auto_versions" yaml:"max_auto_versions" json:"max_auto_versions"`
	// MaxManualVersions caps named snapshots kept per project.
	MaxManualVersions int `mapstructure:"max_manual_versions" yaml:"max_manual_versions" json:"max_manual_versions"`
}

// WatchConfig configures the inbox watcher.
type WatchConfig struct {
	// Extensions lists the file extensions that are read, including the dot.
	Extensions []string `mapstructure:"extensions" yaml:"extensions" json:"extensions"`
	// Debounce is how long a file must be quiet before it is read.
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce" json:"debounce"`
}

// LoggingConfig configures the log file.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level" json:"level"`
	Dir   string `mapstructure:"dir"   yaml:"dir"   json:"dir"`
	JSON  bool   `mapstructure:"json"  yaml:"json"  json:"json"`
}

const (
	DefaultAxisFormat        = "%Y-%m-%d"
	DefaultThreshold         = 0.3
	DefaultStorePath         = ".gantt/projects.db"
	DefaultMaxAutoVersions   = 60
	DefaultMaxManualVersions = 10
	DefaultDebounce          = 300 * time.Millisecond
	DefaultLogDir            = ".gantt/logs"
)

// NewConfig returns a new Config with default values applied.
func NewConfig() *Config {
	return &Config{
		Syntax: SyntaxConfig{
			DateFormat: dates.DefaultTemplate,
			AxisFormat: DefaultAxisFormat,
		},
		Output: OutputConfig{
			Format: OutputJSON,
		},
		Detect: DetectConfig{
			Threshold: DefaultThreshold,
		},
		CSV: CSVConfig{
			IncludeBOM:     true,
			IncludeHeaders: true,
			DateFormat:     dates.DefaultTemplate,
		},
		Store: StoreConfig{
			Path:              DefaultStorePath,
			MaxAutoVersions:   DefaultMaxAutoVersions,
			MaxManualVersions: DefaultMaxManualVersions,
		},
		Watch: WatchConfig{
			Extensions: []string{".txt", ".md", ".mmd"},
			Debounce:   DefaultDebounce,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   DefaultLogDir,
		},
	}
}

// ApplyDefaults fills fields left empty by a partial config file.
func (c *Config) ApplyDefaults() {
	defaults := NewConfig()

	if c.Syntax.DateFormat == "" {
		c.Syntax.DateFormat = defaults.Syntax.DateFormat
	}
	if c.Syntax.AxisFormat == "" {
		c.Syntax.AxisFormat = defaults.Syntax.AxisFormat
	}
	if c.Output.Format == "" {
		c.Output.Format = defaults.Output.Format
	}
	if c.CSV.DateFormat == "" {
		c.CSV.DateFormat = defaults.CSV.DateFormat
	}
	if c.Store.Path == "" {
		c.Store.Path = defaults.Store.Path
	}
	if c.Watch.Extensions == nil {
		c.Watch.Extensions = defaults.Watch.Extensions
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = defaults.Watch.Debounce
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}

	for i, ext := range c.Watch.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Watch.Extensions[i] = ext
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := "multiple validation errors:"
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidationErrors

	for _, f := range []struct {
		field, template string
	}{
		{"syntax.date_format", c.Syntax.DateFormat},
		{"csv.date_format", c.CSV.DateFormat},
	} {
		if !dates.CompileLayout(f.template).Complete() {
			errs = append(errs, &ValidationError{
				Field:   f.field,
				Message: fmt.Sprintf("%q must contain YYYY, MM and DD", f.template),
			})
		}
	}

	switch c.Output.Format {
	case OutputJSON, OutputYAML:
	default:
		errs = append(errs, &ValidationError{Field: "output.format", Message: "must be 'json' or 'yaml'"})
	}

	if c.Detect.Threshold < 0 || c.Detect.Threshold > 1 {
		errs = append(errs, &ValidationError{Field: "detect.threshold", Message: "must be between 0 and 1"})
	}

	if c.Store.MaxAutoVersions < 0 {
		errs = append(errs, &ValidationError{Field: "store.max_auto_versions", Message: "must be non-negative"})
	}
	if c.Store.MaxManualVersions < 0 {
		errs = append(errs, &ValidationError{Field: "store.max_manual_versions", Message: "must be non-negative"})
	}

	if c.Watch.Debounce < 0 {
		errs = append(errs, &ValidationError{Field: "watch.debounce", Message: "must be non-negative"})
	}
	for i, ext := range c.Watch.Extensions {
		if ext == "" || ext == "." {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("watch.extensions[%d]", i),
				Message: "must not be empty",
			})
		}
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, &ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// LoggerConfig converts the logging section to a logger configuration.
func (c *Config) LoggerConfig(verbose bool) *logging.Config {
	lc := logging.DefaultConfig()
	lc.LogDir = c.Logging.Dir
	lc.JSONFormat = c.Logging.JSON
	if level, err := logging.ParseLevel(c.Logging.Level); err == nil {
		lc.Level = level
	}
	if verbose {
		lc.Level = logging.LevelDebug
		lc.Console = true
	}
	return lc
}
