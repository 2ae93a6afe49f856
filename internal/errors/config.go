package errors

import (
	"fmt"
	"strings"
)

// Configuration-related error constructors.

// ConfigNotFound creates an error for a configuration file named explicitly
// that does not exist.
func ConfigNotFound(configPath string) *GanttError {
	return &GanttError{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("configuration file not found: %s", configPath),
		Details: map[string]string{
			"path": configPath,
		},
		Suggestion: `Create a configuration file:

  Option 1: Write the defaults
    gantt init

  Option 2: Drop the flag and use built-in defaults
    gantt <command> without --config`,
	}
}

// ConfigParseError creates an error for YAML parsing failures.
func ConfigParseError(configPath string, parseErr error) *GanttError {
	return &GanttError{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("failed to parse configuration: %s", configPath),
		Cause:   parseErr,
		Details: map[string]string{
			"path": configPath,
		},
		Suggestion: `Check your config.yaml for syntax errors:
  1. Ensure proper YAML indentation (use spaces, not tabs)
  2. Durations need a unit, e.g. 300ms
  3. Regenerate a clean file with: gantt init --force`,
	}
}

// ConfigValidationError creates an error for a configuration file whose
// values failed validation. fields names the offending keys.
func ConfigValidationError(configPath string, fields []string, cause error) *GanttError {
	suggestion := fmt.Sprintf("Fix the listed fields in %s", configPath)
	suggestion += "\n  Or regenerate the defaults with: gantt init --force"

	err := &GanttError{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("invalid configuration: %s", configPath),
		Cause:   cause,
		Details: map[string]string{
			"path": configPath,
		},
		Suggestion: suggestion,
	}
	if len(fields) > 0 {
		err.Details["fields"] = strings.Join(fields, ", ")
	}
	return err
}
