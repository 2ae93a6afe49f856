// Package errors provides error types with actionable suggestions for the
// gantt tool. Errors carry a kind for errors.Is checks plus details that the
// CLI prints alongside the message.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel kinds for use with errors.Is().
var (
	// ErrConfig indicates a configuration error.
	ErrConfig = errors.New("configuration error")
	// ErrParse indicates input that could not be read at all.
	ErrParse = errors.New("parse error")
	// ErrValidation indicates a document that failed validation.
	ErrValidation = errors.New("validation error")
	// ErrNoData indicates input that contains nothing to import.
	ErrNoData = errors.New("no data")
	// ErrNotFound indicates a resource was not found.
	ErrNotFound = errors.New("not found")
	// ErrStore indicates a persistence failure.
	ErrStore = errors.New("store error")
	// ErrWatch indicates a file watcher failure.
	ErrWatch = errors.New("watch error")
	// ErrFormat indicates an unsupported input or output format.
	ErrFormat = errors.New("format error")
)

// GanttError is the base error type for gantt errors.
type GanttError struct {
	// Kind is the category of error (e.g., ErrConfig, ErrNoData).
	Kind error
	// Message is the human-readable error message.
	Message string
	// Suggestion provides actionable advice for resolving the error.
	Suggestion string
	// Cause is the underlying error that caused this error.
	Cause error
	// Details provides additional context (e.g., file path, project name).
	Details map[string]string
}

// Error implements the error interface.
func (e *GanttError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *GanttError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Kind
}

// Is reports whether the error's kind matches target.
func (e *GanttError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// Format returns the message followed by sorted details and the suggestion.
func (e *GanttError) Format() string {
	var sb strings.Builder

	sb.WriteString("Error: ")
	sb.WriteString(e.Error())
	sb.WriteString("\n")

	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\nDetails:\n")
		for _, k := range keys {
			fmt.Fprintf(&sb, "  %s: %s\n", k, e.Details[k])
		}
	}

	if e.Suggestion != "" {
		sb.WriteString("\n💡 Suggestion: ")
		sb.WriteString(e.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}

// WithDetails adds details to the error.
func (e *GanttError) WithDetails(key, value string) *GanttError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause of the error.
func (e *GanttError) WithCause(cause error) *GanttError {
	e.Cause = cause
	return e
}

// New creates a new GanttError with the given kind and message.
func New(kind error, message string) *GanttError {
	return &GanttError{
		Kind:    kind,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, kind error, message string) *GanttError {
	return &GanttError{
		Kind:    kind,
		Message: message,
		Cause:   err,
	}
}

// WithSuggestion creates a new error with a suggestion.
func WithSuggestion(kind error, message, suggestion string) *GanttError {
	return &GanttError{
		Kind:       kind,
		Message:    message,
		Suggestion: suggestion,
	}
}

// FormatError prints err for the terminal, using GanttError.Format when available.
func FormatError(err error) string {
	var ge *GanttError
	if errors.As(err, &ge) {
		return ge.Format()
	}
	return "Error: " + err.Error() + "\n"
}
