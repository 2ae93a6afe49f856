package errors

import (
	"fmt"
	"strings"
)

// Document and input error constructors.

// UnsupportedFormat creates an error for an unknown input or output format.
func UnsupportedFormat(format string, valid []string) *GanttError {
	return &GanttError{
		Kind:    ErrFormat,
		Message: fmt.Sprintf("unsupported format: %q", format),
		Details: map[string]string{
			"format": format,
		},
		Suggestion: fmt.Sprintf("Use one of: %s", strings.Join(valid, ", ")),
	}
}

// NoData creates an error for input that has nothing to import.
func NoData(reason string) *GanttError {
	return &GanttError{
		Kind:    ErrNoData,
		Message: reason,
		Suggestion: `The input is empty or contains only blank lines.
  Check the file path, or pipe content on stdin:
    cat plan.csv | gantt csv -`,
	}
}

// DocumentDecodeError creates an error for a document file that is not
// valid JSON or YAML.
func DocumentDecodeError(source string, cause error) *GanttError {
	return &GanttError{
		Kind:    ErrParse,
		Message: fmt.Sprintf("failed to read document: %s", source),
		Cause:   cause,
		Details: map[string]string{
			"source": source,
		},
		Suggestion: `Documents are produced by "gantt parse" or "gantt csv".
  To start from gantt syntax instead, run: gantt parse <file>`,
	}
}

// ValidationFailed creates an error listing validation problems.
func ValidationFailed(problems []string) *GanttError {
	return &GanttError{
		Kind:    ErrValidation,
		Message: fmt.Sprintf("document has %d problem(s)", len(problems)),
		Details: map[string]string{
			"problems": strings.Join(problems, "; "),
		},
		Suggestion: `Fix the reported tasks:
  - remove one dependency from each cycle
  - make every end date fall on or after its start date`,
	}
}

// NotSchedule creates an error for text the classifier rejected.
func NotSchedule(confidence, threshold float64) *GanttError {
	return &GanttError{
		Kind:    ErrValidation,
		Message: fmt.Sprintf("text does not look like a schedule (confidence %.2f < %.2f)", confidence, threshold),
		Details: map[string]string{
			"confidence": fmt.Sprintf("%.2f", confidence),
			"threshold":  fmt.Sprintf("%.2f", threshold),
		},
		Suggestion: `Add dates, durations or a task list, or lower detect.threshold
in .gantt/config.yaml.`,
	}
}
