package errors

import "fmt"

// Store and watcher error constructors.

// ProjectNotFound creates an error for a missing stored project.
func ProjectNotFound(nameOrID string) *GanttError {
	return &GanttError{
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("project not found: %s", nameOrID),
		Details: map[string]string{
			"project": nameOrID,
		},
		Suggestion: `List stored projects:
    gantt project list`,
	}
}

// VersionNotFound creates an error for a missing project version.
func VersionNotFound(projectID, versionID string) *GanttError {
	return &GanttError{
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("version not found: %s", versionID),
		Details: map[string]string{
			"project": projectID,
			"version": versionID,
		},
		Suggestion: `List the versions of the project:
    gantt project versions <project>`,
	}
}

// StoreFailed wraps a database failure.
func StoreFailed(operation string, cause error) *GanttError {
	return &GanttError{
		Kind:    ErrStore,
		Message: fmt.Sprintf("store %s failed", operation),
		Cause:   cause,
		Details: map[string]string{
			"operation": operation,
		},
		Suggestion: `Check that store.path in .gantt/config.yaml points to a writable location.`,
	}
}

// WatchFailed wraps a file watcher failure.
func WatchFailed(dir string, cause error) *GanttError {
	return &GanttError{
		Kind:    ErrWatch,
		Message: fmt.Sprintf("cannot watch %s", dir),
		Cause:   cause,
		Details: map[string]string{
			"directory": dir,
		},
		Suggestion: `Make sure the directory exists and is readable.`,
	}
}
