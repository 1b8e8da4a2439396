package cli

import (
	"errors"

	"github.com/temirov/pathlint/internal/validate"
)

// Process exit codes.
const (
	ExitCodeSuccess            = 0
	ExitCodeViolations         = 1
	ExitCodeConfigurationError = 2
)

// ExitCode maps an execution error to the process exit code. Runs that
// finished with errors and runs aborted by a filesystem failure both exit 1.
func ExitCode(executionError error) int {
	switch {
	case executionError == nil:
		return ExitCodeSuccess
	case validate.IsConfigurationError(executionError):
		return ExitCodeConfigurationError
	default:
		return ExitCodeViolations
	}
}

// ShouldReportError reports whether the error carries information beyond the
// report already written to stdout.
func ShouldReportError(executionError error) bool {
	return executionError != nil && !errors.Is(executionError, validate.ErrViolationsDetected)
}
