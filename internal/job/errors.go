package job

import (
	"errors"
	"fmt"
)

// Run-related errors.
var (
	// ErrMissingBaseDir indicates no base directory is configured
	ErrMissingBaseDir = errors.New("base directory is not configured")

	// ErrMissingInterpreter indicates no interpreter is configured
	ErrMissingInterpreter = errors.New("interpreter is not configured")

	// ErrMissingEntrypoint indicates no entrypoint script is configured
	ErrMissingEntrypoint = errors.New("entrypoint is not configured")

	// ErrBaseDirNotFound indicates the base directory does not exist or is not a directory
	ErrBaseDirNotFound = errors.New("base directory does not exist")

	// ErrInterpreterNotFound indicates the interpreter does not exist
	ErrInterpreterNotFound = errors.New("interpreter does not exist")

	// ErrInterpreterNotExecutable indicates the interpreter is not an executable file
	ErrInterpreterNotExecutable = errors.New("interpreter is not executable")

	// ErrInvalidDate indicates a date string is not in YYYY-MM-DD form
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")
)

// StepError reports a pipeline step that ran and exited non-zero.
type StepError struct {
	// Step is the name of the failed step
	Step string

	// Code is the step's exit code
	Code int
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Step, e.Code)
}

// ExitCode extracts the exit code from a failed run. It returns the failing
// step's exit code if err wraps a StepError, and 0 otherwise.
func ExitCode(err error) int {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Code
	}
	return 0
}
