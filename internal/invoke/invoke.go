// Package invoke runs external commands and reports their exit codes.
package invoke

import (
	"context"
	"io"
)

// Invocation describes a single child process to execute.
type Invocation struct {
	// Path is the program to execute (absolute or PATH-resolved)
	Path string

	// Args are the arguments, not including the program itself
	Args []string

	// Dir is the working directory for the child (empty = inherit)
	Dir string

	// Env is the child environment (nil = inherit the parent's)
	Env []string

	// Stdout receives the child's standard output (nil = discard)
	Stdout io.Writer

	// Stderr receives the child's standard error (nil = discard)
	Stderr io.Writer
}

// Runner executes invocations.
type Runner interface {
	// Run executes the invocation and blocks until it finishes.
	// A child that starts and exits non-zero is not an error: the exit
	// code is returned with a nil error. A non-nil error means the child
	// could not be run at all (bad path, bad working directory) or was
	// terminated by cancellation.
	Run(ctx context.Context, inv Invocation) (int, error)
}
