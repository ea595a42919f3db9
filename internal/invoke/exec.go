package invoke

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ExecRunner runs invocations as real child processes via os/exec.
type ExecRunner struct{}

// NewExecRunner creates a new ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the invocation and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (int, error) {
	if inv.Path == "" {
		return -1, ErrNoCommand
	}

	cmd := exec.CommandContext(ctx, inv.Path, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = inv.Env
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code, nil
		}
		// Killed by a signal rather than exiting on its own.
		if ctx.Err() != nil {
			return -1, ctx.Err()
		}
		return -1, err
	}

	return -1, fmt.Errorf("could not run %s: %w", inv.Path, err)
}
