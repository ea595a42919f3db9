package invoke

import "errors"

// Invocation-related errors.
var (
	// ErrNoCommand indicates the invocation has no program path
	ErrNoCommand = errors.New("no command to execute")
)
