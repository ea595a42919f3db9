package job

import "io"

// Config holds the configuration for a daily run.
type Config struct {
	// BaseDir is the application directory the children run in
	BaseDir string

	// Interpreter is the executable that runs the management commands
	Interpreter string

	// Entrypoint is the script handed to the interpreter (default: manage.py)
	Entrypoint string

	// IncludeProductsSales passes --include-products-sales to the import step
	IncludeProductsSales bool

	// Env is the child environment (nil = inherit the parent's)
	Env []string

	// Stdout receives the children's standard output
	Stdout io.Writer

	// Stderr receives the children's standard error
	Stderr io.Writer

	// OnStep is called after each step finishes (streaming output)
	OnStep func(step *StepResult)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Entrypoint:           "manage.py",
		IncludeProductsSales: true,
	}
}

// Validate checks if the configuration is complete.
func (c *Config) Validate() error {
	if c.BaseDir == "" {
		return ErrMissingBaseDir
	}
	if c.Interpreter == "" {
		return ErrMissingInterpreter
	}
	if c.Entrypoint == "" {
		return ErrMissingEntrypoint
	}
	return nil
}
