// Package job runs the daily Poster import/report pipeline.
package job

import "time"

// Names of the pipeline steps, matching the management commands they invoke.
const (
	StepImport = "poster_import_daily"
	StepReport = "report_anomalies"
)

// Step is a single planned invocation in the pipeline.
type Step struct {
	// Name is the management command being run
	Name string `json:"name"`

	// Argv is the full command line, starting with the interpreter
	Argv []string `json:"argv"`
}

// StepStatus represents the outcome of a pipeline step.
type StepStatus int

const (
	// StatusOK means the step ran and exited zero
	StatusOK StepStatus = iota
	// StatusFailed means the step ran and exited non-zero
	StatusFailed
	// StatusSkipped means the step never ran because an earlier one failed
	StatusSkipped
)

// String returns the string representation of the status.
func (s StepStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// StepResult records what happened to one step of a run.
type StepResult struct {
	// Name is the management command that was (or would have been) run
	Name string `json:"name"`

	// Argv is the full command line, starting with the interpreter
	Argv []string `json:"argv"`

	// Status is the step outcome
	Status StepStatus `json:"status"`

	// ExitCode is the child's exit code (0 for skipped steps)
	ExitCode int `json:"exit_code"`

	// Started is when the step began
	Started time.Time `json:"started"`

	// Duration is how long the step ran
	Duration time.Duration `json:"duration"`
}

// RunResult contains the complete outcome of a daily run.
type RunResult struct {
	// Date is the report date the pipeline ran for (YYYY-MM-DD)
	Date string `json:"date"`

	// BaseDir is the working directory the children ran in
	BaseDir string `json:"base_dir"`

	// Interpreter is the executable that ran the steps
	Interpreter string `json:"interpreter"`

	// Timestamp is when the run started
	Timestamp time.Time `json:"timestamp"`

	// Steps holds one entry per planned step, in pipeline order
	Steps []StepResult `json:"steps"`

	// Completed indicates every step ran and exited zero
	Completed bool `json:"completed"`

	// Summary contains aggregate statistics
	Summary Summary `json:"summary"`
}

// Summary contains aggregate statistics for a run.
type Summary struct {
	// TotalSteps is the number of planned steps
	TotalSteps int `json:"total_steps"`

	// Ran is the number of steps that actually started
	Ran int `json:"ran"`

	// TotalTime is the wall-clock time spent in children
	TotalTime time.Duration `json:"total_time"`

	// FailedStep names the step that aborted the run, if any
	FailedStep string `json:"failed_step,omitempty"`
}
