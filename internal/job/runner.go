package job

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hlybov/posterjob/internal/invoke"
)

// Runner executes the daily pipeline for a report date.
type Runner struct {
	config *Config
	runner invoke.Runner
}

// New creates a new Runner with the given configuration. It verifies the
// invocation environment up front: a run must fail before the first step
// starts if the base directory or interpreter is unusable.
func New(config *Config) (*Runner, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	info, err := os.Stat(config.BaseDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", config.BaseDir, ErrBaseDirNotFound)
	}

	fi, err := os.Stat(config.Interpreter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.Interpreter, ErrInterpreterNotFound)
	}
	if fi.IsDir() || fi.Mode()&0111 == 0 {
		return nil, fmt.Errorf("%s: %w", config.Interpreter, ErrInterpreterNotExecutable)
	}

	return &Runner{
		config: config,
		runner: invoke.NewExecRunner(),
	}, nil
}

// Plan returns the exact invocations a run for the given date would perform,
// in order, without executing anything.
func (r *Runner) Plan(date string) []Step {
	return PlanSteps(r.config, date)
}

// PlanSteps builds the fixed two-step pipeline for a date: the daily import,
// then the anomaly report.
func PlanSteps(config *Config, date string) []Step {
	importArgv := []string{config.Interpreter, config.Entrypoint, StepImport, "--date", date}
	if config.IncludeProductsSales {
		importArgv = append(importArgv, "--include-products-sales")
	}

	reportArgv := []string{config.Interpreter, config.Entrypoint, StepReport, "--date", date}

	return []Step{
		{Name: StepImport, Argv: importArgv},
		{Name: StepReport, Argv: reportArgv},
	}
}

// Run executes the pipeline for the given date. Steps run strictly in order;
// the first failure aborts the run and the remaining steps are recorded as
// skipped. The returned RunResult is valid even when err is non-nil. A step
// that exits non-zero surfaces as a *StepError carrying its exit code.
func (r *Runner) Run(ctx context.Context, date string) (*RunResult, error) {
	date, err := ParseDate(date)
	if err != nil {
		return nil, err
	}

	result := &RunResult{
		Date:        date,
		BaseDir:     r.config.BaseDir,
		Interpreter: r.config.Interpreter,
		Timestamp:   time.Now(),
	}

	steps := r.Plan(date)
	result.Summary.TotalSteps = len(steps)

	for i, step := range steps {
		stepResult := StepResult{
			Name:    step.Name,
			Argv:    step.Argv,
			Started: time.Now(),
		}

		code, runErr := r.runner.Run(ctx, invoke.Invocation{
			Path:   step.Argv[0],
			Args:   step.Argv[1:],
			Dir:    r.config.BaseDir,
			Env:    r.config.Env,
			Stdout: r.config.Stdout,
			Stderr: r.config.Stderr,
		})

		stepResult.Duration = time.Since(stepResult.Started)
		stepResult.ExitCode = code
		result.Summary.Ran++
		result.Summary.TotalTime += stepResult.Duration

		if runErr != nil {
			stepResult.Status = StatusFailed
			r.finish(result, stepResult, steps[i+1:])
			return result, fmt.Errorf("step %s: %w", step.Name, runErr)
		}

		if code != 0 {
			stepResult.Status = StatusFailed
			r.finish(result, stepResult, steps[i+1:])
			return result, &StepError{Step: step.Name, Code: code}
		}

		stepResult.Status = StatusOK
		result.Steps = append(result.Steps, stepResult)
		if r.config.OnStep != nil {
			r.config.OnStep(&stepResult)
		}
	}

	result.Completed = true
	return result, nil
}

// finish records a failed step plus skipped entries for everything after it.
func (r *Runner) finish(result *RunResult, failed StepResult, remaining []Step) {
	result.Summary.FailedStep = failed.Name
	result.Steps = append(result.Steps, failed)
	if r.config.OnStep != nil {
		r.config.OnStep(&failed)
	}

	for _, step := range remaining {
		skipped := StepResult{
			Name:   step.Name,
			Argv:   step.Argv,
			Status: StatusSkipped,
		}
		result.Steps = append(result.Steps, skipped)
		if r.config.OnStep != nil {
			r.config.OnStep(&skipped)
		}
	}
}
