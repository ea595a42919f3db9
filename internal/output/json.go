package output

import (
	"encoding/json"
	"time"

	"github.com/hlybov/posterjob/internal/job"
)

// JSONFormatter formats run results as JSON.
type JSONFormatter struct {
	config Config
	pretty bool
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(config Config) *JSONFormatter {
	return &JSONFormatter{
		config: config,
		pretty: true, // Default to pretty-printed
	}
}

// NewJSONFormatterCompact creates a JSON formatter with compact output.
func NewJSONFormatterCompact(config Config) *JSONFormatter {
	return &JSONFormatter{
		config: config,
		pretty: false,
	}
}

// SetPretty enables or disables pretty-printing.
func (f *JSONFormatter) SetPretty(pretty bool) {
	f.pretty = pretty
}

// Format formats the run result as JSON.
func (f *JSONFormatter) Format(result *job.RunResult) ([]byte, error) {
	output := f.toJSONOutput(result)

	if f.pretty {
		return json.MarshalIndent(output, "", "  ")
	}
	return json.Marshal(output)
}

// JSONOutput is the JSON-serializable representation of a run result.
type JSONOutput struct {
	Date        string      `json:"date"`
	BaseDir     string      `json:"base_dir"`
	Interpreter string      `json:"interpreter"`
	Timestamp   string      `json:"timestamp"`
	Completed   bool        `json:"completed"`
	Steps       []JSONStep  `json:"steps"`
	Summary     JSONSummary `json:"summary"`
}

// JSONStep represents a single step in JSON format.
type JSONStep struct {
	Name       string   `json:"name"`
	Argv       []string `json:"argv"`
	Status     string   `json:"status"`
	ExitCode   int      `json:"exit_code"`
	Started    string   `json:"started,omitempty"`
	DurationMs float64  `json:"duration_ms"`
}

// JSONSummary represents the run summary in JSON format.
type JSONSummary struct {
	TotalSteps  int     `json:"total_steps"`
	Ran         int     `json:"ran"`
	TotalTimeMs float64 `json:"total_time_ms"`
	FailedStep  string  `json:"failed_step,omitempty"`
}

// toJSONOutput converts a RunResult to JSONOutput.
func (f *JSONFormatter) toJSONOutput(result *job.RunResult) *JSONOutput {
	output := &JSONOutput{
		Date:        result.Date,
		BaseDir:     result.BaseDir,
		Interpreter: result.Interpreter,
		Timestamp:   result.Timestamp.Format(time.RFC3339),
		Completed:   result.Completed,
		Steps:       make([]JSONStep, len(result.Steps)),
		Summary: JSONSummary{
			TotalSteps:  result.Summary.TotalSteps,
			Ran:         result.Summary.Ran,
			TotalTimeMs: roundFloat(durationMs(result.Summary.TotalTime), 3),
			FailedStep:  result.Summary.FailedStep,
		},
	}

	for i := range result.Steps {
		output.Steps[i] = f.toJSONStep(&result.Steps[i])
	}

	return output
}

// toJSONStep converts a StepResult to JSONStep.
func (f *JSONFormatter) toJSONStep(step *job.StepResult) JSONStep {
	js := JSONStep{
		Name:       step.Name,
		Argv:       step.Argv,
		Status:     step.Status.String(),
		ExitCode:   step.ExitCode,
		DurationMs: roundFloat(durationMs(step.Duration), 3),
	}

	if step.Status != job.StatusSkipped {
		js.Started = step.Started.Format(time.RFC3339)
	}

	return js
}

// ContentType returns the MIME type for JSON output.
func (f *JSONFormatter) ContentType() string {
	return "application/json"
}

// FileExtension returns the file extension for JSON output.
func (f *JSONFormatter) FileExtension() string {
	return "json"
}

// Helper functions

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func roundFloat(val float64, precision int) float64 {
	if precision == 0 {
		return float64(int(val + 0.5))
	}
	p := float64(1)
	for i := 0; i < precision; i++ {
		p *= 10
	}
	return float64(int(val*p+0.5)) / p
}
