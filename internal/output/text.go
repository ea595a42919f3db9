package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/hlybov/posterjob/internal/job"
)

// TextFormatter formats run results as compact per-step lines.
type TextFormatter struct {
	config Config
	colors *ColorScheme
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(config Config) *TextFormatter {
	var colors *ColorScheme
	if config.Colors {
		colors = DefaultColorScheme()
	}

	return &TextFormatter{
		config: config,
		colors: colors,
	}
}

// Format formats the run result as text output.
func (f *TextFormatter) Format(result *job.RunResult) ([]byte, error) {
	var buf bytes.Buffer

	// Header
	header := fmt.Sprintf("daily run for %s in %s\n\n", result.Date, result.BaseDir)
	if f.colors != nil {
		header = f.colors.Header.Sprint(header)
	}
	buf.WriteString(header)

	// Steps
	for i := range result.Steps {
		f.formatStep(&buf, &result.Steps[i])
	}

	// Summary
	buf.WriteString("\n")
	buf.WriteString(f.FormatSummary(result))

	return buf.Bytes(), nil
}

// FormatStep formats a single step and returns it as a string.
// This can be used for streaming output.
func (f *TextFormatter) FormatStep(step *job.StepResult) string {
	var buf bytes.Buffer
	f.formatStep(&buf, step)
	return buf.String()
}

// FormatSummary formats the trailing summary line.
func (f *TextFormatter) FormatSummary(result *job.RunResult) string {
	var line string
	switch {
	case result.Completed:
		line = fmt.Sprintf("Run complete. %d steps, %s total\n",
			result.Summary.TotalSteps, formatDuration(result.Summary.TotalTime))
		if f.colors != nil {
			line = f.colors.OK.Sprint(line)
		}
	case result.Summary.FailedStep != "":
		line = fmt.Sprintf("Run failed at %s after %s\n",
			result.Summary.FailedStep, formatDuration(result.Summary.TotalTime))
		if f.colors != nil {
			line = f.colors.Failed.Sprint(line)
		}
	default:
		line = fmt.Sprintf("Run incomplete after %d of %d steps\n",
			result.Summary.Ran, result.Summary.TotalSteps)
	}
	return line
}

// formatStep formats a single step line.
func (f *TextFormatter) formatStep(buf *bytes.Buffer, step *job.StepResult) {
	name := fmt.Sprintf("%-22s", step.Name)
	if f.colors != nil {
		name = f.colors.Name.Sprint(name)
	}
	buf.WriteString("  ")
	buf.WriteString(name)

	if step.Status == job.StatusSkipped {
		status := "skipped"
		if f.colors != nil {
			status = f.colors.Skipped.Sprint(status)
		}
		buf.WriteString(status)
		buf.WriteString("\n")
		return
	}

	status := fmt.Sprintf("%-8s", step.Status)
	if f.colors != nil {
		if step.Status == job.StatusOK {
			status = f.colors.OK.Sprint(status)
		} else {
			status = f.colors.Failed.Sprint(status)
		}
	}
	buf.WriteString(status)

	exit := fmt.Sprintf("exit %d", step.ExitCode)
	if f.colors != nil {
		exit = f.colors.Exit.Sprint(exit)
	}

	duration := formatDuration(step.Duration)
	if f.colors != nil {
		duration = f.colors.Duration.Sprint(duration)
	}
	fmt.Fprintf(buf, "%s  %s", exit, duration)

	if f.config.ShowArgv {
		argv := strings.Join(step.Argv, " ")
		if f.colors != nil {
			argv = f.colors.Argv.Sprint(argv)
		}
		fmt.Fprintf(buf, "  %s", argv)
	}

	buf.WriteString("\n")
}

// ContentType returns the MIME type for text output.
func (f *TextFormatter) ContentType() string {
	return "text/plain"
}

// FileExtension returns the file extension for text output.
func (f *TextFormatter) FileExtension() string {
	return "txt"
}

// ColorScheme defines colors for different output elements.
type ColorScheme struct {
	Header   *color.Color
	Name     *color.Color
	OK       *color.Color
	Failed   *color.Color
	Skipped  *color.Color
	Exit     *color.Color
	Duration *color.Color
	Argv     *color.Color
}

// DefaultColorScheme returns the default color scheme.
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Header:   color.New(color.FgWhite, color.Bold),
		Name:     color.New(color.FgCyan),
		OK:       color.New(color.FgGreen),
		Failed:   color.New(color.FgRed, color.Bold),
		Skipped:  color.New(color.FgYellow),
		Exit:     color.New(color.FgWhite),
		Duration: color.New(color.FgMagenta),
		Argv:     color.New(color.FgBlue),
	}
}

// Helper functions

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
