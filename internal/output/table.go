package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/hlybov/posterjob/internal/job"
	"github.com/olekukonko/tablewriter"
)

// TableFormatter formats run results as a detailed table.
type TableFormatter struct {
	config Config
	colors *ColorScheme
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(config Config) *TableFormatter {
	var colors *ColorScheme
	if config.Colors {
		colors = DefaultColorScheme()
	}

	return &TableFormatter{
		config: config,
		colors: colors,
	}
}

// Format formats the run result as a detailed table.
func (f *TableFormatter) Format(result *job.RunResult) ([]byte, error) {
	var buf bytes.Buffer

	// Header information
	f.writeHeader(&buf, result)

	// Create table
	table := tablewriter.NewWriter(&buf)
	f.configureTable(table)

	table.SetHeader(f.getHeaders())

	for i := range result.Steps {
		table.Append(f.formatStepRow(&result.Steps[i]))
	}

	table.Render()

	// Summary
	f.writeSummary(&buf, result)

	return buf.Bytes(), nil
}

// writeHeader writes the run header information.
func (f *TableFormatter) writeHeader(buf *bytes.Buffer, result *job.RunResult) {
	header := fmt.Sprintf("Date: %s\n", result.Date)
	header += fmt.Sprintf("Base: %s | Started: %s\n\n",
		result.BaseDir,
		result.Timestamp.Format("2006-01-02 15:04:05"))

	if f.colors != nil {
		header = f.colors.Header.Sprint(header)
	}
	buf.WriteString(header)
}

// configureTable sets up the table appearance.
func (f *TableFormatter) configureTable(table *tablewriter.Table) {
	table.SetBorder(true)
	table.SetRowLine(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("│")
	table.SetColumnSeparator("│")
	table.SetRowSeparator("─")
	table.SetHeaderLine(true)
	table.SetTablePadding(" ")
}

// getHeaders returns the column headers.
func (f *TableFormatter) getHeaders() []string {
	headers := []string{"Step", "Status", "Exit", "Duration", "Started"}
	if f.config.ShowArgv {
		headers = append(headers, "Command")
	}
	return headers
}

// formatStepRow formats a single step as a table row.
func (f *TableFormatter) formatStepRow(step *job.StepResult) []string {
	row := []string{step.Name, f.formatStatus(step.Status)}

	if step.Status == job.StatusSkipped {
		row = append(row, "-", "-", "-")
	} else {
		row = append(row,
			fmt.Sprintf("%d", step.ExitCode),
			formatDuration(step.Duration),
			step.Started.Format("15:04:05"))
	}

	if f.config.ShowArgv {
		row = append(row, strings.Join(step.Argv, " "))
	}

	return row
}

// formatStatus formats a step status with optional coloring.
func (f *TableFormatter) formatStatus(status job.StepStatus) string {
	str := status.String()
	if f.colors == nil {
		return str
	}

	switch status {
	case job.StatusOK:
		return f.colors.OK.Sprint(str)
	case job.StatusFailed:
		return f.colors.Failed.Sprint(str)
	case job.StatusSkipped:
		return f.colors.Skipped.Sprint(str)
	default:
		return str
	}
}

// writeSummary writes the run summary.
func (f *TableFormatter) writeSummary(buf *bytes.Buffer, result *job.RunResult) {
	buf.WriteString("\nSummary:\n")
	fmt.Fprintf(buf, "  Steps:    %d planned, %d ran\n",
		result.Summary.TotalSteps, result.Summary.Ran)
	fmt.Fprintf(buf, "  Time:     %s\n", formatDuration(result.Summary.TotalTime))

	if result.Completed {
		status := "complete"
		if f.colors != nil {
			status = f.colors.OK.Sprint(status)
		}
		fmt.Fprintf(buf, "  Outcome:  %s\n", status)
	} else {
		outcome := "failed"
		if result.Summary.FailedStep != "" {
			outcome = fmt.Sprintf("failed at %s", result.Summary.FailedStep)
		}
		if f.colors != nil {
			outcome = f.colors.Failed.Sprint(outcome)
		}
		fmt.Fprintf(buf, "  Outcome:  %s\n", outcome)
	}
}

// ContentType returns the MIME type for table output.
func (f *TableFormatter) ContentType() string {
	return "text/plain"
}

// FileExtension returns the file extension for table output.
func (f *TableFormatter) FileExtension() string {
	return "txt"
}
