package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/hlybov/posterjob/internal/job"
)

// CSVFormatter formats run results as CSV.
type CSVFormatter struct {
	config  Config
	columns []string
}

// Default CSV columns
var defaultCSVColumns = []string{
	"date", "step", "status", "exit_code", "duration_ms", "started_at", "argv",
}

// NewCSVFormatter creates a new CSV formatter.
func NewCSVFormatter(config Config) *CSVFormatter {
	return &CSVFormatter{
		config:  config,
		columns: defaultCSVColumns,
	}
}

// SetColumns allows customizing which columns to include.
func (f *CSVFormatter) SetColumns(columns []string) {
	f.columns = columns
}

// Format formats the run result as CSV, one row per step.
func (f *CSVFormatter) Format(result *job.RunResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	// Write header
	if err := writer.Write(f.columns); err != nil {
		return nil, err
	}

	// Write data rows
	for i := range result.Steps {
		row := f.formatRow(result, &result.Steps[i])
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// formatRow formats a single step as a CSV row.
func (f *CSVFormatter) formatRow(result *job.RunResult, step *job.StepResult) []string {
	row := make([]string, len(f.columns))

	for i, col := range f.columns {
		row[i] = f.getValue(result, step, col)
	}

	return row
}

// getValue returns the value for a specific column.
func (f *CSVFormatter) getValue(result *job.RunResult, step *job.StepResult, column string) string {
	switch column {
	case "date":
		return result.Date

	case "step":
		return step.Name

	case "status":
		return step.Status.String()

	case "exit_code":
		if step.Status == job.StatusSkipped {
			return ""
		}
		return strconv.Itoa(step.ExitCode)

	case "duration_ms":
		if step.Status == job.StatusSkipped {
			return ""
		}
		return formatFloat(durationMs(step.Duration))

	case "started_at":
		if step.Status == job.StatusSkipped {
			return ""
		}
		return step.Started.Format(time.RFC3339)

	case "argv":
		return strings.Join(step.Argv, " ")

	default:
		return ""
	}
}

// formatFloat formats a float for CSV output.
func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', 3, 64)
}

// ContentType returns the MIME type for CSV output.
func (f *CSVFormatter) ContentType() string {
	return "text/csv"
}

// FileExtension returns the file extension for CSV output.
func (f *CSVFormatter) FileExtension() string {
	return "csv"
}
