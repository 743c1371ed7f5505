// Package output prints human-friendly progress and report views to the console.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/ethpandaops/testjson/internal/format"
	"github.com/ethpandaops/testjson/internal/report"
	"github.com/ethpandaops/testjson/internal/table"
	"github.com/fatih/color"
)

// Formatter provides clean, human-friendly output
type Formatter interface {
	PrintPhase(phase string)
	PrintProgress(message string, duration time.Duration)
	PrintSuccess(message string)
	PrintError(message string, err error)
	PrintTestResults(rep *report.Report)
	PrintSummary(rep *report.Report)
}

type formatter struct {
	writer  io.Writer
	verbose bool

	resultsFormatter *table.ResultsFormatter
	summaryFormatter *table.SummaryFormatter

	green *color.Color
	red   *color.Color
	blue  *color.Color
	gray  *color.Color
}

// NewFormatter creates a new output formatter
func NewFormatter(
	writer io.Writer,
	verbose bool,
	resultsFormatter *table.ResultsFormatter,
	summaryFormatter *table.SummaryFormatter,
) Formatter {
	return &formatter{
		writer:           writer,
		verbose:          verbose,
		resultsFormatter: resultsFormatter,
		summaryFormatter: summaryFormatter,
		green:            color.New(color.FgGreen),
		red:              color.New(color.FgRed),
		blue:             color.New(color.FgBlue),
		gray:             color.New(color.FgHiBlack),
	}
}

// PrintPhase prints phase separator
func (f *formatter) PrintPhase(phase string) {
	_, _ = f.blue.Fprintf(f.writer, "\n▸ %s\n", phase)
}

// PrintProgress prints progress with timing
func (f *formatter) PrintProgress(message string, duration time.Duration) {
	if duration > 0 {
		_, _ = f.gray.Fprintf(f.writer, "%s (%s)\n", message, format.Duration(duration))
	} else {
		_, _ = fmt.Fprintf(f.writer, "%s\n", message)
	}
}

// PrintSuccess prints a green message
func (f *formatter) PrintSuccess(message string) {
	_, _ = f.green.Fprintf(f.writer, "%s\n", message)
}

// PrintError prints a red message with error details
func (f *formatter) PrintError(message string, err error) {
	_, _ = f.red.Fprintf(f.writer, "%s", message)
	if err != nil {
		_, _ = f.red.Fprintf(f.writer, ": %v", err)
	}

	_, _ = fmt.Fprintf(f.writer, "\n")
}

// PrintTestResults prints a table of report records. Passing and skipped
// records are only listed in verbose mode.
func (f *formatter) PrintTestResults(rep *report.Report) {
	records := rep.Results
	if !f.verbose {
		records = brokenRecords(rep.Results)
		if len(records) == 0 {
			return
		}
	}

	_, _ = fmt.Fprintln(f.writer, f.resultsFormatter.Format(records))
}

// PrintSummary prints the report counters
func (f *formatter) PrintSummary(rep *report.Report) {
	_, _ = fmt.Fprintln(f.writer, f.summaryFormatter.Format(rep))
}

func brokenRecords(records []report.Record) []report.Record {
	out := make([]report.Record, 0)

	for i := range records {
		if records[i].Type == report.KindError || records[i].Type == report.KindFailure {
			out = append(out, records[i])
		}
	}

	return out
}

// Compile-time interface compliance check
var _ Formatter = (*formatter)(nil)
