package table

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethpandaops/testjson/internal/format"
	"github.com/ethpandaops/testjson/internal/report"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
)

const messageWidth = 50

// ResultsFormatter formats report records as a table.
type ResultsFormatter struct {
	log      logrus.FieldLogger
	renderer Renderer
	colors   *ColorHelper
	opts     []RenderOption
}

// NewResultsFormatter creates a new results table formatter. The time column
// is right aligned; opts are applied after that.
func NewResultsFormatter(log logrus.FieldLogger, renderer Renderer, opts ...RenderOption) *ResultsFormatter {
	return &ResultsFormatter{
		log:      log.WithField("component", "table.results_formatter"),
		renderer: renderer,
		colors:   NewColorHelper(),
		opts: append([]RenderOption{
			WithColumnAlignment(
				tablewriter.ALIGN_LEFT,
				tablewriter.ALIGN_LEFT,
				tablewriter.ALIGN_LEFT,
				tablewriter.ALIGN_RIGHT,
				tablewriter.ALIGN_LEFT,
			),
		}, opts...),
	}
}

// Format converts report records into a table string followed by a detail
// section for every error and failure.
func (f *ResultsFormatter) Format(records []report.Record) string {
	if len(records) == 0 {
		return "No tests recorded"
	}

	var (
		headers = []string{"Class", "Name", "Outcome", "Time", "Details"}
		rows    = make([][]string, 0, len(records))
		broken  = make([]report.Record, 0)
	)

	for i := range records {
		rec := &records[i]

		var details string

		switch rec.Type {
		case report.KindError, report.KindFailure:
			broken = append(broken, *rec)
			details = f.colors.Muted(format.Truncate(firstLine(rec.MessageText()), messageWidth))
		case report.KindSkipped:
			details = f.colors.Muted(format.Truncate(firstLine(rec.MessageText()), messageWidth))
		case report.KindSuccess:
			details = formatDetails(rec.Details)
		}

		rows = append(rows, []string{
			rec.Classname,
			rec.Name,
			f.colors.FormatKind(rec.Type),
			format.Seconds(rec.Time),
			details,
		})
	}

	output := "\n" + f.colors.Header("▸ Test Results") + "\n\n" + f.renderer.RenderToString(headers, rows, f.opts...)

	if len(broken) > 0 {
		output += f.formatFailureDetails(broken)
	}

	f.log.WithFields(logrus.Fields{
		"records": len(records),
		"broken":  len(broken),
	}).Debug("formatted results")

	return output
}

// formatFailureDetails lists the error type, message and traceback of every
// error or failure record.
func (f *ResultsFormatter) formatFailureDetails(records []report.Record) string {
	var builder strings.Builder

	builder.WriteString("\n\n" + f.colors.Header("▸ Failed Test Details") + "\n\n")

	for i := range records {
		rec := &records[i]

		if i > 0 {
			builder.WriteString("\n")
		}

		builder.WriteString(fmt.Sprintf("%s (%s)\n", f.colors.Bold(qualifiedName(rec)), format.Seconds(rec.Time)))

		errType := rec.ErrType
		if errType == "" {
			errType = report.DefaultErrType
		}

		message := rec.MessageText()
		if message == "" {
			message = "no message"
		}

		builder.WriteString(fmt.Sprintf("  %s: %s\n", f.colors.Failure(errType), message))

		if rec.ID != nil {
			builder.WriteString(fmt.Sprintf("  %s: %v\n", f.colors.Muted("id"), rec.ID))
		}

		if rec.TB == "" {
			continue
		}

		for _, line := range strings.Split(strings.TrimRight(rec.TB, "\n"), "\n") {
			builder.WriteString("    " + f.colors.Muted(line) + "\n")
		}
	}

	return builder.String()
}

func qualifiedName(rec *report.Record) string {
	if rec.Classname == "" {
		return rec.Name
	}

	return rec.Classname + "." + rec.Name
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")

	return line
}

// formatDetails renders a details mapping as sorted key=value pairs.
func formatDetails(details map[string]any) string {
	if len(details) == 0 {
		return ""
	}

	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, details[k]))
	}

	return format.Truncate(strings.Join(parts, " "), messageWidth)
}
