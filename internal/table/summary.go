package table

import (
	"fmt"

	"github.com/ethpandaops/testjson/internal/format"
	"github.com/ethpandaops/testjson/internal/report"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
)

// SummaryFormatter formats report counters as a table.
type SummaryFormatter struct {
	log      logrus.FieldLogger
	renderer Renderer
	colors   *ColorHelper
}

// NewSummaryFormatter creates a new summary table formatter.
func NewSummaryFormatter(log logrus.FieldLogger, renderer Renderer) *SummaryFormatter {
	return &SummaryFormatter{
		log:      log.WithField("component", "table.summary_formatter"),
		renderer: renderer,
		colors:   NewColorHelper(),
	}
}

// Format converts the report stats and the summed record time into a table string.
func (f *SummaryFormatter) Format(rep *report.Report) string {
	var (
		stats    = rep.Stats
		passRate float64
		total    float64
	)

	if stats.Total > 0 {
		passRate = float64(stats.Passes) / float64(stats.Total) * 100.0
	}

	for i := range rep.Results {
		total += rep.Results[i].Time
	}

	passedValue := fmt.Sprintf("%s (%s)",
		f.colors.FormatCount(report.KindSuccess, stats.Passes),
		f.colors.FormatPercentage(passRate),
	)

	var (
		headers = []string{"Metric", "Value"}
		rows    = [][]string{
			{"Total Tests", f.colors.Bold(fmt.Sprintf("%d", stats.Total))},
			{"Passed", passedValue},
			{"Failures", f.colors.FormatCount(report.KindFailure, stats.Failures)},
			{"Errors", f.colors.FormatCount(report.KindError, stats.Errors)},
			{"Skipped", f.colors.FormatCount(report.KindSkipped, stats.Skipped)},
			{"Total Duration", format.Seconds(total)},
			{"Encoding", stats.Encoding},
		}
	)

	rendered := f.renderer.RenderToString(headers, rows,
		WithoutBorder(),
		WithColumnAlignment(tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT),
	)

	return "\n" + f.colors.Header("▸ Summary") + "\n\n" + rendered
}
