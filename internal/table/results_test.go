package table

import (
	"io"
	"testing"

	"github.com/ethpandaops/testjson/internal/report"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}

func strPtr(s string) *string {
	return &s
}

func sampleReport() *report.Report {
	return &report.Report{
		Stats: report.Stats{
			Errors:   1,
			Failures: 1,
			Passes:   2,
			Skipped:  1,
			Encoding: "UTF-8",
			Total:    5,
		},
		Results: []report.Record{
			{Classname: "pkg.mod.Case", Name: "test_ok", Time: 0.25, Type: report.KindSuccess, Details: map[string]any{"owner": "qa", "area": "core"}},
			{Classname: "pkg.mod", Name: "test_plain", Time: 0.125, Type: report.KindSuccess},
			{
				Classname: "pkg.mod.Case", Name: "test_bad", Time: 0.5, Type: report.KindFailure, ID: "TC-7",
				ErrType: "AssertionError", Message: strPtr("1 != 2"), TB: "frame one\nAssertionError: 1 != 2\n",
			},
			{Classname: "pkg.mod", Name: "test_boom", Type: report.KindError, ErrType: "panic", Message: strPtr("boom\nmore")},
			{Classname: "", Name: "test_skip", Type: report.KindSkipped, ErrType: "SkipError", Message: strPtr("not today")},
		},
	}
}

func TestResultsFormatter_Format(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	log := newTestLogger()
	formatter := NewResultsFormatter(log, NewRenderer(log))

	out := formatter.Format(sampleReport().Results)

	assert.Contains(t, out, "▸ Test Results")
	assert.Contains(t, out, "✓ PASS")
	assert.Contains(t, out, "✗ FAIL")
	assert.Contains(t, out, "! ERROR")
	assert.Contains(t, out, "- SKIP")
	assert.Contains(t, out, "area=core owner=qa")
	assert.Contains(t, out, "not today")

	assert.Contains(t, out, "▸ Failed Test Details")
	assert.Contains(t, out, "pkg.mod.Case.test_bad (500ms)")
	assert.Contains(t, out, "AssertionError: 1 != 2")
	assert.Contains(t, out, "id: TC-7")
	assert.Contains(t, out, "    frame one")
	assert.Contains(t, out, "panic: boom")
	assert.NotContains(t, out, "test_skip (")
}

func TestResultsFormatter_Empty(t *testing.T) {
	log := newTestLogger()
	formatter := NewResultsFormatter(log, NewRenderer(log))

	assert.Equal(t, "No tests recorded", formatter.Format(nil))
}

func TestResultsFormatter_NoFailures(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	log := newTestLogger()
	formatter := NewResultsFormatter(log, NewRenderer(log))

	out := formatter.Format([]report.Record{{Classname: "a", Name: "b", Type: report.KindSuccess}})

	assert.NotContains(t, out, "Failed Test Details")
}

func TestSummaryFormatter_Format(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	log := newTestLogger()
	formatter := NewSummaryFormatter(log, NewRenderer(log))

	out := formatter.Format(sampleReport())

	assert.Contains(t, out, "▸ Summary")
	assert.Contains(t, out, "2 (40.0%)")
	assert.Contains(t, out, "875ms")
	assert.Contains(t, out, "UTF-8")
}

func TestFormatDetails(t *testing.T) {
	assert.Empty(t, formatDetails(nil))
	assert.Equal(t, "a=1 b=x", formatDetails(map[string]any{"b": "x", "a": 1}))
}
