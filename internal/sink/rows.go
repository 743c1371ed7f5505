// Package sink exports reports into ClickHouse.
package sink

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ethpandaops/testjson/internal/report"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// ResultRow is one report record as stored in the results table.
type ResultRow struct {
	RunID       uuid.UUID `ch:"run_id"`
	PushedAt    time.Time `ch:"pushed_at"`
	Position    uint32    `ch:"position"`
	Classname   string    `ch:"classname"`
	Name        string    `ch:"name"`
	ExternalID  *string   `ch:"external_id"`
	Outcome     string    `ch:"outcome"`
	ErrType     string    `ch:"err_type"`
	Message     *string   `ch:"message"`
	Traceback   string    `ch:"traceback"`
	Duration    float64   `ch:"duration"`
	StartWall   float64   `ch:"start_wall"`
	StartCycles uint64    `ch:"start_cycles"`
	EndWall     float64   `ch:"end_wall"`
	EndCycles   uint64    `ch:"end_cycles"`
	Details     string    `ch:"details"`
}

// RunRow summarizes one pushed report.
type RunRow struct {
	RunID    uuid.UUID `ch:"run_id"`
	PushedAt time.Time `ch:"pushed_at"`
	Source   string    `ch:"source"`
	Encoding string    `ch:"encoding"`
	Errors   uint32    `ch:"errors"`
	Failures uint32    `ch:"failures"`
	Passes   uint32    `ch:"passes"`
	Skipped  uint32    `ch:"skipped"`
	Total    uint32    `ch:"total"`
}

// ResultRows converts the records of a report into table rows, preserving
// their order in Position.
func ResultRows(runID uuid.UUID, pushedAt time.Time, rep *report.Report) ([]ResultRow, error) {
	rows := make([]ResultRow, 0, len(rep.Results))

	for i := range rep.Results {
		rec := &rep.Results[i]

		details, err := encodeDetails(rec.Details)
		if err != nil {
			return nil, fmt.Errorf("encoding details of %s: %w", rec.Name, err)
		}

		rows = append(rows, ResultRow{
			RunID:       runID,
			PushedAt:    pushedAt,
			Position:    uint32(i), //nolint:gosec // record counts stay far below 2^32
			Classname:   rec.Classname,
			Name:        rec.Name,
			ExternalID:  externalID(rec.ID),
			Outcome:     string(rec.Type),
			ErrType:     rec.ErrType,
			Message:     rec.Message,
			Traceback:   rec.TB,
			Duration:    rec.Time,
			StartWall:   rec.Start.Wall,
			StartCycles: rec.Start.Cycles,
			EndWall:     rec.End.Wall,
			EndCycles:   rec.End.Cycles,
			Details:     details,
		})
	}

	return rows, nil
}

// NewRunRow builds the summary row for a report.
func NewRunRow(runID uuid.UUID, pushedAt time.Time, source string, stats report.Stats) RunRow {
	return RunRow{
		RunID:    runID,
		PushedAt: pushedAt,
		Source:   source,
		Encoding: stats.Encoding,
		Errors:   counter(stats.Errors),
		Failures: counter(stats.Failures),
		Passes:   counter(stats.Passes),
		Skipped:  counter(stats.Skipped),
		Total:    counter(stats.Total),
	}
}

// externalID renders an external id as text; reports may carry strings or
// numbers, and a missing id stays NULL.
func externalID(id any) *string {
	var text string

	switch v := id.(type) {
	case nil:
		return nil
	case string:
		text = v
	case float64:
		text = strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		text = v.String()
	default:
		text = fmt.Sprint(v)
	}

	return &text
}

func encodeDetails(details map[string]any) (string, error) {
	if len(details) == 0 {
		return "", nil
	}

	data, err := json.Marshal(details)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func counter(n int) uint32 {
	if n < 0 {
		return 0
	}

	return uint32(n) //nolint:gosec // counters are bounded by record counts
}
