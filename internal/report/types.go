// Package report turns test lifecycle events into a structured JSON report.
//
// A host runner drives an Aggregator through OnStart followed by exactly one
// of OnError, OnFailure or OnSuccess per test. Once every test has
// been observed, Finalize produces a Report which a Writer persists.
package report

import (
	"errors"

	json "github.com/goccy/go-json"
)

var (
	errTimestampShape   = errors.New("timestamp must be a [wall, cycles] pair")
	errUnknownEncoding  = errors.New("unknown report encoding")
	errEmptyOutputPath  = errors.New("report output path is empty")
	errEmptyReportInput = errors.New("report file is empty")
)

// Kind is the terminal classification of a single test.
type Kind string

const (
	// KindError is a test that raised outside of an assertion.
	KindError Kind = "error"
	// KindFailure is a test whose assertion failed.
	KindFailure Kind = "failure"
	// KindSkipped is a test that was intentionally skipped.
	KindSkipped Kind = "skipped"
	// KindSuccess is a passing test.
	KindSuccess Kind = "success"
)

// DefaultEncoding is the text encoding used when none is configured.
const DefaultEncoding = "UTF-8"

// Record is the result of one observed test. Records are immutable once
// appended to a report.
type Record struct {
	Classname string         `json:"classname"`
	Name      string         `json:"name"`
	ID        any            `json:"id"`
	Time      float64        `json:"time"`
	Type      Kind           `json:"type"`
	ErrType   string         `json:"errtype,omitempty"`
	Message   *string        `json:"message,omitempty"`
	TB        string         `json:"tb,omitempty"`
	Start     Timestamp      `json:"start"`
	End       Timestamp      `json:"end"`
	Details   map[string]any `json:"details,omitempty"`
}

// recordJSON is the wire form of a Record. Details is a pointer so that a nil
// mapping is omitted while an empty one is still written as {}.
type recordJSON struct {
	Classname string          `json:"classname"`
	Name      string          `json:"name"`
	ID        any             `json:"id"`
	Time      float64         `json:"time"`
	Type      Kind            `json:"type"`
	ErrType   string          `json:"errtype,omitempty"`
	Message   *string         `json:"message,omitempty"`
	TB        string          `json:"tb,omitempty"`
	Start     Timestamp       `json:"start"`
	End       Timestamp       `json:"end"`
	Details   *map[string]any `json:"details,omitempty"`
}

// MarshalJSON encodes the record, keeping an empty but present details mapping.
func (r Record) MarshalJSON() ([]byte, error) {
	wire := recordJSON{
		Classname: r.Classname,
		Name:      r.Name,
		ID:        r.ID,
		Time:      r.Time,
		Type:      r.Type,
		ErrType:   r.ErrType,
		Message:   r.Message,
		TB:        r.TB,
		Start:     r.Start,
		End:       r.End,
	}

	if r.Details != nil {
		wire.Details = &r.Details
	}

	return json.Marshal(wire)
}

// MessageText returns the exception message, or "" for successes.
func (r *Record) MessageText() string {
	if r.Message == nil {
		return ""
	}

	return *r.Message
}

// Stats holds aggregate counters for a run.
type Stats struct {
	Errors   int    `json:"errors"`
	Failures int    `json:"failures"`
	Passes   int    `json:"passes"`
	Skipped  int    `json:"skipped"`
	Encoding string `json:"encoding"`
	Total    int    `json:"total"`
}

// Report is the final artifact of a run.
type Report struct {
	Stats   Stats    `json:"stats"`
	Results []Record `json:"results"`
}

// Failed reports whether any test errored or failed.
func (r *Report) Failed() bool {
	return r.Stats.Errors > 0 || r.Stats.Failures > 0
}
