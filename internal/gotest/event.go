// Package gotest replays the event stream produced by `go test -json`
// (test2json) into the report lifecycle hooks.
package gotest

import (
	"strings"
	"time"
)

// Action is a test2json event action.
type Action string

// Actions emitted by test2json.
const (
	ActionStart  Action = "start"
	ActionRun    Action = "run"
	ActionPause  Action = "pause"
	ActionCont   Action = "cont"
	ActionPass   Action = "pass"
	ActionBench  Action = "bench"
	ActionFail   Action = "fail"
	ActionOutput Action = "output"
	ActionSkip   Action = "skip"
)

// Event is a single line of `go test -json` output.
type Event struct {
	Time    time.Time `json:"Time"`
	Action  Action    `json:"Action"`
	Package string    `json:"Package"`
	Test    string    `json:"Test,omitempty"`
	Output  string    `json:"Output,omitempty"`
	Elapsed float64   `json:"Elapsed,omitempty"`
}

// terminal reports whether the action ends a test or package.
func (e *Event) terminal() bool {
	switch e.Action {
	case ActionPass, ActionFail, ActionSkip:
		return true
	default:
		return false
	}
}

// packagePlaceholder names the pseudo test used for package level failures,
// such as build errors or a crashing TestMain.
const packagePlaceholder = "TestMain"

// TestID builds the dotted identifier for a test in a package. Package path
// separators and subtest separators both become dots, so
// "github.com/acme/api" + "TestCreate/ok" yields
// "github.com.acme.api.TestCreate.ok". Dots inside a test or subtest name
// become underscores so the leaf name stays intact when the identifier is
// split: "TestParse/v1.2" yields "...TestParse.v1_2".
func TestID(pkg, test string) string {
	parts := make([]string, 0, 2)

	if pkg != "" {
		parts = append(parts, strings.ReplaceAll(pkg, "/", "."))
	}

	if test != "" {
		segments := strings.Split(test, "/")
		for i, segment := range segments {
			segments[i] = strings.ReplaceAll(segment, ".", "_")
		}

		parts = append(parts, strings.Join(segments, "."))
	}

	return strings.Join(parts, ".")
}

// parentTest returns the name of the enclosing test of a subtest.
func parentTest(test string) (string, bool) {
	idx := strings.LastIndex(test, "/")
	if idx < 0 {
		return "", false
	}

	return test[:idx], true
}
