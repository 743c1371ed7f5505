package gotest

import (
	"errors"
	"regexp"
	"strings"

	"github.com/ethpandaops/testjson/internal/report"
)

// Exception type names used in the report for go test outcomes.
const (
	typeFailure    = "TestFailure"
	typePanic      = "panic"
	typeBuild      = "BuildError"
	typePackage    = "PackageError"
	typeIncomplete = "Incomplete"
)

var (
	// "    api_test.go:42: expected 1 got 2"
	logLineRe = regexp.MustCompile(`^\s*[\w.\-]+\.go:\d+:\s?(.*)$`)
	// testify: "        	Error:      	Not equal: "
	testifyErrorRe = regexp.MustCompile(`^\s*Error:\s+(.*?)\s*$`)
	// "panic: runtime error: index out of range [recovered]"
	panicRe = regexp.MustCompile(`^panic:\s*(.*?)(\s*\[recovered\])?\s*$`)

	errTestFailed     = errors.New("test failed")
	errPackageFailed  = errors.New("package failed")
	errNoResult       = errors.New("test did not report a result")
	errMalformedEvent = errors.New("malformed test2json event")
)

// capture accumulates the output lines of one test or package.
type capture struct {
	lines []string
}

func (c *capture) add(output string) {
	c.lines = append(c.lines, strings.TrimRight(output, "\n"))
}

// frames returns the captured output without the framing lines test2json
// reports separately (=== RUN, --- FAIL and friends).
func (c *capture) frames() []string {
	frames := make([]string, 0, len(c.lines))

	for _, line := range c.lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "=== ") || strings.HasPrefix(trimmed, "--- ") {
			continue
		}

		if trimmed == "" || trimmed == "FAIL" || trimmed == "PASS" {
			continue
		}

		frames = append(frames, line)
	}

	return frames
}

// panicMessage returns the panic value if the output shows a panic.
func (c *capture) panicMessage() (string, bool) {
	for _, line := range c.lines {
		if m := panicRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return m[1], true
		}
	}

	return "", false
}

// message picks the first meaningful log line: the text of a t.Errorf style
// line, or a testify "Error:" line when the log line itself is empty.
func (c *capture) message() string {
	for _, line := range c.frames() {
		if m := logLineRe.FindStringSubmatch(line); m != nil && strings.TrimSpace(m[1]) != "" {
			return strings.TrimSpace(m[1])
		}

		if m := testifyErrorRe.FindStringSubmatch(line); m != nil && m[1] != "" {
			return m[1]
		}
	}

	return ""
}

// failureInfo describes a failed test. Panics are reported as errors, other
// failures as assertion failures.
func (c *capture) failureInfo() (info *report.ErrInfo, isError bool) {
	if msg, ok := c.panicMessage(); ok {
		return &report.ErrInfo{
			Type:      typePanic,
			Err:       errors.New(msg),
			Traceback: c.frames(),
		}, true
	}

	err := errTestFailed
	if msg := c.message(); msg != "" {
		err = errors.New(msg)
	}

	return &report.ErrInfo{
		Type:      typeFailure,
		Err:       err,
		Traceback: c.frames(),
	}, false
}

// skipInfo describes a skipped test; the reason is the t.Skip message.
func (c *capture) skipInfo() *report.ErrInfo {
	return &report.ErrInfo{
		Err:       report.Skip(c.message()),
		Traceback: c.frames(),
	}
}

// packageInfo describes a package that failed without a failing test.
func (c *capture) packageInfo() *report.ErrInfo {
	errType := typePackage

	for _, line := range c.lines {
		if strings.Contains(line, "[build failed]") || strings.Contains(line, "[setup failed]") {
			errType = typeBuild
			break
		}
	}

	err := errPackageFailed
	if frames := c.frames(); len(frames) > 0 {
		err = errors.New(strings.TrimSpace(frames[0]))
	}

	return &report.ErrInfo{
		Type:      errType,
		Err:       err,
		Traceback: c.frames(),
	}
}

// incompleteInfo describes a test still running when the stream ended.
func (c *capture) incompleteInfo() *report.ErrInfo {
	return &report.ErrInfo{
		Type:      typeIncomplete,
		Err:       errNoResult,
		Traceback: c.frames(),
	}
}
