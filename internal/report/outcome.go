package report

import (
	"errors"
	"reflect"
	"strings"
)

// SkipError marks a test that was intentionally skipped.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return e.Reason
}

// Skip returns an error that classifies as a skipped test.
func Skip(reason string) error {
	return &SkipError{Reason: reason}
}

// DefaultErrType names an exception whose type cannot be determined.
const DefaultErrType = "Error"

// ErrInfo describes the exception captured for a test.
type ErrInfo struct {
	// Type overrides the type name derived from Err.
	Type string
	// Err is the captured exception value.
	Err error
	// Traceback holds the formatted frames, outermost first.
	Traceback []string
}

// IsSkip reports whether the captured exception is a skip.
func (e *ErrInfo) IsSkip() bool {
	if e == nil {
		return false
	}

	var skip *SkipError

	return errors.As(e.Err, &skip)
}

// TypeName returns the short display name of the exception type, falling
// back to DefaultErrType when neither Type nor Err names one.
func (e *ErrInfo) TypeName() string {
	if e == nil {
		return DefaultErrType
	}

	if e.Type != "" {
		return e.Type
	}

	if name := typeName(e.Err); name != "" {
		return name
	}

	return DefaultErrType
}

// Message returns the exception's string form.
func (e *ErrInfo) Message() string {
	if e == nil || e.Err == nil {
		return ""
	}

	return e.Err.Error()
}

// FormatTraceback renders the frames followed by a "Type: message" line.
func (e *ErrInfo) FormatTraceback() string {
	if e == nil {
		e = &ErrInfo{}
	}

	var b strings.Builder

	for _, frame := range e.Traceback {
		b.WriteString(strings.TrimRight(frame, "\n"))
		b.WriteString("\n")
	}

	b.WriteString(e.TypeName())

	if msg := e.Message(); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	}

	b.WriteString("\n")

	return b.String()
}

// hook identifies which lifecycle hook reported an outcome. Hook identity, not
// exception type, separates errors from failures.
type hook int

const (
	hookError hook = iota
	hookFailure
	hookSuccess
)

func classify(h hook, info *ErrInfo) Kind {
	switch h {
	case hookError:
		if info.IsSkip() {
			return KindSkipped
		}

		return KindError
	case hookFailure:
		return KindFailure
	default:
		return KindSuccess
	}
}

// typeName strips pointer markers and package qualification, so
// *report.SkipError becomes SkipError.
func typeName(err error) string {
	if err == nil {
		return ""
	}

	name := strings.TrimLeft(reflect.TypeOf(err).String(), "*")
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}

	return name
}
