package gotest

import (
	"time"

	"github.com/ethpandaops/testjson/internal/report"
)

// streamClock reports the time of the event currently being replayed, so
// elapsed times come from the stream rather than from replay speed. Streams
// without timestamps (test2json without -t) fall back to the system clock.
type streamClock struct {
	fallback report.Clock
	origin   time.Time
	current  time.Time
}

func newStreamClock(fallback report.Clock) *streamClock {
	return &streamClock{fallback: fallback}
}

// observe anchors the cycle counter at the first timestamped event.
func (c *streamClock) observe(t time.Time) {
	if c.origin.IsZero() && !t.IsZero() {
		c.origin = t
	}
}

// set moves the clock to t. A zero t defers to the fallback clock.
func (c *streamClock) set(t time.Time) {
	c.current = t
}

func (c *streamClock) Now() float64 {
	if c.current.IsZero() {
		return c.fallback.Now()
	}

	return float64(c.current.UnixNano()) / float64(time.Second)
}

func (c *streamClock) Capture() report.Timestamp {
	if c.current.IsZero() {
		return c.fallback.Capture()
	}

	var cycles uint64
	if delta := c.current.Sub(c.origin); delta > 0 {
		cycles = uint64(delta.Nanoseconds())
	}

	return report.Timestamp{
		Wall:   c.Now(),
		Cycles: cycles,
	}
}

var _ report.Clock = (*streamClock)(nil)
