package report

import (
	"fmt"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

// Timestamp pairs a wall clock reading with a monotonic cycle counter.
// It serializes as a two element array: [wall, cycles].
type Timestamp struct {
	Wall   float64
	Cycles uint64
}

// Clock produces timestamps for the start and end of each test.
type Clock interface {
	Capture() Timestamp
	Now() float64
}

// systemClock reads the wall clock and a monotonic counter anchored at process start.
type systemClock struct {
	origin time.Time
}

// NewSystemClock returns a Clock backed by the system clocks.
func NewSystemClock() Clock {
	return &systemClock{origin: time.Now()}
}

func (c *systemClock) Capture() Timestamp {
	now := time.Now()

	return Timestamp{
		Wall:   seconds(now),
		Cycles: uint64(now.Sub(c.origin).Nanoseconds()), //nolint:gosec // monotonic, never negative
	}
}

func (c *systemClock) Now() float64 {
	return seconds(time.Now())
}

func seconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// MarshalJSON encodes the timestamp as [wall, cycles].
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{t.Wall, t.Cycles})
}

// UnmarshalJSON decodes the [wall, cycles] form.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw []json.Number
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding timestamp: %w", err)
	}

	if len(raw) != 2 {
		return fmt.Errorf("%w: got %d elements", errTimestampShape, len(raw))
	}

	wall, err := raw[0].Float64()
	if err != nil {
		return fmt.Errorf("decoding timestamp wall time: %w", err)
	}

	cycles, err := strconv.ParseUint(raw[1].String(), 10, 64)
	if err != nil {
		return fmt.Errorf("decoding timestamp cycles: %w", err)
	}

	t.Wall = wall
	t.Cycles = cycles

	return nil
}
