package report

// timer tracks the start marker of the test currently in flight.
type timer struct {
	clock  Clock
	marker *float64
}

func (t *timer) start() {
	now := t.clock.Now()
	t.marker = &now
}

// elapsed returns the seconds since the last start, or 0 when no start was
// observed. The marker is consumed so it never leaks into the next test.
func (t *timer) elapsed() float64 {
	if t.marker == nil {
		return 0.0
	}

	taken := t.clock.Now() - *t.marker
	t.marker = nil

	if taken < 0 {
		return 0.0
	}

	return taken
}
