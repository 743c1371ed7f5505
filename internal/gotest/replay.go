package gotest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ethpandaops/testjson/internal/metadata"
	"github.com/ethpandaops/testjson/internal/report"
	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// maxLineSize bounds a single test2json line; tests can log very long lines.
const maxLineSize = 4 * 1024 * 1024

// Stats summarizes a replayed stream.
type Stats struct {
	Events   int
	Ignored  int
	Packages int
	Tests    int
}

// Replayer drives report hooks from a test2json stream.
//
// test2json interleaves events of parallel tests and packages. The replayer
// buffers each test until its terminal event, then invokes OnStart and the
// outcome hook back to back, so the aggregator always sees a sequential
// start/outcome pair. Timing comes from the event timestamps.
type Replayer interface {
	// Clock returns the clock aggregators must use to get stream timings.
	Clock() report.Clock
	// Replay reads events from r until EOF and feeds them to agg.
	Replay(ctx context.Context, r io.Reader, agg report.Aggregator) (*Stats, error)
}

type testState struct {
	test    *goTest
	started time.Time
	running bool
	output  capture
}

type packageState struct {
	output   capture
	recorded int
}

type replayer struct {
	log   logrus.FieldLogger
	meta  metadata.Index
	clock *streamClock

	tests    map[string]*testState
	order    []string
	packages map[string]*packageState
	stats    Stats
	last     time.Time
}

// NewReplayer creates a replayer resolving external ids and details through meta.
func NewReplayer(log logrus.FieldLogger, meta metadata.Index, fallback report.Clock) Replayer {
	if meta == nil {
		meta = metadata.Empty()
	}

	return &replayer{
		log:      log.WithField("component", "gotest.replayer"),
		meta:     meta,
		clock:    newStreamClock(fallback),
		tests:    make(map[string]*testState),
		packages: make(map[string]*packageState),
	}
}

func (r *replayer) Clock() report.Clock {
	return r.clock
}

func (r *replayer) Replay(ctx context.Context, in io.Reader, agg report.Aggregator) (*Stats, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("replay canceled: %w", ctx.Err())
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		ev, err := decodeEvent(line)
		if err != nil {
			// go test writes build output and vet diagnostics as plain text.
			r.stats.Ignored++
			r.log.WithError(err).WithField("line", string(line)).Debug("ignoring non-event line")

			continue
		}

		r.stats.Events++
		r.clock.observe(ev.Time)

		if ev.Time.After(r.last) {
			r.last = ev.Time
		}

		r.handle(ev, agg)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading test2json stream: %w", err)
	}

	r.flushIncomplete("", r.last, agg)

	stats := r.stats

	r.log.WithFields(logrus.Fields{
		"events":   stats.Events,
		"ignored":  stats.Ignored,
		"packages": stats.Packages,
		"tests":    stats.Tests,
	}).Info("replayed test2json stream")

	return &stats, nil
}

func decodeEvent(line []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(line, &ev); err != nil {
		return nil, err
	}

	if ev.Action == "" {
		return nil, errMalformedEvent
	}

	return &ev, nil
}

func (r *replayer) handle(ev *Event, agg report.Aggregator) {
	pkg := r.pkg(ev.Package)

	if ev.Test == "" {
		switch {
		case ev.Action == ActionOutput:
			pkg.output.add(ev.Output)
		case ev.terminal():
			r.finishPackage(ev, pkg, agg)
		}

		return
	}

	key := ev.Package + "\x00" + ev.Test

	switch ev.Action {
	case ActionRun:
		state := r.state(key, ev)
		state.started = ev.Time
		state.running = true
	case ActionOutput:
		r.state(key, ev).output.add(ev.Output)
	case ActionPass, ActionFail, ActionSkip:
		state := r.state(key, ev)
		delete(r.tests, key)

		r.finishTest(ev, state, pkg, agg)
	default:
		// pause, cont, bench and start carry no outcome.
	}
}

func (r *replayer) pkg(name string) *packageState {
	state, ok := r.packages[name]
	if !ok {
		state = &packageState{}
		r.packages[name] = state
		r.stats.Packages++
	}

	return state
}

func (r *replayer) state(key string, ev *Event) *testState {
	state, ok := r.tests[key]
	if !ok {
		state = &testState{test: newGoTest(r.meta, ev.Package, ev.Test)}
		r.tests[key] = state
		r.order = append(r.order, key)
	}

	return state
}

func (r *replayer) finishTest(ev *Event, state *testState, pkg *packageState, agg report.Aggregator) {
	r.stats.Tests++

	if state.running {
		r.clock.set(state.started)
		agg.OnStart(state.test)
	}

	r.clock.set(ev.Time)

	switch ev.Action {
	case ActionPass:
		agg.OnSuccess(state.test)
	case ActionSkip:
		agg.OnError(state.test, state.output.skipInfo())
	case ActionFail:
		pkg.recorded++

		info, isError := state.output.failureInfo()
		if isError {
			agg.OnError(state.test, info)
		} else {
			agg.OnFailure(state.test, info)
		}
	}
}

func (r *replayer) finishPackage(ev *Event, pkg *packageState, agg report.Aggregator) {
	pkg.recorded += r.flushIncomplete(ev.Package, ev.Time, agg)

	if ev.Action != ActionFail || pkg.recorded > 0 {
		return
	}

	r.clock.set(ev.Time)

	// The package failed without a failing test: build failure, crashing
	// TestMain or a non-zero exit after all tests passed. No start hook
	// fired, so the record has no elapsed time.
	r.log.WithField("package", ev.Package).Debug("package failed without a failing test")

	agg.OnError(newGoTest(r.meta, ev.Package, packagePlaceholder), pkg.output.packageInfo())
}

// flushIncomplete records every still running test of pkg (all packages when
// pkg is empty) as an error ending at end, in order of first appearance. A
// zero end falls back to the wall clock.
func (r *replayer) flushIncomplete(pkg string, end time.Time, agg report.Aggregator) int {
	flushed := 0
	remaining := r.order[:0]

	for _, key := range r.order {
		state, ok := r.tests[key]
		if !ok {
			continue
		}

		if pkg != "" && state.test.pkg != pkg {
			remaining = append(remaining, key)
			continue
		}

		delete(r.tests, key)
		flushed++
		r.stats.Tests++

		if state.running {
			r.clock.set(state.started)
			agg.OnStart(state.test)
		}

		r.clock.set(end)

		r.log.WithField("test", state.test.id).Warn("test did not report a result")
		agg.OnError(state.test, state.output.incompleteInfo())
	}

	r.order = remaining

	return flushed
}
