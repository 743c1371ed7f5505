package report

import (
	"github.com/sirupsen/logrus"
)

// Aggregator accumulates one record per observed test and running counters
// per outcome kind. It is owned by a single run and is not safe for
// concurrent use: hosts must invoke hooks one at a time.
type Aggregator interface {
	// OnStart marks the beginning of a test.
	OnStart(test Test)
	// OnError records a test that raised. Skips are recognised here.
	OnError(test Test, info *ErrInfo)
	// OnFailure records a test whose assertion failed.
	OnFailure(test Test, info *ErrInfo)
	// OnSuccess records a passing test.
	OnSuccess(test Test)
	// Finalize computes the totals and returns a snapshot of the report.
	Finalize() *Report
}

type aggregator struct {
	log      logrus.FieldLogger
	clock    Clock
	encoding string

	timer   timer
	started *Timestamp

	stats   Stats
	results []Record
}

// NewAggregator creates an aggregator that stamps the given encoding into the
// finalized stats.
func NewAggregator(log logrus.FieldLogger, clock Clock, encoding string) Aggregator {
	if encoding == "" {
		encoding = DefaultEncoding
	}

	return &aggregator{
		log:      log.WithField("component", "report.aggregator"),
		clock:    clock,
		encoding: encoding,
		timer:    timer{clock: clock},
		results:  make([]Record, 0, 64),
	}
}

func (a *aggregator) OnStart(test Test) {
	a.timer.start()

	ts := a.clock.Capture()
	a.started = &ts

	a.log.WithField("test", test.ID()).Debug("test started")
}

func (a *aggregator) OnError(test Test, info *ErrInfo) {
	a.record(test, hookError, info)
}

func (a *aggregator) OnFailure(test Test, info *ErrInfo) {
	a.record(test, hookFailure, info)
}

func (a *aggregator) OnSuccess(test Test) {
	a.record(test, hookSuccess, nil)
}

func (a *aggregator) record(test Test, h hook, info *ErrInfo) {
	var (
		taken = a.timer.elapsed()
		kind  = classify(h, info)
		id    = test.ID()
	)

	classname, name := SplitID(id)

	rec := Record{
		Classname: classname,
		Name:      name,
		ID:        ExternalID(test),
		Time:      taken,
		Type:      kind,
		End:       a.clock.Capture(),
	}

	// Without a start hook the outcome time stands in for the start.
	rec.Start = rec.End
	if a.started != nil {
		rec.Start = *a.started
		a.started = nil
	}

	if kind == KindSuccess {
		rec.Details = Details(test)
	} else {
		msg := info.Message()
		rec.ErrType = info.TypeName()
		rec.Message = &msg
		rec.TB = info.FormatTraceback()
	}

	switch kind {
	case KindError:
		a.stats.Errors++
	case KindFailure:
		a.stats.Failures++
	case KindSkipped:
		a.stats.Skipped++
	case KindSuccess:
		a.stats.Passes++
	}

	a.results = append(a.results, rec)

	a.log.WithFields(logrus.Fields{
		"test":     id,
		"outcome":  kind,
		"duration": taken,
	}).Debug("test recorded")
}

func (a *aggregator) Finalize() *Report {
	stats := a.stats
	stats.Encoding = a.encoding
	stats.Total = stats.Errors + stats.Failures + stats.Passes + stats.Skipped

	results := make([]Record, len(a.results))
	copy(results, a.results)

	a.log.WithFields(logrus.Fields{
		"total":    stats.Total,
		"errors":   stats.Errors,
		"failures": stats.Failures,
		"skipped":  stats.Skipped,
	}).Info("report finalized")

	return &Report{
		Stats:   stats,
		Results: results,
	}
}

// Compile-time interface compliance check
var _ Aggregator = (*aggregator)(nil)
