package report

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances by step seconds on every Now; Capture reads without advancing.
type fakeClock struct {
	wall   float64
	cycles uint64
	step   float64
}

func (c *fakeClock) Now() float64 {
	c.wall += c.step
	return c.wall
}

func (c *fakeClock) Capture() Timestamp {
	c.cycles += 1000
	return Timestamp{Wall: c.wall, Cycles: c.cycles}
}

type plainTest string

func (t plainTest) ID() string { return string(t) }

// caseTest wraps an inner case, like a class based test.
type caseTest struct {
	id    string
	inner any
}

func (t *caseTest) ID() string   { return t.id }
func (t *caseTest) Unwrap() any { return t.inner }

type innerCase struct {
	externalID any
	details    map[string]any
	fn         any
}

func (c *innerCase) ExternalID() (any, bool) {
	return c.externalID, c.externalID != nil
}

func (c *innerCase) Details() (map[string]any, bool) {
	return c.details, c.details != nil
}

func (c *innerCase) Unwrap() any { return c.fn }

type funcCase struct {
	details map[string]any
}

func (f *funcCase) Details() (map[string]any, bool) {
	return f.details, f.details != nil
}

func newTestLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}

func newTestAggregator() (Aggregator, *fakeClock) {
	clock := &fakeClock{wall: 1_700_000_000, step: 0.01}

	return NewAggregator(newTestLogger(), clock, ""), clock
}

func TestAggregator_CountsMatchOutcomes(t *testing.T) {
	agg, _ := newTestAggregator()

	outcomes := []Kind{
		KindSuccess, KindFailure, KindError, KindSkipped,
		KindSuccess, KindSuccess, KindFailure, KindSkipped,
	}

	for i, kind := range outcomes {
		test := plainTest("pkg.mod.Case.test_" + string(rune('a'+i)))
		agg.OnStart(test)

		switch kind {
		case KindSuccess:
			agg.OnSuccess(test)
		case KindFailure:
			agg.OnFailure(test, &ErrInfo{Err: errors.New("boom")})
		case KindError:
			agg.OnError(test, &ErrInfo{Err: errors.New("kaboom")})
		case KindSkipped:
			agg.OnError(test, &ErrInfo{Err: Skip("not today")})
		}
	}

	rep := agg.Finalize()

	assert.Equal(t, len(outcomes), rep.Stats.Total)
	assert.Equal(t, 3, rep.Stats.Passes)
	assert.Equal(t, 2, rep.Stats.Failures)
	assert.Equal(t, 1, rep.Stats.Errors)
	assert.Equal(t, 2, rep.Stats.Skipped)
	assert.Equal(t, DefaultEncoding, rep.Stats.Encoding)
	require.Len(t, rep.Results, rep.Stats.Total)

	for i, kind := range outcomes {
		assert.Equal(t, kind, rep.Results[i].Type, "result %d", i)
		assert.Equal(t, "test_"+string(rune('a'+i)), rep.Results[i].Name)
	}
}

func TestAggregator_RecordFields(t *testing.T) {
	agg, _ := newTestAggregator()

	test := plainTest("pkg.mod.MyCase.test_thing")
	agg.OnStart(test)
	agg.OnFailure(test, &ErrInfo{
		Type:      "AssertionError",
		Err:       errors.New("expected 1 got 2"),
		Traceback: []string{"  File \"mod.py\", line 3, in test_thing"},
	})

	rep := agg.Finalize()
	require.Len(t, rep.Results, 1)

	rec := rep.Results[0]
	assert.Equal(t, "pkg.mod:MyCase", rec.Classname)
	assert.Equal(t, "test_thing", rec.Name)
	assert.Nil(t, rec.ID)
	assert.Equal(t, KindFailure, rec.Type)
	assert.Equal(t, "AssertionError", rec.ErrType)
	assert.Equal(t, "expected 1 got 2", rec.MessageText())
	assert.Equal(t, "  File \"mod.py\", line 3, in test_thing\nAssertionError: expected 1 got 2\n", rec.TB)
	assert.Greater(t, rec.Time, 0.0)
	assert.NotZero(t, rec.Start.Wall)
	assert.Greater(t, rec.End.Wall, rec.Start.Wall)
	assert.Greater(t, rec.End.Cycles, rec.Start.Cycles)
	assert.Nil(t, rec.Details)
}

func TestAggregator_NoStartUsesOutcomeTime(t *testing.T) {
	agg, _ := newTestAggregator()

	first := plainTest("pkg.mod.Case.test_first")
	agg.OnStart(first)
	agg.OnSuccess(first)

	// Setup failure: the outcome fires without a start hook.
	second := plainTest("pkg.mod.Case.test_second")
	agg.OnError(second, &ErrInfo{Err: errors.New("setup failed")})

	rep := agg.Finalize()
	require.Len(t, rep.Results, 2)

	assert.Greater(t, rep.Results[0].Time, 0.0)
	assert.NotEqual(t, rep.Results[0].Start, rep.Results[0].End)

	orphan := rep.Results[1]
	assert.Equal(t, 0.0, orphan.Time)
	assert.NotZero(t, orphan.End.Wall)
	assert.NotZero(t, orphan.Start.Wall)
	assert.Equal(t, orphan.End, orphan.Start)
	assert.Greater(t, orphan.Start.Cycles, rep.Results[0].End.Cycles)
}

func TestAggregator_MissingErrInfoDefaultsType(t *testing.T) {
	agg, _ := newTestAggregator()

	errored := plainTest("pkg.mod.Case.test_nil_info")
	agg.OnStart(errored)
	agg.OnError(errored, nil)

	failed := plainTest("pkg.mod.Case.test_empty_info")
	agg.OnStart(failed)
	agg.OnFailure(failed, &ErrInfo{})

	rep := agg.Finalize()
	require.Len(t, rep.Results, 2)

	assert.Equal(t, 1, rep.Stats.Errors)
	assert.Equal(t, 1, rep.Stats.Failures)

	for _, rec := range rep.Results {
		assert.Equal(t, DefaultErrType, rec.ErrType, rec.Name)
		assert.Equal(t, "Error\n", rec.TB, rec.Name)
		require.NotNil(t, rec.Message, rec.Name)
		assert.Empty(t, rec.MessageText(), rec.Name)
	}
}

func TestAggregator_SkipOnlyOnErrorHook(t *testing.T) {
	agg, _ := newTestAggregator()

	skipped := plainTest("pkg.mod.Case.test_skip")
	agg.OnStart(skipped)
	agg.OnError(skipped, &ErrInfo{Err: Skip("needs network")})

	wrapped := plainTest("pkg.mod.Case.test_wrapped_skip")
	agg.OnStart(wrapped)
	agg.OnError(wrapped, &ErrInfo{Err: errors.Join(errors.New("context"), Skip("wrapped"))})

	viaFailure := plainTest("pkg.mod.Case.test_failure_hook")
	agg.OnStart(viaFailure)
	agg.OnFailure(viaFailure, &ErrInfo{Err: Skip("ignored")})

	rep := agg.Finalize()

	assert.Equal(t, 2, rep.Stats.Skipped)
	assert.Equal(t, 0, rep.Stats.Errors)
	assert.Equal(t, 1, rep.Stats.Failures)
	assert.Equal(t, KindSkipped, rep.Results[0].Type)
	assert.Equal(t, "SkipError", rep.Results[0].ErrType)
	assert.Equal(t, "needs network", rep.Results[0].MessageText())
	assert.Equal(t, KindSkipped, rep.Results[1].Type)
	assert.Equal(t, KindFailure, rep.Results[2].Type)
}

func TestAggregator_SuccessCarriesExternalIDAndDetails(t *testing.T) {
	agg, _ := newTestAggregator()

	classBased := &caseTest{
		id: "pkg.mod.Case.test_class",
		inner: &innerCase{
			externalID: "t1",
			details:    map[string]any{"owner": "infra"},
		},
	}
	agg.OnStart(classBased)
	agg.OnSuccess(classBased)

	funcBased := &caseTest{
		id: "pkg.mod.test_func",
		inner: &innerCase{
			externalID: 42,
			fn:         &funcCase{details: map[string]any{"ticket": "ABC-1"}},
		},
	}
	agg.OnStart(funcBased)
	agg.OnSuccess(funcBased)

	failing := &caseTest{
		id:    "pkg.mod.Case.test_fail",
		inner: &innerCase{externalID: "t3", details: map[string]any{"x": 1}},
	}
	agg.OnStart(failing)
	agg.OnFailure(failing, &ErrInfo{Err: errors.New("nope")})

	rep := agg.Finalize()
	require.Len(t, rep.Results, 3)

	assert.Equal(t, "t1", rep.Results[0].ID)
	assert.Equal(t, map[string]any{"owner": "infra"}, rep.Results[0].Details)
	assert.Nil(t, rep.Results[0].Message)
	assert.Empty(t, rep.Results[0].ErrType)
	assert.Empty(t, rep.Results[0].TB)

	assert.Equal(t, 42, rep.Results[1].ID)
	assert.Equal(t, map[string]any{"ticket": "ABC-1"}, rep.Results[1].Details)

	assert.Equal(t, "t3", rep.Results[2].ID)
	assert.Nil(t, rep.Results[2].Details)
}

func TestAggregator_FinalizeReturnsSnapshot(t *testing.T) {
	agg, _ := newTestAggregator()

	test := plainTest("pkg.mod.Case.test_one")
	agg.OnStart(test)
	agg.OnSuccess(test)

	first := agg.Finalize()

	agg.OnStart(test)
	agg.OnSuccess(test)

	assert.Len(t, first.Results, 1)
	assert.Equal(t, 1, first.Stats.Total)
	assert.Equal(t, 2, agg.Finalize().Stats.Total)
}

func TestAggregator_Scenario(t *testing.T) {
	agg, _ := newTestAggregator()

	success := &caseTest{id: "suite.mod.Case.test_ok", inner: &innerCase{externalID: "t1"}}
	agg.OnStart(success)
	agg.OnSuccess(success)

	failure := plainTest("suite.mod.Case.test_bad")
	agg.OnStart(failure)
	agg.OnFailure(failure, &ErrInfo{Type: "AssertionError", Err: errors.New("expected 1 got 2")})

	skip := plainTest("suite.mod.Case.test_later")
	agg.OnStart(skip)
	agg.OnError(skip, &ErrInfo{Err: Skip("later")})

	rep := agg.Finalize()

	assert.Equal(t, Stats{
		Errors:   0,
		Failures: 1,
		Passes:   1,
		Skipped:  1,
		Encoding: DefaultEncoding,
		Total:    3,
	}, rep.Stats)
	require.Len(t, rep.Results, 3)
	assert.Equal(t, []Kind{KindSuccess, KindFailure, KindSkipped}, []Kind{
		rep.Results[0].Type, rep.Results[1].Type, rep.Results[2].Type,
	})
	assert.Equal(t, "t1", rep.Results[0].ID)
	assert.InDelta(t, 0.01, rep.Results[0].Time, 1e-6)
}

func TestAggregator_EmptyDetailsArePresent(t *testing.T) {
	agg, _ := newTestAggregator()

	empty := &caseTest{id: "pkg.mod.Case.test_empty", inner: &innerCase{details: map[string]any{}}}
	agg.OnStart(empty)
	agg.OnSuccess(empty)

	none := &caseTest{id: "pkg.mod.Case.test_none", inner: &innerCase{}}
	agg.OnStart(none)
	agg.OnSuccess(none)

	rep := agg.Finalize()
	require.Len(t, rep.Results, 2)

	assert.NotNil(t, rep.Results[0].Details)
	assert.Empty(t, rep.Results[0].Details)
	assert.Nil(t, rep.Results[1].Details)
}

type presentNilDetails struct{}

func (presentNilDetails) Details() (map[string]any, bool) { return nil, true }

func TestDetails_PresentWithoutMapping(t *testing.T) {
	details := Details(&caseTest{id: "pkg.mod.Case.test_x", inner: presentNilDetails{}})

	assert.NotNil(t, details)
	assert.Empty(t, details)
}
