package gotest

import (
	"github.com/ethpandaops/testjson/internal/metadata"
	"github.com/ethpandaops/testjson/internal/report"
)

// goTest is the value handed to the report hooks for one go test.
type goTest struct {
	id      string
	pkg     string
	name    string
	subject *testCase
}

func (t *goTest) ID() string {
	return t.id
}

// Unwrap exposes the metadata case for the test. A nil case unwraps to an
// untyped nil so the report sees "no wrapper".
func (t *goTest) Unwrap() any {
	if t.subject == nil {
		return nil
	}

	return t.subject
}

// testCase carries the metadata for a test. A subtest's case wraps the case
// of its parent, so details declared on the parent apply to its subtests.
type testCase struct {
	entry  *metadata.Entry
	parent *testCase
}

func (c *testCase) ExternalID() (any, bool) {
	return c.entry.ExternalID()
}

func (c *testCase) Details() (map[string]any, bool) {
	return c.entry.Details()
}

func (c *testCase) Unwrap() any {
	if c.parent == nil {
		return nil
	}

	return c.parent
}

// newGoTest builds the test value, resolving metadata for the test and its
// direct parent.
func newGoTest(meta metadata.Index, pkg, name string) *goTest {
	test := &goTest{
		id:   TestID(pkg, name),
		pkg:  pkg,
		name: name,
	}

	var parent *testCase

	if parentName, ok := parentTest(name); ok {
		if entry, found := meta.Lookup(TestID(pkg, parentName)); found {
			parent = &testCase{entry: entry}
		}
	}

	entry, found := meta.Lookup(test.id)
	if found || parent != nil {
		test.subject = &testCase{entry: entry, parent: parent}
	}

	return test
}

var (
	_ report.Test            = (*goTest)(nil)
	_ report.Wrapper         = (*goTest)(nil)
	_ report.ExternalIDer    = (*testCase)(nil)
	_ report.DetailsProvider = (*testCase)(nil)
	_ report.Wrapper         = (*testCase)(nil)
)
