// Package metadata loads per-test metadata (external ids and details) from
// YAML files. Test authors use it to correlate results with an external
// tracking system without touching the test code.
package metadata

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var (
	errTestRequired  = errors.New("metadata entry missing test identifier")
	errDuplicateTest = errors.New("duplicate metadata entry")
	errUnsupportedID = errors.New("metadata id must be a string or a number")
	errEmptyMetadata = errors.New("metadata file is empty")
)

// File is the on-disk metadata document.
//
//	tests:
//	  - test: github.com.acme.api.TestCreate
//	    id: QA-1042
//	    details:
//	      owner: payments
type File struct {
	Tests []*Entry `yaml:"tests"`
}

// Entry holds the metadata for a single test identifier.
type Entry struct {
	Test  string         `yaml:"test"`
	ID    any            `yaml:"id,omitempty"`
	Extra map[string]any `yaml:"details,omitempty"`
}

// ExternalID returns the entry's external id, if any.
func (e *Entry) ExternalID() (any, bool) {
	if e == nil || e.ID == nil {
		return nil, false
	}

	return e.ID, true
}

// Details returns the entry's details, if any. An explicit empty mapping
// still counts as present.
func (e *Entry) Details() (map[string]any, bool) {
	if e == nil || e.Extra == nil {
		return nil, false
	}

	return e.Extra, true
}

// Index resolves metadata by test identifier.
type Index interface {
	Lookup(test string) (*Entry, bool)
	Len() int
}

type index struct {
	entries map[string]*Entry
}

// Empty returns an index without entries.
func Empty() Index {
	return &index{entries: map[string]*Entry{}}
}

func (i *index) Lookup(test string) (*Entry, bool) {
	entry, ok := i.entries[test]
	return entry, ok
}

func (i *index) Len() int {
	return len(i.entries)
}

// Load reads and validates a metadata file. An empty path yields an empty index.
func Load(log logrus.FieldLogger, path string) (Index, error) {
	if path == "" {
		return Empty(), nil
	}

	// #nosec G304 -- path is provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata file %s: %w", path, err)
	}

	idx, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing metadata file %s: %w", path, err)
	}

	log.WithFields(logrus.Fields{
		"path":    path,
		"entries": idx.Len(),
	}).Debug("loaded test metadata")

	return idx, nil
}

// Parse decodes and validates a metadata document.
func Parse(data []byte) (Index, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errEmptyMetadata
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}

	idx := &index{entries: make(map[string]*Entry, len(file.Tests))}

	for i, entry := range file.Tests {
		if err := validateEntry(entry); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}

		if _, exists := idx.entries[entry.Test]; exists {
			return nil, fmt.Errorf("%w: %s", errDuplicateTest, entry.Test)
		}

		idx.entries[entry.Test] = entry
	}

	return idx, nil
}

func validateEntry(entry *Entry) error {
	if entry == nil || strings.TrimSpace(entry.Test) == "" {
		return errTestRequired
	}

	entry.Test = strings.TrimSpace(entry.Test)

	switch entry.ID.(type) {
	case nil, string, int, int64, uint64, float64:
		return nil
	default:
		return fmt.Errorf("%w: %s has %T", errUnsupportedID, entry.Test, entry.ID)
	}
}
