package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// replacementChar stands in for characters the target encoding cannot represent.
const replacementChar = '?'

// Writer persists a finalized report.
type Writer interface {
	// Write serializes report to path, creating missing parent directories.
	// The file is overwritten in place; a crash mid-write can leave it truncated.
	Write(report *Report, path string) error
	// Encoding returns the canonical name of the target text encoding.
	Encoding() string
}

type writer struct {
	log      logrus.FieldLogger
	name     string
	encoding encoding.Encoding
}

// NewWriter creates a writer for the named text encoding (IANA names such as
// "UTF-8", "ISO-8859-1" or "US-ASCII").
func NewWriter(log logrus.FieldLogger, encodingName string) (Writer, error) {
	if encodingName == "" {
		encodingName = DefaultEncoding
	}

	enc, err := lookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}

	return &writer{
		log:      log.WithField("component", "report.writer"),
		name:     encodingName,
		encoding: enc,
	}, nil
}

func (w *writer) Encoding() string {
	return w.name
}

func (w *writer) Write(report *Report, path string) error {
	if path == "" {
		return errEmptyOutputPath
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("resolving report directory: %w", err)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating report directory %s: %w", dir, err)
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	encoded, _, err := transform.Bytes(lossyEncoder(w.encoding), data)
	if err != nil {
		return fmt.Errorf("transcoding report to %s: %w", w.name, err)
	}

	// #nosec G306 -- reports are consumed by CI tooling running as other users
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}

	w.log.WithFields(logrus.Fields{
		"path":     path,
		"encoding": w.name,
		"bytes":    len(encoded),
	}).Debug("report written")

	return nil
}

// FinalizeAndWrite finalizes the aggregator and writes the report to path
// using the writer's encoding.
func FinalizeAndWrite(agg Aggregator, w Writer, path string) (*Report, error) {
	rep := agg.Finalize()
	rep.Stats.Encoding = w.Encoding()

	if err := w.Write(rep, path); err != nil {
		return nil, err
	}

	return rep, nil
}

// lossyEncoder maps every rune the encoding cannot represent to
// replacementChar before encoding, so encoding never fails.
func lossyEncoder(enc encoding.Encoding) transform.Transformer {
	tester := enc.NewEncoder()
	known := make(map[rune]bool)

	return transform.Chain(
		runes.Map(func(r rune) rune {
			ok, seen := known[r]
			if !seen {
				_, err := tester.String(string(r))
				ok = err == nil
				known[r] = ok
			}

			if !ok {
				return replacementChar
			}

			return r
		}),
		enc.NewEncoder(),
	)
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", errUnknownEncoding, name, err)
	}

	// Registered but unsupported by x/text.
	if enc == nil {
		return nil, fmt.Errorf("%w %q", errUnknownEncoding, name)
	}

	return enc, nil
}
