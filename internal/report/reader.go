package report

import (
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
)

// Read parses a report previously produced by a Writer. Reports written in
// an encoding other than UTF-8 are decoded using the encoding recorded in
// their stats.
func Read(path string) (*Report, error) {
	// #nosec G304 -- path is provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report %s: %w", path, err)
	}

	return Decode(data)
}

// Decode parses report bytes.
func Decode(data []byte) (*Report, error) {
	if len(data) == 0 {
		return nil, errEmptyReportInput
	}

	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}

	name := rep.Stats.Encoding
	if name == "" || strings.EqualFold(name, DefaultEncoding) {
		return &rep, nil
	}

	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}

	utf8Data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s report: %w", name, err)
	}

	var decoded Report
	if err := json.Unmarshal(utf8Data, &decoded); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}

	return &decoded, nil
}
