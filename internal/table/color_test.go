package table

import (
	"testing"

	"github.com/ethpandaops/testjson/internal/report"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestColorHelper_FormatKind(t *testing.T) {
	// Disable colors for consistent testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	helper := NewColorHelper()

	tests := []struct {
		kind     report.Kind
		expected string
	}{
		{kind: report.KindSuccess, expected: "✓ PASS"},
		{kind: report.KindFailure, expected: "✗ FAIL"},
		{kind: report.KindError, expected: "! ERROR"},
		{kind: report.KindSkipped, expected: "- SKIP"},
		{kind: report.Kind("other"), expected: "other"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, helper.FormatKind(tt.kind))
		})
	}
}

func TestColorHelper_FormatCount(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	helper := NewColorHelper()

	assert.Equal(t, "0", helper.FormatCount(report.KindFailure, 0))
	assert.Equal(t, "3", helper.FormatCount(report.KindError, 3))
	assert.Equal(t, "12", helper.FormatCount(report.KindSuccess, 12))
}

func TestColorHelper_FormatPercentage(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	helper := NewColorHelper()

	tests := []struct {
		name     string
		value    float64
		expected string
	}{
		{name: "perfect", value: 100.0, expected: "100.0%"},
		{name: "high", value: 95.5, expected: "95.5%"},
		{name: "low", value: 42.0, expected: "42.0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, helper.FormatPercentage(tt.value))
		})
	}
}

func TestColorHelper_DisabledColors(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	helper := NewColorHelper()
	text := "test"

	assert.Equal(t, text, helper.Success(text))
	assert.Equal(t, text, helper.Failure(text))
	assert.Equal(t, text, helper.Warning(text))
	assert.Equal(t, text, helper.Muted(text))
	assert.Equal(t, text, helper.Bold(text))
	assert.Equal(t, text, helper.Header(text))
}
