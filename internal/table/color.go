package table

import (
	"fmt"

	"github.com/ethpandaops/testjson/internal/report"
	"github.com/fatih/color"
)

// ColorHelper provides utilities for coloring report output
type ColorHelper struct {
	enabled bool
}

// NewColorHelper creates a new color helper
// Colors are enabled only when outputting to a terminal
func NewColorHelper() *ColorHelper {
	return &ColorHelper{
		enabled: !color.NoColor,
	}
}

// Success returns green colored text
func (c *ColorHelper) Success(text string) string {
	if !c.enabled {
		return text
	}

	return color.GreenString(text)
}

// Failure returns red colored text
func (c *ColorHelper) Failure(text string) string {
	if !c.enabled {
		return text
	}

	return color.RedString(text)
}

// Warning returns yellow colored text
func (c *ColorHelper) Warning(text string) string {
	if !c.enabled {
		return text
	}

	return color.YellowString(text)
}

// Muted returns gray colored text
func (c *ColorHelper) Muted(text string) string {
	if !c.enabled {
		return text
	}

	return color.New(color.FgHiBlack).Sprint(text)
}

// Bold returns bold text
func (c *ColorHelper) Bold(text string) string {
	if !c.enabled {
		return text
	}

	return color.New(color.Bold).Sprint(text)
}

// Header returns bold cyan text for section headers
func (c *ColorHelper) Header(text string) string {
	if !c.enabled {
		return text
	}

	return color.New(color.FgCyan, color.Bold).Sprint(text)
}

// FormatKind returns the colored label for an outcome kind
func (c *ColorHelper) FormatKind(kind report.Kind) string {
	switch kind {
	case report.KindSuccess:
		return c.Success("✓ PASS")
	case report.KindFailure:
		return c.Failure("✗ FAIL")
	case report.KindError:
		return c.Failure("! ERROR")
	case report.KindSkipped:
		return c.Warning("- SKIP")
	default:
		return string(kind)
	}
}

// FormatCount colors a per-kind counter: zero counts are muted, non-zero
// errors and failures are red.
func (c *ColorHelper) FormatCount(kind report.Kind, count int) string {
	text := fmt.Sprintf("%d", count)

	switch {
	case count == 0:
		return c.Muted(text)
	case kind == report.KindError || kind == report.KindFailure:
		return c.Failure(text)
	case kind == report.KindSkipped:
		return c.Warning(text)
	default:
		return c.Success(text)
	}
}

// FormatPercentage returns colored percentage based on value
func (c *ColorHelper) FormatPercentage(value float64) string {
	text := fmt.Sprintf("%.1f%%", value)
	if value == 100.0 {
		return c.Success(text)
	}

	if value >= 90.0 {
		return c.Warning(text)
	}

	return c.Failure(text)
}
