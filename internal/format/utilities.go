// Package format provides shared formatting utilities for human-readable output.
package format

import (
	"fmt"
	"time"
)

// Duration formats a duration for human-readable output.
// Handles microseconds, milliseconds, seconds, and minutes.
func Duration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.0fµs", float64(d.Microseconds()))
	}

	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d.Milliseconds()))
	}

	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	return fmt.Sprintf("%.1fm", d.Minutes())
}

// Seconds formats a duration given in fractional seconds, as stored in reports.
func Seconds(s float64) string {
	if s <= 0 {
		return "-"
	}

	return Duration(time.Duration(s * float64(time.Second)))
}

// Truncate shortens text to at most limit runes, marking the cut with "...".
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit || limit <= 3 {
		return text
	}

	return string(runes[:limit-3]) + "..."
}
