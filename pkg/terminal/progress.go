package terminal

import (
	"fmt"
	"strings"
)

// Progress bar characters.
const (
	ProgressFilled = "█"
	ProgressEmpty  = "░"
)

// DrawProgressBar draws a bar of the given width. Value is clamped to [0, 1].
// Example: DrawProgressBar(0.7, 10) returns "███████░░░".
func DrawProgressBar(value float64, width int) string {
	value = min(max(value, 0), 1)

	filled := int(value * float64(width))

	return strings.Repeat(ProgressFilled, filled) + strings.Repeat(ProgressEmpty, width-filled)
}

// DrawPercentBar draws a labeled percentage bar.
// Example: "Piscine       ████████████████░░░░  80%  (8/10)".
func DrawPercentBar(label string, percent, part, total, labelWidth, barWidth int) string {
	bar := DrawProgressBar(float64(percent)/100, barWidth)

	return fmt.Sprintf("%s %s %3d%%  (%d/%d)", PadRight(label, labelWidth), bar, percent, part, total)
}
