package terminal

import (
	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/xpfang/pkg/metrics"
)

// Color is a terminal foreground color.
type Color int

// Color constants.
const (
	ColorNone Color = iota
	ColorGreen
	ColorYellow
	ColorRed
	ColorBlue
	ColorGray
	ColorCyan
)

var colorAttrs = map[Color]color.Attribute{
	ColorGreen:  color.FgGreen,
	ColorYellow: color.FgYellow,
	ColorRed:    color.FgRed,
	ColorBlue:   color.FgBlue,
	ColorGray:   color.FgHiBlack,
	ColorCyan:   color.FgCyan,
}

// Colorize applies a color to text. With NoColor the text is returned unchanged.
func (c Config) Colorize(text string, col Color) string {
	attr, ok := colorAttrs[col]
	if c.NoColor || !ok {
		return text
	}

	painter := color.New(attr)
	painter.EnableColor()

	return painter.Sprint(text)
}

// Bold renders text in bold.
func (c Config) Bold(text string) string {
	if c.NoColor {
		return text
	}

	painter := color.New(color.Bold)
	painter.EnableColor()

	return painter.Sprint(text)
}

// Percent thresholds for color assignment.
const (
	PercentThresholdGood = 80
	PercentThresholdFair = 50
)

// ColorForPercent returns the color for a 0-100 completion.
func ColorForPercent(percent int) Color {
	switch {
	case percent >= PercentThresholdGood:
		return ColorGreen
	case percent >= PercentThresholdFair:
		return ColorYellow
	default:
		return ColorRed
	}
}

// ColorForFeedback returns the color of an audit feedback label.
func ColorForFeedback(feedback string) Color {
	switch feedback {
	case metrics.FeedbackHigh:
		return ColorGreen
	case metrics.FeedbackBalanced:
		return ColorBlue
	default:
		return ColorYellow
	}
}
