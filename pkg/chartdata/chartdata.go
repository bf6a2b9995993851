// Package chartdata maps aggregated values to renderer-agnostic geometry:
// scales, bar widths, arc angles, nice axis maxima and tick values.
// It consumes already-aggregated numbers and derives no business semantics.
package chartdata

import (
	"fmt"
	"math"
	"time"

	"github.com/Sumatoshi-tech/xpfang/pkg/units"
)

// Grade chart ceilings for values clustered near 1.0.
const (
	gradeCeilingLow  = 1.2
	gradeCeilingHigh = 1.5
)

// DefaultGaugeFloor is the smallest scale of the piscine grade gauge.
const DefaultGaugeFloor = 3

// FormatXP formats a kilobyte-equivalent XP amount: MB with two decimals from
// units.KiB upwards, otherwise whole KB.
func FormatXP(amount float64) string {
	if amount >= units.KiB {
		return fmt.Sprintf("%.2f MB", units.KiBToMiB(amount))
	}

	return fmt.Sprintf("%.0f KB", amount)
}

// BarWidths scales values to full, proportional to the largest value or 1,
// whichever is greater.
func BarWidths(values []float64, full float64) []float64 {
	largest := 1.0
	for _, v := range values {
		largest = math.Max(largest, v)
	}

	widths := make([]float64, len(values))
	for i, v := range values {
		widths[i] = v / largest * full
	}

	return widths
}

// BarHeights scales values to full against a fixed axis maximum, clamped to
// [0, full]. A non-positive maximum is treated as 1.
func BarHeights(values []float64, axisMax, full float64) []float64 {
	if axisMax <= 0 || math.IsNaN(axisMax) {
		axisMax = 1
	}

	heights := make([]float64, len(values))
	for i, v := range values {
		heights[i] = math.Min(math.Max(v/axisMax*full, 0), full)
	}

	return heights
}

// ArcAngles converts parts to angles in radians summing to 2π.
// A zero total is treated as 1, so every angle is 0.
func ArcAngles(parts []float64) []float64 {
	total := 0.0
	for _, p := range parts {
		total += p
	}

	if total == 0 {
		total = 1
	}

	angles := make([]float64, len(parts))
	for i, p := range parts {
		angles[i] = p / total * 2 * math.Pi
	}

	return angles
}

// Coord is a point in chart space.
type Coord struct {
	X float64
	Y float64
}

// Slice is one pie slice. Angles are radians measured clockwise from 12 o'clock.
type Slice struct {
	StartAngle float64
	EndAngle   float64
	Start      Coord
	End        Coord
	LargeArc   bool
}

// Sweep returns the slice angle.
func (s Slice) Sweep() float64 {
	return s.EndAngle - s.StartAngle
}

// Full reports whether the slice covers the whole circle.
func (s Slice) Full() bool {
	return s.Sweep() >= 2*math.Pi-1e-9
}

// PieSlices lays out parts as consecutive slices of a circle centred at
// (cx, cy) with radius r, starting at 12 o'clock and running clockwise.
func PieSlices(cx, cy, r float64, parts []float64) []Slice {
	angles := ArcAngles(parts)
	slices := make([]Slice, len(angles))

	at := 0.0

	for i, a := range angles {
		slices[i] = Slice{
			StartAngle: at,
			EndAngle:   at + a,
			Start:      PointOnCircle(cx, cy, r, at),
			End:        PointOnCircle(cx, cy, r, at+a),
			LargeArc:   a > math.Pi,
		}
		at += a
	}

	return slices
}

// PointOnCircle returns the point at angle (clockwise from 12 o'clock).
func PointOnCircle(cx, cy, r, angle float64) Coord {
	return Coord{
		X: cx + r*math.Cos(angle-math.Pi/2),
		Y: cy + r*math.Sin(angle-math.Pi/2),
	}
}

// NiceMaxLog rounds max up to a multiple of its leading power of ten.
// Non-positive input returns 1.
func NiceMaxLog(maxValue float64) float64 {
	if maxValue <= 0 || math.IsNaN(maxValue) || math.IsInf(maxValue, 0) {
		return 1
	}

	step := math.Pow(10, math.Floor(math.Log10(maxValue)))

	return math.Ceil(maxValue/step) * step
}

// NiceGradeCeiling picks an axis maximum for grade values, which cluster near 1.
func NiceGradeCeiling(maxValue float64) float64 {
	switch {
	case maxValue <= 0 || math.IsNaN(maxValue):
		return 1
	case maxValue <= gradeCeilingLow:
		return gradeCeilingLow
	case maxValue <= gradeCeilingHigh:
		return gradeCeilingHigh
	default:
		return math.Ceil(maxValue)
	}
}

// GaugeScale returns the gauge maximum: ceil(highest), never below floor.
func GaugeScale(highest, floor float64) float64 {
	return math.Max(floor, math.Ceil(highest))
}

// Ticks returns n+1 evenly spaced values from 0 to maxValue.
func Ticks(maxValue float64, n int) []float64 {
	if n <= 0 {
		return []float64{0}
	}

	ticks := make([]float64, n+1)
	for i := range ticks {
		ticks[i] = maxValue / float64(n) * float64(i)
	}

	return ticks
}

// TimeTicks returns n+1 evenly spaced instants from minTime to maxTime.
func TimeTicks(minTime, maxTime time.Time, n int) []time.Time {
	if n <= 0 {
		return []time.Time{minTime}
	}

	span := maxTime.Sub(minTime)
	ticks := make([]time.Time, n+1)

	for i := range ticks {
		ticks[i] = minTime.Add(time.Duration(float64(span) * float64(i) / float64(n)))
	}

	return ticks
}

// LinearScale maps a domain interval onto a range interval.
type LinearScale struct {
	DomainMin float64
	DomainMax float64
	RangeMin  float64
	RangeMax  float64
}

// Map projects v into the range. A zero-width domain is treated as width 1.
func (s LinearScale) Map(v float64) float64 {
	width := s.DomainMax - s.DomainMin
	if width == 0 {
		width = 1
	}

	return s.RangeMin + (v-s.DomainMin)/width*(s.RangeMax-s.RangeMin)
}

// Padding is the gap between a frame edge and its plot area.
type Padding struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Frame is a chart canvas.
type Frame struct {
	Width   float64
	Height  float64
	Padding Padding
}

// InnerWidth is the plot area width.
func (f Frame) InnerWidth() float64 {
	return f.Width - f.Padding.Left - f.Padding.Right
}

// InnerHeight is the plot area height.
func (f Frame) InnerHeight() float64 {
	return f.Height - f.Padding.Top - f.Padding.Bottom
}

// Bottom is the y coordinate of the plot area baseline.
func (f Frame) Bottom() float64 {
	return f.Height - f.Padding.Bottom
}

// Right is the x coordinate of the plot area right edge.
func (f Frame) Right() float64 {
	return f.Width - f.Padding.Right
}

// XScale maps [minValue, maxValue] onto the plot area horizontally.
func (f Frame) XScale(minValue, maxValue float64) LinearScale {
	return LinearScale{DomainMin: minValue, DomainMax: maxValue, RangeMin: f.Padding.Left, RangeMax: f.Right()}
}

// YScale maps [0, maxValue] onto the plot area vertically, 0 at the baseline.
func (f Frame) YScale(maxValue float64) LinearScale {
	return LinearScale{DomainMin: 0, DomainMax: maxValue, RangeMin: f.Bottom(), RangeMax: f.Padding.Top}
}
