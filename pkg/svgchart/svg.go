// Package svgchart writes standalone SVG documents for the dashboard charts.
// Geometry comes from chartdata; this package only draws it with svgo.
package svgchart

import (
	"bytes"
	"io"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo/float"
)

// coordinatePrecision is the number of decimals kept in formatted numbers.
const coordinatePrecision = 2

// mark draws one part of a chart onto the canvas.
type mark func(canvas *svg.SVG)

// Document is a complete SVG image with a fixed viewBox.
type Document struct {
	Name   string
	Title  string
	Width  float64
	Height float64
	marks  []mark
}

// NewDocument creates an empty document.
func NewDocument(name, title string, width, height float64) *Document {
	return &Document{Name: name, Title: title, Width: width, Height: height}
}

func (d *Document) draw(marks ...mark) *Document {
	d.marks = append(d.marks, marks...)

	return d
}

// Bytes serializes the document.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer

	canvas := svg.New(&buf)
	canvas.Start(d.Width, d.Height,
		attr("viewBox", "0 0 "+formatFloat(d.Width)+" "+formatFloat(d.Height)),
		attr("class", "svg-chart"),
	)

	if d.Title != "" {
		canvas.Title(d.Title)
	}

	for _, m := range d.marks {
		m(canvas)
	}

	canvas.End()

	return buf.Bytes()
}

// WriteTo writes the serialized document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.Bytes())

	return int64(n), err
}

// attr formats one name="value" pair for svgo's trailing attribute list.
// Values may be strings, ints, int64s or float64s.
func attr(name string, value any) string {
	return name + `="` + formatValue(value) + `"`
}

func fill(color string) string {
	return attr("fill", color)
}

func stroke(color string) string {
	return attr("stroke", color)
}

func fontSize(px int) string {
	return attr("font-size", px)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return formatFloat(x)
	default:
		return ""
	}
}

func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}

	scale := math.Pow(10, coordinatePrecision)
	r := math.Round(v*scale) / scale

	if r == 0 {
		r = 0 // drop negative zero
	}

	return strconv.FormatFloat(r, 'f', -1, 64)
}
