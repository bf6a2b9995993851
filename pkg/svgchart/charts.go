package svgchart

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo/float"
	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/xpfang/pkg/chartdata"
	"github.com/Sumatoshi-tech/xpfang/pkg/metrics"
	"github.com/Sumatoshi-tech/xpfang/pkg/profile"
)

// Chart file names.
const (
	NameCumulativeXP    = "cumulative-xp"
	NamePassFail        = "pass-fail"
	NameXPBySkill       = "xp-by-skill"
	NameTopGrades       = "top-grades"
	NamePiscineProgress = "piscine-progress"
	NamePiscineHighest  = "piscine-highest"
)

// Colors.
const (
	colorPink      = "rgba(252,193,219,0.9)"
	colorPurple    = "rgba(155,92,255,0.85)"
	colorPurpleHot = "rgba(155,92,255,0.95)"
	colorFail      = "rgba(255,255,255,0.25)"
	colorAxis      = "rgba(255,255,255,0.2)"
	colorTrack     = "rgba(255,255,255,0.15)"
	colorGaugeBg   = "rgba(255,255,255,0.12)"
	colorText      = "#fff"
	colorTextSoft  = "rgba(255,255,255,0.7)"
	colorTextMuted = "rgba(255,255,255,0.65)"
)

const (
	cumulativeGridLines = 5
	cumulativeTicks     = 6
	gradeGridLines      = 4
	gradeBarGap         = 14
	skillBarShare       = 0.7
	pieRadius           = 110
	legendSwatch        = 14
)

var (
	cumulativeFrame = chartdata.Frame{Width: 1430, Height: 420, Padding: chartdata.Padding{Top: 40, Right: 40, Bottom: 60, Left: 90}}
	skillFrame      = chartdata.Frame{Width: 1400, Height: 360, Padding: chartdata.Padding{Top: 40, Right: 40, Bottom: 70, Left: 90}}
	gradeFrame      = chartdata.Frame{Width: 720, Height: 300, Padding: chartdata.Padding{Top: 20, Right: 20, Bottom: 40, Left: 60}}
)

// All returns every chart for the dashboard in display order.
func All(d *profile.Dashboard) []*Document {
	if d == nil {
		d = &profile.Dashboard{}
	}

	return []*Document{
		CumulativeXP(d.Timeline),
		PassFail(d.Projects.Counts),
		TopGrades(d.TopGrades),
		PiscineProgress(d.Piscine),
		PiscineHighest(d.Piscine),
		XPBySkill(d.Skills),
	}
}

// placeholder is the document drawn when a chart has no data.
func placeholder(doc *Document, message string) *Document {
	return doc.draw(func(canvas *svg.SVG) {
		canvas.Text(doc.Width/2, doc.Height/2, message,
			attr("text-anchor", "middle"), fill(colorTextMuted), fontSize(14))
	})
}

func axes(f chartdata.Frame) mark {
	return func(canvas *svg.SVG) {
		canvas.Line(f.Padding.Left, f.Padding.Top, f.Padding.Left, f.Bottom(), stroke(colorAxis))
		canvas.Line(f.Padding.Left, f.Bottom(), f.Right(), f.Bottom(), stroke(colorAxis))
	}
}

// valueGrid draws horizontal grid lines with right-aligned value labels.
func valueGrid(f chartdata.Frame, ys chartdata.LinearScale, ticks []float64, gridColor string, label func(float64) string) mark {
	return func(canvas *svg.SVG) {
		for _, v := range ticks {
			y := ys.Map(v)
			canvas.Line(f.Padding.Left, y, f.Right(), y, stroke(gridColor))
			canvas.Text(f.Padding.Left-10, y+4, label(v),
				attr("text-anchor", "end"), fill(colorTextSoft), fontSize(12))
		}
	}
}

// CumulativeXP draws the running XP total as a line over days.
func CumulativeXP(t profile.Timeline) *Document {
	f := cumulativeFrame
	doc := NewDocument(NameCumulativeXP, "Cumulative XP over time", f.Width, f.Height)

	points := t.Cumulative
	if len(points) == 0 {
		return placeholder(doc, "No XP data found.")
	}

	maxY := t.AxisMax
	if maxY <= 0 {
		maxY = chartdata.NiceMaxLog(float64(points[len(points)-1].Y))
	}

	minX, maxX := points[0].X, points[len(points)-1].X
	xs := f.XScale(float64(minX.Unix()), float64(maxX.Unix()))
	ys := f.YScale(maxY)

	doc.draw(valueGrid(f, ys, chartdata.Ticks(maxY, cumulativeGridLines), "rgba(255,255,255,0.07)", func(v float64) string {
		return humanize.Comma(int64(math.Round(v)))
	}))

	doc.draw(func(canvas *svg.SVG) {
		for _, tick := range chartdata.TimeTicks(minX, maxX, cumulativeTicks) {
			canvas.Text(xs.Map(float64(tick.Unix())), f.Height-14, tick.UTC().Format(metrics.DayLayout),
				fill(colorTextMuted), attr("text-anchor", "middle"), fontSize(12))
		}
	}, axes(f))

	var path strings.Builder

	for i, p := range points {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}

		if i > 0 {
			path.WriteByte(' ')
		}

		y := math.Max(ys.Map(float64(p.Y)), f.Padding.Top)
		fmt.Fprintf(&path, "%s %s %s", cmd, formatFloat(xs.Map(float64(p.X.Unix()))), formatFloat(y))
	}

	return doc.draw(func(canvas *svg.SVG) {
		canvas.Path(path.String(),
			attr("fill", "none"), stroke(colorPink), attr("stroke-width", 3), attr("stroke-linecap", "round"))
	})
}

// PassFail draws passed and failed projects as a two-slice pie with the
// passed count in the middle.
func PassFail(counts metrics.PassFail) *Document {
	const width, height = 520.0, 360.0

	doc := NewDocument(NamePassFail, "Project pass/fail ratio", width, height)

	if counts.Total() == 0 {
		return placeholder(doc, "No project data found.")
	}

	cx, cy := width/2, height/2+10
	slices := chartdata.PieSlices(cx, cy, pieRadius, []float64{float64(counts.Passed), float64(counts.Failed)})

	doc.draw(
		slice(cx, cy, slices[0], counts.Passed, colorPink),
		slice(cx, cy, slices[1], counts.Failed, colorFail),
	)

	legendY := height - 26

	return doc.draw(func(canvas *svg.SVG) {
		canvas.Text(cx, cy-6, strconv.Itoa(counts.Passed),
			attr("text-anchor", "middle"), fill(colorText), fontSize(26), attr("font-weight", 700))
		canvas.Text(cx, cy+20, "Passed", attr("text-anchor", "middle"), fill(colorTextMuted), fontSize(14))
		canvas.Roundrect(cx-120, legendY, legendSwatch, legendSwatch, 4, 4, fill(colorPink))
		canvas.Text(cx-96, legendY+12, fmt.Sprintf("Pass (%d)", counts.Passed), fill(colorText), fontSize(14))
		canvas.Roundrect(cx+20, legendY, legendSwatch, legendSwatch, 4, 4, fill(colorFail))
		canvas.Text(cx+44, legendY+12, fmt.Sprintf("Fail (%d)", counts.Failed), fill(colorText), fontSize(14))
	})
}

// slice draws one pie slice; a slice covering the whole pie is a circle.
func slice(cx, cy float64, s chartdata.Slice, count int, color string) mark {
	return func(canvas *svg.SVG) {
		switch {
		case s.Full():
			canvas.Circle(cx, cy, pieRadius, fill(color))
		case count > 0:
			canvas.Path(slicePath(cx, cy, s), fill(color))
		}
	}
}

func slicePath(cx, cy float64, s chartdata.Slice) string {
	large := 0
	if s.LargeArc {
		large = 1
	}

	return fmt.Sprintf("M %s %s L %s %s A %d %d 0 %d 1 %s %s Z",
		formatFloat(cx), formatFloat(cy),
		formatFloat(s.Start.X), formatFloat(s.Start.Y),
		pieRadius, pieRadius, large,
		formatFloat(s.End.X), formatFloat(s.End.Y))
}

// TopGrades draws the highest project grades as vertical bars on the same
// axis ceiling the HTML dashboard uses.
func TopGrades(entries []profile.GradeEntry) *Document {
	f := gradeFrame
	doc := NewDocument(NameTopGrades, "Top project grades", f.Width, f.Height)

	if len(entries) == 0 {
		return placeholder(doc, "No project grades found.")
	}

	values := make([]float64, len(entries))
	highest := 0.0

	for i, e := range entries {
		values[i] = e.Grade
		highest = math.Max(highest, e.Grade)
	}

	ceiling := chartdata.NiceGradeCeiling(highest)
	heights := chartdata.BarHeights(values, ceiling, f.InnerHeight())

	doc.draw(axes(f), valueGrid(f, f.YScale(ceiling), chartdata.Ticks(ceiling, gradeGridLines), "rgba(255,255,255,0.06)", func(v float64) string {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}))

	n := float64(len(entries))
	barWidth := (f.InnerWidth() - gradeBarGap*(n-1)) / n

	return doc.draw(func(canvas *svg.SVG) {
		for i, e := range entries {
			h := heights[i]
			x := f.Padding.Left + float64(i)*(barWidth+gradeBarGap)
			y := f.Bottom() - h
			value := strconv.FormatFloat(e.Grade, 'f', 2, 64)

			canvas.Group()
			canvas.Title(e.Name + "\nGrade: " + value)
			canvas.Roundrect(x, y, barWidth, h, 8, 8, fill(colorPink))
			canvas.Gend()
			canvas.Text(x+barWidth/2, y-6, value,
				attr("text-anchor", "middle"), fill(colorText), fontSize(12), attr("font-weight", 600))
		}
	})
}

// PiscineProgress draws the share of passed piscine exercises as a progress bar.
func PiscineProgress(p profile.Piscine) *Document {
	const (
		width, height = 520.0, 90.0
		barWidth      = 420.0
		barHeight     = 16.0
		top           = 30.0
	)

	doc := NewDocument(NamePiscineProgress, "Piscine progress", width, height)

	if p.Total == 0 {
		return placeholder(doc, "No piscine data found.")
	}

	x := (width - barWidth) / 2
	percent := min(max(p.Percent, 0), 100)

	return doc.draw(func(canvas *svg.SVG) {
		canvas.Roundrect(x, top, barWidth, barHeight, 8, 8, fill(colorTrack))
		canvas.Roundrect(x, top, barWidth*float64(percent)/100, barHeight, 8, 8, fill(colorPurpleHot))
		canvas.Text(width/2, top+barHeight+28, fmt.Sprintf("%d%% Completed", percent),
			attr("text-anchor", "middle"), fill(colorText), fontSize(20), attr("font-weight", 600))
	})
}

// PiscineHighest draws the highest piscine grade as a vertical gauge.
func PiscineHighest(p profile.Piscine) *Document {
	const (
		width, height = 200.0, 300.0
		barWidth      = 46.0
		barHeight     = 180.0
		top           = 70.0
	)

	doc := NewDocument(NamePiscineHighest, "Piscine highest grade", width, height)

	if p.Total == 0 {
		return placeholder(doc, "No piscine data available.")
	}

	scale := p.GaugeMax
	if scale <= 0 {
		scale = chartdata.GaugeScale(p.Highest, chartdata.DefaultGaugeFloor)
	}

	filled := chartdata.BarHeights([]float64{p.Highest}, scale, barHeight)[0]
	x := (width - barWidth) / 2

	return doc.draw(func(canvas *svg.SVG) {
		canvas.Line(width/2, top, width/2, top+barHeight, stroke("rgba(255,255,255,0.25)"))
		canvas.Roundrect(x, top, barWidth, barHeight, 10, 10, fill(colorGaugeBg))
		canvas.Roundrect(x, top+barHeight-filled, barWidth, filled, 10, 10, fill(colorPurpleHot))
		canvas.Text(width/2, top+barHeight-filled-10, strconv.FormatFloat(p.Highest, 'f', 2, 64),
			attr("text-anchor", "middle"), fill(colorText), fontSize(22), attr("font-weight", 700))
		canvas.Text(width/2, top+barHeight+28, "Highest Grade",
			attr("text-anchor", "middle"), fill(colorTextMuted), fontSize(13))
	})
}

// XPBySkill draws XP totals per skill label as vertical bars.
func XPBySkill(skills []metrics.SkillTotal) *Document {
	f := skillFrame
	doc := NewDocument(NameXPBySkill, "XP distribution by skill", f.Width, f.Height)

	if len(skills) == 0 {
		return placeholder(doc, "No XP data found.")
	}

	values := make([]float64, len(skills))
	for i, s := range skills {
		values[i] = float64(s.Amount)
	}

	heights := chartdata.BarWidths(values, f.InnerHeight())
	slot := f.InnerWidth() / float64(len(skills))
	barWidth := slot * skillBarShare

	return doc.draw(axes(f), func(canvas *svg.SVG) {
		for i, s := range skills {
			x := f.Padding.Left + float64(i)*slot
			h := math.Max(heights[i], 0)
			y := f.Bottom() - h

			canvas.Roundrect(x, y, barWidth, h, 12, 12, fill(colorPurple))
			canvas.Text(x+barWidth/2, f.Height-20, s.Skill,
				fill("rgba(255,255,255,0.75)"), attr("text-anchor", "middle"), fontSize(13))
			canvas.Text(x+barWidth/2, y-10, humanize.Comma(s.Amount),
				fill(colorTextSoft), attr("text-anchor", "middle"), fontSize(13))
		}
	})
}
