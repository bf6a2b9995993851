package svgchart_test

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/xpfang/pkg/metrics"
	"github.com/Sumatoshi-tech/xpfang/pkg/profile"
	"github.com/Sumatoshi-tech/xpfang/pkg/svgchart"
)

const delta = 0.01

// node is a generic SVG element decoded from a document.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []node     `xml:",any"`
}

func (n node) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}

	return ""
}

func (n node) num(t *testing.T, name string) float64 {
	t.Helper()

	v, err := strconv.ParseFloat(n.attr(name), 64)
	require.NoError(t, err, "attribute %s of <%s>", name, n.XMLName.Local)

	return v
}

// find returns every descendant named name, in document order.
func (n node) find(name string) []node {
	var out []node

	for _, c := range n.Children {
		if c.XMLName.Local == name {
			out = append(out, c)
		}

		out = append(out, c.find(name)...)
	}

	return out
}

func (n node) texts() []string {
	var out []string

	for _, c := range n.find("text") {
		out = append(out, strings.TrimSpace(c.Text))
	}

	return out
}

func byFill(nodes []node, color string) []node {
	var out []node

	for _, n := range nodes {
		if n.attr("fill") == color {
			out = append(out, n)
		}
	}

	return out
}

// parse decodes a document, failing unless it is well-formed SVG.
func parse(t *testing.T, body []byte) node {
	t.Helper()

	var root node
	require.NoError(t, xml.Unmarshal(body, &root))
	require.Equal(t, "svg", root.XMLName.Local)

	return root
}

func requireViewBox(t *testing.T, root node, width, height float64) {
	t.Helper()

	fields := strings.Fields(root.attr("viewBox"))
	require.Len(t, fields, 4)

	w, err := strconv.ParseFloat(fields[2], 64)
	require.NoError(t, err)

	h, err := strconv.ParseFloat(fields[3], 64)
	require.NoError(t, err)

	assert.InDelta(t, width, w, delta)
	assert.InDelta(t, height, h, delta)
}

func TestDocument_EscapesText(t *testing.T) {
	t.Parallel()

	doc := svgchart.XPBySkill([]metrics.SkillTotal{{Skill: "<b>&", Amount: 10}})
	body := doc.Bytes()

	root := parse(t, body)
	assert.Contains(t, root.texts(), "<b>&")
	assert.NotContains(t, string(body), "<b>&")

	titles := root.find("title")
	require.NotEmpty(t, titles)
	assert.Equal(t, "XP distribution by skill", strings.TrimSpace(titles[0].Text))
	assert.Equal(t, "svg-chart", root.attr("class"))
}

func TestCumulativeXP(t *testing.T) {
	t.Parallel()

	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day3 := day1.AddDate(0, 0, 2)

	doc := svgchart.CumulativeXP(profile.Timeline{
		Cumulative: []metrics.Point{{X: day1, Y: 100}, {X: day3, Y: 300}},
		AxisMax:    300,
	})

	root := parse(t, doc.Bytes())
	requireViewBox(t, root, 1430, 420)

	paths := root.find("path")
	require.Len(t, paths, 1)
	assert.Equal(t, "M 90 253.33 L 1390 40", paths[0].attr("d"))

	texts := root.texts()
	assert.Contains(t, texts, "2024-01-01")
	assert.Contains(t, texts, "2024-01-03")
	assert.Contains(t, texts, "300")
	assert.Equal(t, "cumulative-xp.svg", doc.FileName())
}

func TestCumulativeXP_LineStaysInFrame(t *testing.T) {
	t.Parallel()

	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	doc := svgchart.CumulativeXP(profile.Timeline{
		Cumulative: []metrics.Point{{X: day1, Y: 5000}, {X: day1.AddDate(0, 0, 1), Y: 1000}},
		AxisMax:    1000,
	})

	paths := parse(t, doc.Bytes()).find("path")
	require.Len(t, paths, 1)
	assert.Equal(t, "M 90 40 L 1390 40", paths[0].attr("d"))
}

func TestCumulativeXP_Empty(t *testing.T) {
	t.Parallel()

	root := parse(t, svgchart.CumulativeXP(profile.Timeline{}).Bytes())

	assert.Equal(t, []string{"No XP data found."}, root.texts())
	assert.Empty(t, root.find("path"))
}

func TestPassFail(t *testing.T) {
	t.Parallel()

	root := parse(t, svgchart.PassFail(metrics.PassFail{Passed: 1, Failed: 1}).Bytes())
	requireViewBox(t, root, 520, 360)

	paths := root.find("path")
	require.Len(t, paths, 2)
	assert.Equal(t, "M 260 190 L 260 80 A 110 110 0 0 1 260 300 Z", paths[0].attr("d"))

	texts := root.texts()
	assert.Contains(t, texts, "Pass (1)")
	assert.Contains(t, texts, "Fail (1)")
	assert.Len(t, byFill(append(paths, root.find("rect")...), "rgba(255,255,255,0.25)"), 2)
}

func TestPassFail_AllPassed(t *testing.T) {
	t.Parallel()

	root := parse(t, svgchart.PassFail(metrics.PassFail{Passed: 4}).Bytes())

	circles := root.find("circle")
	require.Len(t, circles, 1)
	assert.InDelta(t, 260, circles[0].num(t, "cx"), delta)
	assert.InDelta(t, 190, circles[0].num(t, "cy"), delta)
	assert.InDelta(t, 110, circles[0].num(t, "r"), delta)
	assert.Empty(t, root.find("path"))
	assert.Contains(t, root.texts(), "Fail (0)")
}

func TestPassFail_Empty(t *testing.T) {
	t.Parallel()

	root := parse(t, svgchart.PassFail(metrics.PassFail{}).Bytes())

	assert.Contains(t, root.texts(), "No project data found.")
}

func TestTopGrades(t *testing.T) {
	t.Parallel()

	root := parse(t, svgchart.TopGrades([]profile.GradeEntry{
		{Path: "/m/nope", Name: "nope", Grade: 2},
		{Path: "/m/go-reloaded", Name: "go-reloaded", Grade: 1},
	}).Bytes())
	requireViewBox(t, root, 720, 300)

	texts := root.texts()
	assert.Contains(t, texts, "2.0")
	assert.Contains(t, texts, "0.5")
	assert.Contains(t, texts, "2.00")
	assert.Contains(t, texts, "1.00")

	bars := byFill(root.find("rect"), "rgba(252,193,219,0.9)")
	require.Len(t, bars, 2)
	assert.InDelta(t, 240, bars[0].num(t, "height"), delta)
	assert.InDelta(t, 120, bars[1].num(t, "height"), delta)

	groups := root.find("g")
	require.Len(t, groups, 2)
	assert.Contains(t, groups[0].find("title")[0].Text, "Grade: 2.00")
}

func TestTopGrades_NearOneUsesGradeCeiling(t *testing.T) {
	t.Parallel()

	root := parse(t, svgchart.TopGrades([]profile.GradeEntry{
		{Name: "go-reloaded", Grade: 1},
		{Name: "quad", Grade: 0.6},
	}).Bytes())

	bars := byFill(root.find("rect"), "rgba(252,193,219,0.9)")
	require.Len(t, bars, 2)
	assert.InDelta(t, 200, bars[0].num(t, "height"), delta, "1.0 of a 1.2 ceiling")
	assert.InDelta(t, 120, bars[1].num(t, "height"), delta)
	assert.Contains(t, root.texts(), "1.2")
}

func TestPiscineProgress(t *testing.T) {
	t.Parallel()

	root := parse(t, svgchart.PiscineProgress(profile.Piscine{Passed: 2, Total: 3, Percent: 67}).Bytes())

	fills := byFill(root.find("rect"), "rgba(155,92,255,0.95)")
	require.Len(t, fills, 1)
	assert.InDelta(t, 281.4, fills[0].num(t, "width"), delta)
	assert.Contains(t, root.texts(), "67% Completed")

	empty := parse(t, svgchart.PiscineProgress(profile.Piscine{}).Bytes())
	assert.Contains(t, empty.texts(), "No piscine data found.")
}

func TestPiscineHighest(t *testing.T) {
	t.Parallel()

	root := parse(t, svgchart.PiscineHighest(profile.Piscine{Total: 3, Highest: 2, GaugeMax: 3}).Bytes())

	gauge := byFill(root.find("rect"), "rgba(155,92,255,0.95)")
	require.Len(t, gauge, 1)
	assert.InDelta(t, 130, gauge[0].num(t, "y"), delta)
	assert.InDelta(t, 46, gauge[0].num(t, "width"), delta)
	assert.InDelta(t, 120, gauge[0].num(t, "height"), delta)
	assert.Contains(t, root.texts(), "2.00")
	assert.Contains(t, root.texts(), "Highest Grade")
}

func TestXPBySkill(t *testing.T) {
	t.Parallel()

	root := parse(t, svgchart.XPBySkill([]metrics.SkillTotal{
		{Skill: "go-reloaded", Amount: 12000},
		{Skill: metrics.SkillOther, Amount: 6000},
	}).Bytes())
	requireViewBox(t, root, 1400, 360)

	texts := root.texts()
	assert.Contains(t, texts, "12,000")
	assert.Contains(t, texts, "go-reloaded")

	bars := byFill(root.find("rect"), "rgba(155,92,255,0.85)")
	require.Len(t, bars, 2)
	assert.InDelta(t, 250, bars[0].num(t, "height"), delta)
	assert.InDelta(t, 125, bars[1].num(t, "height"), delta)
}

func TestAll_WriteDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "charts")

	docs := svgchart.All(nil)
	require.Len(t, docs, 6)

	paths, err := svgchart.WriteDir(dir, docs)
	require.NoError(t, err)
	require.Len(t, paths, 6)

	for _, p := range paths {
		body, readErr := os.ReadFile(p)
		require.NoError(t, readErr)
		parse(t, body)
		assert.Equal(t, svgchart.FileExt, filepath.Ext(p))
	}
}
