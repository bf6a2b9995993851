package plotpage_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/xpfang/pkg/plotpage"
)

const testTitle = "Dashboard"

var errBrokenChart = errors.New("broken chart")

type brokenChart struct{}

func (brokenChart) Render(io.Writer) error { return errBrokenChart }

func render(t *testing.T, r plotpage.Renderable) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf))

	return buf.String()
}

func TestPage_Render(t *testing.T) {
	t.Parallel()

	page := plotpage.NewPage(testTitle, "XP <overview>")
	page.Add(plotpage.Section{
		Title:    "Totals",
		Subtitle: "All time",
		Chart:    plotpage.NewStat("Total XP", "1,750"),
		Hint:     plotpage.Hint{Title: "Reading", Items: []string{"Higher is better"}},
	})

	html := render(t, page)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, `class="dark"`)
	assert.Contains(t, html, "<title>Dashboard</title>")
	assert.Contains(t, html, "XP &lt;overview&gt;")
	assert.Contains(t, html, "1,750")
	assert.Contains(t, html, "Higher is better")
	assert.Contains(t, html, "rgba(255,255,255,0.65)")
	assert.NotContains(t, html, "ZgotmplZ")
}

func TestPage_LightTheme(t *testing.T) {
	t.Parallel()

	html := render(t, plotpage.NewPage(testTitle, "").WithTheme(plotpage.ThemeLight))

	assert.NotContains(t, html, `class="dark"`)
	assert.Contains(t, html, plotpage.GetThemeConfig(plotpage.ThemeLight).Background)
}

func TestPage_ChartError(t *testing.T) {
	t.Parallel()

	page := plotpage.NewPage(testTitle, "")
	page.Add(plotpage.Section{Title: "Broken", Chart: brokenChart{}})

	err := page.Render(io.Discard)
	require.ErrorIs(t, err, errBrokenChart)
}

func TestPage_EChartsContentExtracted(t *testing.T) {
	t.Parallel()

	line := plotpage.BuildLineChart(nil, []string{"2024-01-01", "2024-01-02"}, []plotpage.LineSeries{
		{Name: "XP", Data: []plotpage.SeriesData{10, 42}, AreaOpacity: 0.2},
	}, plotpage.Axis{YName: "XP", YMax: 100})

	page := plotpage.NewPage(testTitle, "")
	page.Add(plotpage.Section{Title: "Timeline", Chart: line})

	html := render(t, page)

	assert.Contains(t, html, `class="echart-box"`)
	assert.Contains(t, html, "echarts.init")
	assert.Equal(t, 1, strings.Count(html, "<!DOCTYPE html>"))
}

func TestParseTheme(t *testing.T) {
	t.Parallel()

	theme, err := plotpage.ParseTheme("light")
	require.NoError(t, err)
	assert.Equal(t, plotpage.ThemeLight, theme)

	_, err = plotpage.ParseTheme("neon")
	require.ErrorIs(t, err, plotpage.ErrUnknownTheme)
}

func TestThemeConfig_SeriesColor(t *testing.T) {
	t.Parallel()

	cfg := plotpage.GetThemeConfig(plotpage.ThemeDark)
	assert.Equal(t, cfg.Palette[0], cfg.SeriesColor(len(cfg.Palette)))
	assert.Equal(t, "#fff", plotpage.ThemeConfig{Accent: "#fff"}.SeriesColor(3))
}
