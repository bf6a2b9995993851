package plotpage

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Default chart dimensions.
const (
	DefaultChartWidth  = "100%"
	DefaultChartHeight = "420px"
)

// SeriesData is one numeric value of a series, int or float64.
type SeriesData any

// BarSeries is a single bar chart series.
type BarSeries struct {
	Name  string
	Data  []SeriesData
	Color string // Optional, uses the palette if empty.
}

// LineSeries is a single line chart series.
type LineSeries struct {
	Name        string
	Data        []SeriesData
	Color       string  // Optional, uses the palette if empty.
	AreaOpacity float32 // Optional, fills the area under the line.
}

// PieSlice is one slice of a pie chart.
type PieSlice struct {
	Name  string
	Value float64
	Color string
}

// Axis labels the chart axes. A positive YMax pins the y-axis maximum.
type Axis struct {
	XName string
	YName string
	YMax  float64
}

// BuildBarChart constructs a themed bar chart. A nil cOpts uses DefaultChartOpts.
func BuildBarChart(cOpts *ChartOpts, labels []string, series []BarSeries, axis Axis) *charts.Bar {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(DefaultChartWidth, DefaultChartHeight)),
		charts.WithTooltipOpts(cOpts.Tooltip("axis")),
		charts.WithGridOpts(cOpts.Grid()),
		charts.WithXAxisOpts(cOpts.XAxis(axis.XName)),
		charts.WithYAxisOpts(cOpts.YAxis(axis.YName, axis.YMax)),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	bar.SetXAxis(labels)

	for i, s := range series {
		barData := make([]opts.BarData, len(s.Data))
		for j, v := range s.Data {
			barData[j] = opts.BarData{Value: v}
		}

		color := s.Color
		if color == "" {
			color = cOpts.theme.SeriesColor(i)
		}

		bar.AddSeries(s.Name, barData, charts.WithItemStyleOpts(opts.ItemStyle{Color: color}))
	}

	return bar
}

// BuildLineChart constructs a themed line chart with a zoom slider.
// A nil cOpts uses DefaultChartOpts.
func BuildLineChart(cOpts *ChartOpts, labels []string, series []LineSeries, axis Axis) *charts.Line {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(DefaultChartWidth, DefaultChartHeight)),
		charts.WithTooltipOpts(cOpts.Tooltip("axis")),
		charts.WithGridOpts(cOpts.Grid()),
		charts.WithDataZoomOpts(cOpts.DataZoom()...),
		charts.WithXAxisOpts(cOpts.XAxis(axis.XName)),
		charts.WithYAxisOpts(cOpts.YAxis(axis.YName, axis.YMax)),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	line.SetXAxis(labels)

	for i, s := range series {
		lineData := make([]opts.LineData, len(s.Data))
		for j, v := range s.Data {
			lineData[j] = opts.LineData{Value: v}
		}

		color := s.Color
		if color == "" {
			color = cOpts.theme.SeriesColor(i)
		}

		seriesOpts := []charts.SeriesOpts{
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: color}),
		}

		if s.AreaOpacity > 0 {
			seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(s.AreaOpacity)}))
		}

		line.AddSeries(s.Name, lineData, seriesOpts...)
	}

	return line
}

// BuildPieChart constructs a themed donut chart. A nil cOpts uses DefaultChartOpts.
func BuildPieChart(cOpts *ChartOpts, name string, slices []PieSlice) *charts.Pie {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(DefaultChartWidth, DefaultChartHeight)),
		charts.WithTooltipOpts(cOpts.Tooltip("item")),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	data := make([]opts.PieData, len(slices))
	for i, s := range slices {
		color := s.Color
		if color == "" {
			color = cOpts.theme.SeriesColor(i)
		}

		data[i] = opts.PieData{Name: s.Name, Value: s.Value, ItemStyle: &opts.ItemStyle{Color: color}}
	}

	pie.AddSeries(name, data,
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}", Color: cOpts.theme.ChartText}),
	)

	return pie
}
