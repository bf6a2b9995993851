// Package dashboard lays a computed profile out as an interactive HTML page.
package dashboard

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/xpfang/pkg/chartdata"
	"github.com/Sumatoshi-tech/xpfang/pkg/metrics"
	"github.com/Sumatoshi-tech/xpfang/pkg/plotpage"
	"github.com/Sumatoshi-tech/xpfang/pkg/profile"
)

const (
	statColumns   = 3
	gradeDecimals = 2
	gridLines     = 5
)

// Section titles.
const (
	TitleOverview  = "Overview"
	TitleTimeline  = "Cumulative XP"
	TitleOutcomes  = "Project outcomes"
	TitleAudits    = "Audits"
	TitleTopGrades = "Top project grades"
	TitlePiscine   = "Piscine highest grade"
	TitleSkills    = "XP by skill"
	TitleProjects  = "Projects"
)

// NewPage builds the dashboard page for d.
func NewPage(d *profile.Dashboard, theme plotpage.Theme) *plotpage.Page {
	cOpts := plotpage.NewChartOpts(theme)

	page := plotpage.NewPage(d.User.DisplayName(), fmt.Sprintf("@%s, generated %s",
		d.User.Login, d.FetchedAt.UTC().Format(time.RFC1123)))
	page.WithTheme(theme)

	page.Add(
		overviewSection(d),
		timelineSection(cOpts, d.Timeline),
		outcomesSection(cOpts, d.Projects),
		auditSection(cOpts, d.Audit),
		topGradesSection(cOpts, d.TopGrades),
		piscineSection(cOpts, d.Piscine),
		skillsSection(cOpts, d.Skills),
		projectsSection(d.Projects),
	)

	return page
}

func overviewSection(d *profile.Dashboard) plotpage.Section {
	lastActivity := "never"
	if !d.LastActivity.IsZero() {
		lastActivity = humanize.RelTime(d.LastActivity, d.FetchedAt, "ago", "from now")
	}

	return plotpage.Section{
		Title: TitleOverview,
		Chart: plotpage.NewGrid(statColumns,
			plotpage.NewStat("Total XP", humanize.Comma(d.TotalXP)).
				WithNote(chartdata.FormatXP(float64(d.TotalXP)), plotpage.ToneAccent),
			plotpage.NewStat("Level", humanize.Comma(int64(d.Level))),
			plotpage.NewStat("Audit ratio", d.Audit.Text).
				WithNote(d.Audit.Feedback, feedbackTone(d.Audit.Feedback)),
			plotpage.NewStat("Piscine progress", fmt.Sprintf("%d%%", d.Piscine.Percent)).
				WithNote(fmt.Sprintf("%d of %d passed", d.Piscine.Passed, d.Piscine.Total), plotpage.ToneInfo),
			plotpage.NewStat("Projects passed", fmt.Sprintf("%d / %d", d.Projects.Counts.Passed, d.Projects.Counts.Total())).
				WithNote(fmt.Sprintf("%d%%", d.Projects.PassRate), plotpage.ToneSuccess),
			plotpage.NewStat("Last activity", lastActivity),
		),
	}
}

func timelineSection(cOpts *plotpage.ChartOpts, tl profile.Timeline) plotpage.Section {
	labels := make([]string, len(tl.Cumulative))
	values := make([]plotpage.SeriesData, len(tl.Cumulative))

	for i, p := range tl.Cumulative {
		labels[i] = p.X.Format(metrics.DayLayout)
		values[i] = p.Y
	}

	return plotpage.Section{
		Title:    TitleTimeline,
		Subtitle: "Running total of XP, one point per day with activity",
		Chart: plotpage.BuildLineChart(cOpts, labels, []plotpage.LineSeries{
			{Name: "XP", Data: values, AreaOpacity: 0.15},
		}, plotpage.Axis{YName: "XP", YMax: tl.AxisMax}),
		Hint: plotpage.Hint{Items: []string{
			fmt.Sprintf("Axis tops out at %s, split in %d steps.", humanize.Comma(int64(tl.AxisMax)), gridLines),
		}},
	}
}

func outcomesSection(cOpts *plotpage.ChartOpts, p profile.Projects) plotpage.Section {
	if p.Counts.Total() == 0 {
		return plotpage.Section{
			Title: TitleOutcomes,
			Chart: plotpage.NewAlert("No projects yet", "No finished project matches the project rule.", plotpage.ToneDefault),
		}
	}

	theme := cOpts.Theme()

	return plotpage.Section{
		Title:    TitleOutcomes,
		Subtitle: fmt.Sprintf("Final result per project (%s, %s)", p.Strategy, p.Predicate),
		Chart: plotpage.BuildPieChart(cOpts, "Outcomes", []plotpage.PieSlice{
			{Name: "Pass", Value: float64(p.Counts.Passed), Color: theme.Pass},
			{Name: "Fail", Value: float64(p.Counts.Failed), Color: theme.Fail},
		}),
	}
}

func auditSection(cOpts *plotpage.ChartOpts, a profile.Audit) plotpage.Section {
	return plotpage.Section{
		Title:    TitleAudits,
		Subtitle: fmt.Sprintf("Ratio %s (%s)", a.Text, a.Feedback),
		Chart: plotpage.BuildBarChart(cOpts, []string{"Done", "Received"}, []plotpage.BarSeries{
			{Name: "XP", Data: []plotpage.SeriesData{a.Given, a.Received}},
		}, plotpage.Axis{YName: "XP", YMax: chartdata.NiceMaxLog(float64(max(a.Given, a.Received)))}),
		Hint: plotpage.Hint{Items: []string{
			"Above 1.2 you give more reviews than you get.",
			"Below 1.0 consider auditing more.",
		}},
	}
}

func topGradesSection(cOpts *plotpage.ChartOpts, grades []profile.GradeEntry) plotpage.Section {
	labels := make([]string, len(grades))
	values := make([]plotpage.SeriesData, len(grades))
	highest := 0.0

	for i, g := range grades {
		labels[i] = g.Name
		values[i] = g.Grade
		highest = max(highest, g.Grade)
	}

	return plotpage.Section{
		Title: TitleTopGrades,
		Chart: plotpage.BuildBarChart(cOpts, labels, []plotpage.BarSeries{
			{Name: "Grade", Data: values},
		}, plotpage.Axis{YName: "Grade", YMax: chartdata.NiceGradeCeiling(highest)}),
	}
}

func piscineSection(cOpts *plotpage.ChartOpts, p profile.Piscine) plotpage.Section {
	if !p.Graded {
		return plotpage.Section{
			Title: TitlePiscine,
			Chart: plotpage.NewAlert("Not graded", "No piscine exercise has a grade yet.", plotpage.ToneDefault),
		}
	}

	return plotpage.Section{
		Title:    TitlePiscine,
		Subtitle: fmt.Sprintf("%s on a scale of %s", formatGrade(p.Highest), formatGrade(p.GaugeMax)),
		Chart: plotpage.BuildBarChart(cOpts, []string{"Highest"}, []plotpage.BarSeries{
			{Name: "Grade", Data: []plotpage.SeriesData{p.Highest}, Color: cOpts.Theme().Accent},
		}, plotpage.Axis{YName: "Grade", YMax: p.GaugeMax}),
	}
}

func skillsSection(cOpts *plotpage.ChartOpts, skills []metrics.SkillTotal) plotpage.Section {
	labels := make([]string, len(skills))
	values := make([]plotpage.SeriesData, len(skills))

	var top int64

	for i, s := range skills {
		labels[i] = s.Skill
		values[i] = s.Amount
		top = max(top, s.Amount)
	}

	return plotpage.Section{
		Title: TitleSkills,
		Chart: plotpage.BuildBarChart(cOpts, labels, []plotpage.BarSeries{
			{Name: "XP", Data: values},
		}, plotpage.Axis{YName: "XP", YMax: chartdata.NiceMaxLog(float64(top))}),
	}
}

func projectsSection(p profile.Projects) plotpage.Section {
	tbl := plotpage.NewTable("Project", "Category", "Grade", "Result", "Date")

	for _, o := range p.Outcomes {
		grade := "-"
		if o.Grade != nil {
			grade = formatGrade(*o.Grade)
		}

		result := plotpage.NewBadge("fail", plotpage.ToneError)
		if o.Passed {
			result = plotpage.NewBadge("pass", plotpage.ToneSuccess)
		}

		date := ""
		if !o.CreatedAt.IsZero() {
			date = o.CreatedAt.UTC().Format(metrics.DayLayout)
		}

		tbl.AddRow(o.Name, string(o.Category), grade, result, date)
	}

	return plotpage.Section{Title: TitleProjects, Chart: tbl}
}

func feedbackTone(feedback string) plotpage.Tone {
	switch feedback {
	case metrics.FeedbackHigh:
		return plotpage.ToneSuccess
	case metrics.FeedbackBalanced:
		return plotpage.ToneInfo
	default:
		return plotpage.ToneWarning
	}
}

func formatGrade(g float64) string {
	return metrics.FormatRatio(g, gradeDecimals)
}
