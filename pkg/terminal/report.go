package terminal

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/xpfang/pkg/chartdata"
	"github.com/Sumatoshi-tech/xpfang/pkg/metrics"
	"github.com/Sumatoshi-tech/xpfang/pkg/profile"
)

const (
	labelWidth     = 14
	barWidth       = 30
	gradeDecimals  = 2
	maxSkillRows   = 8
	maxNameColumns = 40
)

// WriteDashboard renders the dashboard as text to w.
func WriteDashboard(w io.Writer, cfg Config, d *profile.Dashboard) error {
	var sb strings.Builder

	width := cfg.Width
	if width <= 0 {
		width = DefaultWidth
	}

	sb.WriteString(DrawHeader(cfg.Bold(d.User.DisplayName()), "@"+d.User.Login, width))
	sb.WriteString("\n\n")

	writeSummary(&sb, cfg, d)
	sb.WriteString("\n")
	writePiscine(&sb, cfg, d.Piscine)
	sb.WriteString("\n")
	writeOutcomes(&sb, cfg, d.Projects)
	sb.WriteString("\n")
	writeTopGrades(&sb, d.TopGrades)
	sb.WriteString("\n")
	writeSkills(&sb, d.Skills)

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("write dashboard: %w", err)
	}

	return nil
}

func writeSummary(sb *strings.Builder, cfg Config, d *profile.Dashboard) {
	line := func(label, value string) {
		fmt.Fprintf(sb, "%s %s\n", PadRight(label, labelWidth), value)
	}

	line("Total XP", fmt.Sprintf("%s (%s)", humanize.Comma(d.TotalXP), chartdata.FormatXP(float64(d.TotalXP))))
	line("Level", humanize.Comma(int64(d.Level)))
	line("Audit ratio", fmt.Sprintf("%s  %s",
		cfg.Colorize(d.Audit.Text, ColorForFeedback(d.Audit.Feedback)),
		cfg.Colorize(d.Audit.Feedback, ColorGray)))
	line("  given", humanize.Comma(d.Audit.Given))
	line("  received", humanize.Comma(d.Audit.Received))
	line("Last activity", relativeTime(d.LastActivity, d.FetchedAt))
}

func writePiscine(sb *strings.Builder, cfg Config, p profile.Piscine) {
	sb.WriteString(cfg.Bold("Piscine") + "\n")

	bar := DrawPercentBar("Progress", p.Percent, p.Passed, p.Total, labelWidth, barWidth)
	sb.WriteString(cfg.Colorize(bar, ColorForPercent(p.Percent)) + "\n")

	highest := "not graded"
	if p.Graded {
		highest = fmt.Sprintf("%s / %s", formatGrade(p.Highest), formatGrade(p.GaugeMax))
	}

	fmt.Fprintf(sb, "%s %s\n", PadRight("Highest grade", labelWidth), highest)
}

func writeOutcomes(sb *strings.Builder, cfg Config, p profile.Projects) {
	fmt.Fprintf(sb, "%s  %s\n", cfg.Bold("Projects"),
		cfg.Colorize(fmt.Sprintf("%d passed, %d failed (%d%%) [%s, %s]",
			p.Counts.Passed, p.Counts.Failed, p.PassRate, p.Strategy, p.Predicate), ColorGray))

	if len(p.Outcomes) == 0 {
		sb.WriteString("  no projects\n")

		return
	}

	tbl := newTable()
	tbl.AppendHeader(table.Row{"Project", "Category", "Grade", "Result"})

	for _, o := range p.Outcomes {
		grade := "-"
		if o.Grade != nil {
			grade = formatGrade(*o.Grade)
		}

		result := cfg.Colorize("fail", ColorRed)
		if o.Passed {
			result = cfg.Colorize("pass", ColorGreen)
		}

		tbl.AppendRow(table.Row{TruncateWithEllipsis(o.Name, maxNameColumns), string(o.Category), grade, result})
	}

	sb.WriteString(tbl.Render() + "\n")
}

func writeTopGrades(sb *strings.Builder, grades []profile.GradeEntry) {
	sb.WriteString("Top grades\n")

	if len(grades) == 0 {
		sb.WriteString("  no grades\n")

		return
	}

	tbl := newTable()
	tbl.AppendHeader(table.Row{"#", "Project", "Grade"})

	for i, g := range grades {
		tbl.AppendRow(table.Row{i + 1, TruncateWithEllipsis(g.Name, maxNameColumns), formatGrade(g.Grade)})
	}

	sb.WriteString(tbl.Render() + "\n")
}

func writeSkills(sb *strings.Builder, skills []metrics.SkillTotal) {
	sb.WriteString("XP by skill\n")

	if len(skills) == 0 {
		sb.WriteString("  no XP\n")

		return
	}

	values := make([]float64, 0, len(skills))
	for _, s := range skills {
		values = append(values, float64(s.Amount))
	}

	widths := chartdata.BarWidths(values, barWidth)

	for i, s := range skills {
		if i == maxSkillRows {
			fmt.Fprintf(sb, "  ... %d more\n", len(skills)-maxSkillRows)

			break
		}

		bar := strings.Repeat(ProgressFilled, int(widths[i]))
		fmt.Fprintf(sb, "%s %s %s\n", PadRight(TruncateWithEllipsis(s.Skill, labelWidth), labelWidth),
			PadRight(bar, barWidth), humanize.Comma(s.Amount))
	}
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false

	return tbl
}

func formatGrade(g float64) string {
	return metrics.FormatRatio(g, gradeDecimals)
}

func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}

	if now.IsZero() {
		now = time.Now()
	}

	return fmt.Sprintf("%s (%s)", t.UTC().Format(time.DateOnly), humanize.RelTime(t, now, "ago", "from now"))
}
