package profile

import (
	"math"
	"path"
	"time"

	"github.com/Sumatoshi-tech/xpfang/pkg/chartdata"
	"github.com/Sumatoshi-tech/xpfang/pkg/metrics"
)

// ReportName identifies the dashboard output.
const ReportName = "dashboard"

const (
	ratioTextDecimals     = 1
	feedbackRatioDecimals = 2
)

// Dashboard is everything computed from one Snapshot.
type Dashboard struct {
	User         metrics.UserIdentity
	FetchedAt    time.Time
	TotalXP      int64
	Level        int
	Audit        Audit
	Timeline     Timeline
	Projects     Projects
	Piscine      Piscine
	TopGrades    []GradeEntry
	Skills       []metrics.SkillTotal
	LastActivity time.Time
}

// Audit compares XP given in audits with XP received.
// Ratio may be +Inf; Text renders it with one decimal or as "∞".
type Audit struct {
	Given    int64
	Received int64
	Ratio    float64
	Rounded  float64
	Text     string
	Feedback string
}

// Timeline is the XP earned per day and its running total.
type Timeline struct {
	Days       []metrics.DayBucket
	Cumulative []metrics.Point
	AxisMax    float64
}

// Outcome is the final state of one project.
type Outcome struct {
	Path      string
	Name      string
	Category  metrics.Category
	Grade     *float64
	Passed    bool
	CreatedAt time.Time
}

// Projects holds the project outcomes under the active policies.
type Projects struct {
	Strategy  string
	Predicate string
	Outcomes  []Outcome
	Counts    metrics.PassFail
	PassRate  int
}

// Piscine summarizes piscine and checkpoint exercises.
type Piscine struct {
	Passed   int
	Total    int
	Percent  int
	Highest  float64
	Graded   bool
	GaugeMax float64
}

// GradeEntry is one row of the top grades list.
type GradeEntry struct {
	Path  string
	Name  string
	Grade float64
}

// Build computes the dashboard. It is pure: the same snapshot and policies
// always give the same dashboard. Unset policy fields take their defaults.
func Build(snap *Snapshot, p Policies) *Dashboard {
	if snap == nil {
		snap = &Snapshot{}
	}

	p = p.withDefaults()

	d := &Dashboard{
		User:         snap.User,
		FetchedAt:    snap.FetchedAt,
		TotalXP:      metrics.Sum(snap.XP),
		Level:        metrics.Level(snap.Progress),
		Audit:        buildAudit(snap, p),
		Timeline:     buildTimeline(snap.XP),
		Projects:     buildProjects(snap.Progress, p),
		Piscine:      buildPiscine(snap.Progress, p),
		TopGrades:    buildTopGrades(snap.Progress, p),
		Skills:       metrics.XPBySkill(snap.XP),
		LastActivity: metrics.LastActivity(snap.XP, snap.Up, snap.Down, snap.Progress),
	}

	return d
}

func buildAudit(snap *Snapshot, p Policies) Audit {
	given := metrics.SumByType(snap.Up, metrics.TypeUp)
	received := metrics.SumByType(snap.Down, metrics.TypeDown)
	ratio := metrics.Ratio(float64(given), float64(received), p.Zero)
	rounded := metrics.RoundToOneDecimal(ratio)

	return Audit{
		Given:    given,
		Received: received,
		Ratio:    ratio,
		Rounded:  rounded,
		Text:     metrics.FormatRatio(rounded, ratioTextDecimals),
		Feedback: metrics.AuditFeedback(metrics.RoundToDecimals(ratio, feedbackRatioDecimals)),
	}
}

func buildTimeline(xp []metrics.Row) Timeline {
	days := metrics.BucketByDay(xp)
	cumulative := metrics.CumulativeSeries(days)

	// Negative days can pull the total below an earlier peak.
	var peak int64
	for _, pt := range cumulative {
		peak = max(peak, pt.Y)
	}

	return Timeline{
		Days:       days,
		Cumulative: cumulative,
		AxisMax:    chartdata.NiceMaxLog(float64(peak)),
	}
}

func buildProjects(progress []metrics.Row, p Policies) Projects {
	final := metrics.FinalRows(metrics.Filter(progress, p.ProjectRule), p.Ranking)
	counts := metrics.PassFailCounts(final, p.Pass, p.Nulls)

	outcomes := make([]Outcome, 0, len(final))
	for _, r := range final {
		outcomes = append(outcomes, Outcome{
			Path:      r.Path,
			Name:      path.Base(r.Path),
			Category:  metrics.Classify(r.Path),
			Grade:     r.Grade,
			Passed:    p.Pass.Pass(r),
			CreatedAt: r.CreatedAt,
		})
	}

	return Projects{
		Strategy:  p.Ranking.Name,
		Predicate: p.Pass.Name,
		Outcomes:  outcomes,
		Counts:    counts,
		PassRate:  metrics.Percent(counts.Passed, counts.Total()),
	}
}

// buildPiscine counts every piscine row, not one per exercise; an ungraded
// row counts toward the total and as a zero grade.
func buildPiscine(progress []metrics.Row, p Policies) Piscine {
	rows := metrics.Filter(progress, p.PiscineRule)

	passed := 0

	for _, r := range rows {
		if p.Pass.Pass(r) {
			passed++
		}
	}

	highest := 0.0
	for _, r := range rows {
		highest = math.Max(highest, r.GradeOr(0))
	}

	_, graded := metrics.MaxGrade(rows)

	return Piscine{
		Passed:   passed,
		Total:    len(rows),
		Percent:  metrics.Percent(passed, len(rows)),
		Highest:  highest,
		Graded:   graded,
		GaugeMax: chartdata.GaugeScale(highest, p.GaugeFloor),
	}
}

func buildTopGrades(progress []metrics.Row, p Policies) []GradeEntry {
	top := metrics.TopGrades(metrics.Filter(progress, p.TopGradesRule), p.TopGradesLimit)

	entries := make([]GradeEntry, 0, len(top))
	for _, r := range top {
		entries = append(entries, GradeEntry{Path: r.Path, Name: path.Base(r.Path), Grade: *r.Grade})
	}

	return entries
}
