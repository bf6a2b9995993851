package profile

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/xpfang/pkg/metrics"
)

// DashboardView is the serializable form of a Dashboard. Infinite ratios have
// no JSON encoding and appear as a nil ratio with the "∞" text.
type DashboardView struct {
	User         metrics.UserIdentity `json:"user"                   yaml:"user"`
	FetchedAt    time.Time            `json:"fetched_at"             yaml:"fetched_at"`
	TotalXP      int64                `json:"total_xp"               yaml:"total_xp"`
	TotalXPText  string               `json:"total_xp_text"          yaml:"total_xp_text"`
	Level        int                  `json:"level"                  yaml:"level"`
	Audit        AuditView            `json:"audit"                  yaml:"audit"`
	Timeline     TimelineView         `json:"timeline"               yaml:"timeline"`
	Projects     ProjectsView         `json:"projects"               yaml:"projects"`
	Piscine      PiscineView          `json:"piscine"                yaml:"piscine"`
	TopGrades    []GradeEntryView     `json:"top_grades"             yaml:"top_grades"`
	Skills       []metrics.SkillTotal `json:"skills"                 yaml:"skills"`
	LastActivity *time.Time           `json:"last_activity,omitempty" yaml:"last_activity,omitempty"`
}

// AuditView is the serializable audit summary.
type AuditView struct {
	Given     int64    `json:"given"     yaml:"given"`
	Received  int64    `json:"received"  yaml:"received"`
	Ratio     *float64 `json:"ratio"     yaml:"ratio"`
	Rounded   *float64 `json:"rounded"   yaml:"rounded"`
	RatioText string   `json:"ratio_text" yaml:"ratio_text"`
	Feedback  string   `json:"feedback"  yaml:"feedback"`
}

// TimelineView is the serializable XP timeline.
type TimelineView struct {
	Days       []metrics.DayBucket `json:"days"       yaml:"days"`
	Cumulative []metrics.Point     `json:"cumulative" yaml:"cumulative"`
	AxisMax    float64             `json:"axis_max"   yaml:"axis_max"`
}

// OutcomeView is one serializable project outcome.
type OutcomeView struct {
	Path      string     `json:"path"                 yaml:"path"`
	Name      string     `json:"name"                 yaml:"name"`
	Category  string     `json:"category"             yaml:"category"`
	Grade     *float64   `json:"grade"                yaml:"grade"`
	Passed    bool       `json:"passed"               yaml:"passed"`
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// ProjectsView is the serializable project summary.
type ProjectsView struct {
	Strategy  string        `json:"strategy"  yaml:"strategy"`
	Predicate string        `json:"predicate" yaml:"predicate"`
	Passed    int           `json:"passed"    yaml:"passed"`
	Failed    int           `json:"failed"    yaml:"failed"`
	PassRate  int           `json:"pass_rate" yaml:"pass_rate"`
	Outcomes  []OutcomeView `json:"outcomes"  yaml:"outcomes"`
}

// PiscineView is the serializable piscine summary.
type PiscineView struct {
	Passed   int     `json:"passed"    yaml:"passed"`
	Total    int     `json:"total"     yaml:"total"`
	Percent  int     `json:"percent"   yaml:"percent"`
	Highest  float64 `json:"highest"   yaml:"highest"`
	Graded   bool    `json:"graded"    yaml:"graded"`
	GaugeMax float64 `json:"gauge_max" yaml:"gauge_max"`
}

// GradeEntryView is one serializable top grade.
type GradeEntryView struct {
	Path  string  `json:"path"  yaml:"path"`
	Name  string  `json:"name"  yaml:"name"`
	Grade float64 `json:"grade" yaml:"grade"`
}

// ReportName implements renderer.Output.
func (d *Dashboard) ReportName() string {
	return ReportName
}

// ToJSON implements renderer.Output.
func (d *Dashboard) ToJSON() any {
	return d.View()
}

// ToYAML implements renderer.Output.
func (d *Dashboard) ToYAML() any {
	return d.View()
}

// View converts the dashboard to its serializable form.
func (d *Dashboard) View() DashboardView {
	outcomes := make([]OutcomeView, 0, len(d.Projects.Outcomes))
	for _, o := range d.Projects.Outcomes {
		outcomes = append(outcomes, OutcomeView{
			Path:      o.Path,
			Name:      o.Name,
			Category:  string(o.Category),
			Grade:     o.Grade,
			Passed:    o.Passed,
			CreatedAt: optionalTime(o.CreatedAt),
		})
	}

	grades := make([]GradeEntryView, 0, len(d.TopGrades))
	for _, g := range d.TopGrades {
		grades = append(grades, GradeEntryView(g))
	}

	return DashboardView{
		User:        d.User,
		FetchedAt:   d.FetchedAt,
		TotalXP:     d.TotalXP,
		TotalXPText: humanize.Comma(d.TotalXP),
		Level:       d.Level,
		Audit: AuditView{
			Given:     d.Audit.Given,
			Received:  d.Audit.Received,
			Ratio:     finite(d.Audit.Ratio),
			Rounded:   finite(d.Audit.Rounded),
			RatioText: d.Audit.Text,
			Feedback:  d.Audit.Feedback,
		},
		Timeline: TimelineView{
			Days:       nonNil(d.Timeline.Days),
			Cumulative: nonNil(d.Timeline.Cumulative),
			AxisMax:    d.Timeline.AxisMax,
		},
		Projects: ProjectsView{
			Strategy:  d.Projects.Strategy,
			Predicate: d.Projects.Predicate,
			Passed:    d.Projects.Counts.Passed,
			Failed:    d.Projects.Counts.Failed,
			PassRate:  d.Projects.PassRate,
			Outcomes:  outcomes,
		},
		Piscine:      PiscineView(d.Piscine),
		TopGrades:    grades,
		Skills:       nonNil(d.Skills),
		LastActivity: optionalTime(d.LastActivity),
	}
}

func finite(x float64) *float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return nil
	}

	return &x
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
