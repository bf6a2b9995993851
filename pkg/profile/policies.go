package profile

import (
	"fmt"

	"github.com/Sumatoshi-tech/xpfang/pkg/chartdata"
	"github.com/Sumatoshi-tech/xpfang/pkg/metrics"
)

// DefaultTopGradesLimit is the number of entries in the top grades list.
const DefaultTopGradesLimit = 10

// Policies are the explicit choices Build applies to the rows.
type Policies struct {
	Ranking        metrics.Strategy[metrics.Row]
	Pass           metrics.Predicate
	Nulls          metrics.NullGradePolicy
	Zero           metrics.ZeroConvention
	ProjectRule    metrics.Rule
	PiscineRule    metrics.Rule
	TopGradesRule  metrics.Rule
	TopGradesLimit int
	GaugeFloor     float64
}

// DefaultPolicies returns the policies used when nothing is configured.
func DefaultPolicies() Policies {
	return Policies{
		Ranking:        metrics.ByGrade(),
		Pass:           metrics.GradeAtLeastOne(),
		Nulls:          metrics.NullAsFail,
		Zero:           metrics.ZeroAsInfinite,
		ProjectRule:    metrics.DefaultProjectRule(),
		PiscineRule:    metrics.DefaultPiscineRule(),
		TopGradesRule:  metrics.ProjectRule{Exclude: []string{string(metrics.CategoryPiscine)}},
		TopGradesLimit: DefaultTopGradesLimit,
		GaugeFloor:     chartdata.DefaultGaugeFloor,
	}
}

// withDefaults fills every unset field from DefaultPolicies.
func (p Policies) withDefaults() Policies {
	d := DefaultPolicies()

	if p.Ranking.Prefer == nil {
		p.Ranking = d.Ranking
	}

	if p.Pass.Pass == nil {
		p.Pass = d.Pass
	}

	if p.Nulls == "" {
		p.Nulls = d.Nulls
	}

	if p.Zero == "" {
		p.Zero = d.Zero
	}

	if p.ProjectRule == nil {
		p.ProjectRule = d.ProjectRule
	}

	if p.PiscineRule == nil {
		p.PiscineRule = d.PiscineRule
	}

	if p.TopGradesRule == nil {
		p.TopGradesRule = d.TopGradesRule
	}

	if p.TopGradesLimit <= 0 {
		p.TopGradesLimit = d.TopGradesLimit
	}

	if p.GaugeFloor <= 0 {
		p.GaugeFloor = d.GaugeFloor
	}

	return p
}

// PolicyNames selects policies by name. Empty fields keep the default.
type PolicyNames struct {
	Ranking        string
	Pass           string
	Nulls          string
	Zero           string
	TopGradesLimit int
}

// Resolve turns names into Policies on top of DefaultPolicies.
func (n PolicyNames) Resolve() (Policies, error) {
	p := DefaultPolicies()

	var err error

	if n.Ranking != "" {
		p.Ranking, err = metrics.StrategyByName(n.Ranking)
		if err != nil {
			return Policies{}, fmt.Errorf("resolve policies: %w", err)
		}
	}

	if n.Pass != "" {
		p.Pass, err = metrics.PredicateByName(n.Pass)
		if err != nil {
			return Policies{}, fmt.Errorf("resolve policies: %w", err)
		}
	}

	if n.Nulls != "" {
		p.Nulls, err = metrics.ParseNullGradePolicy(n.Nulls)
		if err != nil {
			return Policies{}, fmt.Errorf("resolve policies: %w", err)
		}
	}

	if n.Zero != "" {
		p.Zero, err = metrics.ParseZeroConvention(n.Zero)
		if err != nil {
			return Policies{}, fmt.Errorf("resolve policies: %w", err)
		}
	}

	if n.TopGradesLimit > 0 {
		p.TopGradesLimit = n.TopGradesLimit
	}

	return p, nil
}
