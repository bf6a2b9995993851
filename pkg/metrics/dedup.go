package metrics

import (
	"errors"
	"fmt"
	"slices"
)

// Strategy names accepted by StrategyByName.
const (
	StrategyNameByGrade             = "by-grade"
	StrategyNameByRecencyOfPositive = "by-recency-positive"
	StrategyNameByRecency           = "by-recency"
)

// missingGradeRank is the rank of a row without a grade under ByGrade.
const missingGradeRank = -1

// ErrUnknownPolicy is returned when a named policy does not exist.
var ErrUnknownPolicy = errors.New("unknown policy")

// Strategy picks one representative row per key.
// Keep filters candidate rows (nil keeps all). Prefer reports whether candidate
// should replace current; it must return true on equal rank so the later row wins.
type Strategy[R any] struct {
	Name   string
	Keep   func(R) bool
	Prefer func(current, candidate R) bool
}

// BestPerKey collapses rows sharing a key into a single representative.
// Keys with no row passing Keep are absent from the result.
func BestPerKey[R any](rows []R, keyOf func(R) string, strategy Strategy[R]) map[string]R {
	best := make(map[string]R)

	for _, row := range rows {
		if strategy.Keep != nil && !strategy.Keep(row) {
			continue
		}

		key := keyOf(row)

		current, seen := best[key]
		if !seen || strategy.Prefer(current, row) {
			best[key] = row
		}
	}

	return best
}

// ByGrade keeps the row with the highest grade. Missing grades rank as -1.
func ByGrade() Strategy[Row] {
	return Strategy[Row]{
		Name: StrategyNameByGrade,
		Prefer: func(current, candidate Row) bool {
			return candidate.GradeOr(missingGradeRank) >= current.GradeOr(missingGradeRank)
		},
	}
}

// ByRecencyAmongPositive keeps the latest row among those with a positive amount.
func ByRecencyAmongPositive() Strategy[Row] {
	return Strategy[Row]{
		Name: StrategyNameByRecencyOfPositive,
		Keep: func(r Row) bool { return r.Amount > 0 },
		Prefer: func(current, candidate Row) bool {
			return !candidate.CreatedAt.Before(current.CreatedAt)
		},
	}
}

// ByRecency keeps the latest row regardless of amount.
func ByRecency() Strategy[Row] {
	return Strategy[Row]{
		Name: StrategyNameByRecency,
		Prefer: func(current, candidate Row) bool {
			return !candidate.CreatedAt.Before(current.CreatedAt)
		},
	}
}

// StrategyByName resolves a named ranking strategy.
func StrategyByName(name string) (Strategy[Row], error) {
	switch name {
	case StrategyNameByGrade:
		return ByGrade(), nil
	case StrategyNameByRecencyOfPositive:
		return ByRecencyAmongPositive(), nil
	case StrategyNameByRecency:
		return ByRecency(), nil
	default:
		return Strategy[Row]{}, fmt.Errorf("%w: ranking strategy %q", ErrUnknownPolicy, name)
	}
}

// FinalRows returns one row per project path, sorted by path.
func FinalRows(rows []Row, strategy Strategy[Row]) []Row {
	best := BestPerKey(rows, ProjectKey, strategy)

	keys := make([]string, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	result := make([]Row, 0, len(keys))
	for _, k := range keys {
		result = append(result, best[k])
	}

	return result
}
