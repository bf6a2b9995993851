package metrics

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"
)

// DayLayout is the date-only projection used for day buckets.
const DayLayout = time.DateOnly

// InfiniteSymbol is the display form of an infinite ratio.
const InfiniteSymbol = "∞"

// percentScale converts a fraction to a percentage.
const percentScale = 100

// ZeroConvention decides the value of a ratio with a zero denominator.
type ZeroConvention string

// Zero conventions. Only the 0/0 case differs between them.
const (
	ZeroAsInfinite   ZeroConvention = "infinite"
	ZeroByZeroAsOne  ZeroConvention = "one"
	ZeroByZeroAsZero ZeroConvention = "zero"
)

// ParseZeroConvention resolves a zero convention by name.
func ParseZeroConvention(name string) (ZeroConvention, error) {
	switch c := ZeroConvention(name); c {
	case ZeroAsInfinite, ZeroByZeroAsOne, ZeroByZeroAsZero:
		return c, nil
	default:
		return "", fmt.Errorf("%w: zero convention %q", ErrUnknownPolicy, name)
	}
}

// Sum returns the total amount of rows.
func Sum(rows []Row) int64 {
	var total int64

	for _, r := range rows {
		total += r.Amount
	}

	return total
}

// SumByType returns the total amount of rows of the given type.
func SumByType(rows []Row, txType TransactionType) int64 {
	var total int64

	for _, r := range rows {
		if r.Type == txType {
			total += r.Amount
		}
	}

	return total
}

// Ratio divides num by den. A zero denominator yields +Inf, except for 0/0
// under ZeroByZeroAsOne or ZeroByZeroAsZero. The result is never NaN.
func Ratio(num, den float64, conv ZeroConvention) float64 {
	if math.IsNaN(num) || math.IsNaN(den) {
		return 0
	}

	if den != 0 {
		r := num / den
		if math.IsNaN(r) {
			return 0
		}

		return r
	}

	if num == 0 {
		switch conv {
		case ZeroByZeroAsOne:
			return 1
		case ZeroByZeroAsZero:
			return 0
		case ZeroAsInfinite:
		}
	}

	return math.Inf(1)
}

// RoundToOneDecimal rounds half-up to one decimal. Infinities pass through and
// NaN becomes 0.
func RoundToOneDecimal(x float64) float64 {
	return RoundToDecimals(x, 1)
}

// RoundToDecimals rounds half-up to the given number of decimals.
// Infinities pass through and NaN becomes 0.
func RoundToDecimals(x float64, decimals int) float64 {
	if math.IsNaN(x) {
		return 0
	}

	if math.IsInf(x, 0) {
		return x
	}

	scale := math.Pow(10, float64(decimals))

	return math.Floor(x*scale+0.5) / scale
}

// FormatRatio formats x with the given number of decimals, or InfiniteSymbol.
func FormatRatio(x float64, decimals int) string {
	if math.IsInf(x, 1) {
		return InfiniteSymbol
	}

	if math.IsInf(x, -1) {
		return "-" + InfiniteSymbol
	}

	if math.IsNaN(x) {
		x = 0
	}

	return strconv.FormatFloat(x, 'f', decimals, 64)
}

// DayBucket is the total amount of one UTC day.
type DayBucket struct {
	Day    string `json:"day"    yaml:"day"`
	Amount int64  `json:"amount" yaml:"amount"`
}

// Time returns the bucket day as midnight UTC.
func (b DayBucket) Time() time.Time {
	t, err := time.Parse(DayLayout, b.Day)
	if err != nil {
		return time.Time{}
	}

	return t
}

// BucketByDay groups rows by the UTC day of CreatedAt, summing amounts.
// Rows without a timestamp are skipped. The result is sorted by day.
func BucketByDay(rows []Row) []DayBucket {
	totals := make(map[string]int64)

	for _, r := range rows {
		if r.CreatedAt.IsZero() {
			continue
		}

		totals[r.CreatedAt.UTC().Format(DayLayout)] += r.Amount
	}

	buckets := make([]DayBucket, 0, len(totals))
	for day, amount := range totals {
		buckets = append(buckets, DayBucket{Day: day, Amount: amount})
	}

	slices.SortFunc(buckets, func(a, b DayBucket) int {
		return cmp.Compare(a.Day, b.Day)
	})

	return buckets
}

// Point is one sample of a cumulative series.
type Point struct {
	X time.Time `json:"x" yaml:"x"`
	Y int64     `json:"y" yaml:"y"`
}

// CumulativeSeries returns the running total over ascending buckets.
func CumulativeSeries(buckets []DayBucket) []Point {
	points := make([]Point, 0, len(buckets))

	var running int64

	for _, b := range buckets {
		running += b.Amount
		points = append(points, Point{X: b.Time(), Y: running})
	}

	return points
}

// Predicate decides whether a final row passed.
// GradeBased predicates are subject to the NullGradePolicy.
type Predicate struct {
	Name       string
	GradeBased bool
	Pass       func(Row) bool
}

// Pass predicate names.
const (
	PredicateNameGradeAtLeastOne = "grade-at-least-one"
	PredicateNameGradeExactlyOne = "grade-exactly-one"
	PredicateNamePositiveAmount  = "positive-amount"
)

// GradeAtLeastOne passes rows with grade >= 1.
func GradeAtLeastOne() Predicate {
	return Predicate{
		Name:       PredicateNameGradeAtLeastOne,
		GradeBased: true,
		Pass:       func(r Row) bool { return r.HasGrade() && *r.Grade >= 1 },
	}
}

// GradeExactlyOne passes rows with grade == 1.
func GradeExactlyOne() Predicate {
	return Predicate{
		Name:       PredicateNameGradeExactlyOne,
		GradeBased: true,
		Pass:       func(r Row) bool { return r.HasGrade() && *r.Grade == 1 },
	}
}

// PositiveAmount passes rows with a positive amount.
func PositiveAmount() Predicate {
	return Predicate{
		Name: PredicateNamePositiveAmount,
		Pass: func(r Row) bool { return r.Amount > 0 },
	}
}

// PredicateByName resolves a pass predicate by name.
func PredicateByName(name string) (Predicate, error) {
	switch name {
	case PredicateNameGradeAtLeastOne:
		return GradeAtLeastOne(), nil
	case PredicateNameGradeExactlyOne:
		return GradeExactlyOne(), nil
	case PredicateNamePositiveAmount:
		return PositiveAmount(), nil
	default:
		return Predicate{}, fmt.Errorf("%w: pass predicate %q", ErrUnknownPolicy, name)
	}
}

// NullGradePolicy decides how ungraded rows count under a grade predicate.
type NullGradePolicy string

// Null-grade policies.
const (
	NullAsFail NullGradePolicy = "fail"
	NullSkip   NullGradePolicy = "skip"
)

// ParseNullGradePolicy resolves a null-grade policy by name.
func ParseNullGradePolicy(name string) (NullGradePolicy, error) {
	switch p := NullGradePolicy(name); p {
	case NullAsFail, NullSkip:
		return p, nil
	default:
		return "", fmt.Errorf("%w: null grade policy %q", ErrUnknownPolicy, name)
	}
}

// PassFail holds pass/fail counts over final rows.
type PassFail struct {
	Passed int `json:"passed" yaml:"passed"`
	Failed int `json:"failed" yaml:"failed"`
}

// Total returns the number of counted rows.
func (p PassFail) Total() int {
	return p.Passed + p.Failed
}

// PassFailCounts counts passed and failed rows.
func PassFailCounts(final []Row, pass Predicate, nulls NullGradePolicy) PassFail {
	var counts PassFail

	for _, r := range final {
		if pass.GradeBased && !r.HasGrade() && nulls == NullSkip {
			continue
		}

		if pass.Pass(r) {
			counts.Passed++
		} else {
			counts.Failed++
		}
	}

	return counts
}

// Percent returns part/total as a rounded percentage, or 0 when total is 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}

	return int(math.Round(float64(part) / float64(total) * percentScale))
}

// MaxGrade returns the highest grade among rows. ok is false when no row is graded.
func MaxGrade(rows []Row) (highest float64, ok bool) {
	for _, r := range rows {
		if !r.HasGrade() {
			continue
		}

		if !ok || *r.Grade > highest {
			highest = *r.Grade
			ok = true
		}
	}

	return highest, ok
}

// Level is the floor of the highest grade, or 0 with no graded rows.
func Level(rows []Row) int {
	highest, ok := MaxGrade(rows)
	if !ok {
		return 0
	}

	return int(math.Floor(highest))
}

// TopGrades returns graded rows sorted by grade descending, at most limit of
// them. A non-positive limit returns all graded rows.
func TopGrades(rows []Row, limit int) []Row {
	graded := make([]Row, 0, len(rows))

	for _, r := range rows {
		if r.HasGrade() {
			graded = append(graded, r)
		}
	}

	slices.SortStableFunc(graded, func(a, b Row) int {
		return cmp.Compare(*b.Grade, *a.Grade)
	})

	if limit > 0 && len(graded) > limit {
		graded = graded[:limit]
	}

	return graded
}

// LastActivity returns the latest CreatedAt among rows, or the zero time.
func LastActivity(rows ...[]Row) time.Time {
	var latest time.Time

	for _, set := range rows {
		for _, r := range set {
			if r.CreatedAt.After(latest) {
				latest = r.CreatedAt
			}
		}
	}

	return latest
}
