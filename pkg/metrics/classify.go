package metrics

import (
	"strings"
)

// Category is the label derived from a row path.
type Category string

// Categories, in classification priority order after the substring checks.
const (
	CategoryProject    Category = "project"
	CategoryPiscine    Category = "piscine"
	CategoryCheckpoint Category = "checkpoint"
	CategoryExam       Category = "exam"
	CategoryRush       Category = "rush"
	CategoryOnboarding Category = "onboarding"
	CategoryOther      Category = "other"
)

// ProjectMinSegments is the smallest number of non-empty path segments a project path has.
const ProjectMinSegments = 3

// exclusionOrder is the fixed priority order of the exclusion substrings.
var exclusionOrder = []Category{
	CategoryPiscine,
	CategoryCheckpoint,
	CategoryExam,
	CategoryRush,
	CategoryOnboarding,
}

// Classify labels a path. The first exclusion substring found wins; otherwise a
// path with at least ProjectMinSegments segments is a project.
func Classify(path string) Category {
	lower := strings.ToLower(path)

	for _, c := range exclusionOrder {
		if strings.Contains(lower, string(c)) {
			return c
		}
	}

	if countSegments(lower) >= ProjectMinSegments {
		return CategoryProject
	}

	return CategoryOther
}

// countSegments counts the "/"-delimited segments of path, ignoring empty ones.
func countSegments(path string) int {
	n := 0

	for seg := range strings.SplitSeq(path, "/") {
		if seg != "" {
			n++
		}
	}

	return n
}

// Rule decides whether a path belongs to a row set.
type Rule interface {
	Match(path string) bool
}

// ProjectRule matches paths that contain none of Exclude and have at least
// MinSegments non-empty segments.
type ProjectRule struct {
	Exclude     []string
	MinSegments int
}

// Match implements Rule.
func (r ProjectRule) Match(path string) bool {
	lower := strings.ToLower(path)

	for _, ex := range r.Exclude {
		if strings.Contains(lower, strings.ToLower(ex)) {
			return false
		}
	}

	return countSegments(lower) >= r.MinSegments
}

// IncludeRule matches paths containing any of Include.
type IncludeRule struct {
	Include []string
}

// Match implements Rule.
func (r IncludeRule) Match(path string) bool {
	lower := strings.ToLower(path)

	for _, in := range r.Include {
		if strings.Contains(lower, strings.ToLower(in)) {
			return true
		}
	}

	return false
}

// DefaultProjectRule is the strict project rule: every exclusion substring and
// ProjectMinSegments segments.
func DefaultProjectRule() ProjectRule {
	exclude := make([]string, 0, len(exclusionOrder))
	for _, c := range exclusionOrder {
		exclude = append(exclude, string(c))
	}

	return ProjectRule{Exclude: exclude, MinSegments: ProjectMinSegments}
}

// DefaultPiscineRule matches piscine and checkpoint paths.
func DefaultPiscineRule() IncludeRule {
	return IncludeRule{Include: []string{string(CategoryPiscine), string(CategoryCheckpoint)}}
}

// Filter returns the rows whose path matches rule, preserving order.
func Filter(rows []Row, rule Rule) []Row {
	var result []Row

	for _, r := range rows {
		if rule.Match(r.Path) {
			result = append(result, r)
		}
	}

	return result
}
