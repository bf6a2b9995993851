package metrics

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

// Audit feedback labels.
const (
	FeedbackLow      = "You can do better!"
	FeedbackBalanced = "Balanced"
	FeedbackHigh     = "Great contribution!"
)

// Audit ratio boundaries: below low is FeedbackLow, above high is FeedbackHigh.
const (
	auditRatioLow  = 1.0
	auditRatioHigh = 1.2
)

// AuditFeedback labels an audit ratio. An infinite ratio has nothing to
// compare against and reads as balanced.
func AuditFeedback(ratio float64) string {
	if math.IsInf(ratio, 0) || math.IsNaN(ratio) {
		return FeedbackBalanced
	}

	switch {
	case ratio < auditRatioLow:
		return FeedbackLow
	case ratio > auditRatioHigh:
		return FeedbackHigh
	default:
		return FeedbackBalanced
	}
}

// SkillOther is the skill label of paths with no recognized skill segment.
const SkillOther = "other"

var skillKeywords = []string{"go", "js", "javascript", "shell"}

// SkillOf returns the first path segment naming a skill keyword, or SkillOther.
func SkillOf(path string) string {
	for seg := range strings.SplitSeq(strings.ToLower(path), "/") {
		if seg == "" {
			continue
		}

		for _, kw := range skillKeywords {
			if strings.Contains(seg, kw) {
				return seg
			}
		}
	}

	return SkillOther
}

// SkillTotal is the XP earned under one skill label.
type SkillTotal struct {
	Skill  string `json:"skill"  yaml:"skill"`
	Amount int64  `json:"amount" yaml:"amount"`
}

// XPBySkill sums amounts per skill, sorted by amount descending then label.
func XPBySkill(rows []Row) []SkillTotal {
	totals := make(map[string]int64)

	for _, r := range rows {
		totals[SkillOf(r.Path)] += r.Amount
	}

	result := make([]SkillTotal, 0, len(totals))
	for skill, amount := range totals {
		result = append(result, SkillTotal{Skill: skill, Amount: amount})
	}

	slices.SortFunc(result, func(a, b SkillTotal) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}

		return cmp.Compare(a.Skill, b.Skill)
	})

	return result
}
