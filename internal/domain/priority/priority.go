// Package priority orders detected flaws into a bounded fix list.
package priority

import (
	"sort"

	"github.com/okian/shotform/internal/domain/flaws"
)

// PriorityIssue is a FormIssue with its 1-based rank and recommended action.
type PriorityIssue struct {
	flaws.FormIssue
	Rank           int    `json:"rank"`
	Recommendation string `json:"recommendation"`
}

// severityOrder puts critical first. Unknown severities sort last.
func severityOrder(s flaws.Severity) int {
	switch s {
	case flaws.SeverityCritical:
		return 0
	case flaws.SeverityModerate:
		return 1
	case flaws.SeverityMinor:
		return 2
	default:
		return 3
	}
}

// Rank orders issues critical, moderate, minor, keeping detection order on
// ties, and annotates them with dense ranks. limit <= 0 keeps every issue.
// The input slice is not modified.
func Rank(issues []flaws.FormIssue, limit int) []PriorityIssue {
	sorted := append([]flaws.FormIssue(nil), issues...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return severityOrder(sorted[i].Severity) < severityOrder(sorted[j].Severity)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]PriorityIssue, len(sorted))
	for i, is := range sorted {
		out[i] = PriorityIssue{
			FormIssue:      is,
			Rank:           i + 1,
			Recommendation: recommendation(is),
		}
	}
	return out
}

func recommendation(is flaws.FormIssue) string {
	if is.Kind != flaws.KindNone {
		return is.Kind.Recommendation()
	}
	return flaws.RecommendationFor(is.Title)
}
