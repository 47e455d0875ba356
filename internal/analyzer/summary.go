package analyzer

import (
	"sort"
	"strings"

	"github.com/triagestack/triage-engine/internal/models"
)

// cascadeMinSize is the smallest group of identical signatures worth
// flagging as a cascade.
const cascadeMinSize = 2

// patternLimit bounds how many recurring patterns a summary reports.
const patternLimit = 5

// detectCascades groups results sharing one failure signature: same rule
// and same leading evidence fragment. One root failure knocking over a
// suite reads as a single problem instead of N independent ones.
func detectCascades(results []models.AnalysisResult) []models.CascadeGroup {
	groups := make(map[string]*models.CascadeGroup)
	order := make([]string, 0)

	for _, result := range results {
		cls := result.Classification
		if cls.FailureType == models.Unknown || cls.MatchedRuleID == "" {
			continue
		}
		signature := cascadeSignature(cls)
		group, ok := groups[signature]
		if !ok {
			group = &models.CascadeGroup{Signature: signature, RuleID: cls.MatchedRuleID}
			groups[signature] = group
			order = append(order, signature)
		}
		group.TestNames = append(group.TestNames, result.TestName)
	}

	cascades := make([]models.CascadeGroup, 0)
	for _, signature := range order {
		if group := groups[signature]; len(group.TestNames) >= cascadeMinSize {
			cascades = append(cascades, *group)
		}
	}
	return cascades
}

func cascadeSignature(cls models.FailureClassification) string {
	fragment := ""
	if len(cls.Evidence) > 0 {
		fragment = strings.ToLower(strings.TrimSpace(cls.Evidence[0]))
	}
	return cls.MatchedRuleID + "|" + fragment
}

// minePatterns aggregates recurring rule hits across the batch, most
// frequent first, ties broken by rule id for determinism.
func minePatterns(results []models.AnalysisResult) []models.PatternSummary {
	type aggregate struct {
		summary models.PatternSummary
	}
	byRule := make(map[string]*aggregate)

	for _, result := range results {
		cls := result.Classification
		if cls.MatchedRuleID == "" {
			continue
		}
		agg, ok := byRule[cls.MatchedRuleID]
		if !ok {
			agg = &aggregate{summary: models.PatternSummary{
				RuleID:      cls.MatchedRuleID,
				FailureType: cls.FailureType,
			}}
			byRule[cls.MatchedRuleID] = agg
		}
		agg.summary.Occurrences++
		if agg.summary.Example == "" && len(cls.Evidence) > 0 {
			agg.summary.Example = cls.Evidence[0]
		}
	}

	patterns := make([]models.PatternSummary, 0, len(byRule))
	for _, agg := range byRule {
		patterns = append(patterns, agg.summary)
	}
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Occurrences != patterns[j].Occurrences {
			return patterns[i].Occurrences > patterns[j].Occurrences
		}
		return patterns[i].RuleID < patterns[j].RuleID
	})
	if len(patterns) > patternLimit {
		patterns = patterns[:patternLimit]
	}
	return patterns
}
