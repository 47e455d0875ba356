package engine

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/triagestack/triage-engine/internal/models"
)

// evidenceFragmentLimit bounds each evidence fragment for display.
const evidenceFragmentLimit = 200

// regexPrefix marks a match term as a regular expression rather than a
// plain substring.
const regexPrefix = "re:"

var (
	regexCacheMu sync.RWMutex
	regexCache   = map[string]*regexp.Regexp{}
)

// Classify maps extracted signals to one classification using the supplied
// rules. It is a pure function over (signals, rules): identical input
// always yields identical output. An empty rule slice falls back to the
// built-in generic pack; no firing rule yields UNKNOWN with zero
// confidence, which is a valid terminal outcome.
func Classify(signals []models.FailureSignal, rules []Rule) models.FailureClassification {
	if len(rules) == 0 {
		rules = BuiltinRules()
	}

	corpus := buildCorpus(signals)

	var firing []Rule
	for _, rule := range rules {
		// Loaded packs are validated, but rules can also arrive directly;
		// a rule without a parsable failure type can never win.
		if _, ok := models.ParseFailureType(rule.FailureType); !ok {
			continue
		}
		if ruleFires(corpus, rule) {
			firing = append(firing, rule)
		}
	}

	if len(firing) == 0 {
		return models.FailureClassification{
			FailureType: models.Unknown,
			Confidence:  0.0,
			Evidence:    []string{},
		}
	}

	// Deterministic winner: priority desc, confidence desc, id asc.
	sort.SliceStable(firing, func(i, j int) bool {
		if firing[i].Priority != firing[j].Priority {
			return firing[i].Priority > firing[j].Priority
		}
		if firing[i].Confidence != firing[j].Confidence {
			return firing[i].Confidence > firing[j].Confidence
		}
		return firing[i].ID < firing[j].ID
	})
	winner := firing[0]

	failureType, _ := models.ParseFailureType(winner.FailureType)
	return models.FailureClassification{
		FailureType:   failureType,
		Confidence:    winner.Confidence,
		MatchedRuleID: winner.ID,
		Evidence:      collectEvidence(signals, winner),
	}
}

func buildCorpus(signals []models.FailureSignal) string {
	var b strings.Builder
	for _, signal := range signals {
		b.WriteString(signal.MatchedText)
		b.WriteString("\n")
	}
	return b.String()
}

func ruleFires(corpus string, rule Rule) bool {
	anyHit := false
	for _, term := range rule.MatchAny {
		if matchTerm(corpus, term) {
			anyHit = true
			break
		}
	}
	if !anyHit {
		return false
	}
	for _, term := range rule.MatchAll {
		if !matchTerm(corpus, term) {
			return false
		}
	}
	return true
}

// matchTerm matches a rule term against text: terms with the "re:" prefix
// are regular expressions, everything else is a case-insensitive
// substring. An uncompilable expression degrades to a literal match.
func matchTerm(text, term string) bool {
	if expr, ok := strings.CutPrefix(term, regexPrefix); ok {
		if re := compileCached(expr); re != nil {
			return re.MatchString(text)
		}
		term = expr
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(term))
}

func compileCached(expr string) *regexp.Regexp {
	regexCacheMu.RLock()
	re, ok := regexCache[expr]
	regexCacheMu.RUnlock()
	if ok {
		return re
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		re = nil
	}
	regexCacheMu.Lock()
	regexCache[expr] = re
	regexCacheMu.Unlock()
	return re
}

// collectEvidence gathers the matched_text of every signal that satisfies
// at least one of the winning rule's terms, preserving signal order and
// truncating fragments for display.
func collectEvidence(signals []models.FailureSignal, winner Rule) []string {
	terms := make([]string, 0, len(winner.MatchAny)+len(winner.MatchAll))
	terms = append(terms, winner.MatchAny...)
	terms = append(terms, winner.MatchAll...)

	evidence := make([]string, 0, len(signals))
	for _, signal := range signals {
		for _, term := range terms {
			if matchTerm(signal.MatchedText, term) {
				evidence = append(evidence, truncate(signal.MatchedText, evidenceFragmentLimit))
				break
			}
		}
	}
	return evidence
}

func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	// Back off to a rune boundary so the cut never splits a multi-byte
	// character.
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
