package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/triagestack/triage-engine/internal/models"
)

// frameworkPriorityBand is the implicit boost applied to framework-scoped
// rules so they always outrank the generic pack at equal configured
// priority.
const frameworkPriorityBand = 1000

// genericPack names the fallback pack evaluated for every framework.
const genericPack = "generic"

// Rule is one configured pattern-to-failure-type mapping. Rules are data,
// never code: a rule fires when any match_any entry hits and every
// match_all entry (if present) also hits.
type Rule struct {
	ID          string   `yaml:"id"`
	Description string   `yaml:"description"`
	MatchAny    []string `yaml:"match_any"`
	MatchAll    []string `yaml:"match_all,omitempty"`
	FailureType string   `yaml:"failure_type"`
	Confidence  float64  `yaml:"confidence"`
	Priority    int      `yaml:"priority"`
}

// RulePackFile is the YAML root structure: packs keyed by framework name,
// with "generic" always evaluated as the lowest band.
type RulePackFile struct {
	Packs map[string][]Rule `yaml:"packs"`
}

// RuleSet holds validated rule packs, read-only after load and safe for
// concurrent use.
type RuleSet struct {
	packs  map[string][]Rule
	logger *slog.Logger
}

// LoadRuleSet reads rule packs from a YAML file. A missing or malformed
// file never fails the call: the built-in generic pack is substituted and
// the degradation is reported through the returned warnings.
func LoadRuleSet(path string, logger *slog.Logger) (*RuleSet, []string) {
	if logger == nil {
		logger = slog.Default()
	}
	set := &RuleSet{packs: map[string][]Rule{genericPack: BuiltinRules()}, logger: logger}

	if path == "" {
		return set, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return set, []string{fmt.Sprintf("rule file %s not found, using built-in rules", path)}
		}
		return set, []string{fmt.Sprintf("rule file %s unreadable (%v), using built-in rules", path, err)}
	}

	var file RulePackFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return set, []string{fmt.Sprintf("rule file %s malformed (%v), using built-in rules", path, err)}
	}
	if len(file.Packs) == 0 {
		return set, []string{fmt.Sprintf("rule file %s contains no packs, using built-in rules", path)}
	}

	var warnings []string
	packs := make(map[string][]Rule, len(file.Packs))
	for framework, rules := range file.Packs {
		valid := make([]Rule, 0, len(rules))
		for _, rule := range rules {
			if err := validateRule(rule); err != nil {
				warnings = append(warnings, fmt.Sprintf("rule %q in pack %q skipped: %v", rule.ID, framework, err))
				continue
			}
			valid = append(valid, rule)
		}
		if len(valid) > 0 {
			packs[framework] = valid
		}
	}
	if _, ok := packs[genericPack]; !ok {
		packs[genericPack] = BuiltinRules()
		warnings = append(warnings, "no generic pack configured, using built-in generic rules")
	}

	set.packs = packs
	return set, warnings
}

func validateRule(rule Rule) error {
	if rule.ID == "" {
		return fmt.Errorf("missing id")
	}
	if len(rule.MatchAny) == 0 {
		return fmt.Errorf("match_any is empty")
	}
	if _, ok := models.ParseFailureType(rule.FailureType); !ok {
		return fmt.Errorf("unknown failure_type %q", rule.FailureType)
	}
	if rule.Confidence < 0 || rule.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0,1]", rule.Confidence)
	}
	return nil
}

// ForFramework returns the rules to evaluate for one framework: the
// framework pack lifted into a higher priority band, followed by the
// generic pack. The returned slice is a copy.
func (s *RuleSet) ForFramework(framework string) []Rule {
	generic := s.packs[genericPack]
	scoped := s.packs[framework]

	rules := make([]Rule, 0, len(generic)+len(scoped))
	for _, rule := range scoped {
		rule.Priority += frameworkPriorityBand
		rules = append(rules, rule)
	}
	rules = append(rules, generic...)
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Priority > rules[j].Priority })
	return rules
}

// Frameworks lists the configured pack names.
func (s *RuleSet) Frameworks() []string {
	names := make([]string, 0, len(s.packs))
	for name := range s.packs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuiltinRules is the bounded fallback pack used when no configuration is
// available. It mirrors the shipped configs/rules/default.yaml generic pack.
func BuiltinRules() []Rule {
	return []Rule{
		{
			ID:          "generic-locator-not-found",
			Description: "Element or selector could not be located; the UI moved under the automation",
			MatchAny:    []string{"NoSuchElement", "Unable to locate element", "selector not found", "element not interactable", "stale element reference", "strict mode violation"},
			FailureType: string(models.AutomationDefect),
			Confidence:  0.90,
			Priority:    80,
		},
		{
			ID:          "generic-assertion-with-server-error",
			Description: "Assertion failed against a 5xx response; the product misbehaved",
			MatchAny:    []string{"AssertionError", "assertion failed", "expected"},
			MatchAll:    []string{`re:\b5\d{2}\b`},
			FailureType: string(models.ProductDefect),
			Confidence:  0.85,
			Priority:    90,
		},
		{
			ID:          "generic-infrastructure",
			Description: "Host-level failure: disk, memory, container, or network partition",
			MatchAny:    []string{"no space left on device", "out of memory", "OOMKilled", "CrashLoopBackOff", "network is unreachable", "network partition"},
			FailureType: string(models.EnvironmentIssue),
			Confidence:  0.85,
			Priority:    85,
		},
		{
			ID:          "generic-assertion",
			Description: "Assertion failure without infrastructure noise",
			MatchAny:    []string{"AssertionError", "assertion failed", "ComparisonFailure", "expected"},
			FailureType: string(models.ProductDefect),
			Confidence:  0.75,
			Priority:    60,
		},
		{
			ID:          "generic-connection-refused",
			Description: "Dependency unreachable from the test runner",
			MatchAny:    []string{"connection refused", "ECONNREFUSED", "ECONNRESET", "connection reset by peer"},
			FailureType: string(models.EnvironmentIssue),
			Confidence:  0.70,
			Priority:    55,
		},
		{
			ID:          "generic-timeout",
			Description: "Operation timed out; usually a slow or saturated environment",
			MatchAny:    []string{"timed out", "TimeoutException", "TimeoutError", "deadline exceeded", "exceeded"},
			FailureType: string(models.EnvironmentIssue),
			Confidence:  0.65,
			Priority:    50,
		},
		{
			ID:          "generic-configuration",
			Description: "Missing or invalid configuration surfaced at runtime",
			MatchAny:    []string{"missing required property", "environment variable not set", "invalid configuration", "no such file or directory", "config not found"},
			FailureType: string(models.ConfigurationIssue),
			Confidence:  0.70,
			Priority:    45,
		},
		{
			ID:          "generic-http-5xx",
			Description: "Server error response without an accompanying assertion",
			MatchAny:    []string{`re:HTTP/\d(?:\.\d)?\s+5\d{2}`, "500 Internal Server Error", "502 Bad Gateway", "503 Service Unavailable", `re:status code 5\d{2}`},
			FailureType: string(models.ProductDefect),
			Confidence:  0.60,
			Priority:    40,
		},
	}
}
