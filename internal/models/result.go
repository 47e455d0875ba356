package models

import "time"

// AnalysisItem is one unit of work for the analyzer: a raw log plus the
// identity of the test that produced it.
type AnalysisItem struct {
	TestName  string `json:"test_name"`
	Framework string `json:"framework"`
	RawLog    string `json:"raw_log"`
}

// AnalysisResult wraps one test's classification plus pipeline metadata.
// It is the only mutable entity in the pipeline: stages fill fields in
// order as the result passes through.
type AnalysisResult struct {
	ID             string                `json:"id"`
	TestName       string                `json:"test_name"`
	Framework      string                `json:"framework"`
	Classification FailureClassification `json:"classification"`
	Warnings       []string              `json:"warnings,omitempty"`
	Duration       time.Duration         `json:"-"`
	DurationMS     int64                 `json:"duration_ms"`
	CreatedAt      time.Time             `json:"created_at"`
}

// AddWarning records a non-fatal stage degradation.
func (r *AnalysisResult) AddWarning(msg string) {
	if msg == "" {
		return
	}
	r.Warnings = append(r.Warnings, msg)
}

// Summary aggregates a batch of results per failure type.
type Summary struct {
	Total       int                     `json:"total"`
	Counts      map[FailureType]int     `json:"counts"`
	Percentages map[FailureType]float64 `json:"percentages"`
	Cascades    []CascadeGroup          `json:"cascades,omitempty"`
	Patterns    []PatternSummary        `json:"patterns,omitempty"`
}

// CascadeGroup marks a set of results that share one failure signature,
// usually a single root failure knocking over dependent tests.
type CascadeGroup struct {
	Signature string   `json:"signature"`
	RuleID    string   `json:"rule_id,omitempty"`
	TestNames []string `json:"test_names"`
}

// PatternSummary describes a recurring rule/evidence signature in a batch.
type PatternSummary struct {
	RuleID      string      `json:"rule_id"`
	FailureType FailureType `json:"failure_type"`
	Occurrences int         `json:"occurrences"`
	Example     string      `json:"example,omitempty"`
}
