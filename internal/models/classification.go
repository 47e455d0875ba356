package models

// FailureType is the triage taxonomy for a classified failure.
type FailureType string

const (
	ProductDefect      FailureType = "PRODUCT_DEFECT"
	AutomationDefect   FailureType = "AUTOMATION_DEFECT"
	EnvironmentIssue   FailureType = "ENVIRONMENT_ISSUE"
	ConfigurationIssue FailureType = "CONFIGURATION_ISSUE"
	Unknown            FailureType = "UNKNOWN"
)

// ParseFailureType maps a string onto a FailureType, reporting whether the
// value names a known taxonomy entry.
func ParseFailureType(value string) (FailureType, bool) {
	switch FailureType(value) {
	case ProductDefect, AutomationDefect, EnvironmentIssue, ConfigurationIssue, Unknown:
		return FailureType(value), true
	default:
		return Unknown, false
	}
}

// CodeReference points at the resolved source location for a failure.
type CodeReference struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Snippet  string `json:"snippet,omitempty"`
	Function string `json:"function,omitempty"`
	// RepoPath is the workspace-relative form of File when File sits under
	// the configured workspace root.
	RepoPath string `json:"repo_path,omitempty"`
}

// FailureClassification is the classifier verdict for one failure.
// CodeReference and AINote are attached by later pipeline stages; the type,
// confidence, rule id, and evidence are final once classification returns.
type FailureClassification struct {
	FailureType   FailureType    `json:"failure_type"`
	Confidence    float64        `json:"confidence"`
	MatchedRuleID string         `json:"matched_rule_id,omitempty"`
	Evidence      []string       `json:"evidence"`
	CodeReference *CodeReference `json:"code_reference"`
	AINote        string         `json:"ai_note,omitempty"`
}
