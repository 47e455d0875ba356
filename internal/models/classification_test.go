package models

import "testing"

func TestParseFailureType(t *testing.T) {
	for _, known := range []string{"PRODUCT_DEFECT", "AUTOMATION_DEFECT", "ENVIRONMENT_ISSUE", "CONFIGURATION_ISSUE", "UNKNOWN"} {
		ft, ok := ParseFailureType(known)
		if !ok {
			t.Fatalf("expected %q to parse", known)
		}
		if string(ft) != known {
			t.Fatalf("expected %q, got %q", known, ft)
		}
	}

	ft, ok := ParseFailureType("FLAKY")
	if ok {
		t.Fatal("expected unknown value to be rejected")
	}
	if ft != Unknown {
		t.Fatalf("expected UNKNOWN fallback, got %q", ft)
	}
}

func TestAddWarningSkipsEmpty(t *testing.T) {
	var result AnalysisResult
	result.AddWarning("")
	result.AddWarning("rule pack degraded")
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(result.Warnings))
	}
}
