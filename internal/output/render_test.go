package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/services"
)

func sampleResult() models.AnalysisResult {
	return models.AnalysisResult{
		ID:        "r-1",
		TestName:  "login_submits",
		Framework: "playwright",
		Classification: models.FailureClassification{
			FailureType:   models.AutomationDefect,
			Confidence:    0.9,
			MatchedRuleID: "generic-locator-not-found",
			Evidence:      []string{"NoSuchElementException: Unable to locate element"},
			CodeReference: &models.CodeReference{
				RepoPath: "tests/login.spec.ts",
				Line:     12,
				Function: "submitForm",
			},
		},
		Warnings: []string{"rule pack degraded"},
	}
}

func TestRendererJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(ModeJSON, &buf).Result(sampleResult()))

	var decoded models.AnalysisResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "login_submits", decoded.TestName)
	assert.Equal(t, models.AutomationDefect, decoded.Classification.FailureType)
}

func TestRendererHumanResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(ModeHuman, &buf).Result(sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "login_submits")
	assert.Contains(t, out, "AUTOMATION_DEFECT")
	assert.Contains(t, out, "generic-locator-not-found")
	assert.Contains(t, out, "tests/login.spec.ts:12")
	assert.Contains(t, out, "warning: rule pack degraded")
}

func TestRendererBatchIncludesSummary(t *testing.T) {
	resp := services.BatchResponse{
		Results: []models.AnalysisResult{sampleResult()},
		Summary: models.Summary{
			Total:       1,
			Counts:      map[models.FailureType]int{models.AutomationDefect: 1},
			Percentages: map[models.FailureType]float64{models.AutomationDefect: 100},
			Cascades: []models.CascadeGroup{{
				Signature: "generic-locator-not-found|nosuchelement",
				RuleID:    "generic-locator-not-found",
				TestNames: []string{"a", "b"},
			}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(ModeHuman, &buf).Batch(resp))

	out := buf.String()
	assert.Contains(t, out, "Summary (1 failures)")
	assert.Contains(t, out, "cascade: 2 tests share generic-locator-not-found")
}

func TestRendererUnknownModeFallsBackToHuman(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(Mode("yaml"), &buf)
	require.NoError(t, r.Result(sampleResult()))
	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Fatal("expected human output, got JSON")
	}
}
