package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triagestack/triage-engine/internal/analyzer"
	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/services"
)

func testMux(t *testing.T) *http.ServeMux {
	t.Helper()
	service := services.NewTriageService(nil, analyzer.New(nil, nil, nil, nil, nil))
	mux := http.NewServeMux()
	registerHandlers(mux, service)
	return mux
}

func decodeBody(rec *httptest.ResponseRecorder, target any) error {
	return json.NewDecoder(rec.Body).Decode(target)
}

func TestAnalyzeEndpoint(t *testing.T) {
	mux := testMux(t)
	body := `{"test_name":"login","raw_log":"NoSuchElementException: Unable to locate element"}`

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result models.AnalysisResult
	require.NoError(t, decodeBody(rec, &result))
	assert.Equal(t, models.AutomationDefect, result.Classification.FailureType)
	assert.NotEmpty(t, result.ID)
}

func TestAnalyzeEndpointRejectsBadJSON(t *testing.T) {
	mux := testMux(t)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader("{not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeEndpointRejectsMissingTestName(t *testing.T) {
	mux := testMux(t)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{"raw_log":"boom"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_name is required")
}

func TestBatchEndpoint(t *testing.T) {
	mux := testMux(t)
	body := `{"items":[
		{"test_name":"a","raw_log":"AssertionError: expected 200 but got 500"},
		{"test_name":"b","raw_log":"connection refused"}
	]}`

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/analyze/batch", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp services.BatchResponse
	require.NoError(t, decodeBody(rec, &resp))
	assert.Len(t, resp.Results, 2)
	assert.Equal(t, 2, resp.Summary.Total)
	assert.Equal(t, "a", resp.Results[0].TestName)
	assert.Equal(t, "b", resp.Results[1].TestName)
}

func TestBatchEndpointRejectsEmptyItems(t *testing.T) {
	mux := testMux(t)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/analyze/batch", strings.NewReader(`{"items":[]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	mux := testMux(t)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SERVING")
}

func TestAnalyzeEndpointRejectsGet(t *testing.T) {
	mux := testMux(t)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyze", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
