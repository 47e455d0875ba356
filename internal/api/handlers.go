package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/services"
	"github.com/triagestack/triage-engine/internal/utils"
)

func registerHandlers(mux *http.ServeMux, service *services.TriageService) {
	mux.HandleFunc("POST /api/v1/analyze", handleAnalyze(service))
	mux.HandleFunc("POST /api/v1/analyze/batch", handleAnalyzeBatch(service))
	mux.HandleFunc("GET /healthz", handleHealth)
}

func handleAnalyze(service *services.TriageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var item models.AnalysisItem
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := service.AnalyzeLog(r.Context(), item)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleAnalyzeBatch(service *services.TriageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Items []models.AnalysisItem `json:"items"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		resp, err := service.AnalyzeBatch(r.Context(), req.Items)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "SERVING"})
}

func writeServiceError(w http.ResponseWriter, err error) {
	var appErr *utils.AppError
	if errors.As(err, &appErr) && appErr.Err == nil {
		// Validation failures carry no wrapped cause.
		writeError(w, http.StatusBadRequest, appErr.Msg)
		return
	}
	writeError(w, http.StatusInternalServerError, "analysis failed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
