// mock-provider is a local stand-in for an AI enhancement endpoint. It
// returns canned suggestions keyed off the evidence it receives, which is
// enough to exercise the engine's fail-open and clamping behaviour.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
)

type suggestRequest struct {
	FailureType string   `json:"failure_type"`
	Confidence  float64  `json:"confidence"`
	Evidence    []string `json:"evidence"`
	Context     string   `json:"context"`
}

type suggestion struct {
	Note            string  `json:"note"`
	ConfidenceDelta float64 `json:"confidence_delta"`
	FailureType     string  `json:"failure_type,omitempty"`
}

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /suggest", func(w http.ResponseWriter, r *http.Request) {
		var req suggestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeJSON(w, suggest(req))
	})

	logger := log.New(log.Writer(), "mock-provider ", log.LstdFlags|log.Lmicroseconds)
	srv := &http.Server{
		Addr:    ":8090",
		Handler: logRequests(logger, mux),
	}

	logger.Println("listening on :8090")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server error: %v", err)
	}
}

func suggest(req suggestRequest) suggestion {
	corpus := strings.ToLower(strings.Join(req.Evidence, "\n"))

	switch {
	case strings.Contains(corpus, "nosuchelement") || strings.Contains(corpus, "locator"):
		return suggestion{
			Note:            "Selector drift: the element id changed in a recent frontend deploy.",
			ConfidenceDelta: 0.05,
		}
	case strings.Contains(corpus, "timed out") || strings.Contains(corpus, "timeout"):
		return suggestion{
			Note:            "Latency spike on the shared staging cluster during this run window.",
			ConfidenceDelta: 0.03,
			// A type change the engine must refuse to apply.
			FailureType: "PRODUCT_DEFECT",
		}
	case strings.Contains(corpus, "assertion"):
		return suggestion{
			Note:            "Response body diverges from the v2 contract introduced last sprint.",
			ConfidenceDelta: 0.08,
		}
	default:
		return suggestion{
			Note:            "No additional signal found.",
			ConfidenceDelta: -0.25, // deliberately out of bounds to exercise clamping
		}
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func logRequests(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rw.status, time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
