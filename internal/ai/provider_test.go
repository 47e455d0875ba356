package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPProviderSuggest(t *testing.T) {
	var gotAuth string
	var gotReq Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(Suggestion{Note: "contract drift", ConfidenceDelta: 0.05})
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL, "secret-key", time.Second)
	suggestion, err := provider.Suggest(context.Background(), Request{
		FailureType: "PRODUCT_DEFECT",
		Confidence:  0.75,
		Evidence:    []string{"AssertionError"},
		Context:     "raw log",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if suggestion.Note != "contract drift" || suggestion.ConfidenceDelta != 0.05 {
		t.Fatalf("unexpected suggestion: %+v", suggestion)
	}
	if gotAuth != "Bearer secret-key" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}
	if gotReq.FailureType != "PRODUCT_DEFECT" {
		t.Fatalf("unexpected request payload: %+v", gotReq)
	}
}

func TestHTTPProviderNon200IsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL, "", time.Second)
	if _, err := provider.Suggest(context.Background(), Request{}); err == nil {
		t.Fatal("expected error on 502 response")
	}
}

func TestHTTPProviderUnconfigured(t *testing.T) {
	provider := NewHTTPProvider("", "", 0)
	if _, err := provider.Suggest(context.Background(), Request{}); err == nil {
		t.Fatal("expected error for missing endpoint")
	}
}
