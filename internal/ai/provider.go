// Package ai holds the optional enhancement provider client. The engine
// treats providers as untrusted: their suggestions are post-checked and
// bounded before anything reaches a result.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Request is the payload sent to the enhancement provider.
type Request struct {
	FailureType string   `json:"failure_type"`
	Confidence  float64  `json:"confidence"`
	Evidence    []string `json:"evidence"`
	Context     string   `json:"context"`
}

// Suggestion is a provider response. FailureType is advisory only; the
// engine discards any attempt to change the classified type.
type Suggestion struct {
	Note            string  `json:"note"`
	ConfidenceDelta float64 `json:"confidence_delta"`
	FailureType     string  `json:"failure_type,omitempty"`
}

// Provider produces enhancement suggestions for a classification.
type Provider interface {
	Suggest(ctx context.Context, req Request) (Suggestion, error)
}

// HTTPProvider talks to an enhancement endpoint over HTTP JSON.
type HTTPProvider struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPProvider constructs a provider client with an explicit timeout.
func NewHTTPProvider(endpoint, apiKey string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPProvider{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Suggest posts the request and decodes the provider's suggestion.
func (p *HTTPProvider) Suggest(ctx context.Context, req Request) (Suggestion, error) {
	if p == nil || p.endpoint == "" {
		return Suggestion{}, fmt.Errorf("enhancement provider not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Suggestion{}, fmt.Errorf("marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return Suggestion{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return Suggestion{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Suggestion{}, fmt.Errorf("enhancement provider returned %s", resp.Status)
	}

	var suggestion Suggestion
	if err := json.NewDecoder(resp.Body).Decode(&suggestion); err != nil {
		return Suggestion{}, fmt.Errorf("decode suggestion: %w", err)
	}
	return suggestion, nil
}
