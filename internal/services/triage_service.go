package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/triagestack/triage-engine/internal/analyzer"
	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/utils"
)

// TriageService is the serving facade over the analyzer: it validates
// requests, tracks latency, and shapes batch responses.
type TriageService struct {
	logger    *slog.Logger
	analyzer  *analyzer.Analyzer
	latencies *utils.LatencyTracker
}

// BatchResponse pairs batch results with their aggregate summary.
type BatchResponse struct {
	Results []models.AnalysisResult `json:"results"`
	Summary models.Summary          `json:"summary"`
}

// NewTriageService constructs the service facade.
func NewTriageService(logger *slog.Logger, a *analyzer.Analyzer) *TriageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TriageService{
		logger:    logger,
		analyzer:  a,
		latencies: utils.NewLatencyTracker(1024),
	}
}

// AnalyzeLog classifies a single failure log.
func (s *TriageService) AnalyzeLog(ctx context.Context, item models.AnalysisItem) (models.AnalysisResult, error) {
	if s.analyzer == nil {
		return models.AnalysisResult{}, utils.NewAppError("AnalyzeLog", "analyzer not configured", nil)
	}
	if item.TestName == "" {
		return models.AnalysisResult{}, utils.NewAppError("AnalyzeLog", "test_name is required", nil)
	}

	start := time.Now()
	result := s.analyzer.Analyze(ctx, item)
	s.observe(time.Since(start))
	return result, nil
}

// AnalyzeBatch classifies a batch of failure logs and summarizes them.
func (s *TriageService) AnalyzeBatch(ctx context.Context, items []models.AnalysisItem) (BatchResponse, error) {
	if s.analyzer == nil {
		return BatchResponse{}, utils.NewAppError("AnalyzeBatch", "analyzer not configured", nil)
	}
	if len(items) == 0 {
		return BatchResponse{}, utils.NewAppError("AnalyzeBatch", "items must not be empty", nil)
	}

	start := time.Now()
	results := s.analyzer.AnalyzeBatch(ctx, items)
	s.observe(time.Since(start))
	return BatchResponse{
		Results: results,
		Summary: s.analyzer.Summarize(results),
	}, nil
}

func (s *TriageService) observe(d time.Duration) {
	s.latencies.Observe(d)
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		s.logger.Info("analysis latency",
			slog.Duration("p95", s.latencies.Percentile(95)),
			slog.Int("samples", count))
	}
}

// LatencyP95 returns the current p95 analysis latency.
func (s *TriageService) LatencyP95() time.Duration {
	if s.latencies == nil {
		return 0
	}
	return s.latencies.Percentile(95)
}
