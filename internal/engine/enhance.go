package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/triagestack/triage-engine/internal/ai"
	"github.com/triagestack/triage-engine/internal/models"
)

// maxConfidenceShift bounds how far a provider may move the deterministic
// confidence in either direction.
const maxConfidenceShift = 0.1

// contextLimit bounds how much raw log text is shipped to the provider.
const contextLimit = 4000

// Enhancer applies bounded AI refinement to a classification. The failure
// type is never changed; confidence moves at most ±maxConfidenceShift; any
// provider failure is a silent passthrough reported as a warning.
type Enhancer struct {
	provider ai.Provider
	timeout  time.Duration
	logger   *slog.Logger
}

// NewEnhancer constructs an Enhancer. A nil provider disables enhancement
// entirely; the pipeline stays fully functional without it.
func NewEnhancer(provider ai.Provider, timeout time.Duration, logger *slog.Logger) *Enhancer {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Enhancer{provider: provider, timeout: timeout, logger: logger}
}

// Enhance refines the classification with a provider suggestion. The
// returned warning is empty on clean passthrough or success.
func (e *Enhancer) Enhance(ctx context.Context, cls models.FailureClassification, rawContext string) (models.FailureClassification, string) {
	if e == nil || e.provider == nil {
		return cls, ""
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	suggestion, err := e.provider.Suggest(ctx, ai.Request{
		FailureType: string(cls.FailureType),
		Confidence:  cls.Confidence,
		Evidence:    cls.Evidence,
		Context:     truncate(rawContext, contextLimit),
	})
	if err != nil {
		e.logger.Warn("enhancement skipped", slog.Any("error", err))
		return cls, fmt.Sprintf("ai enhancement skipped: %v", err)
	}

	var warning string
	if suggestion.FailureType != "" && suggestion.FailureType != string(cls.FailureType) {
		// Providers never get to re-classify.
		warning = fmt.Sprintf("ai provider suggested type %s, ignored", suggestion.FailureType)
		e.logger.Warn("enhancement attempted type change",
			slog.String("classified", string(cls.FailureType)),
			slog.String("suggested", suggestion.FailureType))
	}

	delta := suggestion.ConfidenceDelta
	if delta > maxConfidenceShift {
		delta = maxConfidenceShift
	}
	if delta < -maxConfidenceShift {
		delta = -maxConfidenceShift
	}

	cls.Confidence = clampUnit(cls.Confidence + delta)
	cls.AINote = suggestion.Note
	return cls, warning
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
