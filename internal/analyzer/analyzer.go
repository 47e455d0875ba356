// Package analyzer orchestrates the triage pipeline: normalize, extract,
// classify, enhance, resolve. One Analyzer value carries all dependencies;
// there is no process-wide state.
package analyzer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/triagestack/triage-engine/internal/engine"
	"github.com/triagestack/triage-engine/internal/extractors"
	"github.com/triagestack/triage-engine/internal/metrics"
	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/normalize"
	"github.com/triagestack/triage-engine/internal/resolve"
)

// defaultParallelism bounds concurrent item analyses in a batch.
const defaultParallelism = 8

// Option customises Analyzer construction.
type Option func(*Analyzer)

// WithParallelism sets the batch fan-out width.
func WithParallelism(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.parallelism = n
		}
	}
}

// WithEnhancer attaches the optional AI enhancement stage.
func WithEnhancer(e *engine.Enhancer) Option {
	return func(a *Analyzer) { a.enhancer = e }
}

// Analyzer runs the full pipeline for single failures and batches. Safe
// for concurrent use: every dependency is read-only after construction.
type Analyzer struct {
	logger      *slog.Logger
	registry    *normalize.Registry
	composite   *extractors.Composite
	rules       *engine.RuleSet
	resolver    *resolve.Resolver
	enhancer    *engine.Enhancer
	parallelism int
}

// New constructs an Analyzer with its dependencies. Nil registry,
// composite, or rules fall back to stock implementations; a nil resolver
// disables code resolution.
func New(logger *slog.Logger, registry *normalize.Registry, composite *extractors.Composite, rules *engine.RuleSet, resolver *resolve.Resolver, opts ...Option) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = normalize.NewRegistry()
	}
	if composite == nil {
		composite = extractors.NewComposite()
	}
	if rules == nil {
		rules, _ = engine.LoadRuleSet("", logger)
	}
	a := &Analyzer{
		logger:      logger,
		registry:    registry,
		composite:   composite,
		rules:       rules,
		resolver:    resolver,
		parallelism: defaultParallelism,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the pipeline for one failure. Stage failures degrade to
// warnings on the result; the call itself never fails.
func (a *Analyzer) Analyze(ctx context.Context, item models.AnalysisItem) models.AnalysisResult {
	start := time.Now()
	result := models.AnalysisResult{
		ID:        uuid.NewString(),
		TestName:  item.TestName,
		Framework: item.Framework,
		CreatedAt: start.UTC(),
	}

	events, warnings := a.registry.Normalize(item.RawLog, item.Framework)
	for _, w := range warnings {
		result.AddWarning(w)
	}

	signals := a.composite.Extract(events)
	result.Classification = engine.Classify(signals, a.rules.ForFramework(item.Framework))

	if a.enhancer != nil {
		enhanced, warning := a.enhancer.Enhance(ctx, result.Classification, item.RawLog)
		result.Classification = enhanced
		result.AddWarning(warning)
	}

	if a.resolver != nil {
		if trace := firstStackTrace(signals); trace != "" {
			result.Classification.CodeReference = a.resolver.Resolve(trace)
		}
	}

	result.Duration = time.Since(start)
	result.DurationMS = result.Duration.Milliseconds()
	metrics.ObserveAnalysis(result.Duration, result.Classification.FailureType, len(result.Warnings) > 0)

	a.logger.Debug("analysis complete",
		slog.String("test", item.TestName),
		slog.String("failure_type", string(result.Classification.FailureType)),
		slog.Float64("confidence", result.Classification.Confidence))
	return result
}

// AnalyzeBatch fans out over items with bounded parallelism and returns
// results in input order. Cancellation stops launching new items; results
// for completed items are still returned, with placeholders marking the
// items that never ran.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, items []models.AnalysisItem) []models.AnalysisResult {
	results := make([]models.AnalysisResult, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.parallelism)

	for i, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = a.Analyze(gctx, item)
			return nil
		})
	}
	_ = g.Wait()

	// Items skipped by cancellation still occupy their slot.
	for i := range results {
		if results[i].ID == "" {
			results[i] = models.AnalysisResult{
				TestName:  items[i].TestName,
				Framework: items[i].Framework,
				CreatedAt: time.Now().UTC(),
				Classification: models.FailureClassification{
					FailureType: models.Unknown,
					Evidence:    []string{},
				},
				Warnings: []string{"analysis cancelled before start"},
			}
		}
	}
	return results
}

// Summarize aggregates counts and percentages per failure type and mines
// cascades and recurring patterns across the batch.
func (a *Analyzer) Summarize(results []models.AnalysisResult) models.Summary {
	summary := models.Summary{
		Total:       len(results),
		Counts:      make(map[models.FailureType]int),
		Percentages: make(map[models.FailureType]float64),
	}
	for _, result := range results {
		summary.Counts[result.Classification.FailureType]++
	}
	if summary.Total > 0 {
		for ft, count := range summary.Counts {
			summary.Percentages[ft] = 100 * float64(count) / float64(summary.Total)
		}
	}
	summary.Cascades = detectCascades(results)
	summary.Patterns = minePatterns(results)
	return summary
}

// ShouldFailCI reports whether any result carries a gating failure type.
// A nil gating set defaults to product defects only.
func ShouldFailCI(results []models.AnalysisResult, gating map[models.FailureType]bool) bool {
	if gating == nil {
		gating = map[models.FailureType]bool{models.ProductDefect: true}
	}
	for _, result := range results {
		if gating[result.Classification.FailureType] {
			return true
		}
	}
	return false
}

// firstStackTrace returns the first captured trace among the signals.
func firstStackTrace(signals []models.FailureSignal) string {
	for _, signal := range signals {
		if strings.TrimSpace(signal.StackTrace) != "" {
			return signal.StackTrace
		}
	}
	return ""
}
