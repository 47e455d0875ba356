// Package extractors holds the failure-signal scanners that run between
// log normalization and rule classification. Each extractor targets one
// signal kind and is independently testable; the Composite concatenates
// their findings without deduplication or ranking, which is the
// classifier's job.
package extractors

import (
	"strings"

	"github.com/triagestack/triage-engine/internal/models"
)

// Extractor scans normalized events for one kind of failure indicator.
// Implementations are stateless and safe for concurrent use.
type Extractor interface {
	Kind() models.SignalKind
	Extract(events []models.ExecutionEvent) []models.FailureSignal
}

// Composite runs registered extractors in registration order and
// concatenates their signals.
type Composite struct {
	extractors []Extractor
}

// NewComposite builds a composite over the given extractors. With no
// arguments it registers the stock set.
func NewComposite(extractors ...Extractor) *Composite {
	if len(extractors) == 0 {
		extractors = []Extractor{
			&TimeoutExtractor{},
			&AssertionExtractor{},
			&LocatorExtractor{},
			&HTTPErrorExtractor{},
			&InfraErrorExtractor{},
		}
	}
	return &Composite{extractors: extractors}
}

// Extract runs every registered extractor over the events.
func (c *Composite) Extract(events []models.ExecutionEvent) []models.FailureSignal {
	var signals []models.FailureSignal
	for _, e := range c.extractors {
		signals = append(signals, e.Extract(events)...)
	}
	return signals
}

// captureStackTrace collects the contiguous run of stack-frame-looking
// lines following the matched event, so the resolver can work from the
// raw trace text later.
func captureStackTrace(events []models.ExecutionEvent, start int) string {
	var lines []string
	for i := start; i < len(events); i++ {
		raw := events[i].RawLine
		if i == start {
			if looksLikeFrame(raw) || strings.Contains(events[i].Message, "Traceback") {
				lines = append(lines, raw)
			}
			continue
		}
		// Python traces interleave frame lines with indented source lines;
		// once inside a trace, indented continuations stay attached.
		if !looksLikeFrame(raw) && !(len(lines) > 0 && isIndented(raw)) {
			break
		}
		lines = append(lines, raw)
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n")
}

func looksLikeFrame(line string) bool {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "at "):
		return true
	case strings.HasPrefix(trimmed, "File \""):
		return true
	case strings.HasPrefix(trimmed, "Traceback"):
		return true
	case strings.HasPrefix(trimmed, "Caused by:"):
		return true
	case strings.HasPrefix(trimmed, "goroutine "):
		return true
	case strings.HasPrefix(line, "\t") && strings.Contains(trimmed, ".go:"):
		return true
	case strings.HasPrefix(trimmed, "...") && strings.Contains(trimmed, "more"):
		return true
	default:
		return false
	}
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
}

// matchFirst returns the first vocabulary entry found in the message,
// case-insensitively, or "". Matching happens on a lowercased copy whose
// byte offsets may not line up with the original (case folding can change
// rune widths), so the term itself is returned rather than a slice of the
// message.
func matchFirst(message string, vocab []string) string {
	lower := strings.ToLower(message)
	for _, term := range vocab {
		if strings.Contains(lower, strings.ToLower(term)) {
			return term
		}
	}
	return ""
}
