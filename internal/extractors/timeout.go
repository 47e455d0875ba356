package extractors

import (
	"regexp"

	"github.com/triagestack/triage-engine/internal/models"
)

var timeoutVocab = []string{
	"timed out",
	"TimeoutException",
	"TimeoutError",
	"Test timeout of",
	"deadline exceeded",
	"wait timeout",
}

// exceededPattern catches "exceeded 30s", "exceeded 5000 ms" style notices.
var exceededPattern = regexp.MustCompile(`(?i)exceeded\s+\d+(?:\.\d+)?\s*(?:ms|s|seconds?|milliseconds?)`)

// TimeoutExtractor matches wait/timeout vocabulary in event messages.
type TimeoutExtractor struct{}

func (e *TimeoutExtractor) Kind() models.SignalKind { return models.SignalTimeout }

func (e *TimeoutExtractor) Extract(events []models.ExecutionEvent) []models.FailureSignal {
	var signals []models.FailureSignal
	for i, ev := range events {
		matched := matchFirst(ev.Message, timeoutVocab)
		if matched == "" {
			matched = exceededPattern.FindString(ev.Message)
		}
		if matched == "" {
			continue
		}
		signals = append(signals, models.FailureSignal{
			Kind:        e.Kind(),
			MatchedText: ev.Message,
			EventIndex:  i,
			StackTrace:  captureStackTrace(events, i+1),
		})
	}
	return signals
}
