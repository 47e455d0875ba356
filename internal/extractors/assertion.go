package extractors

import (
	"regexp"
	"strings"

	"github.com/triagestack/triage-engine/internal/models"
)

var assertionVocab = []string{
	"AssertionError",
	"assertion failed",
	"AssertionFailedError",
	"ComparisonFailure",
	"expect(",
	"assert ",
}

var (
	// "expected 200 but got 500", "expected true but was false"
	expectedActualPattern = regexp.MustCompile(`(?i)expected\s+(.+?)\s+but\s+(?:got|was|received)\s+(\S+)`)

	// JUnit style: "expected:<200> but was:<500>"
	junitExpectedPattern = regexp.MustCompile(`expected:\s*<(.+?)>\s*but was:\s*<(.+?)>`)
)

// AssertionExtractor matches assertion-failure vocabulary and captures the
// expected/actual fragment when the message carries one.
type AssertionExtractor struct{}

func (e *AssertionExtractor) Kind() models.SignalKind { return models.SignalAssertion }

func (e *AssertionExtractor) Extract(events []models.ExecutionEvent) []models.FailureSignal {
	var signals []models.FailureSignal
	for i, ev := range events {
		if matchFirst(ev.Message, assertionVocab) == "" {
			continue
		}
		signal := models.FailureSignal{
			Kind:        e.Kind(),
			MatchedText: ev.Message,
			EventIndex:  i,
			StackTrace:  captureStackTrace(events, i+1),
		}
		if m := expectedActualPattern.FindStringSubmatch(ev.Message); len(m) == 3 {
			signal.Expected = strings.TrimSpace(m[1])
			signal.Actual = strings.TrimSpace(m[2])
		} else if m := junitExpectedPattern.FindStringSubmatch(ev.Message); len(m) == 3 {
			signal.Expected = m[1]
			signal.Actual = m[2]
		}
		signals = append(signals, signal)
	}
	return signals
}
