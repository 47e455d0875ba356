package extractors

import "github.com/triagestack/triage-engine/internal/models"

var locatorVocab = []string{
	"NoSuchElementException",
	"NoSuchElement",
	"Unable to locate element",
	"selector not found",
	"element not interactable",
	"ElementNotInteractableException",
	"StaleElementReferenceException",
	"stale element reference",
	"locator resolved to",
	"waiting for locator",
	"strict mode violation",
}

// LocatorExtractor matches element/selector-not-found vocabulary, the usual
// fingerprint of UI automation drift.
type LocatorExtractor struct{}

func (e *LocatorExtractor) Kind() models.SignalKind { return models.SignalLocator }

func (e *LocatorExtractor) Extract(events []models.ExecutionEvent) []models.FailureSignal {
	var signals []models.FailureSignal
	for i, ev := range events {
		if matchFirst(ev.Message, locatorVocab) == "" {
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
