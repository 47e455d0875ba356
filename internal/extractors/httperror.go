package extractors

import (
	"regexp"

	"github.com/triagestack/triage-engine/internal/models"
)

var httpErrorVocab = []string{
	"ConnectionRefused",
	"ECONNRESET",
	"ECONNREFUSED",
	"connection refused",
	"connection reset by peer",
	"502 Bad Gateway",
	"503 Service Unavailable",
	"504 Gateway Timeout",
}

var (
	// Status line: HTTP/1.1 500 Internal Server Error
	httpStatusLinePattern = regexp.MustCompile(`HTTP/\d(?:\.\d)?\s+([45]\d{2})`)

	// "status code 503", "status: 404", "returned 500"
	httpStatusCodePattern = regexp.MustCompile(`(?i)(?:status(?:\s+code)?|returned|response)[\s:=]+([45]\d{2})\b`)
)

// HTTPErrorExtractor matches HTTP status-line and connection-error patterns.
type HTTPErrorExtractor struct{}

func (e *HTTPErrorExtractor) Kind() models.SignalKind { return models.SignalHTTPError }

func (e *HTTPErrorExtractor) Extract(events []models.ExecutionEvent) []models.FailureSignal {
	var signals []models.FailureSignal
	for i, ev := range events {
		matched := matchFirst(ev.Message, httpErrorVocab)
		if matched == "" {
			matched = httpStatusLinePattern.FindString(ev.Message)
		}
		if matched == "" {
			matched = httpStatusCodePattern.FindString(ev.Message)
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
