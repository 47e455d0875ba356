package models

// SignalKind enumerates the failure-indicator categories extractors emit.
type SignalKind string

const (
	SignalTimeout    SignalKind = "timeout"
	SignalAssertion  SignalKind = "assertion"
	SignalLocator    SignalKind = "locator"
	SignalHTTPError  SignalKind = "http_error"
	SignalInfraError SignalKind = "infra_error"
	SignalOther      SignalKind = "other"
)

// FailureSignal is one unit of evidence produced by an extractor. The
// originating event is referenced by index into the normalized event
// sequence; extractors never own or copy whole events.
type FailureSignal struct {
	Kind        SignalKind `json:"kind"`
	MatchedText string     `json:"matched_text"`
	EventIndex  int        `json:"event_index"`
	// Expected/Actual are populated by the assertion extractor when the
	// fragment is recoverable from the message.
	Expected   string `json:"expected,omitempty"`
	Actual     string `json:"actual,omitempty"`
	StackTrace string `json:"stack_trace,omitempty"`
}
