package extractors

import "github.com/triagestack/triage-engine/internal/models"

var infraVocab = []string{
	"no space left on device",
	"disk full",
	"out of memory",
	"OutOfMemoryError",
	"OOMKilled",
	"cannot allocate memory",
	"network is unreachable",
	"network partition",
	"container crashed",
	"CrashLoopBackOff",
	"node not ready",
	"DNS resolution failed",
	"could not resolve host",
}

// InfraErrorExtractor matches infrastructure vocabulary: disk, memory,
// network partitions, container crashes.
type InfraErrorExtractor struct{}

func (e *InfraErrorExtractor) Kind() models.SignalKind { return models.SignalInfraError }

func (e *InfraErrorExtractor) Extract(events []models.ExecutionEvent) []models.FailureSignal {
	var signals []models.FailureSignal
	for i, ev := range events {
		if matchFirst(ev.Message, infraVocab) == "" {
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
