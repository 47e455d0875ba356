package normalize

import (
	"strings"

	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/utils"
)

// GenericAdapter treats every non-empty line as one event with the level
// inferred from common failure keywords. It is the terminal fallback and
// never rejects input.
type GenericAdapter struct{}

func (a *GenericAdapter) Name() string { return FrameworkGeneric }

// Detect always succeeds; the generic adapter accepts anything.
func (a *GenericAdapter) Detect(string) bool { return true }

func (a *GenericAdapter) Normalize(raw string) []models.ExecutionEvent {
	lines := strings.Split(raw, "\n")
	events := make([]models.ExecutionEvent, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimRight(line, "\r")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}
		ts, message := utils.SplitLogTimestamp(trimmed)
		events = append(events, models.ExecutionEvent{
			Timestamp: ts,
			Level:     inferLevel(trimmed),
			Message:   strings.TrimSpace(message),
			Framework: FrameworkGeneric,
			RawLine:   line,
		})
	}
	return events
}
