package normalize

import (
	"regexp"
	"strings"

	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/utils"
)

var (
	// Numbered failure header: "  1) [chromium] > login.spec.ts:12:5 > signs in"
	playwrightFailHeader = regexp.MustCompile(`^\s*\d+\)\s+`)

	playwrightErrorLine = regexp.MustCompile(`^\s*(Error|TimeoutError):`)
)

// PlaywrightAdapter normalizes Playwright test-runner output. Failure
// headers, expect() errors, and timeout notices become error events.
type PlaywrightAdapter struct{}

func (a *PlaywrightAdapter) Name() string { return "playwright" }

func (a *PlaywrightAdapter) Detect(raw string) bool {
	return strings.Contains(raw, "Running ") && strings.Contains(raw, ".spec.") ||
		strings.Contains(raw, "expect(") && strings.Contains(raw, "locator(") ||
		strings.Contains(raw, "Test timeout of") ||
		strings.Contains(raw, "playwright")
}

func (a *PlaywrightAdapter) Normalize(raw string) []models.ExecutionEvent {
	lines := strings.Split(raw, "\n")
	events := make([]models.ExecutionEvent, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimRight(line, "\r")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}

		level := models.LevelInfo
		switch {
		case playwrightFailHeader.MatchString(trimmed),
			playwrightErrorLine.MatchString(trimmed),
			strings.Contains(trimmed, "Test timeout of"),
			strings.Contains(trimmed, "✘"):
			level = models.LevelError
		default:
			level = inferLevel(trimmed)
		}

		ts, message := utils.SplitLogTimestamp(trimmed)
		events = append(events, models.ExecutionEvent{
			Timestamp: ts,
			Level:     level,
			Message:   strings.TrimSpace(message),
			Framework: a.Name(),
			RawLine:   line,
		})
	}
	return events
}
