package normalize

import (
	"regexp"
	"strings"

	"github.com/triagestack/triage-engine/internal/models"
)

var (
	// Standard go test failure: --- FAIL: TestName (0.03s)
	goTestFailPattern = regexp.MustCompile(`---\s*FAIL:\s*\S+\s*\([\d.]+s\)`)

	// Package failure line: FAIL<tab>package/path<tab>0.42s
	goPackageFailPattern = regexp.MustCompile(`^FAIL\s+\S+\s+[\d.]+s`)
)

// GoTestAdapter normalizes `go test` output, including gotestsum-style
// === FAIL lines.
type GoTestAdapter struct{}

func (a *GoTestAdapter) Name() string { return "gotest" }

func (a *GoTestAdapter) Detect(raw string) bool {
	return strings.Contains(raw, "--- FAIL:") ||
		strings.Contains(raw, "=== FAIL:") ||
		strings.Contains(raw, "=== RUN") ||
		strings.Contains(raw, "FAIL\t")
}

func (a *GoTestAdapter) Normalize(raw string) []models.ExecutionEvent {
	lines := strings.Split(raw, "\n")
	events := make([]models.ExecutionEvent, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimRight(line, "\r")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}

		level := models.LevelInfo
		stripped := strings.TrimSpace(trimmed)
		switch {
		case goTestFailPattern.MatchString(stripped),
			strings.HasPrefix(stripped, "=== FAIL:"),
			goPackageFailPattern.MatchString(stripped),
			strings.HasPrefix(stripped, "panic:"):
			level = models.LevelError
		case strings.HasPrefix(stripped, "=== RUN"),
			strings.HasPrefix(stripped, "--- PASS:"),
			strings.HasPrefix(stripped, "ok "):
			level = models.LevelInfo
		default:
			level = inferLevel(stripped)
		}

		events = append(events, models.ExecutionEvent{
			Level:     level,
			Message:   stripped,
			Framework: a.Name(),
			RawLine:   line,
		})
	}
	return events
}
