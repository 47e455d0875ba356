package normalize

import (
	"regexp"
	"strings"

	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/utils"
)

var (
	// Section banner: ==== FAILURES ==== / ==== short test summary info ====
	pytestBannerPattern = regexp.MustCompile(`^=+ .+ =+$`)

	// Summary line: FAILED tests/test_login.py::test_submit - AssertionError: ...
	pytestFailedPattern = regexp.MustCompile(`^(FAILED|ERROR)\s+\S+::\S+`)
)

// PytestAdapter normalizes pytest terminal output. Failure detail lines
// (the "E   " prefix) and summary FAILED lines surface as error events;
// banners and captured output stay informational.
type PytestAdapter struct{}

func (a *PytestAdapter) Name() string { return "pytest" }

func (a *PytestAdapter) Detect(raw string) bool {
	return strings.Contains(raw, "= FAILURES =") ||
		strings.Contains(raw, "short test summary info") ||
		pytestFailedPattern.MatchString(raw) ||
		strings.Contains(raw, "rootdir:") && strings.Contains(raw, "collected ")
}

func (a *PytestAdapter) Normalize(raw string) []models.ExecutionEvent {
	lines := strings.Split(raw, "\n")
	events := make([]models.ExecutionEvent, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimRight(line, "\r")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}

		level := models.LevelInfo
		switch {
		case strings.HasPrefix(trimmed, "E "), strings.HasPrefix(trimmed, "E\t"):
			level = models.LevelError
		case pytestFailedPattern.MatchString(trimmed):
			level = models.LevelError
		case strings.HasPrefix(trimmed, "WARNING"), strings.Contains(trimmed, "PytestWarning"):
			level = models.LevelWarn
		case pytestBannerPattern.MatchString(strings.TrimSpace(trimmed)):
			level = models.LevelInfo
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
