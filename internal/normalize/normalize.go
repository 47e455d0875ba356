package normalize

import (
	"strings"

	"github.com/triagestack/triage-engine/internal/models"
)

// FrameworkAuto asks the registry to detect the framework from structural
// markers in the log itself.
const FrameworkAuto = "auto"

// FrameworkGeneric names the line-oriented fallback adapter.
const FrameworkGeneric = "generic"

// Adapter converts raw framework-specific log text into normalized events.
// Adapters segment and normalize only; they carry no classification logic.
type Adapter interface {
	Name() string
	// Detect reports whether the raw text carries this adapter's structural
	// markers. Used only during auto-detection.
	Detect(raw string) bool
	Normalize(raw string) []models.ExecutionEvent
}

// Registry holds the known adapters in a fixed auto-detection priority
// order plus the generic fallback. It is read-only after construction and
// safe for concurrent use.
type Registry struct {
	adapters []Adapter
	fallback Adapter
}

// NewRegistry builds a registry with the stock adapters.
func NewRegistry() *Registry {
	return &Registry{
		adapters: []Adapter{
			&PytestAdapter{},
			&GoTestAdapter{},
			&JUnitAdapter{},
			&PlaywrightAdapter{},
		},
		fallback: &GenericAdapter{},
	}
}

// Frameworks lists the adapter names the registry knows, fallback included.
func (r *Registry) Frameworks() []string {
	names := make([]string, 0, len(r.adapters)+1)
	for _, a := range r.adapters {
		names = append(names, a.Name())
	}
	return append(names, r.fallback.Name())
}

// Normalize converts raw log text into an ordered event sequence. Unknown
// hints and undetectable input degrade to the generic adapter with a
// warning; malformed input never fails.
func (r *Registry) Normalize(raw, frameworkHint string) ([]models.ExecutionEvent, []string) {
	var warnings []string

	if strings.TrimSpace(raw) == "" {
		return nil, []string{"empty log input"}
	}

	adapter := r.fallback
	switch hint := strings.ToLower(strings.TrimSpace(frameworkHint)); hint {
	case "", FrameworkAuto:
		if detected := r.detect(raw); detected != nil {
			adapter = detected
		}
	case FrameworkGeneric:
		// explicit fallback request
	default:
		if named := r.lookup(hint); named != nil {
			adapter = named
		} else {
			warnings = append(warnings, "unknown framework "+hint+", using generic adapter")
		}
	}

	events := adapter.Normalize(raw)
	if len(events) == 0 && adapter != r.fallback {
		// Adapter markers matched but segmentation produced nothing; the
		// generic adapter still gets a chance at the text.
		warnings = append(warnings, adapter.Name()+" adapter produced no events, using generic adapter")
		events = r.fallback.Normalize(raw)
	}
	return events, warnings
}

func (r *Registry) detect(raw string) Adapter {
	for _, a := range r.adapters {
		if a.Detect(raw) {
			return a
		}
	}
	return nil
}

func (r *Registry) lookup(name string) Adapter {
	for _, a := range r.adapters {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// inferLevel derives an event level from common failure vocabulary.
func inferLevel(line string) models.Level {
	upper := strings.ToUpper(line)
	switch {
	case strings.Contains(upper, "ERROR"),
		strings.Contains(upper, "FAIL"),
		strings.Contains(upper, "FATAL"),
		strings.Contains(upper, "PANIC"),
		strings.Contains(line, "Exception"),
		strings.Contains(line, "Traceback"):
		return models.LevelError
	case strings.Contains(upper, "WARN"):
		return models.LevelWarn
	default:
		return models.LevelInfo
	}
}
