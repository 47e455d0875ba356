package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/triagestack/triage-engine/internal/models"
)

func TestRegisterIsIdempotent(t *testing.T) {
	registry := prometheus.NewRegistry()
	if err := Register(registry); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := Register(registry); err != nil {
		t.Fatalf("second register failed: %v", err)
	}
}

func TestObserveAnalysis(t *testing.T) {
	registry := prometheus.NewRegistry()
	if err := Register(registry); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	ObserveAnalysis(40*time.Millisecond, models.ProductDefect, false)
	ObserveAnalysis(-time.Second, models.Unknown, true)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, family := range families {
		names[family.GetName()] = true
	}
	if !names["triage_engine_analyses_total"] {
		t.Fatal("expected analyses counter to be collected")
	}
	if !names["triage_engine_analysis_seconds"] {
		t.Fatal("expected latency histogram to be collected")
	}
}
