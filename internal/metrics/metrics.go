package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/triagestack/triage-engine/internal/models"
)

var (
	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triage_engine",
			Name:      "analyses_total",
			Help:      "Total number of failure analyses, partitioned by failure type and degradation.",
		},
		[]string{"failure_type", "degraded"},
	)

	analysisDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "triage_engine",
			Name:      "analysis_seconds",
			Help:      "Single-failure analysis latency in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
	)
)

// Register attaches triage-engine collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		analysesTotal,
		analysisDurationSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveAnalysis records one analysis duration and its outcome labels.
func ObserveAnalysis(duration time.Duration, failureType models.FailureType, degraded bool) {
	label := "clean"
	if degraded {
		label = "degraded"
	}
	analysesTotal.WithLabelValues(string(failureType), label).Inc()
	if duration < 0 {
		duration = 0
	}
	analysisDurationSeconds.Observe(duration.Seconds())
}
