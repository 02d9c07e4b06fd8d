package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// SynthesisRuns counts completed alert synthesis runs.
	SynthesisRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "insight",
			Subsystem: "alerts",
			Name:      "synthesis_runs_total",
			Help:      "Completed alert synthesis runs",
		},
	)

	// AlertsGenerated counts alerts emitted by type and severity.
	AlertsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "insight",
			Subsystem: "alerts",
			Name:      "generated_total",
			Help:      "Alerts generated by type and severity",
		},
		[]string{"type", "severity"},
	)

	// InferenceLatency observes model inference round trips by family.
	InferenceLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "insight",
			Subsystem: "inference",
			Name:      "latency_seconds",
			Help:      "Latency of model inference calls",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"model_type"},
	)

	// InferenceErrors counts failed inference calls by family.
	InferenceErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "insight",
			Subsystem: "inference",
			Name:      "errors_total",
			Help:      "Failed model inference calls by family",
		},
		[]string{"model_type"},
	)
)

// Register registers all collectors with the default registry. Safe to call
// more than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(SynthesisRuns, AlertsGenerated, InferenceLatency, InferenceErrors)
	})
}
