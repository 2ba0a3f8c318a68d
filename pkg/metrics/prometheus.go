package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics. A nil *Metrics records nothing.
type Metrics struct {
	SweepsTotal    *prometheus.CounterVec
	SweepsRejected prometheus.Counter
	AlertsFired    *prometheus.CounterVec
	RecordFailures *prometheus.CounterVec
	SweepDuration  prometheus.Histogram
}

// NewMetrics creates new prometheus metrics registered with reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SweepsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweeps_total",
			Help:      "The total number of deadline sweeps by result",
		}, []string{"result"}),
		SweepsRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweeps_rejected_total",
			Help:      "Sweep triggers rejected because a sweep was already running",
		}),
		AlertsFired: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_fired_total",
			Help:      "The total number of deadline alerts delivered",
		}, []string{"tier"}),
		RecordFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_failures_total",
			Help:      "Per-record failures during sweeps",
		}, []string{"kind"}),
		SweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Time taken by one deadline sweep",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// ObserveSweep records a finished sweep
func (m *Metrics) ObserveSweep(result string, seconds float64) {
	if m == nil {
		return
	}
	m.SweepsTotal.WithLabelValues(result).Inc()
	m.SweepDuration.Observe(seconds)
}

// IncAlert counts a delivered alert
func (m *Metrics) IncAlert(tier string) {
	if m == nil {
		return
	}
	m.AlertsFired.WithLabelValues(tier).Inc()
}

// IncFailure counts a per-record failure
func (m *Metrics) IncFailure(kind string) {
	if m == nil {
		return
	}
	m.RecordFailures.WithLabelValues(kind).Inc()
}

// IncRejected counts a trigger rejected by the single-flight guard
func (m *Metrics) IncRejected() {
	if m == nil {
		return
	}
	m.SweepsRejected.Inc()
}
