// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector. A nil *Manager is valid and records nothing,
// so components can be built without metrics in tests.
type Manager struct {
	// counters
	CounterRequests           *prometheus.CounterVec
	CounterRecordsCreated     *prometheus.CounterVec
	CounterComparisonsSkipped *prometheus.CounterVec
	CounterAnalyticsRecompute *prometheus.CounterVec
	CounterReminders          *prometheus.CounterVec

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistRequestDuration prometheus.Histogram
	HistDetectDuration  prometheus.Histogram
}

// NewTestManager builds a Manager on a throwaway registry.
func NewTestManager() *Manager {
	return NewManager("musclegram", "test", prometheus.NewRegistry())
}

// NewTestManagerAndRegistry is NewTestManager that also returns the registry
// for assertions.
func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("musclegram", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request",
			Help:      "The total number of incoming requests",
		}, []string{"method", "status"}),
		CounterRecordsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pr_records_created",
			Help:      "Personal records created, by PR type",
		}, []string{"pr_type"}),
		CounterComparisonsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pr_comparisons_skipped",
			Help:      "PR comparisons that produced no record, by reason",
		}, []string{"reason"}),
		CounterAnalyticsRecompute: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "training_analytics_recomputed",
			Help:      "Training analytics recomputations, by outcome",
		}, []string{"outcome"}),
		CounterReminders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reminders_sent",
			Help:      "Training reminders handed to the notifier, by status",
		}, []string{"status"}),
		GaugeRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "current_requests",
			Help:      "Current number of requests served",
		}),
		HistRequestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Total duration of requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}),
		HistDetectDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pr_detect_duration_seconds",
			Help:      "Duration of PR detection for one workout post",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
}

// RecordCreated counts a new personal record.
func (m *Manager) RecordCreated(prType string) {
	if m == nil {
		return
	}
	m.CounterRecordsCreated.WithLabelValues(prType).Inc()
}

// ComparisonSkipped counts a comparison that did not create a record.
func (m *Manager) ComparisonSkipped(reason string) {
	if m == nil {
		return
	}
	m.CounterComparisonsSkipped.WithLabelValues(reason).Inc()
}

// AnalyticsRecomputed counts an analytics recomputation outcome.
func (m *Manager) AnalyticsRecomputed(outcome string) {
	if m == nil {
		return
	}
	m.CounterAnalyticsRecompute.WithLabelValues(outcome).Inc()
}

// ReminderSent counts a reminder handed to the notifier.
func (m *Manager) ReminderSent(status string) {
	if m == nil {
		return
	}
	m.CounterReminders.WithLabelValues(status).Inc()
}

// ObserveDetect records how long PR detection took.
func (m *Manager) ObserveDetect(seconds float64) {
	if m == nil {
		return
	}
	m.HistDetectDuration.Observe(seconds)
}
