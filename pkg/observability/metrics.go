package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the engine's Prometheus collectors. A nil *Metrics is
// valid everywhere and records nothing, which keeps tests free of registry
// setup.
type Metrics struct {
	GenerationsTotal   *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
	VariantsAccepted   prometheus.Counter
	ProjectsOpen       prometheus.Gauge
	ConsoleEntries     *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors on the given registerer
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GenerationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flutterai",
			Name:      "generations_total",
			Help:      "Generation requests by outcome.",
		}, []string{"outcome"}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flutterai",
			Name:      "generation_duration_seconds",
			Help:      "Wall time of generation service calls.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		VariantsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flutterai",
			Name:      "variants_accepted_total",
			Help:      "Variants merged into a project file.",
		}),
		ProjectsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flutterai",
			Name:      "projects_open",
			Help:      "Projects currently held in the catalogue.",
		}),
		ConsoleEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flutterai",
			Name:      "console_entries_total",
			Help:      "Console log entries by kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		m.GenerationsTotal,
		m.GenerationDuration,
		m.VariantsAccepted,
		m.ProjectsOpen,
		m.ConsoleEntries,
	)
	return m
}

// RecordGeneration counts one finished generation attempt
func (m *Metrics) RecordGeneration(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.GenerationsTotal.WithLabelValues(outcome).Inc()
	m.GenerationDuration.Observe(seconds)
}

// RecordAccept counts one accepted variant
func (m *Metrics) RecordAccept() {
	if m == nil {
		return
	}
	m.VariantsAccepted.Inc()
}

// SetProjectsOpen tracks catalogue size
func (m *Metrics) SetProjectsOpen(n int) {
	if m == nil {
		return
	}
	m.ProjectsOpen.Set(float64(n))
}

// RecordConsoleEntry counts one console entry of the given kind
func (m *Metrics) RecordConsoleEntry(kind string) {
	if m == nil {
		return
	}
	m.ConsoleEntries.WithLabelValues(kind).Inc()
}
