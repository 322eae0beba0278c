package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests        *prometheus.CounterVec
	CounterProgressCache   *prometheus.CounterVec
	CounterSetsLogged      prometheus.Counter
	CounterPresetsSeeded   prometheus.Counter
	CounterSeedJobsDropped prometheus.Counter

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistRequestDuration     *prometheus.HistogramVec
	HistAggregationDuration prometheus.Histogram
	HistAggregationPoints   prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("kanso", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("kanso", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "The total number of handled HTTP requests",
		}, []string{"method", "route", "status"}),
		CounterProgressCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "progress_cache_total",
			Help:      "Progress cache lookups by result",
		}, []string{"result"}),
		CounterSetsLogged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sets_logged_total",
			Help:      "The total number of logged sets",
		}),
		CounterPresetsSeeded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "presets_seeded_total",
			Help:      "Preset exercises inserted by the seed worker",
		}),
		CounterSeedJobsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "seed_jobs_dropped_total",
			Help:      "Seed jobs dropped because the queue was full",
		}),
		GaugeRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "in_flight_requests",
			Help:      "Current number of requests being served",
		}),
		HistRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route"}),
		HistAggregationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "progress_aggregation_duration_seconds",
			Help:      "Time spent aggregating one exercise history",
			Buckets:   []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.1},
		}),
		HistAggregationPoints: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "progress_aggregation_points",
			Help:      "Number of raw points fed into one aggregation",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 9),
		}),
	}
}

// The helpers below accept a nil receiver so collaborators can run without metrics.

func (m *Manager) ProgressCacheHit() {
	if m != nil {
		m.CounterProgressCache.WithLabelValues("hit").Inc()
	}
}

func (m *Manager) ProgressCacheMiss() {
	if m != nil {
		m.CounterProgressCache.WithLabelValues("miss").Inc()
	}
}

func (m *Manager) ObserveAggregation(points int, took time.Duration) {
	if m == nil {
		return
	}
	m.HistAggregationPoints.Observe(float64(points))
	m.HistAggregationDuration.Observe(took.Seconds())
}

func (m *Manager) SetLogged() {
	if m != nil {
		m.CounterSetsLogged.Inc()
	}
}

func (m *Manager) PresetsSeeded(n int) {
	if m != nil && n > 0 {
		m.CounterPresetsSeeded.Add(float64(n))
	}
}

func (m *Manager) SeedJobDropped() {
	if m != nil {
		m.CounterSeedJobsDropped.Inc()
	}
}
