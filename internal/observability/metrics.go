package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dashboard backend.
type Metrics struct {
	EventsConsumed prometheus.Counter
	EventsStored   prometheus.Counter
	ParseErrors    prometheus.Counter
	IngestRunning  prometheus.Gauge

	// Batch ingest metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Query API metrics.
	APIRequests *prometheus.CounterVec // labels: query, outcome={ok,bad_request,error}

	// BrandMeister lookup metrics.
	BMRequests    *prometheus.CounterVec   // labels: endpoint={static,dynamic,device}, outcome={success,error,empty}
	BMAPIDuration *prometheus.HistogramVec // labels: endpoint

	// Gateway command relay metrics.
	CommandsRelayed *prometheus.CounterVec // labels: command={connect,disconnect}, outcome={ok,error}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		EventsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mmdvm_dash",
			Name:      "events_consumed_total",
			Help:      "Total heard events read from the ingest topic.",
		}),
		EventsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mmdvm_dash",
			Name:      "events_stored_total",
			Help:      "Total heard events written to the database.",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mmdvm_dash",
			Name:      "parse_errors_total",
			Help:      "Total ingest messages dropped as unparseable.",
		}),
		IngestRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mmdvm_dash",
			Name:      "ingest_running",
			Help:      "1 when the ingest pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mmdvm_dash",
			Name:      "batch_size",
			Help:      "Number of heard events per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mmdvm_dash",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-parse-store cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mmdvm_dash",
			Name:      "api_requests_total",
			Help:      "Query API requests by selector and outcome.",
		}, []string{"query", "outcome"}),
		BMRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mmdvm_dash",
			Name:      "bm_requests_total",
			Help:      "BrandMeister API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		BMAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mmdvm_dash",
			Name:      "bm_api_duration_seconds",
			Help:      "BrandMeister API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),
		CommandsRelayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mmdvm_dash",
			Name:      "commands_relayed_total",
			Help:      "Gateway commands relayed by command and outcome.",
		}, []string{"command", "outcome"}),
	}

	prometheus.MustRegister(
		m.EventsConsumed,
		m.EventsStored,
		m.ParseErrors,
		m.IngestRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.APIRequests,
		m.BMRequests,
		m.BMAPIDuration,
		m.CommandsRelayed,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		EventsConsumed:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "mmdvm_dash", Name: "events_consumed_total"}),
		EventsStored:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: "mmdvm_dash", Name: "events_stored_total"}),
		ParseErrors:             prometheus.NewCounter(prometheus.CounterOpts{Namespace: "mmdvm_dash", Name: "parse_errors_total"}),
		IngestRunning:           prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "mmdvm_dash", Name: "ingest_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "mmdvm_dash", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "mmdvm_dash", Name: "batch_processing_duration_seconds"}),
		APIRequests:             prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "mmdvm_dash", Name: "api_requests_total"}, []string{"query", "outcome"}),
		BMRequests:              prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "mmdvm_dash", Name: "bm_requests_total"}, []string{"endpoint", "outcome"}),
		BMAPIDuration:           prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "mmdvm_dash", Name: "bm_api_duration_seconds"}, []string{"endpoint"}),
		CommandsRelayed:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "mmdvm_dash", Name: "commands_relayed_total"}, []string{"command", "outcome"}),
	}
}
