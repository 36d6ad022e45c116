package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	DocumentsCreated  prometheus.Counter
	DocumentsArchived prometheus.Counter
	RowsSkipped       prometheus.Counter
	StoreScans        prometheus.Counter
	RequestDuration   *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		DocumentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doctrace_documents_created_total",
			Help: "Total number of documents created",
		}),
		DocumentsArchived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doctrace_documents_archived_total",
			Help: "Total number of documents soft-deleted into the archive",
		}),
		RowsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doctrace_rows_skipped_total",
			Help: "Rows dropped during full scans because they failed to parse",
		}),
		StoreScans: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doctrace_store_scans_total",
			Help: "Full-table scans issued against the record store",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "doctrace_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// The increment helpers tolerate a nil receiver so tests can run components
// without registering collectors.

func (m *Metrics) IncDocumentsCreated() {
	if m != nil {
		m.DocumentsCreated.Inc()
	}
}

func (m *Metrics) IncDocumentsArchived() {
	if m != nil {
		m.DocumentsArchived.Inc()
	}
}

func (m *Metrics) IncRowsSkipped() {
	if m != nil {
		m.RowsSkipped.Inc()
	}
}

func (m *Metrics) IncStoreScans() {
	if m != nil {
		m.StoreScans.Inc()
	}
}

// ObserveRequest records one request's latency. Safe on a nil receiver.
func (m *Metrics) ObserveRequest(route, status string, seconds float64) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, status).Observe(seconds)
	}
}
