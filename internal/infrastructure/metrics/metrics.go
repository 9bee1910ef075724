package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Posting metrics
	PostingsCreated  *prometheus.CounterVec
	PostingsReversed prometheus.Counter
	PostingDuration  *prometheus.HistogramVec
	PostingAmount    prometheus.Histogram
	PostingErrors    *prometheus.CounterVec
	EntriesWritten   prometheus.Counter

	// Rule resolution metrics
	RuleCacheLookups *prometheus.CounterVec

	// Report metrics
	ReportsGenerated *prometheus.CounterVec
	ReportDuration   *prometheus.HistogramVec
	ReportsInFlight  prometheus.Gauge

	// Account metrics
	AccountsCreated prometheus.Counter
	AccountsRetired prometheus.Counter

	// Event metrics
	EventsPublished *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all Prometheus metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Posting metrics
		PostingsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_postings_created_total",
				Help: "Total number of committed postings by operation",
			},
			[]string{"operation"},
		),
		PostingsReversed: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_postings_reversed_total",
			Help: "Total number of reversed transactions",
		}),
		PostingDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankledger_posting_duration_seconds",
				Help:    "Duration of posting operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		PostingAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bankledger_posting_amount",
			Help:    "Total debit amount per committed posting",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		PostingErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_posting_errors_total",
				Help: "Total number of posting errors by type",
			},
			[]string{"operation", "error_type"},
		),
		EntriesWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_entries_written_total",
			Help: "Total number of ledger entries written",
		}),

		// Rule resolution metrics
		RuleCacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_rule_cache_lookups_total",
				Help: "Accounting rule cache lookups by result",
			},
			[]string{"result"},
		),

		// Report metrics
		ReportsGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_reports_generated_total",
				Help: "Total number of generated reports",
			},
			[]string{"report"},
		),
		ReportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankledger_report_duration_seconds",
				Help:    "Duration of report generation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"report"},
		),
		ReportsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bankledger_reports_in_flight",
			Help: "Reports currently being generated",
		}),

		// Account metrics
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountsRetired: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_accounts_retired_total",
			Help: "Total number of accounts retired",
		}),

		// Event metrics
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_events_published_total",
				Help: "Ledger events handed to the broker by status",
			},
			[]string{"status"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Audit metrics
		AuditLogsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
