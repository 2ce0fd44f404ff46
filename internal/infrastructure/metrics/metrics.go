package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	TransactionsRecorded *prometheus.CounterVec
	AggregationDuration  prometheus.Histogram
	AggregatedTxs        prometheus.Histogram
	BalanceCache         *prometheus.CounterVec

	// Flat metrics
	VersionConflicts prometheus.Counter
	FlatsCreated     prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates and registers all Prometheus metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Ledger metrics
		TransactionsRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "societyledger_transactions_recorded_total",
				Help: "Total number of vouchers recorded by type",
			},
			[]string{"type"},
		),
		AggregationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "societyledger_aggregation_duration_seconds",
			Help:    "Duration of full balance aggregations",
			Buckets: prometheus.DefBuckets,
		}),
		AggregatedTxs: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "societyledger_aggregation_transactions",
			Help:    "Number of transactions folded per aggregation",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		}),
		BalanceCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "societyledger_balance_cache_total",
				Help: "Balance snapshot cache lookups by result",
			},
			[]string{"result"},
		),

		// Flat metrics
		VersionConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "societyledger_flat_version_conflicts_total",
			Help: "Total optimistic concurrency conflicts on flat updates",
		}),
		FlatsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "societyledger_flats_created_total",
			Help: "Total number of flat records created by wing layouts",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "societyledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "societyledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Authentication metrics
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "societyledger_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "societyledger_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}

// ObserveAggregation records a full recomputation of a society's balances.
func (m *Metrics) ObserveAggregation(transactions int, duration time.Duration) {
	m.AggregationDuration.Observe(duration.Seconds())
	m.AggregatedTxs.Observe(float64(transactions))
}

func (m *Metrics) CacheResult(hit bool) {
	if hit {
		m.BalanceCache.WithLabelValues("hit").Inc()
		return
	}
	m.BalanceCache.WithLabelValues("miss").Inc()
}

func (m *Metrics) VersionConflict() {
	m.VersionConflicts.Inc()
}

func (m *Metrics) TransactionRecorded(txType string) {
	m.TransactionsRecorded.WithLabelValues(txType).Inc()
}

func (m *Metrics) FlatsLaidOut(count int) {
	m.FlatsCreated.Add(float64(count))
}

// ObserveHTTP records a served request.
func (m *Metrics) ObserveHTTP(method, path string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, path, statusLabel(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
