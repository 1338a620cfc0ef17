package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// POSMetrics records sell workflow, cache and HTTP activity.
type POSMetrics struct {
	sales        prometheus.Counter
	rejected     *prometheus.CounterVec
	saleDuration *prometheus.HistogramVec
	cacheHits    *prometheus.CounterVec
	cacheMisses  *prometheus.CounterVec
	requests     *prometheus.CounterVec
}

// NewPOSMetrics registers the POS metrics on the provided registerer. A nil
// registerer yields a recorder whose methods are no-ops.
func NewPOSMetrics(reg prometheus.Registerer) *POSMetrics {
	if reg == nil {
		return &POSMetrics{}
	}
	sales := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_total",
		Help: "Committed sales.",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_sales_rejected_total",
		Help: "Sales that did not commit, by reason.",
	}, []string{"reason"})
	saleDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pos_sale_duration_seconds",
		Help:    "Duration of the sell transaction in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	cacheHits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_cache_hits_total",
		Help: "Cached read accessor hits.",
	}, []string{"key"})
	cacheMisses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_cache_misses_total",
		Help: "Cached read accessor misses.",
	}, []string{"key"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests served, by method and status.",
	}, []string{"method", "status"})
	reg.MustRegister(sales, rejected, saleDuration, cacheHits, cacheMisses, requests)
	return &POSMetrics{
		sales:        sales,
		rejected:     rejected,
		saleDuration: saleDuration,
		cacheHits:    cacheHits,
		cacheMisses:  cacheMisses,
		requests:     requests,
	}
}

// IncSale counts a committed sale.
func (m *POSMetrics) IncSale() {
	if m == nil || m.sales == nil {
		return
	}
	m.sales.Inc()
}

// IncRejected counts a sale that was refused or failed.
func (m *POSMetrics) IncRejected(reason string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObserveSale records how long the sell transaction took.
func (m *POSMetrics) ObserveSale(outcome string, duration time.Duration) {
	if m == nil || m.saleDuration == nil {
		return
	}
	m.saleDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// CacheHit counts a read served from cache.
func (m *POSMetrics) CacheHit(key string) {
	if m == nil || m.cacheHits == nil {
		return
	}
	m.cacheHits.WithLabelValues(normalizeLabel(key)).Inc()
}

// CacheMiss counts a read that had to be computed.
func (m *POSMetrics) CacheMiss(key string) {
	if m == nil || m.cacheMisses == nil {
		return
	}
	m.cacheMisses.WithLabelValues(normalizeLabel(key)).Inc()
}

// ObserveRequest counts a served HTTP request.
func (m *POSMetrics) ObserveRequest(method string, status int) {
	if m == nil || m.requests == nil {
		return
	}
	m.requests.WithLabelValues(normalizeLabel(method), strconv.Itoa(status)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
