// Package metrics exposes Prometheus instruments for tax calculations,
// advisory warnings, the summary cache and HTTP traffic.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Maxx-Protein/compliance-companion/internal/tax"
)

// Calculator labels.
const (
	CalculatorGST     = "gst"
	CalculatorTCS     = "tcs"
	CalculatorITC     = "itc"
	CalculatorPnL     = "pnl"
	CalculatorInvoice = "invoice"
	CalculatorSummary = "summary"
)

// Metrics groups the application instruments. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Calculations *prometheus.CounterVec
	Warnings     *prometheus.CounterVec
	CacheLookups *prometheus.CounterVec
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates the instruments and registers them with registerer, defaulting
// to the global registry.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		Calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gstc_calculations_total",
			Help: "Tax computations by calculator.",
		}, []string{"calculator"}),
		Warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gstc_advisory_warnings_total",
			Help: "Advisory consistency warnings by code.",
		}, []string{"code"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gstc_summary_cache_lookups_total",
			Help: "Period summary cache lookups by result.",
		}, []string{"result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gstc_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gstc_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
	}

	registerer.MustRegister(
		m.Calculations,
		m.Warnings,
		m.CacheLookups,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

// ObserveCalculation counts one computation and its warnings.
func (m *Metrics) ObserveCalculation(calculator string, warnings []tax.Warning) {
	if m == nil {
		return
	}
	m.Calculations.WithLabelValues(calculator).Inc()
	for i := range warnings {
		m.Warnings.WithLabelValues(warnings[i].Code).Inc()
	}
}

// CacheHit records a summary served from cache.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues("hit").Inc()
}

// CacheMiss records a summary that had to be recomputed.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues("miss").Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
