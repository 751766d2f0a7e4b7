// Package metrics exposes Prometheus collectors for checkout and receipts.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics holds the service collectors.
type Metrics struct {
	ordersSubmitted   *prometheus.CounterVec
	receiptsGenerated *prometheus.CounterVec
	renderDuration    prometheus.Histogram
	activeCarts       prometheus.Gauge
	heldReceipts      prometheus.Gauge
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// New registers the collectors on registerer (the default registerer when nil)
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &Metrics{
		ordersSubmitted: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_orders_submitted_total",
			Help: "Order submissions by outcome",
		}, []string{"outcome"})),
		receiptsGenerated: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_receipts_generated_total",
			Help: "Receipt generations by outcome",
		}, []string{"outcome"})),
		renderDuration: register(registerer, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pos_receipt_render_duration_seconds",
			Help:    "Time spent laying out and rendering a receipt",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		})),
		activeCarts: register(registerer, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pos_active_carts",
			Help: "Number of carts currently held in memory",
		})),
		heldReceipts: register(registerer, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pos_held_receipts",
			Help: "Number of rendered receipts waiting to be released",
		})),
		httpRequests: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"})),
		httpDuration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pos_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"})),
	}
}

// register returns the already registered collector when one with the same
// descriptor exists, so New can be called more than once per process.
func register[C prometheus.Collector](registerer prometheus.Registerer, collector C) C {
	if err := registerer.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := are.ExistingCollector.(C)
			if !ok {
				panic(fmt.Sprintf("collector already registered with unexpected type %T", are.ExistingCollector))
			}
			return existing
		}
		panic(fmt.Sprintf("register collector: %v", err))
	}
	return collector
}

// RecordOrderSubmitted counts a submission attempt by outcome
func (m *Metrics) RecordOrderSubmitted(outcome string) {
	m.ordersSubmitted.WithLabelValues(outcome).Inc()
}

// RecordReceiptGenerated counts a receipt generation by outcome
func (m *Metrics) RecordReceiptGenerated(outcome string) {
	m.receiptsGenerated.WithLabelValues(outcome).Inc()
}

// RecordRenderDuration observes how long layout plus rendering took
func (m *Metrics) RecordRenderDuration(d time.Duration) {
	m.renderDuration.Observe(d.Seconds())
}

// SetActiveCarts sets the cart gauge
func (m *Metrics) SetActiveCarts(n int) {
	m.activeCarts.Set(float64(n))
}

// SetHeldReceipts sets the held receipt gauge
func (m *Metrics) SetHeldReceipts(n int) {
	m.heldReceipts.Set(float64(n))
}

// Middleware records request counts and latency labelled by chi route pattern
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
