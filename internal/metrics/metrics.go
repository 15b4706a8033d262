// Package metrics exposes Prometheus instrumentation for the HTTP
// surface and the authorization gate.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)

	gateDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "impact_gate_decisions_total",
			Help: "Authorization gate decisions by flow and outcome.",
		},
		[]string{"flow", "outcome"},
	)
)

// Init registers the collectors with the default registry. Call once
// from main.
func Init() {
	prometheus.MustRegister(httpInFlight, httpRequestsTotal, httpRequestDuration, gateDecisions)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// GateDecision counts one gate decision. The path labels stay coarse
// (flow, outcome) so org slugs never leak into metric cardinality.
func GateDecision(flow, outcome string) {
	gateDecisions.WithLabelValues(flow, outcome).Inc()
}

// Instrument wraps a handler with request counting and latency
// observation. Labels deliberately exclude the path: report URLs embed
// tenant identifiers.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInFlight.Inc()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		status := strconv.Itoa(sw.code)
		httpRequestDuration.WithLabelValues(r.Method, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, status).Inc()
		httpInFlight.Dec()
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
