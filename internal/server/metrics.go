// Package server — metrics.go registers all Prometheus metrics for the HTTP
// server and exposes helpers used by handlers and middleware.
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values shared across counters.
const (
	outcomeOK         = "ok"
	outcomeBadRequest = "bad_request"
	outcomeNotFound   = "not_found"
	outcomeError      = "error"
)

// labelHandler partitions HTTP metrics by the logical endpoint name rather
// than the raw URL path.
const labelHandler = "handler"

// serverMetrics holds all Prometheus metrics owned by the HTTP server.
// A single instance is created in New and stored on Server so that tests can
// inject a fresh prometheus.Registry without polluting the default one.
type serverMetrics struct {
	// learnRequestsTotal counts completed /api/learn requests by outcome.
	learnRequestsTotal *prometheus.CounterVec

	// generateRequestsTotal counts completed /api/generate requests,
	// partitioned by mode and outcome.
	generateRequestsTotal *prometheus.CounterVec

	// generateDurationSeconds records the wall-clock duration of each
	// generation request, partitioned by mode.
	generateDurationSeconds *prometheus.HistogramVec

	// httpRequestsTotal counts all HTTP requests handled by the mux,
	// partitioned by method, handler, and status code.
	httpRequestsTotal *prometheus.CounterVec

	// httpDurationSeconds records the latency of all HTTP requests.
	httpDurationSeconds *prometheus.HistogramVec
}

// newServerMetrics registers all server metrics against reg and returns the
// populated serverMetrics. promauto.With(reg) is used so that each call
// registers into the provided registry rather than the global default —
// this keeps unit tests hermetic.
func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	factory := promauto.With(reg)

	return &serverMetrics{
		learnRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crambot",
			Subsystem: "learn",
			Name:      "requests_total",
			Help:      "Total number of /api/learn requests completed, partitioned by outcome.",
		}, []string{"outcome"}),

		generateRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crambot",
			Subsystem: "generate",
			Name:      "requests_total",
			Help:      "Total number of /api/generate requests completed, partitioned by mode and outcome.",
		}, []string{"mode", "outcome"}),

		generateDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crambot",
			Subsystem: "generate",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of generation requests, partitioned by mode.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"mode"}),

		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crambot",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled by the server, partitioned by method, handler, and status code.",
		}, []string{"method", labelHandler, "code"}),

		httpDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crambot",
			Subsystem: "http",
			Name:      "duration_seconds",
			Help:      "Latency of HTTP requests handled by the server.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", labelHandler}),
	}
}

// instrument wraps handler so that every request increments the HTTP counter
// and records its latency under the given logical handler name.
func (s *Server) instrument(name string, handler http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()
		handler(rw, r)
		elapsed := time.Since(start)

		s.metrics.httpRequestsTotal.WithLabelValues(r.Method, name, strconv.Itoa(rw.status)).Inc()
		s.metrics.httpDurationSeconds.WithLabelValues(r.Method, name).Observe(elapsed.Seconds())
	})
}
