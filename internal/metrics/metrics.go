// Package metrics exposes Prometheus collectors for the FlavorMap service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests, labeled by method and code.",
		},
		[]string{"method", "code"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, labeled by method and route.",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
		[]string{"method", "route"},
	)

	spotsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flavormap_spots_created_total",
			Help: "Total number of spots persisted.",
		},
	)

	spotRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flavormap_spot_rejections_total",
			Help: "Total number of rejected spot submissions, labeled by offending field.",
		},
		[]string{"field"},
	)

	storeCorruptionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flavormap_store_corruptions_total",
			Help: "Times the spot file could not be parsed and was treated as empty.",
		},
	)
)

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveSpotCreated counts a successfully persisted spot.
func ObserveSpotCreated() {
	spotsCreatedTotal.Inc()
}

// ObserveSpotRejected counts a rejected submission. An empty field means the
// payload as a whole was rejected.
func ObserveSpotRejected(field string) {
	if field == "" {
		field = "payload"
	}
	spotRejectionsTotal.WithLabelValues(field).Inc()
}

// ObserveStoreCorruption counts a lenient recovery from an unreadable store.
func ObserveStoreCorruption() {
	storeCorruptionsTotal.Inc()
}

// Middleware is a chi middleware that records HTTP request metrics.
// It labels durations by route pattern so static paths do not explode the
// label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		routePattern := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			routePattern = rctx.RoutePattern()
		}

		ObserveHTTPRequest(r.Method, routePattern, ww.status, time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
