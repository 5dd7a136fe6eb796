// Package metrics provides Prometheus metrics collection for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, route, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, route, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// TranslationOperationsTotal counts translation operations by operation and result.
	TranslationOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translation_operations_total",
			Help: "Total number of translation operations",
		},
		[]string{"operation", "result"},
	)

	// AuthAttemptsTotal counts signup and login attempts by result.
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"operation", "result"},
	)
)

// Operation results used as label values.
const (
	ResultSuccess  = "success"
	ResultConflict = "conflict"
	ResultInvalid  = "invalid"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// UnmatchedRoute is the path label of requests that matched no route.
const UnmatchedRoute = "unmatched"

// Middleware returns a chi middleware that collects HTTP metrics.
// The path label is the matched route pattern, or UnmatchedRoute, so neither
// path parameters nor scanned URLs create new series.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := UnmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		statusCode := strconv.Itoa(status)

		HTTPRequestDuration.WithLabelValues(r.Method, path, statusCode).Observe(time.Since(start).Seconds())
		HTTPRequestTotal.WithLabelValues(r.Method, path, statusCode).Inc()
	})
}

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordTranslationOperation records the outcome of a translation operation.
func RecordTranslationOperation(operation, result string) {
	TranslationOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordAuthAttempt records the outcome of a signup or login.
func RecordAuthAttempt(operation, result string) {
	AuthAttemptsTotal.WithLabelValues(operation, result).Inc()
}
