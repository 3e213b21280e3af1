// Package observability exposes Prometheus collectors for the API.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "macrolog",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "macrolog",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
	suggestionsReturned = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "macrolog",
		Name:      "suggestions_returned",
		Help:      "Number of popular meal suggestions returned per request.",
		Buckets:   []float64{0, 1, 2, 5, 10, 15, 25, 50},
	})
	storeErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "macrolog",
		Name:      "store_errors_total",
		Help:      "Failed storage operations by operation name.",
	}, []string{"op"})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, suggestionsReturned, storeErrors)
}

// RecordRequest counts a finished HTTP request.
func RecordRequest(route, method string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// RecordSuggestions observes the length of a popular meal list after the
// limit is applied.
func RecordSuggestions(n int) {
	suggestionsReturned.Observe(float64(n))
}

// RecordStoreError counts a failed storage call.
func RecordStoreError(op string) {
	storeErrors.WithLabelValues(op).Inc()
}
