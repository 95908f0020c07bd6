package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request counts and latencies per route pattern.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	reg.MustRegister(duration, requests)
	return &HTTPMetrics{duration: duration, requests: requests}
}

// Observe records one served request. route should be the router pattern,
// never the raw path, to keep label cardinality bounded.
func (m *HTTPMetrics) Observe(method, route string, status int, duration time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.duration.WithLabelValues(method, route).Observe(duration.Seconds())
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
