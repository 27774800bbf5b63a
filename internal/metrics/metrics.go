// Package metrics exposes Prometheus collectors for the pagemeta service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch kinds used as the "kind" label.
const (
	FetchKindPage     = "page"
	FetchKindResource = "resource"
)

// Extraction outcomes used as the "result" label.
const (
	ResultOK           = "ok"
	ResultNetworkError = "network_error"
	ResultParseError   = "parse_error"
)

var (
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	extractionsTotal           *prometheus.CounterVec
	fetchDurationSeconds       *prometheus.HistogramVec
	proxiedBytesTotal          *prometheus.CounterVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
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
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)

		extractionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagemeta_extractions_total",
				Help: "Total number of metadata extractions, labeled by result.",
			},
			[]string{"result"},
		)

		fetchDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pagemeta_fetch_duration_seconds",
				Help:    "Histogram of outbound fetch latencies, labeled by kind.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"kind"},
		)

		proxiedBytesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagemeta_proxied_bytes_total",
				Help: "Total number of resource bytes relayed to clients, labeled by resource.",
			},
			[]string{"resource"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	Init()
	return promhttp.Handler()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveExtraction counts one extraction attempt. Target hosts come from
// callers, so they are logged rather than used as labels.
func ObserveExtraction(result string) {
	Init()
	extractionsTotal.WithLabelValues(result).Inc()
}

// ObserveFetch records the latency of an outbound fetch.
func ObserveFetch(kind string, duration time.Duration) {
	Init()
	fetchDurationSeconds.WithLabelValues(kind).Observe(duration.Seconds())
}

// ObserveProxiedBytes adds n relayed bytes for resource.
func ObserveProxiedBytes(resource string, n int64) {
	Init()
	if n > 0 {
		proxiedBytesTotal.WithLabelValues(resource).Add(float64(n))
	}
}
