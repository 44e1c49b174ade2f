package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code", "service"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "service"},
	)

	// Ingestion metrics
	ArticlesIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregator_articles_ingested_total",
			Help: "Total number of articles processed by the ingestion pipeline",
		},
		[]string{"source", "status"}, // status: inserted, duplicate, failed
	)

	OracleCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregator_oracle_calls_total",
			Help: "Total number of scoring oracle calls by outcome",
		},
		[]string{"outcome"}, // scored, unavailable, error
	)

	// Feedback metrics
	FeedbackEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregator_feedback_events_total",
			Help: "Total number of user feedback events recorded",
		},
		[]string{"action"},
	)

	// Application health metrics
	ApplicationInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "application_info",
			Help: "Application information",
		},
		[]string{"service", "version", "environment"},
	)
)

// Initialize metrics with default values
func Init(serviceName, version, environment string) {
	ApplicationInfo.WithLabelValues(serviceName, version, environment).Set(1)
}
