package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_queries_total",
			Help: "Total number of chatbot queries by resolved intent",
		},
		[]string{"intent"},
	)

	ChatFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_fallbacks_total",
			Help: "Total number of queries answered with a fallback message",
		},
		[]string{"reason"},
	)

	ChatClassifyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chatbot_classify_duration_seconds",
			Help:    "Duration of intent classification in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"route", "status"},
	)

	ReorderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reorder_requests_total",
			Help: "Total number of reorder requests by outcome",
		},
		[]string{"status"},
	)
)
