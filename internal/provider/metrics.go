package provider

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	providerRequestDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "telecom_provider",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests to the telecom provider.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider_name", "operation"},
	)

	providerRequestsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "telecom_provider",
			Name:      "requests_total",
			Help:      "Total provider requests by outcome.",
		},
		[]string{"provider_name", "operation", "outcome"}, // outcome: success, api_error, transport_error
	)
)
