package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	portabilityChecksCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "porting",
			Name:      "portability_checks_total",
			Help:      "Portability checks by result source.",
		},
		[]string{"source"}, // cache, provider, default, error
	)

	portRequestsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "porting",
			Name:      "requests_total",
			Help:      "Port-in request submissions by outcome.",
		},
		[]string{"outcome"}, // in_review, degraded
	)

	statusIngestionsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "porting",
			Name:      "status_ingestions_total",
			Help:      "Port status updates applied, by mapped status and whether a request matched.",
		},
		[]string{"status", "matched"},
	)
)
