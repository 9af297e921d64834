package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	brandRegistrationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "compliance",
			Name:      "brand_registrations_total",
			Help:      "Brand registration attempts by outcome.",
		},
		[]string{"outcome"}, // submitted, degraded
	)

	campaignRegistrationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "compliance",
			Name:      "campaign_registrations_total",
			Help:      "Campaign registration attempts by outcome.",
		},
		[]string{"outcome"}, // submitted, degraded, brand_not_registered, brand_not_approved
	)

	numberAssociationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "compliance",
			Name:      "number_associations_total",
			Help:      "Phone number to messaging service associations by outcome.",
		},
		[]string{"outcome"},
	)

	statusRefreshCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "compliance",
			Name:      "status_refreshes_total",
			Help:      "Provider status refreshes by target and outcome.",
		},
		[]string{"target", "outcome"}, // target: brand, campaign
	)
)
