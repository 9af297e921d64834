package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	forwardingResolutionsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "numbers",
			Name:      "forwarding_resolutions_total",
			Help:      "Call forwarding resolutions by result.",
		},
		[]string{"result"}, // cleared, by_id, existing, auto_authorized, rejected, invalid
	)

	numberPurchasesCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "numbers",
			Name:      "purchases_total",
			Help:      "Phone number purchases by outcome.",
		},
		[]string{"outcome"},
	)
)
