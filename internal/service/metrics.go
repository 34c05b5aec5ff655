package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	itemsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_items_added_total",
		Help: "Total number of successful add-item operations",
	})

	checkoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_checkouts_total",
		Help: "Total number of completed checkouts",
	})

	validationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_validation_failures_total",
		Help: "Total number of rejected cart requests by operation",
	}, []string{"operation"})
)
