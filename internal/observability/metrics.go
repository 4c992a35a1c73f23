package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tp_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code", "method"},
	)

	DBTxDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tp_db_tx_seconds",
			Help:    "Duration of DB transactions",
			Buckets: prometheus.DefBuckets,
		},
	)

	OrdersPlaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tp_orders_placed_total",
			Help: "Total orders successfully placed",
		},
	)

	PurchaseConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tp_purchase_conflicts_total",
			Help: "Purchase attempts rejected because a ticket was no longer available",
		},
	)

	SeatsProvisioned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tp_seats_provisioned_total",
			Help: "Seats created by the lazy venue provisioner",
		},
	)

	OutboxLag = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tp_outbox_lag_seconds",
			Help: "Age of the oldest unpublished outbox record",
		},
	)

	RateLimitExceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tp_rate_limit_exceeded_total",
			Help: "Total requests rejected by the rate limiter",
		},
	)
)
