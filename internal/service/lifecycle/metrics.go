package lifecycle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Order lifecycle transitions by action and outcome",
		},
		[]string{"action", "result"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_notifications_total",
			Help: "Push notifications sent on transitions",
		},
		[]string{"kind", "result"},
	)

	EventPublishFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "order_event_publish_failures_total",
			Help: "Status change events that could not be published",
		},
	)

	ExchangeCountdownsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "order_exchange_countdowns_active",
			Help: "Meet-at-door countdowns currently running",
		},
	)

	ExchangeExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "order_exchange_expired_total",
			Help: "Meet-at-door countdowns that reached zero without confirmation",
		},
	)
)
