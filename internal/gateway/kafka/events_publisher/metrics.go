package events_publisher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var PublishDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "order_events_publish_duration_seconds",
		Help:    "Duration of order event publishing to Kafka",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	},
	[]string{"type", "result"},
)
