package notifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_events_total",
		Help: "Application events consumed, by kind and outcome.",
	}, []string{"kind", "outcome"})
	mDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_deliveries_total",
		Help: "Notification deliveries by channel and result.",
	}, []string{"channel", "result"})
	mHandleLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "notifier_handle_duration_seconds",
		Help:    "Time spent handling one event.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
)
