package metrics

import "github.com/prometheus/client_golang/prometheus"

// Métricas Prometheus del pipeline de fulfillment
var (
	WebhookEventsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Total number of webhook events received",
		},
	)

	WebhookEventsInvalidTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_events_invalid_total",
			Help: "Total number of webhook events rejected (bad signature or malformed payload)",
		},
	)

	FulfillmentOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fulfillment_outcomes_total",
			Help: "Terminal pipeline outcomes by status",
		},
		[]string{"status"},
	)

	ProviderRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Duration of payment-link metadata lookups",
			Buckets: prometheus.DefBuckets,
		},
	)

	EmailSendDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "email_send_duration_seconds",
			Help:    "Duration of fulfillment email sends",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Register registra todas las métricas en el registro global.
func Register() {
	prometheus.MustRegister(
		WebhookEventsTotal,
		WebhookEventsInvalidTotal,
		FulfillmentOutcomesTotal,
		ProviderRequestDuration,
		EmailSendDuration,
	)
}
