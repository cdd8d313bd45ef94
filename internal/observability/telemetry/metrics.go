package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	SagasTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payvault_sagas_total",
		Help: "Payment workflow sagas by control and terminal status",
	}, []string{"control", "status"})

	PaymentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payvault_payments_total",
		Help: "Charge attempts by terminal status",
	}, []string{"status"})

	ChargedCentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payvault_charged_cents_total",
		Help: "Total amount successfully charged, in minor currency units",
	})

	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payvault_webhook_events_total",
		Help: "Provider webhook events by type",
	}, []string{"type"})

	// Infrastructure metrics
	BackendRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payvault_backend_request_duration_seconds",
		Help:    "Latency of backend API calls made by the workflow gateway",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	ProviderRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "payvault_provider_request_duration_seconds",
		Help:    "Latency of payment provider API calls",
		Buckets: prometheus.DefBuckets,
	})
)
