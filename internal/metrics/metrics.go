package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	ChargesSent       prometheus.Counter
	ChargesFailed     prometheus.Counter
	DeliveryLatency   prometheus.Histogram
	QueueDepth        prometheus.Gauge
	SessionState      prometheus.Gauge
	SessionReconnects prometheus.Counter
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChargesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "charges_sent_total",
			Help: "Total number of charge notifications delivered over WhatsApp.",
		}),
		ChargesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "charges_failed_total",
			Help: "Total number of failed charge delivery attempts.",
		}),
		DeliveryLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "charge_delivery_seconds",
			Help:    "Latency of one charge delivery, from dequeue to gateway ack.",
			Buckets: prometheus.DefBuckets,
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "charge_queue_depth",
			Help: "Current number of charges waiting in the queue.",
		}),
		SessionState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "whatsapp_session_connected",
			Help: "1 when the WhatsApp session is connected, 0 otherwise.",
		}),
		SessionReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "whatsapp_session_reconnects_total",
			Help: "Total number of WhatsApp session reconnect attempts.",
		}),
	}

	reg.MustRegister(
		m.ChargesSent,
		m.ChargesFailed,
		m.DeliveryLatency,
		m.QueueDepth,
		m.SessionState,
		m.SessionReconnects,
	)

	return m
}

// WorkerHooks returns the metric callbacks expected by worker.MetricHooks.
// Centralises the prometheus observation calls so the worker stays
// metrics-agnostic.
func (m *Metrics) WorkerHooks() (onSent func(time.Duration), onFailed func()) {
	onSent = func(latency time.Duration) {
		m.ChargesSent.Inc()
		m.DeliveryLatency.Observe(latency.Seconds())
	}
	onFailed = func() {
		m.ChargesFailed.Inc()
	}
	return
}
