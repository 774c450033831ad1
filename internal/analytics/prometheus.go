package analytics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusTracker counts events by name, and payment events by method.
type PrometheusTracker struct {
	events   *prometheus.CounterVec
	payments *prometheus.CounterVec
}

func NewPrometheusTracker(reg prometheus.Registerer) *PrometheusTracker {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bakery",
		Subsystem: "checkout",
		Name:      "events_total",
		Help:      "Checkout funnel events.",
	}, []string{"event"})
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bakery",
		Subsystem: "checkout",
		Name:      "payment_events_total",
		Help:      "Payment gateway events by method.",
	}, []string{"event", "method"})

	reg.MustRegister(events, payments)
	return &PrometheusTracker{events: events, payments: payments}
}

func (p *PrometheusTracker) Track(_ context.Context, event Event, props Props) {
	p.events.WithLabelValues(string(event)).Inc()

	if method, ok := props["method"].(string); ok && method != "" {
		p.payments.WithLabelValues(string(event), method).Inc()
	}
}
