package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics carries the service counters on its own registry so tests can build
// isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	OrdersCreated    prometheus.Counter
	OrderFailures    prometheus.Counter
	CouponsSent      prometheus.Counter
	CouponSendFail   prometheus.Counter
	WebhooksRejected prometheus.Counter
	WebhooksIgnored  prometheus.Counter
	PendingEvicted   prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coursecart_orders_created_total",
			Help: "Orders successfully opened with the payment gateway.",
		}),
		OrderFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coursecart_order_failures_total",
			Help: "Gateway order creation failures.",
		}),
		CouponsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coursecart_coupons_sent_total",
			Help: "Coupon fulfillment emails dispatched.",
		}),
		CouponSendFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coursecart_coupon_send_failures_total",
			Help: "Coupon fulfillment emails that failed to send.",
		}),
		WebhooksRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coursecart_webhooks_rejected_total",
			Help: "Webhook deliveries rejected for a bad signature.",
		}),
		WebhooksIgnored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coursecart_webhooks_ignored_total",
			Help: "Webhook deliveries with a non-paid status or unknown order.",
		}),
		PendingEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coursecart_pending_evicted_total",
			Help: "Pending payments evicted by the TTL sweep.",
		}),
	}

	m.registry.MustRegister(
		m.OrdersCreated,
		m.OrderFailures,
		m.CouponsSent,
		m.CouponSendFail,
		m.WebhooksRejected,
		m.WebhooksIgnored,
		m.PendingEvicted,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
