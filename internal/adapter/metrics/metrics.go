package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type OrderMetrics struct {
	OrdersCreatedTotal    *prometheus.CounterVec
	PaymentsApprovedTotal prometheus.Counter
	GatewayFailuresTotal  *prometheus.CounterVec
	StatusChangesTotal    *prometheus.CounterVec
}

func NewOrderMetrics() *OrderMetrics {
	return &OrderMetrics{
		OrdersCreatedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "coinstore_orders_created_total",
			Help: "Orders created, labeled by order type and payment method",
		}, []string{"type", "payment_method"}),
		PaymentsApprovedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinstore_payments_approved_total",
			Help: "Payments confirmed by webhook or status poll",
		}),
		GatewayFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "coinstore_gateway_failures_total",
			Help: "Payment gateway call failures, labeled by provider",
		}, []string{"provider"}),
		StatusChangesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "coinstore_order_status_changes_total",
			Help: "Order status transitions, labeled by target status",
		}, []string{"status"}),
	}
}
