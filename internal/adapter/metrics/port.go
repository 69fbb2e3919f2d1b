package metrics

func (m *OrderMetrics) OrderCreated(orderType, paymentMethod string) {
	m.OrdersCreatedTotal.WithLabelValues(orderType, paymentMethod).Inc()
}

func (m *OrderMetrics) PaymentApproved() {
	m.PaymentsApprovedTotal.Inc()
}

func (m *OrderMetrics) GatewayFailure(provider string) {
	m.GatewayFailuresTotal.WithLabelValues(provider).Inc()
}

func (m *OrderMetrics) StatusChanged(status string) {
	m.StatusChangesTotal.WithLabelValues(status).Inc()
}
