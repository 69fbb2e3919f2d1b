package port

//go:generate mockgen -source=metrics.go -destination=mock/metrics.go -package=mock
type Metrics interface {
	OrderCreated(orderType, paymentMethod string)
	PaymentApproved()
	GatewayFailure(provider string)
	StatusChanged(status string)
}
