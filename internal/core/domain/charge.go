package domain

// ChargeStatus is the normalized payment provider status. Providers
// report incompatible vocabularies; the gateway adapters map them onto
// this fixed set.
type ChargeStatus string

const (
	ChargeStatusPending         ChargeStatus = "pending"
	ChargeStatusApproved        ChargeStatus = "approved"
	ChargeStatusAwaitingPayment ChargeStatus = "awaiting_payment"
	ChargeStatusProcessing      ChargeStatus = "processing"
	ChargeStatusFailed          ChargeStatus = "failed"
)

// OrderStatusFor maps a normalized charge status onto the order state
// machine. Only approved moves the order; everything else keeps it
// waiting for the payment.
func (s ChargeStatus) OrderStatusFor() (OrderStatus, bool) {
	switch s {
	case ChargeStatusApproved:
		return OrderStatusPaid, true
	case ChargeStatusAwaitingPayment, ChargeStatusPending, ChargeStatusProcessing:
		return OrderStatusAwaitingPayment, true
	default:
		return "", false
	}
}
