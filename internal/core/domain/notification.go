package domain

type NotificationType string

const (
	NotificationNewBuyOrder     NotificationType = "new_buy_order"
	NotificationNewSellOrder    NotificationType = "new_sell_order"
	NotificationPaymentApproved NotificationType = "payment_approved"
)

// Notification is the best-effort live event pushed to connected admin
// sessions. No delivery guarantee, no replay.
type Notification struct {
	Type         NotificationType `json:"type"`
	OrderID      string           `json:"orderId"`
	Amount       string           `json:"amount"`
	Quantity     int              `json:"quantity"`
	CustomerName string           `json:"customerName"`
}
