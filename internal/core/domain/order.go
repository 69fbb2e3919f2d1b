package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type OrderType string

const (
	OrderTypeBuy  OrderType = "buy"
	OrderTypeSell OrderType = "sell"
)

type PaymentMethod string

const (
	PaymentMethodPix  PaymentMethod = "pix"
	PaymentMethodCard PaymentMethod = "credit_card"
	PaymentMethodNone PaymentMethod = ""
)

type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusAwaitingPayment OrderStatus = "awaiting_payment"
	OrderStatusPaid            OrderStatus = "paid"
	OrderStatusProcessing      OrderStatus = "processing"
	OrderStatusCompleted       OrderStatus = "completed"
	OrderStatusCancelled       OrderStatus = "cancelled"
)

// allowedTransitions is the single source of truth for the order state
// machine. Terminal states have no outgoing edges.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:         {OrderStatusAwaitingPayment, OrderStatusPaid, OrderStatusCancelled},
	OrderStatusAwaitingPayment: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:            {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing:      {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted:       {},
	OrderStatusCancelled:       {},
}

func (s OrderStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransition reports whether the edge s -> target exists in the state
// machine. Cancelling a paid or completed order is blocked by the table
// shape itself: paid may still be cancelled, completed may not.
func (s OrderStatus) CanTransition(target OrderStatus) bool {
	for _, t := range allowedTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// StatusesLeadingTo returns every status from which target is reachable
// in one step. The repository uses this set for the conditional UPDATE
// that closes the poll/webhook race.
func StatusesLeadingTo(target OrderStatus) []OrderStatus {
	var from []OrderStatus
	for s, targets := range allowedTransitions {
		for _, t := range targets {
			if t == target {
				from = append(from, s)
			}
		}
	}
	return from
}

// PaymentDetails is attached to an order once a gateway charge exists.
// Buy orders without a successful charge and sell orders never carry it.
type PaymentDetails struct {
	GatewayOrderID  string
	GatewayChargeID string
	PixQrCode       string
	PixQrCodeURL    string
}

// SellEvidence holds the retrievable paths of the screenshots uploaded
// with a sell order, plus the payout destination.
type SellEvidence struct {
	PixKey           string
	PixAccountHolder string
	StoreScreenshot  string
	MarketScreenshot string
}

type Customer struct {
	Name     string
	Email    string
	Document string
	Phone    string
}

type Order struct {
	ID            string
	Type          OrderType
	CharacterName string
	ServerID      string
	PackageID     string
	Quantity      int
	TotalPrice    decimal.Decimal
	PaymentMethod PaymentMethod
	Status        OrderStatus
	ContactInfo   string
	Customer      Customer
	Payment       *PaymentDetails
	Evidence      *SellEvidence
	CreatedAt     time.Time
}

// Deletable orders are everything not yet paid out; paid and completed
// orders must be kept for reconciliation.
func (o *Order) Deletable() bool {
	return o.Status != OrderStatusPaid && o.Status != OrderStatusCompleted
}

type OrderStats struct {
	TotalOrders   int64
	ByStatus      map[OrderStatus]int64
	TotalRevenue  decimal.Decimal
	PendingOrders int64
}
