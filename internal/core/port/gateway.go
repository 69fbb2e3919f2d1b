package port

import (
	"context"
	"net/url"
	"time"

	"github.com/runecoins/coinstore/internal/core/domain"
)

type PixChargeRequest struct {
	Customer    domain.Customer
	AmountCents int64
	Description string
	Expiry      time.Duration
}

type CardDetails struct {
	Number     string
	HolderName string
	ExpMonth   int
	ExpYear    int
	CVV        string
}

type CardChargeRequest struct {
	Customer     domain.Customer
	Card         CardDetails
	AmountCents  int64
	Description  string
	Installments int
}

// ChargeResult is the provider-agnostic shape every gateway normalizes
// its response into.
type ChargeResult struct {
	GatewayOrderID  string
	GatewayChargeID string
	Status          domain.ChargeStatus
	PixQrCode       string
	PixQrCodeURL    string
}

// WebhookRequest carries the raw inbound notification so each gateway
// can apply its own signature scheme and payload shapes.
type WebhookRequest struct {
	Signature string
	RequestID string
	Query     url.Values
	Body      []byte
}

//go:generate mockgen -source=gateway.go -destination=mock/gateway.go -package=mock
type PaymentGateway interface {
	Name() string
	CreatePixCharge(ctx context.Context, req PixChargeRequest) (*ChargeResult, error)
	CreateCardCharge(ctx context.Context, req CardChargeRequest) (*ChargeResult, error)
	// GetChargeStatus returns the normalized status plus the provider's
	// raw status string for the polling response.
	GetChargeStatus(ctx context.Context, chargeID string) (domain.ChargeStatus, string, error)
	// VerifyWebhook validates the notification signature and extracts
	// the provider charge id, or empty when the payload carries none.
	VerifyWebhook(req WebhookRequest) (string, error)
}
