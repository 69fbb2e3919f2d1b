package mercadopago

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/runecoins/coinstore/internal/adapter/config"
	"github.com/runecoins/coinstore/internal/core/domain"
	"github.com/runecoins/coinstore/internal/core/port"
	"go.uber.org/zap"
)

const providerName = "mercadopago"

// Client talks to the MercadoPago payments API. PIX only; the provider's
// card flow was never used by this storefront.
type Client struct {
	baseURL       string
	accessToken   string
	webhookSecret string
	httpClient    *http.Client
	logger        *zap.Logger
}

func NewClient(cfg *config.Payment, log *zap.Logger) (*Client, error) {
	if cfg.MercadoPagoSecret == "" {
		return nil, fmt.Errorf("mercadopago webhook secret is not configured")
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.MercadoPagoBaseURL, "/"),
		accessToken:   cfg.MercadoPagoAccessToken,
		webhookSecret: cfg.MercadoPagoSecret,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		logger:        log,
	}, nil
}

func (c *Client) Name() string { return providerName }

type payerIdentification struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

type payer struct {
	Email          string              `json:"email"`
	FirstName      string              `json:"first_name"`
	LastName       string              `json:"last_name"`
	Identification payerIdentification `json:"identification"`
}

type createPaymentRequest struct {
	TransactionAmount json.Number `json:"transaction_amount"`
	Description       string      `json:"description"`
	PaymentMethodID   string      `json:"payment_method_id"`
	DateOfExpiration  string      `json:"date_of_expiration"`
	Payer             payer       `json:"payer"`
}

type transactionData struct {
	QrCode       string `json:"qr_code"`
	QrCodeBase64 string `json:"qr_code_base64"`
	TicketURL    string `json:"ticket_url"`
}

type pointOfInteraction struct {
	TransactionData transactionData `json:"transaction_data"`
}

type paymentResponse struct {
	ID                 json.Number        `json:"id"`
	Status             string             `json:"status"`
	StatusDetail       string             `json:"status_detail"`
	Message            string             `json:"message"`
	PointOfInteraction pointOfInteraction `json:"point_of_interaction"`
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}

// amountNumber renders cents as a plain decimal number so the charged
// amount matches the order total exactly.
func amountNumber(cents int64) json.Number {
	return json.Number(fmt.Sprintf("%d.%02d", cents/100, cents%100))
}

func splitName(full string) (string, string) {
	parts := strings.Fields(strings.TrimSpace(full))
	if len(parts) == 0 {
		return "Cliente", "RuneCoins"
	}
	if len(parts) == 1 {
		return parts[0], "RuneCoins"
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func (c *Client) CreatePixCharge(ctx context.Context, req port.PixChargeRequest) (*port.ChargeResult, error) {
	expiry := req.Expiry
	if expiry <= 0 {
		expiry = time.Hour
	}
	firstName, lastName := splitName(req.Customer.Name)

	body := createPaymentRequest{
		TransactionAmount: amountNumber(req.AmountCents),
		Description:       req.Description,
		PaymentMethodID:   "pix",
		DateOfExpiration:  time.Now().Add(expiry).Format(time.RFC3339),
		Payer: payer{
			Email:     req.Customer.Email,
			FirstName: firstName,
			LastName:  lastName,
			Identification: payerIdentification{
				Type:   "CPF",
				Number: digitsOnly(req.Customer.Document),
			},
		},
	}

	var resp paymentResponse
	err := c.do(ctx, http.MethodPost, "/v1/payments", body, &resp)
	if err != nil {
		return nil, err
	}

	paymentID := resp.ID.String()
	return &port.ChargeResult{
		GatewayOrderID:  paymentID,
		GatewayChargeID: paymentID,
		Status:          normalizeStatus(resp.Status),
		PixQrCode:       resp.PointOfInteraction.TransactionData.QrCode,
		PixQrCodeURL:    resp.PointOfInteraction.TransactionData.QrCodeBase64,
	}, nil
}

func (c *Client) CreateCardCharge(ctx context.Context, req port.CardChargeRequest) (*port.ChargeResult, error) {
	return nil, domain.ErrUnsupportedMethod
}

func (c *Client) GetChargeStatus(ctx context.Context, chargeID string) (domain.ChargeStatus, string, error) {
	var resp paymentResponse
	err := c.do(ctx, http.MethodGet, "/v1/payments/"+chargeID, nil, &resp)
	if err != nil {
		return "", "", err
	}
	return normalizeStatus(resp.Status), resp.Status, nil
}

// VerifyWebhook checks the HMAC-SHA256 signature over the canonical
// manifest and extracts the payment id from the payload shapes this
// provider has shipped over its API versions.
func (c *Client) VerifyWebhook(req port.WebhookRequest) (string, error) {
	if req.Signature == "" || req.RequestID == "" {
		return "", domain.ErrWebhookSignature
	}

	var ts, hash string
	for _, part := range strings.Split(req.Signature, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "ts":
			ts = value
		case "v1":
			hash = value
		}
	}
	if ts == "" || hash == "" {
		return "", domain.ErrWebhookSignature
	}

	var body struct {
		Type   string `json:"type"`
		Action string `json:"action"`
		Data   struct {
			ID json.Number `json:"id"`
		} `json:"data"`
	}
	_ = json.Unmarshal(req.Body, &body)

	dataID := req.Query.Get("data.id")
	if dataID == "" {
		dataID = req.Query.Get("id")
	}
	if dataID == "" {
		dataID = body.Data.ID.String()
	}

	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", dataID, req.RequestID, ts)
	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(manifest))
	digest := hex.EncodeToString(mac.Sum(nil))
	if subtle.ConstantTimeCompare([]byte(digest), []byte(hash)) != 1 {
		return "", domain.ErrWebhookSignature
	}

	switch {
	case body.Type == "payment" && body.Data.ID.String() != "":
		return body.Data.ID.String(), nil
	case strings.Contains(body.Action, "payment") && body.Data.ID.String() != "":
		return body.Data.ID.String(), nil
	case req.Query.Get("topic") == "payment" && req.Query.Get("id") != "":
		return req.Query.Get("id"), nil
	}
	return "", nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out *paymentResponse) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	if method == http.MethodPost {
		req.Header.Set("X-Idempotency-Key", "runecoins-"+uuid.NewString())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.GatewayError{Provider: providerName, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.GatewayError{Provider: providerName, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Error("mercadopago request rejected",
			zap.Int("status", resp.StatusCode), zap.String("message", out.Message))
		return &domain.GatewayError{Provider: providerName, Message: out.Message}
	}
	return nil
}

func normalizeStatus(status string) domain.ChargeStatus {
	switch status {
	case "approved":
		return domain.ChargeStatusApproved
	case "pending", "in_process", "in_mediation":
		return domain.ChargeStatusPending
	case "authorized":
		return domain.ChargeStatusProcessing
	case "rejected", "cancelled", "refunded", "charged_back":
		return domain.ChargeStatusFailed
	default:
		return domain.ChargeStatusPending
	}
}
