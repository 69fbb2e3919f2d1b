package pagarme

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

	"github.com/runecoins/coinstore/internal/adapter/config"
	"github.com/runecoins/coinstore/internal/core/domain"
	"github.com/runecoins/coinstore/internal/core/port"
	"go.uber.org/zap"
)

const providerName = "pagarme"

// Client talks to the Pagar.me core v5 orders API. Supports PIX and
// credit card charges.
type Client struct {
	baseURL       string
	secretKey     string
	webhookSecret string
	httpClient    *http.Client
	logger        *zap.Logger
}

func NewClient(cfg *config.Payment, log *zap.Logger) (*Client, error) {
	if cfg.PagarmeSecret == "" {
		return nil, fmt.Errorf("pagarme webhook secret is not configured")
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.PagarmeBaseURL, "/"),
		secretKey:     cfg.PagarmeSecretKey,
		webhookSecret: cfg.PagarmeSecret,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		logger:        log,
	}, nil
}

func (c *Client) Name() string { return providerName }

type phone struct {
	CountryCode string `json:"country_code"`
	AreaCode    string `json:"area_code"`
	Number      string `json:"number"`
}

type customer struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Document string `json:"document"`
	Type     string `json:"type"`
	Phones   struct {
		MobilePhone phone `json:"mobile_phone"`
	} `json:"phones"`
}

type item struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Code        string `json:"code"`
}

type pixPayment struct {
	ExpiresIn int64 `json:"expires_in"`
}

type card struct {
	Number     string `json:"number"`
	HolderName string `json:"holder_name"`
	ExpMonth   int    `json:"exp_month"`
	ExpYear    int    `json:"exp_year"`
	CVV        string `json:"cvv"`
}

type creditCardPayment struct {
	Installments int  `json:"installments"`
	Card         card `json:"card"`
}

type payment struct {
	PaymentMethod string             `json:"payment_method"`
	Pix           *pixPayment        `json:"pix,omitempty"`
	CreditCard    *creditCardPayment `json:"credit_card,omitempty"`
}

type createOrderRequest struct {
	Items    []item    `json:"items"`
	Customer customer  `json:"customer"`
	Payments []payment `json:"payments"`
}

type lastTransaction struct {
	QrCode    string `json:"qr_code"`
	QrCodeURL string `json:"qr_code_url"`
}

type charge struct {
	ID              string          `json:"id"`
	Status          string          `json:"status"`
	LastTransaction lastTransaction `json:"last_transaction"`
}

type orderResponse struct {
	ID      string   `json:"id"`
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Charges []charge `json:"charges"`
}

// parsePhone splits a raw Brazilian phone into the provider's area code
// and number fields, tolerating a leading country code.
func parsePhone(raw string) phone {
	digits := digitsOnly(raw)
	areaCode := ""
	number := ""
	if len(digits) >= 12 {
		areaCode = digits[2:4]
		number = digits[4:]
	} else if len(digits) >= 2 {
		areaCode = digits[:2]
		number = digits[2:]
	}
	if areaCode == "" {
		areaCode = "11"
	}
	if number == "" {
		number = "999999999"
	}
	return phone{CountryCode: "55", AreaCode: areaCode, Number: number}
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

func buildCustomer(c domain.Customer) customer {
	out := customer{
		Name:     c.Name,
		Email:    c.Email,
		Document: digitsOnly(c.Document),
		Type:     "individual",
	}
	out.Phones.MobilePhone = parsePhone(c.Phone)
	return out
}

func (c *Client) CreatePixCharge(ctx context.Context, req port.PixChargeRequest) (*port.ChargeResult, error) {
	expiry := req.Expiry
	if expiry <= 0 {
		expiry = time.Hour
	}

	body := createOrderRequest{
		Items: []item{{
			Amount:      req.AmountCents,
			Description: req.Description,
			Quantity:    1,
			Code:        "COINS",
		}},
		Customer: buildCustomer(req.Customer),
		Payments: []payment{{
			PaymentMethod: "pix",
			Pix:           &pixPayment{ExpiresIn: int64(expiry.Seconds())},
		}},
	}

	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", body, &resp); err != nil {
		return nil, err
	}
	return chargeResult(&resp), nil
}

func (c *Client) CreateCardCharge(ctx context.Context, req port.CardChargeRequest) (*port.ChargeResult, error) {
	installments := req.Installments
	if installments <= 0 {
		installments = 1
	}

	body := createOrderRequest{
		Items: []item{{
			Amount:      req.AmountCents,
			Description: req.Description,
			Quantity:    1,
			Code:        "COINS",
		}},
		Customer: buildCustomer(req.Customer),
		Payments: []payment{{
			PaymentMethod: "credit_card",
			CreditCard: &creditCardPayment{
				Installments: installments,
				Card: card{
					Number:     req.Card.Number,
					HolderName: req.Card.HolderName,
					ExpMonth:   req.Card.ExpMonth,
					ExpYear:    req.Card.ExpYear,
					CVV:        req.Card.CVV,
				},
			},
		}},
	}

	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", body, &resp); err != nil {
		return nil, err
	}
	return chargeResult(&resp), nil
}

func chargeResult(resp *orderResponse) *port.ChargeResult {
	result := &port.ChargeResult{
		GatewayOrderID: resp.ID,
		Status:         normalizeStatus(resp.Status),
	}
	if len(resp.Charges) > 0 {
		first := resp.Charges[0]
		result.GatewayChargeID = first.ID
		result.PixQrCode = first.LastTransaction.QrCode
		result.PixQrCodeURL = first.LastTransaction.QrCodeURL
	}
	return result
}

func (c *Client) GetChargeStatus(ctx context.Context, chargeID string) (domain.ChargeStatus, string, error) {
	var resp orderResponse
	err := c.do(ctx, http.MethodGet, "/charges/"+chargeID, nil, &resp)
	if err != nil {
		return "", "", err
	}
	return normalizeStatus(resp.Status), resp.Status, nil
}

// VerifyWebhook validates the X-Hub-Signature HMAC over the raw body and
// extracts the charge id from charge.* events.
func (c *Client) VerifyWebhook(req port.WebhookRequest) (string, error) {
	if req.Signature == "" {
		return "", domain.ErrWebhookSignature
	}
	signature := strings.TrimPrefix(req.Signature, "sha256=")

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write(req.Body)
	digest := hex.EncodeToString(mac.Sum(nil))
	if subtle.ConstantTimeCompare([]byte(digest), []byte(signature)) != 1 {
		return "", domain.ErrWebhookSignature
	}

	var body struct {
		Type string `json:"type"`
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(req.Body, &body); err != nil {
		return "", nil
	}
	if strings.HasPrefix(body.Type, "charge.") && body.Data.ID != "" {
		return body.Data.ID, nil
	}
	return "", nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out *orderResponse) error {
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
	req.SetBasicAuth(c.secretKey, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.GatewayError{Provider: providerName, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.GatewayError{Provider: providerName, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Error("pagarme request rejected",
			zap.Int("status", resp.StatusCode), zap.String("message", out.Message))
		return &domain.GatewayError{Provider: providerName, Message: out.Message}
	}
	return nil
}

func normalizeStatus(status string) domain.ChargeStatus {
	switch status {
	case "paid":
		return domain.ChargeStatusApproved
	case "pending", "waiting_payment":
		return domain.ChargeStatusAwaitingPayment
	case "processing":
		return domain.ChargeStatusProcessing
	case "failed", "canceled", "voided":
		return domain.ChargeStatusFailed
	default:
		return domain.ChargeStatusPending
	}
}
