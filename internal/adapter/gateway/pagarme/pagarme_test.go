package pagarme

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/runecoins/coinstore/internal/adapter/config"
	"github.com/runecoins/coinstore/internal/core/domain"
	"github.com/runecoins/coinstore/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "whsec-pagarme"

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	client, err := NewClient(&config.Payment{
		PagarmeBaseURL:   baseURL,
		PagarmeSecretKey: "sk_test",
		PagarmeSecret:    testSecret,
	}, zap.NewNop())
	require.NoError(t, err)

	return client
}

func signBody(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestClient_CreatePixCharge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		username, _, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "sk_test", username)

		var body createOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Items, 1)
		assert.Equal(t, int64(1998), body.Items[0].Amount)
		require.Len(t, body.Payments, 1)
		assert.Equal(t, "pix", body.Payments[0].PaymentMethod)
		assert.Equal(t, "12345678901", body.Customer.Document)
		assert.Equal(t, "11", body.Customer.Phones.MobilePhone.AreaCode)
		assert.Equal(t, "999990000", body.Customer.Phones.MobilePhone.Number)

		fmt.Fprint(w, `{
			"id": "or_1",
			"status": "pending",
			"charges": [{
				"id": "ch_1",
				"status": "pending",
				"last_transaction": {"qr_code": "qr-payload", "qr_code_url": "https://api.pagar.me/qr.png"}
			}]
		}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result, err := client.CreatePixCharge(context.Background(), port.PixChargeRequest{
		Customer: domain.Customer{
			Name:     "Alice Souza",
			Email:    "alice@example.com",
			Document: "123.456.789-01",
			Phone:    "(11) 99999-0000",
		},
		AmountCents: 1998,
		Description: "RuneCoins - 250 coins (buy)",
	})

	require.NoError(t, err)
	assert.Equal(t, "or_1", result.GatewayOrderID)
	assert.Equal(t, "ch_1", result.GatewayChargeID)
	assert.Equal(t, domain.ChargeStatusAwaitingPayment, result.Status)
	assert.Equal(t, "qr-payload", result.PixQrCode)
}

func TestClient_CreateCardCharge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body createOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Payments, 1)
		assert.Equal(t, "credit_card", body.Payments[0].PaymentMethod)
		require.NotNil(t, body.Payments[0].CreditCard)
		assert.Equal(t, 3, body.Payments[0].CreditCard.Installments)
		assert.Equal(t, "ALICE SOUZA", body.Payments[0].CreditCard.Card.HolderName)

		fmt.Fprint(w, `{"id": "or_2", "status": "paid", "charges": [{"id": "ch_2", "status": "paid"}]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result, err := client.CreateCardCharge(context.Background(), port.CardChargeRequest{
		Customer: domain.Customer{Name: "Alice Souza", Email: "alice@example.com"},
		Card: port.CardDetails{
			Number:     "4111111111111111",
			HolderName: "ALICE SOUZA",
			ExpMonth:   12,
			ExpYear:    2030,
			CVV:        "123",
		},
		AmountCents:  8390,
		Installments: 3,
	})

	require.NoError(t, err)
	assert.Equal(t, "ch_2", result.GatewayChargeID)
	assert.Equal(t, domain.ChargeStatusApproved, result.Status)
}

func TestClient_CreateCharge_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message": "invalid card"}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.CreateCardCharge(context.Background(), port.CardChargeRequest{AmountCents: 100})

	var gwErr *domain.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "pagarme", gwErr.Provider)
}

func TestClient_GetChargeStatus(t *testing.T) {
	tests := []struct {
		provider string
		want     domain.ChargeStatus
	}{
		{"paid", domain.ChargeStatusApproved},
		{"pending", domain.ChargeStatusAwaitingPayment},
		{"waiting_payment", domain.ChargeStatusAwaitingPayment},
		{"processing", domain.ChargeStatusProcessing},
		{"failed", domain.ChargeStatusFailed},
		{"voided", domain.ChargeStatusFailed},
	}

	for _, test := range tests {
		t.Run(test.provider, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/charges/ch_1", r.URL.Path)
				fmt.Fprintf(w, `{"id": "ch_1", "status": %q}`, test.provider)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)

			status, raw, err := client.GetChargeStatus(context.Background(), "ch_1")

			require.NoError(t, err)
			assert.Equal(t, test.want, status)
			assert.Equal(t, test.provider, raw)
		})
	}
}

func TestClient_VerifyWebhook(t *testing.T) {
	client := newTestClient(t, "http://unused")

	t.Run("valid charge event", func(t *testing.T) {
		body := []byte(`{"type":"charge.paid","data":{"id":"ch_1"}}`)

		chargeID, err := client.VerifyWebhook(port.WebhookRequest{
			Signature: signBody(body),
			Body:      body,
		})

		require.NoError(t, err)
		assert.Equal(t, "ch_1", chargeID)
	})

	t.Run("signed non-charge event yields no charge", func(t *testing.T) {
		body := []byte(`{"type":"order.created","data":{"id":"or_1"}}`)

		chargeID, err := client.VerifyWebhook(port.WebhookRequest{
			Signature: signBody(body),
			Body:      body,
		})

		require.NoError(t, err)
		assert.Empty(t, chargeID)
	})

	t.Run("tampered body", func(t *testing.T) {
		body := []byte(`{"type":"charge.paid","data":{"id":"ch_1"}}`)
		signature := signBody(body)

		_, err := client.VerifyWebhook(port.WebhookRequest{
			Signature: signature,
			Body:      []byte(`{"type":"charge.paid","data":{"id":"ch_2"}}`),
		})

		assert.ErrorIs(t, err, domain.ErrWebhookSignature)
	})

	t.Run("missing signature", func(t *testing.T) {
		_, err := client.VerifyWebhook(port.WebhookRequest{Body: []byte(`{}`)})
		assert.ErrorIs(t, err, domain.ErrWebhookSignature)
	})
}
