package mercadopago

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/runecoins/coinstore/internal/adapter/config"
	"github.com/runecoins/coinstore/internal/core/domain"
	"github.com/runecoins/coinstore/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "whsec-test"

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	client, err := NewClient(&config.Payment{
		MercadoPagoBaseURL:     baseURL,
		MercadoPagoAccessToken: "token-test",
		MercadoPagoSecret:      testSecret,
	}, zap.NewNop())
	require.NoError(t, err)

	return client
}

func signManifest(dataID, requestID, ts string) string {
	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", dataID, requestID, ts)
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(manifest))
	return fmt.Sprintf("ts=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestClient_RequiresWebhookSecret(t *testing.T) {
	_, err := NewClient(&config.Payment{MercadoPagoAccessToken: "token"}, zap.NewNop())
	assert.Error(t, err)
}

func TestClient_CreatePixCharge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments", r.URL.Path)
		assert.Equal(t, "Bearer token-test", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Idempotency-Key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 19.98, body["transaction_amount"])
		assert.Equal(t, "pix", body["payment_method_id"])

		payer := body["payer"].(map[string]any)
		assert.Equal(t, "Alice", payer["first_name"])
		assert.Equal(t, "Souza Lima", payer["last_name"])
		identification := payer["identification"].(map[string]any)
		assert.Equal(t, "12345678901", identification["number"])

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{
			"id": 12345,
			"status": "pending",
			"point_of_interaction": {
				"transaction_data": {
					"qr_code": "qr-payload",
					"qr_code_base64": "base64-img"
				}
			}
		}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result, err := client.CreatePixCharge(context.Background(), port.PixChargeRequest{
		Customer: domain.Customer{
			Name:     "Alice Souza Lima",
			Email:    "alice@example.com",
			Document: "123.456.789-01",
		},
		AmountCents: 1998,
		Description: "RuneCoins - 250 coins (buy)",
	})

	require.NoError(t, err)
	assert.Equal(t, "12345", result.GatewayChargeID)
	assert.Equal(t, domain.ChargeStatusPending, result.Status)
	assert.Equal(t, "qr-payload", result.PixQrCode)
	assert.Equal(t, "base64-img", result.PixQrCodeURL)
}

func TestClient_CreatePixCharge_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "invalid access token"}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.CreatePixCharge(context.Background(), port.PixChargeRequest{AmountCents: 1998})

	var gwErr *domain.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "mercadopago", gwErr.Provider)
	assert.Contains(t, gwErr.Error(), "invalid access token")
}

func TestClient_CreateCardCharge_Unsupported(t *testing.T) {
	client := newTestClient(t, "http://unused")

	_, err := client.CreateCardCharge(context.Background(), port.CardChargeRequest{})
	assert.ErrorIs(t, err, domain.ErrUnsupportedMethod)
}

func TestClient_GetChargeStatus(t *testing.T) {
	tests := []struct {
		provider string
		want     domain.ChargeStatus
	}{
		{"approved", domain.ChargeStatusApproved},
		{"pending", domain.ChargeStatusPending},
		{"in_process", domain.ChargeStatusPending},
		{"authorized", domain.ChargeStatusProcessing},
		{"rejected", domain.ChargeStatusFailed},
		{"charged_back", domain.ChargeStatusFailed},
		{"something_new", domain.ChargeStatusPending},
	}

	for _, test := range tests {
		t.Run(test.provider, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/payments/12345", r.URL.Path)
				fmt.Fprintf(w, `{"id": 12345, "status": %q}`, test.provider)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)

			status, raw, err := client.GetChargeStatus(context.Background(), "12345")

			require.NoError(t, err)
			assert.Equal(t, test.want, status)
			assert.Equal(t, test.provider, raw)
		})
	}
}

func TestClient_VerifyWebhook(t *testing.T) {
	client := newTestClient(t, "http://unused")

	t.Run("valid signature with type payment body", func(t *testing.T) {
		chargeID, err := client.VerifyWebhook(port.WebhookRequest{
			Signature: signManifest("12345", "req-1", "1700000000"),
			RequestID: "req-1",
			Query:     url.Values{"data.id": {"12345"}},
			Body:      []byte(`{"type":"payment","data":{"id":12345}}`),
		})

		require.NoError(t, err)
		assert.Equal(t, "12345", chargeID)
	})

	t.Run("valid signature with action payload", func(t *testing.T) {
		chargeID, err := client.VerifyWebhook(port.WebhookRequest{
			Signature: signManifest("777", "req-2", "1700000001"),
			RequestID: "req-2",
			Query:     url.Values{},
			Body:      []byte(`{"action":"payment.updated","data":{"id":"777"}}`),
		})

		require.NoError(t, err)
		assert.Equal(t, "777", chargeID)
	})

	t.Run("valid signature with topic query", func(t *testing.T) {
		chargeID, err := client.VerifyWebhook(port.WebhookRequest{
			Signature: signManifest("888", "req-3", "1700000002"),
			RequestID: "req-3",
			Query:     url.Values{"topic": {"payment"}, "id": {"888"}},
			Body:      []byte(`{}`),
		})

		require.NoError(t, err)
		assert.Equal(t, "888", chargeID)
	})

	t.Run("signed non-payment event yields no charge", func(t *testing.T) {
		chargeID, err := client.VerifyWebhook(port.WebhookRequest{
			Signature: signManifest("999", "req-4", "1700000003"),
			RequestID: "req-4",
			Query:     url.Values{"data.id": {"999"}},
			Body:      []byte(`{"type":"plan","data":{"id":999}}`),
		})

		require.NoError(t, err)
		assert.Empty(t, chargeID)
	})

	t.Run("tampered body", func(t *testing.T) {
		_, err := client.VerifyWebhook(port.WebhookRequest{
			Signature: signManifest("12345", "req-5", "1700000004"),
			RequestID: "req-5",
			Query:     url.Values{"data.id": {"54321"}},
			Body:      []byte(`{"type":"payment","data":{"id":54321}}`),
		})

		assert.ErrorIs(t, err, domain.ErrWebhookSignature)
	})

	t.Run("missing signature", func(t *testing.T) {
		_, err := client.VerifyWebhook(port.WebhookRequest{
			RequestID: "req-6",
			Query:     url.Values{},
			Body:      []byte(`{}`),
		})

		assert.ErrorIs(t, err, domain.ErrWebhookSignature)
	})

	t.Run("malformed signature header", func(t *testing.T) {
		_, err := client.VerifyWebhook(port.WebhookRequest{
			Signature: "garbage",
			RequestID: "req-7",
			Query:     url.Values{},
			Body:      []byte(`{}`),
		})

		assert.ErrorIs(t, err, domain.ErrWebhookSignature)
	})
}
