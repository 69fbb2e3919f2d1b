package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/runecoins/coinstore/internal/core/domain"
	"github.com/runecoins/coinstore/internal/core/port"
	"go.uber.org/zap"
)

type WebhookHandler struct {
	*Handler
	service port.Service
	gateway port.PaymentGateway
}

func NewWebhookHandler(h *Handler, service port.Service, gateway port.PaymentGateway) (*WebhookHandler, error) {
	return &WebhookHandler{Handler: h, service: service, gateway: gateway}, nil
}

// Receive handles provider payment notifications. The signature gate is
// the only 401 path; once it passes, the provider always gets a 200 so
// it stops retrying, and processing failures are only logged.
func (wh *WebhookHandler) Receive(ctx *gin.Context) {
	if ctx.Param("provider") != wh.gateway.Name() {
		ctx.Status(http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		wh.handleError(ctx, domain.ErrBadRequest)
		return
	}

	signature := ctx.GetHeader("X-Signature")
	if signature == "" {
		signature = ctx.GetHeader("X-Hub-Signature")
	}

	chargeID, err := wh.gateway.VerifyWebhook(port.WebhookRequest{
		Signature: signature,
		RequestID: ctx.GetHeader("X-Request-Id"),
		Query:     ctx.Request.URL.Query(),
		Body:      body,
	})
	if err != nil {
		if errors.Is(err, domain.ErrWebhookSignature) {
			wh.logger.Warn("webhook signature rejected",
				zap.String("provider", wh.gateway.Name()))
			wh.handleError(ctx, err)
			return
		}
		wh.logger.Error("webhook verification", zap.Error(err))
		wh.handleError(ctx, domain.ErrBadRequest)
		return
	}

	if chargeID != "" {
		if err := wh.service.ProcessPaymentNotification(ctx, chargeID); err != nil {
			// Already acknowledged to the provider; failures here are
			// recovered by the status poller.
			wh.logger.Error("webhook processing",
				zap.String("charge", chargeID), zap.Error(err))
		}
	}

	wh.handleSuccess(ctx, gin.H{"received": true})
}
