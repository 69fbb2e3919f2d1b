package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/runecoins/coinstore/internal/core/domain"
	"github.com/runecoins/coinstore/internal/core/port"
)

type PaymentHandler struct {
	*Handler
	service port.Service
}

func NewPaymentHandler(h *Handler, service port.Service) (*PaymentHandler, error) {
	return &PaymentHandler{Handler: h, service: service}, nil
}

type paymentRequest struct {
	Type          string `json:"type" binding:"required,oneof=buy sell"`
	CharacterName string `json:"characterName" binding:"required"`
	ServerID      string `json:"serverId" binding:"required"`
	PackageID     string `json:"packageId"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
	PaymentMethod string `json:"paymentMethod" binding:"required,oneof=pix credit_card"`
	ContactInfo   string `json:"contactInfo"`

	CustomerName     string `json:"customerName" binding:"required"`
	CustomerEmail    string `json:"customerEmail" binding:"required,email"`
	CustomerDocument string `json:"customerDocument" binding:"required,min=11"`
	CustomerPhone    string `json:"customerPhone" binding:"required,min=10"`

	CardNumber     string `json:"cardNumber"`
	CardHolderName string `json:"cardHolderName"`
	CardExpMonth   int    `json:"cardExpMonth"`
	CardExpYear    int    `json:"cardExpYear"`
	CardCvv        string `json:"cardCvv"`
	Installments   int    `json:"installments"`
}

type paymentResponse struct {
	OrderID        string `json:"orderId"`
	Status         string `json:"status"`
	PaymentMethod  string `json:"paymentMethod"`
	GatewayOrderID string `json:"gatewayOrderId,omitempty"`
	PixQrCode      string `json:"pixQrCode,omitempty"`
	PixQrCodeURL   string `json:"pixQrCodeUrl,omitempty"`
}

// CreatePayment godoc
//
//	@Summary	Create a buy order and charge it at the payment gateway
//	@Tags		payments
//	@Accept		json
//	@Produce	json
//	@Param		request	body		paymentRequest	true	"Checkout data"
//	@Success	201		{object}	paymentResponse
//	@Router		/api/payments [post]
func (ph *PaymentHandler) CreatePayment(ctx *gin.Context) {
	var req paymentRequest
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	if req.Type != string(domain.OrderTypeBuy) {
		ph.handleError(ctx, domain.ErrSellNotPayable)
		return
	}

	buyReq := port.BuyOrderRequest{
		CharacterName: req.CharacterName,
		ServerID:      req.ServerID,
		PackageID:     req.PackageID,
		Quantity:      req.Quantity,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		ContactInfo:   req.ContactInfo,
		Customer: domain.Customer{
			Name:     req.CustomerName,
			Email:    req.CustomerEmail,
			Document: req.CustomerDocument,
			Phone:    req.CustomerPhone,
		},
		Installments: req.Installments,
	}
	if req.PaymentMethod == string(domain.PaymentMethodCard) {
		buyReq.Card = &port.CardDetails{
			Number:     req.CardNumber,
			HolderName: req.CardHolderName,
			ExpMonth:   req.CardExpMonth,
			ExpYear:    req.CardExpYear,
			CVV:        req.CardCvv,
		}
	}

	order, err := ph.service.SubmitBuyOrder(ctx, buyReq)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	resp := paymentResponse{
		OrderID:       order.ID,
		Status:        string(order.Status),
		PaymentMethod: string(order.PaymentMethod),
	}
	if order.Payment != nil {
		resp.GatewayOrderID = order.Payment.GatewayOrderID
		resp.PixQrCode = order.Payment.PixQrCode
		resp.PixQrCodeURL = order.Payment.PixQrCodeURL
	}

	ph.handleSuccessWithStatus(ctx, resp, http.StatusCreated)
}

type paymentStatusResponse struct {
	OrderID        string `json:"orderId"`
	Status         string `json:"status"`
	ProviderStatus string `json:"providerStatus,omitempty"`
}

// PaymentStatus godoc
//
//	@Summary	Poll the payment status of an order
//	@Tags		payments
//	@Produce	json
//	@Param		orderId	path		string	true	"Order id"
//	@Success	200		{object}	paymentStatusResponse
//	@Router		/api/payments/{orderId}/status [get]
func (ph *PaymentHandler) PaymentStatus(ctx *gin.Context) {
	result, err := ph.service.PollPaymentStatus(ctx, ctx.Param("orderId"))
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, paymentStatusResponse{
		OrderID:        result.OrderID,
		Status:         string(result.Status),
		ProviderStatus: result.ProviderStatus,
	})
}
