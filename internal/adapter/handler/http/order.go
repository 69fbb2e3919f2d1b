package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/runecoins/coinstore/internal/core/domain"
	"github.com/runecoins/coinstore/internal/core/port"
)

type OrderHandler struct {
	*Handler
	service port.Service
}

func NewOrderHandler(h *Handler, service port.Service) (*OrderHandler, error) {
	return &OrderHandler{Handler: h, service: service}, nil
}

type orderRequest struct {
	Type          string `json:"type" binding:"required,oneof=buy sell"`
	CharacterName string `json:"characterName" binding:"required"`
	ServerID      string `json:"serverId" binding:"required"`
	PackageID     string `json:"packageId"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
	PaymentMethod string `json:"paymentMethod" binding:"omitempty,oneof=pix credit_card"`
	ContactInfo   string `json:"contactInfo"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail" binding:"omitempty,email"`
	CustomerPhone string `json:"customerPhone"`
}

// CreateOrder godoc
//
//	@Summary	Create an order without charging it
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Param		request	body		orderRequest	true	"Order data"
//	@Success	201		{object}	orderResponse
//	@Router		/api/orders [post]
func (oh *OrderHandler) CreateOrder(ctx *gin.Context) {
	var req orderRequest
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order := &domain.Order{
		Type:          domain.OrderType(req.Type),
		CharacterName: req.CharacterName,
		ServerID:      req.ServerID,
		PackageID:     req.PackageID,
		Quantity:      req.Quantity,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		ContactInfo:   req.ContactInfo,
		Customer: domain.Customer{
			Name:  req.CustomerName,
			Email: req.CustomerEmail,
			Phone: req.CustomerPhone,
		},
	}

	created, err := oh.service.CreateOrder(ctx, order)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccessWithStatus(ctx, newOrderResponse(created), http.StatusCreated)
}

// GetOrder godoc
//
//	@Summary	Fetch a single order by id
//	@Tags		orders
//	@Produce	json
//	@Param		id	path		string	true	"Order id"
//	@Success	200	{object}	orderResponse
//	@Router		/api/orders/{id} [get]
func (oh *OrderHandler) GetOrder(ctx *gin.Context) {
	order, err := oh.service.GetOrder(ctx, ctx.Param("id"))
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccess(ctx, newOrderResponse(order))
}

type sellOrderRequest struct {
	CharacterName    string `form:"characterName" binding:"required"`
	ServerID         string `form:"serverId" binding:"required"`
	Quantity         int    `form:"quantity" binding:"required,min=1"`
	CustomerName     string `form:"customerName" binding:"required"`
	CustomerEmail    string `form:"customerEmail" binding:"required,email"`
	CustomerPhone    string `form:"customerPhone" binding:"required,min=10"`
	PixKey           string `form:"pixKey" binding:"required"`
	PixAccountHolder string `form:"pixAccountHolder" binding:"required"`
}

// CreateSellOrder godoc
//
//	@Summary	Submit a sell order with payout details and evidence screenshots
//	@Tags		orders
//	@Accept		mpfd
//	@Produce	json
//	@Success	201	{object}	orderResponse
//	@Router		/api/sell-orders [post]
func (oh *OrderHandler) CreateSellOrder(ctx *gin.Context) {
	var req sellOrderRequest
	if err := ctx.ShouldBind(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	store, err := formUpload(ctx, "storeScreenshot")
	if err != nil {
		oh.handleError(ctx, domain.ErrMissingEvidence)
		return
	}
	defer store.close()

	market, err := formUpload(ctx, "marketScreenshot")
	if err != nil {
		oh.handleError(ctx, domain.ErrMissingEvidence)
		return
	}
	defer market.close()

	order, err := oh.service.SubmitSellOrder(ctx, port.SellOrderRequest{
		CharacterName: req.CharacterName,
		ServerID:      req.ServerID,
		Quantity:      req.Quantity,
		Customer: domain.Customer{
			Name:  req.CustomerName,
			Email: req.CustomerEmail,
			Phone: req.CustomerPhone,
		},
		PixKey:           req.PixKey,
		PixAccountHolder: req.PixAccountHolder,
		StoreScreenshot:  store.upload,
		MarketScreenshot: market.upload,
	})
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccessWithStatus(ctx, newOrderResponse(order), http.StatusCreated)
}

type openedUpload struct {
	upload port.Upload
	close  func() error
}

func formUpload(ctx *gin.Context, field string) (*openedUpload, error) {
	header, err := ctx.FormFile(field)
	if err != nil {
		return nil, err
	}
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	return &openedUpload{
		upload: port.Upload{
			Name:    header.Filename,
			Size:    header.Size,
			Content: file,
		},
		close: file.Close,
	}, nil
}
