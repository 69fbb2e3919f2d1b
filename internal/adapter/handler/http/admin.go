package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/runecoins/coinstore/internal/adapter/notify"
	"github.com/runecoins/coinstore/internal/core/domain"
	"github.com/runecoins/coinstore/internal/core/port"
)

type AdminHandler struct {
	*Handler
	service port.Service
	broker  *notify.Broker
}

func NewAdminHandler(h *Handler, service port.Service, broker *notify.Broker) (*AdminHandler, error) {
	return &AdminHandler{Handler: h, service: service, broker: broker}, nil
}

// ListOrders godoc
//
//	@Summary	List all orders, newest first
//	@Tags		admin
//	@Produce	json
//	@Success	200	{array}	orderResponse
//	@Router		/api/admin/orders [get]
func (ah *AdminHandler) ListOrders(ctx *gin.Context) {
	orders, err := ah.service.ListOrders(ctx)
	if err != nil {
		ah.handleError(ctx, err)
		return
	}
	ah.handleSuccess(ctx, newOrderListResponse(orders))
}

// ListUsers godoc
//
//	@Summary	List registered accounts
//	@Tags		admin
//	@Produce	json
//	@Success	200	{array}	userResponse
//	@Router		/api/admin/users [get]
func (ah *AdminHandler) ListUsers(ctx *gin.Context) {
	users, err := ah.service.ListUsers(ctx)
	if err != nil {
		ah.handleError(ctx, err)
		return
	}

	list := make([]userResponse, 0, len(users))
	for _, u := range users {
		list = append(list, newUserResponse(u))
	}
	ah.handleSuccess(ctx, list)
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus godoc
//
//	@Summary	Move an order along the status state machine
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Order id"
//	@Param		request	body		statusUpdateRequest	true	"Target status"
//	@Success	200		{object}	orderResponse
//	@Router		/api/admin/orders/{id}/status [patch]
func (ah *AdminHandler) UpdateOrderStatus(ctx *gin.Context) {
	var req statusUpdateRequest
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ah.handleValidationError(ctx, err)
		return
	}

	order, err := ah.service.AdminSetStatus(ctx, ctx.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		ah.handleError(ctx, err)
		return
	}
	ah.handleSuccess(ctx, newOrderResponse(order))
}

// DeleteOrder godoc
//
//	@Summary	Delete an order that was never paid out
//	@Tags		admin
//	@Param		id	path	string	true	"Order id"
//	@Success	204
//	@Router		/api/admin/orders/{id} [delete]
func (ah *AdminHandler) DeleteOrder(ctx *gin.Context) {
	if err := ah.service.DeleteOrder(ctx, ctx.Param("id")); err != nil {
		ah.handleError(ctx, err)
		return
	}
	ah.handleSuccessWithStatus(ctx, nil, http.StatusNoContent)
}

type statsResponse struct {
	TotalOrders   int64            `json:"totalOrders"`
	ByStatus      map[string]int64 `json:"byStatus"`
	TotalRevenue  string           `json:"totalRevenue"`
	PendingOrders int64            `json:"pendingOrders"`
}

// OrderStats godoc
//
//	@Summary	Aggregate order counters and realized revenue
//	@Tags		admin
//	@Produce	json
//	@Success	200	{object}	statsResponse
//	@Router		/api/admin/stats [get]
func (ah *AdminHandler) OrderStats(ctx *gin.Context) {
	stats, err := ah.service.OrderStats(ctx)
	if err != nil {
		ah.handleError(ctx, err)
		return
	}

	byStatus := make(map[string]int64, len(stats.ByStatus))
	for status, count := range stats.ByStatus {
		byStatus[string(status)] = count
	}

	ah.handleSuccess(ctx, statsResponse{
		TotalOrders:   stats.TotalOrders,
		ByStatus:      byStatus,
		TotalRevenue:  stats.TotalRevenue.String(),
		PendingOrders: stats.PendingOrders,
	})
}

// TestNotification pushes a synthetic event to every connected admin
// session so the live feed can be exercised end to end.
func (ah *AdminHandler) TestNotification(ctx *gin.Context) {
	ah.broker.Broadcast(domain.Notification{
		Type:         domain.NotificationPaymentApproved,
		OrderID:      "test",
		Amount:       "0.00",
		Quantity:     0,
		CustomerName: "Test notification",
	})
	ah.handleSuccess(ctx, gin.H{
		"sent":        true,
		"subscribers": ah.broker.SubscriberCount(),
	})
}

// NotificationStream godoc
//
//	@Summary	Server-sent events feed of live store activity
//	@Tags		admin
//	@Produce	text/event-stream
//	@Router		/api/admin/notifications/stream [get]
func (ah *AdminHandler) NotificationStream(ctx *gin.Context) {
	sub := ah.broker.Subscribe()
	defer ah.broker.Unsubscribe(sub.ID)

	ctx.Writer.Header().Set("Cache-Control", "no-cache")
	ctx.Writer.Header().Set("Connection", "keep-alive")

	ctx.SSEvent("message", gin.H{"type": "connected"})
	ctx.Writer.Flush()

	ctx.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-sub.C:
			if !ok {
				return false
			}
			ctx.SSEvent("message", event)
			return true
		case <-ctx.Request.Context().Done():
			return false
		}
	})
}
