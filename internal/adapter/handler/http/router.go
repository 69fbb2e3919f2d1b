package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/runecoins/coinstore/internal/adapter/config"
	"github.com/runecoins/coinstore/internal/core/port"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	conf *config.Config,
	handler *Handler,
	tokenService port.TokenService,
	userHandler *UserHandler,
	catalogHandler *CatalogHandler,
	orderHandler *OrderHandler,
	paymentHandler *PaymentHandler,
	webhookHandler *WebhookHandler,
	adminHandler *AdminHandler) (*Router, error) {

	if conf.App.Mode == config.AppModeProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Swagger
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.Static("/uploads", conf.Uploads.Dir)

	authed := authCheck(handler, tokenService)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", userHandler.RegisterUser)
			auth.POST("/login", userHandler.LoginUser)
			auth.POST("/logout", userHandler.LogoutUser)
		}
		api.GET("/user", authed, userHandler.CurrentUser)

		api.GET("/packages", catalogHandler.ListPackages)
		api.GET("/servers", catalogHandler.ListServers)

		api.POST("/orders", orderHandler.CreateOrder)
		api.GET("/orders/:id", orderHandler.GetOrder)
		api.POST("/sell-orders", orderHandler.CreateSellOrder)

		api.POST("/payments", paymentHandler.CreatePayment)
		api.GET("/payments/:orderId/status", paymentHandler.PaymentStatus)

		api.POST("/webhooks/:provider", webhookHandler.Receive)

		admin := api.Group("/admin", authed, adminCheck(handler))
		{
			admin.GET("/orders", adminHandler.ListOrders)
			admin.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)
			admin.DELETE("/orders/:id", adminHandler.DeleteOrder)
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/stats", adminHandler.OrderStats)
			admin.GET("/notifications/stream", adminHandler.NotificationStream)
			admin.POST("/test-notification", adminHandler.TestNotification)
		}
	}

	return &Router{router}, nil
}

// Serve starts the HTTP server
func (r *Router) Serve(listenAddr string) error {
	return r.Run(listenAddr)
}
