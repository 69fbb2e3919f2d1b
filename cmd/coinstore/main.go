package main

import (
	"context"
	"fmt"

	"github.com/govalues/decimal"
	"github.com/runecoins/coinstore/internal/adapter/auth"
	"github.com/runecoins/coinstore/internal/adapter/config"
	"github.com/runecoins/coinstore/internal/adapter/filestore"
	"github.com/runecoins/coinstore/internal/adapter/gateway/mercadopago"
	"github.com/runecoins/coinstore/internal/adapter/gateway/pagarme"
	"github.com/runecoins/coinstore/internal/adapter/handler/http"
	"github.com/runecoins/coinstore/internal/adapter/logger"
	"github.com/runecoins/coinstore/internal/adapter/metrics"
	"github.com/runecoins/coinstore/internal/adapter/notify"
	"github.com/runecoins/coinstore/internal/adapter/storage"
	"github.com/runecoins/coinstore/internal/adapter/storage/repository"
	"github.com/runecoins/coinstore/internal/core/port"
	"github.com/runecoins/coinstore/internal/core/service"
	"go.uber.org/zap"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log := logger.NewLogger(conf.App)
	if log == nil {
		fmt.Printf("error creating log")
		return
	}
	defer func() {
		err := log.Sync()
		if err != nil {
			fmt.Printf("log error: %s", err)
		}
	}()

	ctx := context.Background()

	db, err := storage.NewDBStorage(ctx, conf.Database)
	if err != nil {
		log.Error("database error", zap.Error(err))
		return
	}
	err = db.RunMigrations()
	if err != nil {
		log.Error("database migration error", zap.Error(err))
		return
	}

	repo, err := repository.NewRepository(db)
	if err != nil {
		log.Error("repository creating error", zap.Error(err))
		return
	}
	tokenService, err := auth.New()
	if err != nil {
		log.Error("token service creating error", zap.Error(err))
		return
	}

	var gateway port.PaymentGateway
	switch conf.Payment.Provider {
	case config.ProviderPagarme:
		gateway, err = pagarme.NewClient(conf.Payment, log.Named("Pagarme"))
	default:
		gateway, err = mercadopago.NewClient(conf.Payment, log.Named("MercadoPago"))
	}
	if err != nil {
		log.Error("payment gateway creating error", zap.Error(err))
		return
	}

	broker := notify.NewBroker(log.Named("Notify"))

	files, err := filestore.NewDiskStore(conf.Uploads)
	if err != nil {
		log.Error("file store creating error", zap.Error(err))
		return
	}

	pricing, err := pricingFromConfig(conf)
	if err != nil {
		log.Error("pricing config error", zap.Error(err))
		return
	}

	orderMetrics := metrics.NewOrderMetrics()

	svc, err := service.NewService(repo, tokenService, gateway, broker, files,
		orderMetrics, pricing, log.Named("Service"))
	if err != nil {
		log.Error("service creating error", zap.Error(err))
		return
	}

	if err := svc.EnsureAdminUser(ctx, conf.Admin.Username, conf.Admin.Password); err != nil {
		log.Error("admin user seeding error", zap.Error(err))
		return
	}

	handler := http.NewHandler(log.Named("HTTP"))

	userHandler, err := http.NewUserHandler(handler, svc)
	if err != nil {
		log.Error("user handler creating error", zap.Error(err))
		return
	}
	catalogHandler, err := http.NewCatalogHandler(handler, svc)
	if err != nil {
		log.Error("catalog handler creating error", zap.Error(err))
		return
	}
	orderHandler, err := http.NewOrderHandler(handler, svc)
	if err != nil {
		log.Error("order handler creating error", zap.Error(err))
		return
	}
	paymentHandler, err := http.NewPaymentHandler(handler, svc)
	if err != nil {
		log.Error("payment handler creating error", zap.Error(err))
		return
	}
	webhookHandler, err := http.NewWebhookHandler(handler, svc, gateway)
	if err != nil {
		log.Error("webhook handler creating error", zap.Error(err))
		return
	}
	adminHandler, err := http.NewAdminHandler(handler, svc, broker)
	if err != nil {
		log.Error("admin handler creating error", zap.Error(err))
		return
	}

	router, err := http.NewRouter(conf, handler, tokenService,
		userHandler, catalogHandler, orderHandler,
		paymentHandler, webhookHandler, adminHandler)
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	log.Info("starting HTTP server",
		zap.String("address", conf.HTTP.HostString),
		zap.String("provider", conf.Payment.Provider))

	err = router.Serve(conf.HTTP.HostString)
	if err != nil {
		log.Error("error running http server", zap.Error(err))
	}
}

func pricingFromConfig(conf *config.Config) (service.Pricing, error) {
	buy, err := decimal.Parse(conf.Pricing.BuyUnitPrice)
	if err != nil {
		return service.Pricing{}, fmt.Errorf("bad buy unit price %q: %w", conf.Pricing.BuyUnitPrice, err)
	}
	sell, err := decimal.Parse(conf.Pricing.SellUnitPrice)
	if err != nil {
		return service.Pricing{}, fmt.Errorf("bad sell unit price %q: %w", conf.Pricing.SellUnitPrice, err)
	}

	return service.Pricing{
		BuyUnitPrice:     buy,
		SellUnitPrice:    sell,
		CardSurchargePct: conf.Pricing.CardSurchargePct,
		MinQuantity:      conf.Pricing.MinQuantity,
		MaxQuantity:      conf.Pricing.MaxQuantity,
		MinChargeCents:   conf.Payment.MinChargeCents,
	}, nil
}
