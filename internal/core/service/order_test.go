package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/runecoins/coinstore/internal/core/domain"
	"github.com/runecoins/coinstore/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var coinsPackage = domain.CoinPackage{
	ID:     "coins",
	Name:   "Coins",
	Active: true,
}

func buyRequest(quantity int, method domain.PaymentMethod) port.BuyOrderRequest {
	return port.BuyOrderRequest{
		CharacterName: "Aldor",
		ServerID:      "deletera",
		Quantity:      quantity,
		PaymentMethod: method,
		Customer: domain.Customer{
			Name:     "Alice Souza",
			Email:    "alice@example.com",
			Document: "12345678901",
			Phone:    "11999990000",
		},
	}
}

func expectCreatedOrder(m *mocks, id string) {
	m.repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, order *domain.Order) (*domain.Order, error) {
			order.ID = id
			return order, nil
		})
}

func TestService_SubmitBuyOrder_Pix(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	svc, m := newTestService(t, mockCtrl, testPricing())

	m.repo.EXPECT().GetPackage(gomock.Any(), "coins").Return(&coinsPackage, nil)
	expectCreatedOrder(m, "order-1")
	m.metrics.EXPECT().OrderCreated("buy", "pix")

	m.gateway.EXPECT().CreatePixCharge(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req port.PixChargeRequest) (*port.ChargeResult, error) {
			// 250 x 0.0799 = 19.975, rounded half up to 19.98
			assert.Equal(t, int64(1998), req.AmountCents)
			assert.Equal(t, "Alice Souza", req.Customer.Name)
			return &port.ChargeResult{
				GatewayOrderID:  "mp-10",
				GatewayChargeID: "charge-10",
				Status:          domain.ChargeStatusPending,
				PixQrCode:       "qr-data",
				PixQrCodeURL:    "https://pay.example/qr.png",
			}, nil
		})

	m.repo.EXPECT().AttachPayment(gomock.Any(), "order-1", gomock.Any(), domain.OrderStatusAwaitingPayment).
		Return(nil)
	m.metrics.EXPECT().StatusChanged("awaiting_payment")
	m.notifier.EXPECT().Broadcast(gomock.Any()).
		Do(func(event domain.Notification) {
			assert.Equal(t, domain.NotificationNewBuyOrder, event.Type)
			assert.Equal(t, "order-1", event.OrderID)
			assert.Equal(t, "19.98", event.Amount)
		})

	order, err := svc.SubmitBuyOrder(context.Background(), buyRequest(250, domain.PaymentMethodPix))

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusAwaitingPayment, order.Status)
	assert.Equal(t, "19.98", order.TotalPrice.String())
	require.NotNil(t, order.Payment)
	assert.Equal(t, "charge-10", order.Payment.GatewayChargeID)
	assert.Equal(t, "qr-data", order.Payment.PixQrCode)
}

func TestService_SubmitBuyOrder_CardSurcharge(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	svc, m := newTestService(t, mockCtrl, testPricing())

	req := buyRequest(1000, domain.PaymentMethodCard)
	req.Card = &port.CardDetails{
		Number:     "4111111111111111",
		HolderName: "ALICE SOUZA",
		ExpMonth:   12,
		ExpYear:    2030,
		CVV:        "123",
	}
	req.Installments = 2

	m.repo.EXPECT().GetPackage(gomock.Any(), "coins").Return(&coinsPackage, nil)
	expectCreatedOrder(m, "order-2")
	m.metrics.EXPECT().OrderCreated("buy", "credit_card")

	m.gateway.EXPECT().CreateCardCharge(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, charge port.CardChargeRequest) (*port.ChargeResult, error) {
			// 1000 x 0.0799 = 79.90, +5% card surcharge = 83.895 -> 83.90
			assert.Equal(t, int64(8390), charge.AmountCents)
			assert.Equal(t, 2, charge.Installments)
			return &port.ChargeResult{
				GatewayOrderID:  "pg-20",
				GatewayChargeID: "charge-20",
				Status:          domain.ChargeStatusApproved,
			}, nil
		})

	m.repo.EXPECT().AttachPayment(gomock.Any(), "order-2", gomock.Any(), domain.OrderStatusPaid).
		Return(nil)
	m.metrics.EXPECT().StatusChanged("paid")
	m.notifier.EXPECT().Broadcast(gomock.Any())

	order, err := svc.SubmitBuyOrder(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, order.Status)
	assert.Equal(t, "83.90", order.TotalPrice.String())
}

func TestService_SubmitBuyOrder_GatewayFailureKeepsOrderPending(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	svc, m := newTestService(t, mockCtrl, testPricing())

	m.repo.EXPECT().GetPackage(gomock.Any(), "coins").Return(&coinsPackage, nil)
	expectCreatedOrder(m, "order-3")
	m.metrics.EXPECT().OrderCreated("buy", "pix")

	gwErr := &domain.GatewayError{Provider: "mercadopago", Message: "invalid access token"}
	m.gateway.EXPECT().CreatePixCharge(gomock.Any(), gomock.Any()).Return(nil, gwErr)
	m.gateway.EXPECT().Name().Return("mercadopago")
	m.metrics.EXPECT().GatewayFailure("mercadopago")

	order, err := svc.SubmitBuyOrder(context.Background(), buyRequest(250, domain.PaymentMethodPix))

	assert.Nil(t, order)
	assert.ErrorAs(t, err, &gwErr)
	// no AttachPayment and no Broadcast expectations: the order stays
	// pending and no admin event fires
}

func TestService_SubmitBuyOrder_Validation(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	t.Run("quantity out of range", func(t *testing.T) {
		svc, _ := newTestService(t, mockCtrl, testPricing())

		_, err := svc.SubmitBuyOrder(context.Background(), buyRequest(10, domain.PaymentMethodPix))
		assert.ErrorIs(t, err, domain.ErrQuantityOutOfRange)

		_, err = svc.SubmitBuyOrder(context.Background(), buyRequest(200000, domain.PaymentMethodPix))
		assert.ErrorIs(t, err, domain.ErrQuantityOutOfRange)
	})

	t.Run("card without card fields", func(t *testing.T) {
		svc, _ := newTestService(t, mockCtrl, testPricing())

		_, err := svc.SubmitBuyOrder(context.Background(), buyRequest(250, domain.PaymentMethodCard))
		assert.ErrorIs(t, err, domain.ErrMissingCardFields)
	})

	t.Run("inactive package", func(t *testing.T) {
		svc, m := newTestService(t, mockCtrl, testPricing())

		inactive := coinsPackage
		inactive.Active = false
		m.repo.EXPECT().GetPackage(gomock.Any(), "coins").Return(&inactive, nil)

		_, err := svc.SubmitBuyOrder(context.Background(), buyRequest(250, domain.PaymentMethodPix))
		assert.ErrorIs(t, err, domain.ErrPackageNotAvailable)
	})

	t.Run("amount below minimum charge", func(t *testing.T) {
		pricing := testPricing()
		pricing.MinChargeCents = 300
		svc, m := newTestService(t, mockCtrl, pricing)

		m.repo.EXPECT().GetPackage(gomock.Any(), "coins").Return(&coinsPackage, nil)

		// 25 x 0.0799 = 2.00, below the 3.00 floor
		_, err := svc.SubmitBuyOrder(context.Background(), buyRequest(25, domain.PaymentMethodPix))
		assert.ErrorIs(t, err, domain.ErrAmountBelowMinimum)
	})
}

func TestService_SubmitSellOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	svc, m := newTestService(t, mockCtrl, testPricing())

	req := port.SellOrderRequest{
		CharacterName:    "Aldor",
		ServerID:         "deletera",
		Quantity:         500,
		Customer:         domain.Customer{Name: "Alice Souza", Email: "alice@example.com"},
		PixKey:           "alice@example.com",
		PixAccountHolder: "Alice Souza",
		StoreScreenshot:  port.Upload{Name: "store.png", Size: 10, Content: strings.NewReader("store-img")},
		MarketScreenshot: port.Upload{Name: "market.png", Size: 11, Content: strings.NewReader("market-img")},
	}

	gomock.InOrder(
		m.files.EXPECT().Save(gomock.Any(), gomock.Any()).Return("/uploads/store.png", nil),
		m.files.EXPECT().Save(gomock.Any(), gomock.Any()).Return("/uploads/market.png", nil),
	)
	expectCreatedOrder(m, "sell-1")
	m.metrics.EXPECT().OrderCreated("sell", "pix")
	m.notifier.EXPECT().Broadcast(gomock.Any()).
		Do(func(event domain.Notification) {
			assert.Equal(t, domain.NotificationNewSellOrder, event.Type)
			assert.Equal(t, "sell-1", event.OrderID)
		})

	order, err := svc.SubmitSellOrder(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	// 500 x 0.0649 = 32.45 at the sell rate
	assert.Equal(t, "32.45", order.TotalPrice.String())
	require.NotNil(t, order.Evidence)
	assert.Equal(t, "/uploads/store.png", order.Evidence.StoreScreenshot)
	assert.Equal(t, "/uploads/market.png", order.Evidence.MarketScreenshot)
}

func TestService_SubmitSellOrder_MissingEvidence(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	svc, _ := newTestService(t, mockCtrl, testPricing())

	_, err := svc.SubmitSellOrder(context.Background(), port.SellOrderRequest{
		CharacterName:    "Aldor",
		ServerID:         "deletera",
		Quantity:         500,
		PixKey:           "key",
		PixAccountHolder: "Alice",
		StoreScreenshot:  port.Upload{Name: "store.png", Content: strings.NewReader("x")},
	})

	assert.ErrorIs(t, err, domain.ErrMissingEvidence)
}

func TestService_SubmitSellOrder_MissingPixKey(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	svc, _ := newTestService(t, mockCtrl, testPricing())

	_, err := svc.SubmitSellOrder(context.Background(), port.SellOrderRequest{
		CharacterName:    "Aldor",
		ServerID:         "deletera",
		Quantity:         500,
		PixAccountHolder: "Alice",
		StoreScreenshot:  port.Upload{Name: "store.png", Content: strings.NewReader("x")},
		MarketScreenshot: port.Upload{Name: "market.png", Content: strings.NewReader("y")},
	})

	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestService_PollPaymentStatus(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	t.Run("no gateway reference makes no call", func(t *testing.T) {
		svc, m := newTestService(t, mockCtrl, testPricing())

		m.repo.EXPECT().ReadOrder(gomock.Any(), "sell-1").
			Return(&domain.Order{ID: "sell-1", Status: domain.OrderStatusPending}, nil)

		result, err := svc.PollPaymentStatus(context.Background(), "sell-1")

		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusPending, result.Status)
		assert.Empty(t, result.ProviderStatus)
	})

	t.Run("approved charge moves order to paid", func(t *testing.T) {
		svc, m := newTestService(t, mockCtrl, testPricing())

		order := &domain.Order{
			ID:      "order-1",
			Status:  domain.OrderStatusAwaitingPayment,
			Payment: &domain.PaymentDetails{GatewayChargeID: "charge-10"},
		}
		m.repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(order, nil)
		m.gateway.EXPECT().GetChargeStatus(gomock.Any(), "charge-10").
			Return(domain.ChargeStatusApproved, "approved", nil)
		m.repo.EXPECT().UpdateOrderStatus(gomock.Any(), "order-1",
			[]domain.OrderStatus{domain.OrderStatusAwaitingPayment}, domain.OrderStatusPaid).
			Return(true, nil)
		m.metrics.EXPECT().StatusChanged("paid")
		m.metrics.EXPECT().PaymentApproved()

		result, err := svc.PollPaymentStatus(context.Background(), "order-1")

		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusPaid, result.Status)
		assert.Equal(t, "approved", result.ProviderStatus)
	})

	t.Run("status never goes backward", func(t *testing.T) {
		svc, m := newTestService(t, mockCtrl, testPricing())

		order := &domain.Order{
			ID:      "order-1",
			Status:  domain.OrderStatusPaid,
			Payment: &domain.PaymentDetails{GatewayChargeID: "charge-10"},
		}
		m.repo.EXPECT().ReadOrder(gomock.Any(), "order-1").Return(order, nil)
		m.gateway.EXPECT().GetChargeStatus(gomock.Any(), "charge-10").
			Return(domain.ChargeStatusPending, "in_process", nil)

		result, err := svc.PollPaymentStatus(context.Background(), "order-1")

		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusPaid, result.Status)
	})
}

func TestService_ProcessPaymentNotification(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	awaiting := func() *domain.Order {
		return &domain.Order{
			ID:       "order-1",
			Status:   domain.OrderStatusAwaitingPayment,
			Quantity: 250,
			Customer: domain.Customer{Name: "Alice Souza"},
			Payment:  &domain.PaymentDetails{GatewayChargeID: "charge-10"},
		}
	}

	t.Run("approved charge fires one admin event", func(t *testing.T) {
		svc, m := newTestService(t, mockCtrl, testPricing())

		m.gateway.EXPECT().GetChargeStatus(gomock.Any(), "charge-10").
			Return(domain.ChargeStatusApproved, "approved", nil)
		m.repo.EXPECT().ReadOrderByChargeID(gomock.Any(), "charge-10").Return(awaiting(), nil)
		m.repo.EXPECT().UpdateOrderStatus(gomock.Any(), "order-1", gomock.Any(), domain.OrderStatusPaid).
			Return(true, nil)
		m.metrics.EXPECT().PaymentApproved()
		m.metrics.EXPECT().StatusChanged("paid")
		m.notifier.EXPECT().Broadcast(gomock.Any()).
			Do(func(event domain.Notification) {
				assert.Equal(t, domain.NotificationPaymentApproved, event.Type)
				assert.Equal(t, "order-1", event.OrderID)
			})

		err := svc.ProcessPaymentNotification(context.Background(), "charge-10")
		assert.NoError(t, err)
	})

	t.Run("duplicate delivery fires no second event", func(t *testing.T) {
		svc, m := newTestService(t, mockCtrl, testPricing())

		paid := awaiting()
		paid.Status = domain.OrderStatusPaid

		m.gateway.EXPECT().GetChargeStatus(gomock.Any(), "charge-10").
			Return(domain.ChargeStatusApproved, "approved", nil)
		m.repo.EXPECT().ReadOrderByChargeID(gomock.Any(), "charge-10").Return(paid, nil)

		err := svc.ProcessPaymentNotification(context.Background(), "charge-10")
		assert.NoError(t, err)
	})

	t.Run("lost race fires no event", func(t *testing.T) {
		svc, m := newTestService(t, mockCtrl, testPricing())

		m.gateway.EXPECT().GetChargeStatus(gomock.Any(), "charge-10").
			Return(domain.ChargeStatusApproved, "approved", nil)
		m.repo.EXPECT().ReadOrderByChargeID(gomock.Any(), "charge-10").Return(awaiting(), nil)
		m.repo.EXPECT().UpdateOrderStatus(gomock.Any(), "order-1", gomock.Any(), domain.OrderStatusPaid).
			Return(false, nil)

		err := svc.ProcessPaymentNotification(context.Background(), "charge-10")
		assert.NoError(t, err)
	})

	t.Run("non-approved charge is ignored", func(t *testing.T) {
		svc, m := newTestService(t, mockCtrl, testPricing())

		m.gateway.EXPECT().GetChargeStatus(gomock.Any(), "charge-10").
			Return(domain.ChargeStatusPending, "pending", nil)

		err := svc.ProcessPaymentNotification(context.Background(), "charge-10")
		assert.NoError(t, err)
	})

	t.Run("unknown charge is acknowledged", func(t *testing.T) {
		svc, m := newTestService(t, mockCtrl, testPricing())

		m.gateway.EXPECT().GetChargeStatus(gomock.Any(), "charge-99").
			Return(domain.ChargeStatusApproved, "approved", nil)
		m.repo.EXPECT().ReadOrderByChargeID(gomock.Any(), "charge-99").
			Return(nil, domain.ErrDataNotFound)

		err := svc.ProcessPaymentNotification(context.Background(), "charge-99")
		assert.NoError(t, err)
	})
}

func TestService_AdminSetStatus(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	t.Run("valid transition", func(t *testing.T) {
		svc, m := newTestService(t, mockCtrl, testPricing())

		m.repo.EXPECT().ReadOrder(gomock.Any(), "order-1").
			Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusPaid}, nil)
		m.repo.EXPECT().UpdateOrderStatus(gomock.Any(), "order-1",
			[]domain.OrderStatus{domain.OrderStatusPaid}, domain.OrderStatusProcessing).
			Return(true, nil)
		m.metrics.EXPECT().StatusChanged("processing")

		order, err := svc.AdminSetStatus(context.Background(), "order-1", domain.OrderStatusProcessing)

		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusProcessing, order.Status)
	})

	t.Run("cancelled order cannot be paid", func(t *testing.T) {
		svc, m := newTestService(t, mockCtrl, testPricing())

		m.repo.EXPECT().ReadOrder(gomock.Any(), "order-1").
			Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusCancelled}, nil)

		_, err := svc.AdminSetStatus(context.Background(), "order-1", domain.OrderStatusPaid)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc, _ := newTestService(t, mockCtrl, testPricing())

		_, err := svc.AdminSetStatus(context.Background(), "order-1", domain.OrderStatus("shipped"))
		assert.ErrorIs(t, err, domain.ErrBadRequest)
	})

	t.Run("concurrent change loses the edge", func(t *testing.T) {
		svc, m := newTestService(t, mockCtrl, testPricing())

		m.repo.EXPECT().ReadOrder(gomock.Any(), "order-1").
			Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusAwaitingPayment}, nil)
		m.repo.EXPECT().UpdateOrderStatus(gomock.Any(), "order-1",
			[]domain.OrderStatus{domain.OrderStatusAwaitingPayment}, domain.OrderStatusCancelled).
			Return(false, nil)

		_, err := svc.AdminSetStatus(context.Background(), "order-1", domain.OrderStatusCancelled)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestService_DeleteOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	t.Run("pending order deleted", func(t *testing.T) {
		svc, m := newTestService(t, mockCtrl, testPricing())

		m.repo.EXPECT().ReadOrder(gomock.Any(), "order-1").
			Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusPending}, nil)
		m.repo.EXPECT().DeleteOrder(gomock.Any(), "order-1").Return(nil)

		assert.NoError(t, svc.DeleteOrder(context.Background(), "order-1"))
	})

	t.Run("paid order kept", func(t *testing.T) {
		svc, m := newTestService(t, mockCtrl, testPricing())

		m.repo.EXPECT().ReadOrder(gomock.Any(), "order-1").
			Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusPaid}, nil)

		err := svc.DeleteOrder(context.Background(), "order-1")
		assert.ErrorIs(t, err, domain.ErrOrderNotDeletable)
	})

	t.Run("already deleted order reports not found", func(t *testing.T) {
		svc, m := newTestService(t, mockCtrl, testPricing())

		m.repo.EXPECT().ReadOrder(gomock.Any(), "order-1").
			Return(nil, domain.ErrDataNotFound)

		err := svc.DeleteOrder(context.Background(), "order-1")
		assert.ErrorIs(t, err, domain.ErrDataNotFound)
	})
}

func TestService_CreateOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	svc, m := newTestService(t, mockCtrl, testPricing())

	expectCreatedOrder(m, "order-1")
	m.metrics.EXPECT().OrderCreated("buy", "pix")

	order, err := svc.CreateOrder(context.Background(), &domain.Order{
		Type:          domain.OrderTypeBuy,
		CharacterName: "Aldor",
		ServerID:      "deletera",
		Quantity:      250,
		PaymentMethod: domain.PaymentMethodPix,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	// price comes from the configured unit price, never from the client
	assert.Equal(t, "19.98", order.TotalPrice.String())
}
