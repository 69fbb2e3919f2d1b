package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/govalues/decimal"
	"github.com/runecoins/coinstore/internal/core/domain"
	"github.com/runecoins/coinstore/internal/core/port"
	"go.uber.org/zap"
)

func (s *Service) validateQuantity(quantity int) error {
	if quantity < s.pricing.MinQuantity || quantity > s.pricing.MaxQuantity {
		return domain.ErrQuantityOutOfRange
	}
	return nil
}

// orderTotal computes quantity x unit price, with the percentage
// surcharge applied before the single final rounding for card payments.
func (s *Service) orderTotal(unitPrice decimal.Decimal, quantity int, method domain.PaymentMethod) (decimal.Decimal, error) {
	qty, err := decimal.New(int64(quantity), 0)
	if err != nil {
		return decimal.Decimal{}, err
	}
	total, err := unitPrice.Mul(qty)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if method == domain.PaymentMethodCard && s.pricing.CardSurchargePct > 0 {
		factor := decimal.MustNew(int64(100+s.pricing.CardSurchargePct), 2)
		total, err = total.Mul(factor)
		if err != nil {
			return decimal.Decimal{}, err
		}
	}
	return domain.RoundHalfUpPrice(total)
}

func (s *Service) unitPriceFor(orderType domain.OrderType) decimal.Decimal {
	if orderType == domain.OrderTypeSell {
		return s.pricing.SellUnitPrice
	}
	return s.pricing.BuyUnitPrice
}

func chargeDescription(orderType domain.OrderType, quantity int) string {
	return fmt.Sprintf("RuneCoins - %d coins (%s)", quantity, orderType)
}

// CreateOrder persists an order without requesting any charge. Price is
// always computed server side from the unit price in effect now.
func (s *Service) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order.Type != domain.OrderTypeBuy && order.Type != domain.OrderTypeSell {
		return nil, domain.ErrBadRequest
	}
	if order.CharacterName == "" || order.ServerID == "" {
		return nil, domain.ErrBadRequest
	}
	if err := s.validateQuantity(order.Quantity); err != nil {
		return nil, err
	}

	total, err := s.orderTotal(s.unitPriceFor(order.Type), order.Quantity, order.PaymentMethod)
	if err != nil {
		s.logger.Error("Compute total", zap.Error(err))
		return nil, domain.ErrInternal
	}
	order.TotalPrice = total
	order.Status = domain.OrderStatusPending
	order.Payment = nil

	newOrder, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		s.logger.Error("Create order", zap.Error(err))
		return nil, err
	}

	s.metrics.OrderCreated(string(newOrder.Type), string(newOrder.PaymentMethod))
	return newOrder, nil
}

// SubmitBuyOrder persists the order, requests a charge and attaches the
// gateway references. On gateway failure the order stays pending for
// inspection and retry; the user's intent is never dropped.
func (s *Service) SubmitBuyOrder(ctx context.Context, req port.BuyOrderRequest) (*domain.Order, error) {
	if err := s.validateQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if req.CharacterName == "" || req.ServerID == "" {
		return nil, domain.ErrBadRequest
	}
	if req.PaymentMethod == domain.PaymentMethodCard {
		if req.Card == nil || req.Card.Number == "" || req.Card.HolderName == "" ||
			req.Card.ExpMonth == 0 || req.Card.ExpYear == 0 || req.Card.CVV == "" {
			return nil, domain.ErrMissingCardFields
		}
	}

	packageID := req.PackageID
	if packageID == "" {
		packageID = "coins"
	}
	pkg, err := s.repo.GetPackage(ctx, packageID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, domain.ErrPackageNotAvailable
		}
		return nil, err
	}
	if !pkg.Active {
		return nil, domain.ErrPackageNotAvailable
	}

	total, err := s.orderTotal(s.pricing.BuyUnitPrice, req.Quantity, req.PaymentMethod)
	if err != nil {
		s.logger.Error("Compute total", zap.Error(err))
		return nil, domain.ErrInternal
	}
	amountCents, err := domain.AmountInCents(total)
	if err != nil {
		s.logger.Error("Amount to cents", zap.Error(err))
		return nil, domain.ErrInternal
	}
	if amountCents < s.pricing.MinChargeCents {
		return nil, domain.ErrAmountBelowMinimum
	}

	order := &domain.Order{
		Type:          domain.OrderTypeBuy,
		CharacterName: req.CharacterName,
		ServerID:      req.ServerID,
		PackageID:     packageID,
		Quantity:      req.Quantity,
		TotalPrice:    total,
		PaymentMethod: req.PaymentMethod,
		Status:        domain.OrderStatusPending,
		ContactInfo:   req.ContactInfo,
		Customer:      req.Customer,
	}
	order, err = s.repo.CreateOrder(ctx, order)
	if err != nil {
		s.logger.Error("Create order", zap.Error(err))
		return nil, err
	}
	s.metrics.OrderCreated(string(order.Type), string(order.PaymentMethod))

	description := chargeDescription(order.Type, order.Quantity)

	var result *port.ChargeResult
	switch req.PaymentMethod {
	case domain.PaymentMethodPix:
		result, err = s.gateway.CreatePixCharge(ctx, port.PixChargeRequest{
			Customer:    req.Customer,
			AmountCents: amountCents,
			Description: description,
		})
	case domain.PaymentMethodCard:
		result, err = s.gateway.CreateCardCharge(ctx, port.CardChargeRequest{
			Customer:     req.Customer,
			Card:         *req.Card,
			AmountCents:  amountCents,
			Description:  description,
			Installments: req.Installments,
		})
	default:
		return nil, domain.ErrUnsupportedMethod
	}
	if err != nil {
		s.metrics.GatewayFailure(s.gateway.Name())
		s.logger.Error("Gateway charge failed",
			zap.String("order", order.ID), zap.Error(err))
		return nil, err
	}

	payment := &domain.PaymentDetails{
		GatewayOrderID:  result.GatewayOrderID,
		GatewayChargeID: result.GatewayChargeID,
		PixQrCode:       result.PixQrCode,
		PixQrCodeURL:    result.PixQrCodeURL,
	}
	status := domain.OrderStatusAwaitingPayment
	if result.Status == domain.ChargeStatusApproved {
		status = domain.OrderStatusPaid
	}
	if err := s.repo.AttachPayment(ctx, order.ID, payment, status); err != nil {
		s.logger.Error("Attach payment", zap.Error(err))
		return nil, err
	}
	order.Payment = payment
	order.Status = status
	s.metrics.StatusChanged(string(status))

	s.notifier.Broadcast(domain.Notification{
		Type:         domain.NotificationNewBuyOrder,
		OrderID:      order.ID,
		Amount:       order.TotalPrice.String(),
		Quantity:     order.Quantity,
		CustomerName: order.Customer.Name,
	})

	return order, nil
}

// SubmitSellOrder stores the payout details and both evidence uploads.
// No gateway call: payout happens out of band, admins advance the status
// manually.
func (s *Service) SubmitSellOrder(ctx context.Context, req port.SellOrderRequest) (*domain.Order, error) {
	if err := s.validateQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if req.CharacterName == "" || req.ServerID == "" ||
		req.PixKey == "" || req.PixAccountHolder == "" {
		return nil, domain.ErrBadRequest
	}
	if req.StoreScreenshot.Content == nil || req.MarketScreenshot.Content == nil {
		return nil, domain.ErrMissingEvidence
	}

	storePath, err := s.files.Save(ctx, req.StoreScreenshot)
	if err != nil {
		s.logger.Error("Save store screenshot", zap.Error(err))
		return nil, err
	}
	marketPath, err := s.files.Save(ctx, req.MarketScreenshot)
	if err != nil {
		s.logger.Error("Save market screenshot", zap.Error(err))
		return nil, err
	}

	total, err := s.orderTotal(s.pricing.SellUnitPrice, req.Quantity, domain.PaymentMethodNone)
	if err != nil {
		s.logger.Error("Compute total", zap.Error(err))
		return nil, domain.ErrInternal
	}

	order := &domain.Order{
		Type:          domain.OrderTypeSell,
		CharacterName: req.CharacterName,
		ServerID:      req.ServerID,
		PackageID:     "coins",
		Quantity:      req.Quantity,
		TotalPrice:    total,
		PaymentMethod: domain.PaymentMethodPix,
		Status:        domain.OrderStatusPending,
		Customer:      req.Customer,
		Evidence: &domain.SellEvidence{
			PixKey:           req.PixKey,
			PixAccountHolder: req.PixAccountHolder,
			StoreScreenshot:  storePath,
			MarketScreenshot: marketPath,
		},
	}
	order, err = s.repo.CreateOrder(ctx, order)
	if err != nil {
		s.logger.Error("Create sell order", zap.Error(err))
		return nil, err
	}
	s.metrics.OrderCreated(string(order.Type), string(order.PaymentMethod))

	s.notifier.Broadcast(domain.Notification{
		Type:         domain.NotificationNewSellOrder,
		OrderID:      order.ID,
		Amount:       order.TotalPrice.String(),
		Quantity:     order.Quantity,
		CustomerName: order.Customer.Name,
	})

	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.repo.ReadOrder(ctx, orderID)
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	list, err := s.repo.ListOrders(ctx)
	if err != nil {
		s.logger.Error("List orders", zap.Error(err))
		return nil, err
	}
	return list, nil
}

// PollPaymentStatus asks the gateway for the charge status and persists
// it when it moved the order forward. Status never goes backward here,
// whatever the provider reports.
func (s *Service) PollPaymentStatus(ctx context.Context, orderID string) (*port.PaymentStatusResult, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Payment == nil || order.Payment.GatewayChargeID == "" {
		return &port.PaymentStatusResult{OrderID: order.ID, Status: order.Status}, nil
	}

	chargeStatus, providerStatus, err := s.gateway.GetChargeStatus(ctx, order.Payment.GatewayChargeID)
	if err != nil {
		s.metrics.GatewayFailure(s.gateway.Name())
		return nil, err
	}

	result := &port.PaymentStatusResult{
		OrderID:        order.ID,
		Status:         order.Status,
		ProviderStatus: providerStatus,
	}

	target, ok := chargeStatus.OrderStatusFor()
	if !ok || target == order.Status || !order.Status.CanTransition(target) {
		return result, nil
	}

	updated, err := s.repo.UpdateOrderStatus(ctx, order.ID,
		[]domain.OrderStatus{order.Status}, target)
	if err != nil {
		s.logger.Error("Update order status on poll", zap.Error(err))
		return nil, err
	}
	if updated {
		result.Status = target
		s.metrics.StatusChanged(string(target))
		if target == domain.OrderStatusPaid {
			s.metrics.PaymentApproved()
		}
	}

	return result, nil
}

// ProcessPaymentNotification reconciles a provider push notification.
// Duplicate deliveries for an already paid order change nothing and fire
// no second admin event.
func (s *Service) ProcessPaymentNotification(ctx context.Context, chargeID string) error {
	chargeStatus, _, err := s.gateway.GetChargeStatus(ctx, chargeID)
	if err != nil {
		s.metrics.GatewayFailure(s.gateway.Name())
		return err
	}
	if chargeStatus != domain.ChargeStatusApproved {
		return nil
	}

	order, err := s.repo.ReadOrderByChargeID(ctx, chargeID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			s.logger.Warn("webhook for unknown charge", zap.String("charge", chargeID))
			return nil
		}
		return err
	}
	if order.Status == domain.OrderStatusPaid {
		return nil
	}

	updated, err := s.repo.UpdateOrderStatus(ctx, order.ID,
		domain.StatusesLeadingTo(domain.OrderStatusPaid), domain.OrderStatusPaid)
	if err != nil {
		return err
	}
	if !updated {
		return nil
	}

	s.metrics.PaymentApproved()
	s.metrics.StatusChanged(string(domain.OrderStatusPaid))
	s.logger.Info("payment approved",
		zap.String("order", order.ID), zap.String("charge", chargeID))

	s.notifier.Broadcast(domain.Notification{
		Type:         domain.NotificationPaymentApproved,
		OrderID:      order.ID,
		Amount:       order.TotalPrice.String(),
		Quantity:     order.Quantity,
		CustomerName: order.Customer.Name,
	})

	return nil
}

// AdminSetStatus applies a manual transition, validated against the
// state machine and applied with a conditional update so a concurrent
// webhook cannot be overwritten.
func (s *Service) AdminSetStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrBadRequest
	}

	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransition(status) {
		return nil, domain.ErrInvalidTransition
	}

	updated, err := s.repo.UpdateOrderStatus(ctx, order.ID,
		[]domain.OrderStatus{order.Status}, status)
	if err != nil {
		s.logger.Error("Update order status", zap.Error(err))
		return nil, err
	}
	if !updated {
		// Status moved underneath us; the requested edge no longer exists.
		return nil, domain.ErrInvalidTransition
	}

	order.Status = status
	s.metrics.StatusChanged(string(status))
	return order, nil
}

func (s *Service) DeleteOrder(ctx context.Context, orderID string) error {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.Deletable() {
		return domain.ErrOrderNotDeletable
	}
	return s.repo.DeleteOrder(ctx, orderID)
}

func (s *Service) OrderStats(ctx context.Context) (*domain.OrderStats, error) {
	stats, err := s.repo.OrderStats(ctx)
	if err != nil {
		s.logger.Error("Order stats", zap.Error(err))
		return nil, err
	}
	return stats, nil
}
