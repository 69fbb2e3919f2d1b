package port

import (
	"context"

	"github.com/runecoins/coinstore/internal/core/domain"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
type Repository interface {
	// User
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// Catalog
	GetPackage(ctx context.Context, id string) (*domain.CoinPackage, error)
	ListPackages(ctx context.Context, activeOnly bool) ([]*domain.CoinPackage, error)
	ListServers(ctx context.Context, activeOnly bool) ([]*domain.Server, error)

	// Order
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ReadOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ReadOrderByChargeID(ctx context.Context, chargeID string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	AttachPayment(ctx context.Context, orderID string, payment *domain.PaymentDetails, status domain.OrderStatus) error
	// UpdateOrderStatus performs a single conditional update: the status
	// is set to target only while the current status is in from. Returns
	// whether a row actually changed.
	UpdateOrderStatus(ctx context.Context, orderID string, from []domain.OrderStatus, target domain.OrderStatus) (bool, error)
	DeleteOrder(ctx context.Context, orderID string) error
	OrderStats(ctx context.Context) (*domain.OrderStats, error)
}
