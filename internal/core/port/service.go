package port

import (
	"context"

	"github.com/runecoins/coinstore/internal/core/domain"
)

type RegisterRequest struct {
	Username string
	Password string
	Email    string
	FullName string
	Phone    string
}

type BuyOrderRequest struct {
	CharacterName string
	ServerID      string
	PackageID     string
	Quantity      int
	PaymentMethod domain.PaymentMethod
	ContactInfo   string
	Customer      domain.Customer
	Card          *CardDetails
	Installments  int
}

type SellOrderRequest struct {
	CharacterName    string
	ServerID         string
	Quantity         int
	Customer         domain.Customer
	PixKey           string
	PixAccountHolder string
	StoreScreenshot  Upload
	MarketScreenshot Upload
}

type PaymentStatusResult struct {
	OrderID        string
	Status         domain.OrderStatus
	ProviderStatus string
}

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock
type Service interface {
	// Users
	RegisterUser(ctx context.Context, req RegisterRequest) (*domain.User, string, error)
	LoginUser(ctx context.Context, username, password string) (*domain.User, string, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	EnsureAdminUser(ctx context.Context, username, password string) error

	// Catalog
	ListPackages(ctx context.Context) ([]*domain.CoinPackage, error)
	ListServers(ctx context.Context) ([]*domain.Server, error)

	// Orders
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	SubmitBuyOrder(ctx context.Context, req BuyOrderRequest) (*domain.Order, error)
	SubmitSellOrder(ctx context.Context, req SellOrderRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	PollPaymentStatus(ctx context.Context, orderID string) (*PaymentStatusResult, error)
	ProcessPaymentNotification(ctx context.Context, chargeID string) error

	// Admin
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	AdminSetStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
	OrderStats(ctx context.Context) (*domain.OrderStats, error)
}
