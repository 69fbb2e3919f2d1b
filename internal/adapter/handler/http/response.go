package http

import (
	"time"

	"github.com/runecoins/coinstore/internal/core/domain"
)

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}

func newUserResponse(user *domain.User) userResponse {
	return userResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Phone:    user.Phone,
		Role:     string(user.Role),
	}
}

type packageResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	PricePerUnit string `json:"pricePerUnit"`
	MinQuantity  int    `json:"minQuantity"`
	MaxQuantity  int    `json:"maxQuantity"`
	ImageURL     string `json:"imageUrl,omitempty"`
	Featured     bool   `json:"featured"`
}

func newPackageResponse(p *domain.CoinPackage) packageResponse {
	return packageResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		PricePerUnit: p.PricePerUnit.String(),
		MinQuantity:  p.MinQuantity,
		MaxQuantity:  p.MaxQuantity,
		ImageURL:     p.ImageURL,
		Featured:     p.Featured,
	}
}

type serverResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type orderResponse struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	CharacterName string    `json:"characterName"`
	ServerID      string    `json:"serverId"`
	PackageID     string    `json:"packageId,omitempty"`
	Quantity      int       `json:"quantity"`
	TotalPrice    string    `json:"totalPrice"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
	Status        string    `json:"status"`
	ContactInfo   string    `json:"contactInfo,omitempty"`
	CustomerName  string    `json:"customerName,omitempty"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	CustomerPhone string    `json:"customerPhone,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`

	GatewayOrderID  string `json:"gatewayOrderId,omitempty"`
	GatewayChargeID string `json:"gatewayChargeId,omitempty"`
	PixQrCode       string `json:"pixQrCode,omitempty"`
	PixQrCodeURL    string `json:"pixQrCodeUrl,omitempty"`

	PixKey           string `json:"pixKey,omitempty"`
	PixAccountHolder string `json:"pixAccountHolder,omitempty"`
	StoreScreenshot  string `json:"storeScreenshot,omitempty"`
	MarketScreenshot string `json:"marketScreenshot,omitempty"`
}

func newOrderResponse(o *domain.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		Type:          string(o.Type),
		CharacterName: o.CharacterName,
		ServerID:      o.ServerID,
		PackageID:     o.PackageID,
		Quantity:      o.Quantity,
		TotalPrice:    o.TotalPrice.String(),
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
		ContactInfo:   o.ContactInfo,
		CustomerName:  o.Customer.Name,
		CustomerEmail: o.Customer.Email,
		CustomerPhone: o.Customer.Phone,
		CreatedAt:     o.CreatedAt,
	}
	if o.Payment != nil {
		resp.GatewayOrderID = o.Payment.GatewayOrderID
		resp.GatewayChargeID = o.Payment.GatewayChargeID
		resp.PixQrCode = o.Payment.PixQrCode
		resp.PixQrCodeURL = o.Payment.PixQrCodeURL
	}
	if o.Evidence != nil {
		resp.PixKey = o.Evidence.PixKey
		resp.PixAccountHolder = o.Evidence.PixAccountHolder
		resp.StoreScreenshot = o.Evidence.StoreScreenshot
		resp.MarketScreenshot = o.Evidence.MarketScreenshot
	}
	return resp
}

func newOrderListResponse(orders []*domain.Order) []orderResponse {
	list := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		list = append(list, newOrderResponse(o))
	}
	return list
}
