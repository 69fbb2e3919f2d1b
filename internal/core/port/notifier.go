package port

import "github.com/runecoins/coinstore/internal/core/domain"

//go:generate mockgen -source=notifier.go -destination=mock/notifier.go -package=mock
type Notifier interface {
	Broadcast(event domain.Notification)
}
