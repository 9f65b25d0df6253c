//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_events_test
package order_events

import (
	"context"

	"dormeal/internal/entities"
	"dormeal/internal/service/lifecycle"
)

type OrderService interface {
	CreateOrder(ctx context.Context, create entities.OrderCreate) (*entities.Order, error)
	GetOrder(ctx context.Context, orderID string) (*entities.Order, error)
}

type Lifecycle interface {
	CancelBySystem(ctx context.Context, orderID, reason string) (*lifecycle.Result, error)
}

type (
	ExecuteFn      func(ctx context.Context, event entities.OrderEvent) (*entities.Order, error)
	HandlerFactory interface {
		GetHandler(eventType entities.OrderEventType) (ExecuteFn, error)
	}
)
