//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_test
package order

import (
	"context"
	"time"

	"dormeal/internal/entities"
	"dormeal/internal/service/lifecycle"
	"dormeal/pkg/logger"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, order entities.Order) (*entities.Order, error)
	GetByID(ctx context.Context, orderID string) (*entities.Order, error)
	ListAvailable(ctx context.Context, excludeCustomerID string) ([]entities.Order, error)
	ListByCarrier(ctx context.Context, carrierID string) ([]entities.Order, error)
	ListStalePending(ctx context.Context, createdBefore time.Time, limit uint64) ([]entities.Order, error)
}

type Lifecycle interface {
	Apply(ctx context.Context, req lifecycle.Request) (*lifecycle.Result, error)
}

type Countdown interface {
	Remaining(key string) (time.Duration, bool)
}

type PayoutFactory interface {
	CarrierPayout(method entities.DeliveryMethod) decimal.Decimal
}

type EventPublisher interface {
	Publish(ctx context.Context, event entities.OrderEvent) error
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
