//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=lifecycle_test
package lifecycle

import (
	"context"
	"time"

	"dormeal/internal/entities"
	"dormeal/pkg/countdown"
	"dormeal/pkg/logger"
)

type Repository interface {
	GetByID(ctx context.Context, orderID string) (*entities.Order, error)
	CompareAndSetStatus(
		ctx context.Context,
		orderID string,
		expected, next entities.OrderStatus,
		modify entities.OrderModify,
	) (bool, error)
	MarkExchangeExpired(ctx context.Context, orderID string, at time.Time) (bool, error)
	ListAwaitingExchange(ctx context.Context) ([]entities.Order, error)
}

type Notifier interface {
	Notify(ctx context.Context, notification entities.Notification) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event entities.OrderEvent) error
}

type Countdown interface {
	StartAt(key string, deadline time.Time, onExpire countdown.ExpireFunc)
	Stop(key string) bool
	Remaining(key string) (time.Duration, bool)
	Active() int
}

type TxManager interface {
	DoReadCommitted(ctx context.Context, fn func(ctx context.Context) error) error
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
