//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=checkout_events_test
package checkout_events

import (
	"context"

	"dormeal/internal/entities"
	"dormeal/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	ProcessOrderEvent(ctx context.Context, event entities.OrderEvent) (*entities.Order, error)
}
