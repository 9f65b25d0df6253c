//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_transition_put_test
package order_transition_put

import (
	"context"

	"dormeal/internal/service/lifecycle"
	"dormeal/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	Apply(ctx context.Context, req lifecycle.Request) (*lifecycle.Result, error)
}
