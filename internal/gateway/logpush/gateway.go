package logpush

import (
	"context"

	"dormeal/internal/entities"
	"dormeal/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
}

// Gateway пишет уведомления в лог вместо отправки. Для локального
// запуска без push-сервиса (PUSH_DRIVER=log).
type Gateway struct {
	log handlerLogger
}

func New(log handlerLogger) *Gateway {
	return &Gateway{log: log}
}

func (g *Gateway) Notify(_ context.Context, n entities.Notification) error {
	g.log.Info("push notification",
		logger.NewField("recipient_id", n.RecipientID),
		logger.NewField("kind", n.Kind.String()),
		logger.NewField("order_id", n.OrderID),
		logger.NewField("payload", n.Payload),
	)
	return nil
}
