package order_events

import (
	"context"
	"errors"
	"fmt"

	"dormeal/internal/entities"
)

// Service применяет события оформления (created/cancelled) к заказам.
type Service struct {
	handlerFactory HandlerFactory
}

func New(handlerFactory HandlerFactory) *Service {
	return &Service{
		handlerFactory: handlerFactory,
	}
}

func (s *Service) ProcessOrderEvent(ctx context.Context, event entities.OrderEvent) (*entities.Order, error) {
	if event.OrderID == "" || event.Type == "" {
		return nil, ErrInvalidEvent
	}

	executeFn, err := s.handlerFactory.GetHandler(event.Type)
	if err != nil {
		return nil, err
	}

	order, err := executeFn(ctx, event)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("process %s for order %s: %w", event.Type, event.OrderID, err)
	}

	return order, nil
}
