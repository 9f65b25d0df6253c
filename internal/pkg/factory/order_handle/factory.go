package order_handle

import (
	"context"
	"errors"
	"fmt"

	"dormeal/internal/entities"
	"dormeal/internal/service/lifecycle"
	"dormeal/internal/service/order_events"
)

const defaultCancelReason = "cancelled at checkout"

type EventHandlerFactory struct {
	orderService order_events.OrderService
	lifecycle    order_events.Lifecycle
}

func NewEventHandlerFactory(orderService order_events.OrderService, lifecycle order_events.Lifecycle) *EventHandlerFactory {
	return &EventHandlerFactory{
		orderService: orderService,
		lifecycle:    lifecycle,
	}
}

func (f *EventHandlerFactory) GetHandler(eventType entities.OrderEventType) (order_events.ExecuteFn, error) {
	switch eventType {
	case entities.OrderEventCreated:
		return f.createdHandler, nil
	case entities.OrderEventCancelled:
		return f.cancelledHandler, nil
	default:
		return nil, fmt.Errorf("%w: %s", order_events.ErrUndefinedEventType, eventType)
	}
}

// createdHandler идемпотентен: повторная доставка события отдает уже созданный заказ.
func (f *EventHandlerFactory) createdHandler(ctx context.Context, event entities.OrderEvent) (*entities.Order, error) {
	if event.Create == nil {
		return nil, order_events.ErrMissingPayload
	}

	create := *event.Create
	if create.ID == nil {
		orderID := event.OrderID
		create.ID = &orderID
	}

	order, err := f.orderService.CreateOrder(ctx, create)
	if errors.Is(err, entities.ErrOrderExists) {
		return f.orderService.GetOrder(ctx, *create.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("create order from checkout event: %w", err)
	}
	return order, nil
}

func (f *EventHandlerFactory) cancelledHandler(ctx context.Context, event entities.OrderEvent) (*entities.Order, error) {
	reason := event.Reason
	if reason == "" {
		reason = defaultCancelReason
	}

	result, err := f.lifecycle.CancelBySystem(ctx, event.OrderID, reason)
	switch {
	case errors.Is(err, entities.ErrOrderAlreadyComplete):
		return f.orderService.GetOrder(ctx, event.OrderID)
	case errors.Is(err, lifecycle.ErrNotificationDeliveryFailed):
		// отмена записана, не дошел только пуш
		return result.Order, nil
	case err != nil:
		return nil, fmt.Errorf("cancel order from checkout event: %w", err)
	}
	return result.Order, nil
}
