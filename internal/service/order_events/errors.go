package order_events

import "errors"

var (
	ErrInvalidEvent       = errors.New("order event has no order id or type")
	ErrUndefinedEventType = errors.New("undefined order event type")
	ErrMissingPayload     = errors.New("order.created event has no order payload")
)
