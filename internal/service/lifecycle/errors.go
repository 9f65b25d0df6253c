package lifecycle

import "errors"

var (
	ErrUnknownAction       = errors.New("unknown action")
	ErrStatusChanged       = errors.New("order status changed concurrently")
	ErrNotOrderCustomer    = errors.New("user is not the customer of this order")
	ErrCannotClaimOwnOrder = errors.New("cannot claim own order")
	ErrInvalidTransition   = errors.New("transition not allowed")
	ErrMissingPhoto        = errors.New("dropoff photo is required")
	ErrInvalidOrderCode    = errors.New("invalid order code")

	// ErrNotificationDeliveryFailed статус уже сменился, не дошло только уведомление.
	ErrNotificationDeliveryFailed = errors.New("notification delivery failed")
)
