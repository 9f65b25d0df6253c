package order

import (
	"errors"

	"dormeal/internal/entities"
)

var (
	ErrInvalidDeliveryMethod = errors.New("invalid delivery method")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrInvalidCartItem       = errors.New("invalid cart item")
	ErrInvalidPrice          = errors.New("invalid price")
	ErrMissingRestaurant     = errors.New("restaurant name is required")
	ErrMissingDestination    = errors.New("building is required")
)

// IsValidationError true для ошибок входных данных заказа: повтор с теми же
// данными даст тот же результат.
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, entities.ErrInvalidOrderID),
		errors.Is(err, entities.ErrInvalidUserID),
		errors.Is(err, ErrInvalidDeliveryMethod),
		errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrInvalidCartItem),
		errors.Is(err, ErrInvalidPrice),
		errors.Is(err, ErrMissingRestaurant),
		errors.Is(err, ErrMissingDestination):
		return true
	default:
		return false
	}
}
