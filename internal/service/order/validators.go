package order

import (
	"fmt"
	"strings"

	"dormeal/internal/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Суммы хранятся в NUMERIC(12, 2).
const priceScale = 2

var maxOrderTotal = decimal.New(1, 10)

func isValidOrderID(orderID string) bool {
	return uuid.Validate(orderID) == nil
}

// canonicalOrderID приводит любую принятую uuid форму (urn:uuid:, фигурные
// скобки, верхний регистр) к xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx.
func canonicalOrderID(orderID string) (string, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return "", entities.ErrInvalidOrderID
	}
	return id.String(), nil
}

func isValidPrice(price decimal.Decimal) bool {
	return !price.IsNegative() && price.Equal(price.Truncate(priceScale))
}

func isValidUserID(userID string) bool {
	return strings.TrimSpace(userID) != ""
}

func validateCreate(create *entities.OrderCreate) error {
	if create.ID != nil && !isValidOrderID(*create.ID) {
		return entities.ErrInvalidOrderID
	}
	if !isValidUserID(create.CustomerID) {
		return entities.ErrInvalidUserID
	}
	if create.DeliveryMethod != "" && !create.DeliveryMethod.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDeliveryMethod, create.DeliveryMethod)
	}
	if strings.TrimSpace(create.RestaurantName) == "" {
		return ErrMissingRestaurant
	}
	if strings.TrimSpace(create.Building) == "" {
		return ErrMissingDestination
	}
	if len(create.Items) == 0 {
		return ErrEmptyCart
	}

	for i, item := range create.Items {
		switch {
		case strings.TrimSpace(item.Name) == "":
			return fmt.Errorf("%w: item %d has no name", ErrInvalidCartItem, i)
		case item.Quantity <= 0:
			return fmt.Errorf("%w: item %d quantity must be positive", ErrInvalidCartItem, i)
		case !isValidPrice(item.UnitPrice):
			return fmt.Errorf("%w: item %d price must be non-negative with at most %d decimals", ErrInvalidPrice, i, priceScale)
		}
		for _, opt := range item.Options {
			if !isValidPrice(opt.Price) {
				return fmt.Errorf("%w: option %q of item %d price must be non-negative with at most %d decimals",
					ErrInvalidPrice, opt.Name, i, priceScale)
			}
		}
	}

	total := entities.NewCart(create.Items).Total
	if total.GreaterThanOrEqual(maxOrderTotal) {
		return fmt.Errorf("%w: cart total %s exceeds %s", ErrInvalidPrice, total.String(), maxOrderTotal.String())
	}
	return nil
}
