package checkout_events

import (
	"time"

	"dormeal/internal/entities"

	"github.com/shopspring/decimal"
)

// checkoutEvent сообщение из топика оформления заказов.
type checkoutEvent struct {
	Type       string         `json:"type"`
	OrderID    string         `json:"orderId"`
	Reason     string         `json:"reason,omitempty"`
	OccurredAt *time.Time     `json:"occurredAt,omitempty"`
	Order      *checkoutOrder `json:"order,omitempty"`
}

type checkoutOrder struct {
	CustomerID         string         `json:"customerId"`
	DeliveryMethod     string         `json:"deliveryMethod"`
	RestaurantName     string         `json:"restaurantName"`
	RestaurantLocation string         `json:"restaurantLocation"`
	Building           string         `json:"building"`
	Location           string         `json:"location"`
	Items              []checkoutItem `json:"items"`
}

type checkoutItem struct {
	MenuItemID string           `json:"menuItemId"`
	Name       string           `json:"name"`
	Quantity   int              `json:"quantity"`
	UnitPrice  decimal.Decimal  `json:"unitPrice"`
	Options    []checkoutOption `json:"options,omitempty"`
}

type checkoutOption struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func (e checkoutEvent) toEntity() entities.OrderEvent {
	event := entities.OrderEvent{
		Type:    entities.OrderEventType(e.Type),
		OrderID: e.OrderID,
		Reason:  e.Reason,
	}
	if e.OccurredAt != nil {
		event.OccurredAt = *e.OccurredAt
	}
	if e.Order == nil {
		return event
	}

	items := make([]entities.CartItem, 0, len(e.Order.Items))
	for _, item := range e.Order.Items {
		options := make([]entities.CartOption, 0, len(item.Options))
		for _, opt := range item.Options {
			options = append(options, entities.CartOption{
				ID:    opt.ID,
				Name:  opt.Name,
				Price: opt.Price,
			})
		}
		items = append(items, entities.CartItem{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			Options:    options,
		})
	}

	event.Create = &entities.OrderCreate{
		CustomerID:         e.Order.CustomerID,
		DeliveryMethod:     entities.DeliveryMethod(e.Order.DeliveryMethod),
		RestaurantName:     e.Order.RestaurantName,
		RestaurantLocation: e.Order.RestaurantLocation,
		Building:           e.Order.Building,
		Location:           e.Order.Location,
		Items:              items,
	}
	return event
}
