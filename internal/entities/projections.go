package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// AvailableOrder то, что видит курьер до claim: без данных клиента и без корзины.
type AvailableOrder struct {
	ID             string
	RestaurantName string
	Summary        string
	CarrierPayout  decimal.Decimal
	Building       string
	Location       string
	DeliveryMethod DeliveryMethod
	CreatedAt      time.Time
}

func NewAvailableOrder(o *Order) AvailableOrder {
	return AvailableOrder{
		ID:             o.ID,
		RestaurantName: o.RestaurantName,
		Summary:        o.Cart.Summary(),
		CarrierPayout:  o.CarrierPayout,
		Building:       o.Building,
		Location:       o.Location,
		DeliveryMethod: o.DeliveryMethod,
		CreatedAt:      o.CreatedAt,
	}
}

type CarrierOrder struct {
	AvailableOrder
	RestaurantLocation string
	ExchangeType       DeliveryMethod
	Items              []CartItem
	OrderCode          string
	Status             OrderStatus
	ExchangeExpired    bool
}

func NewCarrierOrder(o *Order) CarrierOrder {
	return CarrierOrder{
		AvailableOrder:     NewAvailableOrder(o),
		RestaurantLocation: o.RestaurantLocation,
		ExchangeType:       o.DeliveryMethod,
		Items:              o.Cart.Items,
		OrderCode:          o.OrderCode,
		Status:             o.Status,
		ExchangeExpired:    o.ExchangeExpired,
	}
}

type CarrierOrders struct {
	Active    []CarrierOrder
	Completed []CarrierOrder
}

type OrderStatusView struct {
	OrderID          string
	OrderStatus      OrderStatus
	ExchangeType     DeliveryMethod
	ProceedToDropoff bool
	// ExchangeSecondsLeft остаток отсчета у двери, nil если отсчет не идет.
	ExchangeSecondsLeft *int
}
