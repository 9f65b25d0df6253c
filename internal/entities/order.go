package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID                 string
	CustomerID         string
	CarrierID          *string
	Status             OrderStatus
	DeliveryMethod     DeliveryMethod
	RestaurantName     string
	RestaurantLocation string
	Building           string
	Location           string
	Cart               Cart
	TotalPrice         decimal.Decimal
	CarrierPayout      decimal.Decimal
	OrderCode          string
	DropoffPhotoURL    *string
	ExchangeStartedAt  *time.Time
	ExchangeExpired    bool
	CancelReason       *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ClaimedAt          *time.Time
	CompletedAt        *time.Time
}

// IsHeldBy true, если заказ закреплен за этим курьером.
func (o *Order) IsHeldBy(carrierID string) bool {
	return o.CarrierID != nil && *o.CarrierID == carrierID
}

type OrderStatus string

const (
	OrderPending         OrderStatus = "pending"
	OrderClaimed         OrderStatus = "claimed"
	OrderPickedUp        OrderStatus = "picked_up"
	OrderNearby          OrderStatus = "nearby"
	OrderAtExchangePoint OrderStatus = "at_exchange_point"
	OrderDelivered       OrderStatus = "delivered"
	OrderCancelled       OrderStatus = "cancelled"
)

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderClaimed, OrderPickedUp, OrderNearby,
		OrderAtExchangePoint, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type DeliveryMethod string

const (
	DeliveryHandoff    DeliveryMethod = "handoff"
	DeliveryDropoff    DeliveryMethod = "dropoff"
	DeliveryMeetAtDoor DeliveryMethod = "meet_at_door"
)

const DefaultDeliveryMethod = DeliveryHandoff

func (m DeliveryMethod) String() string {
	return string(m)
}

func (m DeliveryMethod) IsValid() bool {
	switch m {
	case DeliveryHandoff, DeliveryDropoff, DeliveryMeetAtDoor:
		return true
	}
	return false
}

// OrderCreate входные данные оформления заказа. Цены корзины берутся
// из позиций, итог считается на сервере.
type OrderCreate struct {
	ID                 *string
	CustomerID         string
	DeliveryMethod     DeliveryMethod
	RestaurantName     string
	RestaurantLocation string
	Building           string
	Location           string
	Items              []CartItem
}

// OrderModify поля, которые меняются вместе со статусом.
// nil - не трогать.
type OrderModify struct {
	CarrierID         *string
	DropoffPhotoURL   *string
	ExchangeStartedAt *time.Time
	ExchangeExpired   *bool
	CancelReason      *string
	UpdatedAt         *time.Time
	ClaimedAt         *time.Time
	CompletedAt       *time.Time
}

// Apply переносит изменения на копию заказа.
func (m OrderModify) Apply(order Order, status OrderStatus) Order {
	order.Status = status
	if m.CarrierID != nil {
		order.CarrierID = m.CarrierID
	}
	if m.DropoffPhotoURL != nil {
		order.DropoffPhotoURL = m.DropoffPhotoURL
	}
	if m.ExchangeStartedAt != nil {
		order.ExchangeStartedAt = m.ExchangeStartedAt
	}
	if m.ExchangeExpired != nil {
		order.ExchangeExpired = *m.ExchangeExpired
	}
	if m.CancelReason != nil {
		order.CancelReason = m.CancelReason
	}
	if m.UpdatedAt != nil {
		order.UpdatedAt = *m.UpdatedAt
	}
	if m.ClaimedAt != nil {
		order.ClaimedAt = m.ClaimedAt
	}
	if m.CompletedAt != nil {
		order.CompletedAt = m.CompletedAt
	}
	return order
}
