// Package dto JSON контракты HTTP API.
package dto

import (
	"time"

	"dormeal/internal/entities"

	"github.com/shopspring/decimal"
)

type PingResponse struct {
	Message   *string `json:"message,omitempty"`
	Component string  `json:"component"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CartOption struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type CartItem struct {
	MenuItemID string          `json:"menuItemId"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Options    []CartOption    `json:"options"`
}

type OrderCreateRequest struct {
	OrderID            *string    `json:"orderId,omitempty"`
	CustomerID         string     `json:"customerId"`
	DeliveryMethod     string     `json:"deliveryMethod,omitempty"`
	RestaurantName     string     `json:"restaurantName"`
	RestaurantLocation string     `json:"restaurantLocation"`
	Building           string     `json:"building"`
	Location           string     `json:"location"`
	Items              []CartItem `json:"items"`
}

type Order struct {
	ID                 string          `json:"id"`
	CustomerID         string          `json:"customerId"`
	CarrierID          *string         `json:"carrierId"`
	Status             string          `json:"status"`
	DeliveryMethod     string          `json:"deliveryMethod"`
	RestaurantName     string          `json:"restaurantName"`
	RestaurantLocation string          `json:"restaurantLocation"`
	Building           string          `json:"building"`
	Location           string          `json:"location"`
	Items              []CartItem      `json:"items"`
	TotalPrice         decimal.Decimal `json:"totalPrice"`
	CarrierPayout      decimal.Decimal `json:"carrierPayout"`
	OrderCode          string          `json:"orderCode"`
	DropoffPhotoURL    *string         `json:"dropoffPhotoUrl,omitempty"`
	ExchangeExpired    bool            `json:"exchangeExpired"`
	CancelReason       *string         `json:"cancelReason,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
	ClaimedAt          *time.Time      `json:"claimedAt,omitempty"`
	CompletedAt        *time.Time      `json:"completedAt,omitempty"`
}

type AvailableOrder struct {
	ID             string          `json:"id"`
	RestaurantName string          `json:"restaurantName"`
	Summary        string          `json:"summary"`
	CarrierPayout  decimal.Decimal `json:"carrierPayout"`
	Building       string          `json:"building"`
	Location       string          `json:"location"`
	DeliveryMethod string          `json:"deliveryMethod"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type AvailableOrdersResponse struct {
	Orders []AvailableOrder `json:"orders"`
}

type CarrierOrder struct {
	AvailableOrder
	RestaurantLocation string     `json:"restaurantLocation"`
	ExchangeType       string     `json:"exchangeType"`
	Items              []CartItem `json:"items"`
	OrderCode          string     `json:"orderCode"`
	Status             string     `json:"status"`
	ExchangeExpired    bool       `json:"exchangeExpired"`
}

type CarrierOrdersResponse struct {
	Active    []CarrierOrder `json:"active"`
	Completed []CarrierOrder `json:"completed"`
}

type OrderStatusResponse struct {
	OrderStatus         string `json:"orderStatus"`
	ExchangeType        string `json:"exchangeType"`
	ProceedToDropoff    bool   `json:"proceedToDropoff"`
	ExchangeSecondsLeft *int   `json:"exchangeSecondsLeft,omitempty"`
}

// TransitionRequest тело всех PUT действий над заказом. Лишние для
// конкретного действия поля игнорируются.
type TransitionRequest struct {
	UserID    string `json:"userId"`
	OrderID   string `json:"orderId,omitempty"`
	PhotoURL  string `json:"photoUrl,omitempty"`
	OrderCode string `json:"orderCode,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type TransitionResponse struct {
	Message     string `json:"message"`
	OrderStatus string `json:"orderStatus"`
	Notified    bool   `json:"notified"`
	Code        string `json:"code,omitempty"`
}

func NewOrder(o *entities.Order) Order {
	return Order{
		ID:                 o.ID,
		CustomerID:         o.CustomerID,
		CarrierID:          o.CarrierID,
		Status:             o.Status.String(),
		DeliveryMethod:     o.DeliveryMethod.String(),
		RestaurantName:     o.RestaurantName,
		RestaurantLocation: o.RestaurantLocation,
		Building:           o.Building,
		Location:           o.Location,
		Items:              NewCartItems(o.Cart.Items),
		TotalPrice:         o.TotalPrice,
		CarrierPayout:      o.CarrierPayout,
		OrderCode:          o.OrderCode,
		DropoffPhotoURL:    o.DropoffPhotoURL,
		ExchangeExpired:    o.ExchangeExpired,
		CancelReason:       o.CancelReason,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
		ClaimedAt:          o.ClaimedAt,
		CompletedAt:        o.CompletedAt,
	}
}

func NewCartItems(items []entities.CartItem) []CartItem {
	res := make([]CartItem, 0, len(items))
	for _, item := range items {
		options := make([]CartOption, 0, len(item.Options))
		for _, opt := range item.Options {
			options = append(options, CartOption{
				ID:    opt.ID,
				Name:  opt.Name,
				Price: opt.Price,
			})
		}
		res = append(res, CartItem{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			Options:    options,
		})
	}
	return res
}

func (i CartItem) ToEntity() entities.CartItem {
	options := make([]entities.CartOption, 0, len(i.Options))
	for _, opt := range i.Options {
		options = append(options, entities.CartOption{
			ID:    opt.ID,
			Name:  opt.Name,
			Price: opt.Price,
		})
	}
	return entities.CartItem{
		MenuItemID: i.MenuItemID,
		Name:       i.Name,
		Quantity:   i.Quantity,
		UnitPrice:  i.UnitPrice,
		Options:    options,
	}
}

func (r OrderCreateRequest) ToEntity() entities.OrderCreate {
	items := make([]entities.CartItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, item.ToEntity())
	}
	return entities.OrderCreate{
		ID:                 r.OrderID,
		CustomerID:         r.CustomerID,
		DeliveryMethod:     entities.DeliveryMethod(r.DeliveryMethod),
		RestaurantName:     r.RestaurantName,
		RestaurantLocation: r.RestaurantLocation,
		Building:           r.Building,
		Location:           r.Location,
		Items:              items,
	}
}

func NewAvailableOrder(o entities.AvailableOrder) AvailableOrder {
	return AvailableOrder{
		ID:             o.ID,
		RestaurantName: o.RestaurantName,
		Summary:        o.Summary,
		CarrierPayout:  o.CarrierPayout,
		Building:       o.Building,
		Location:       o.Location,
		DeliveryMethod: o.DeliveryMethod.String(),
		CreatedAt:      o.CreatedAt,
	}
}

func NewCarrierOrder(o entities.CarrierOrder) CarrierOrder {
	return CarrierOrder{
		AvailableOrder:     NewAvailableOrder(o.AvailableOrder),
		RestaurantLocation: o.RestaurantLocation,
		ExchangeType:       o.ExchangeType.String(),
		Items:              NewCartItems(o.Items),
		OrderCode:          o.OrderCode,
		Status:             o.Status.String(),
		ExchangeExpired:    o.ExchangeExpired,
	}
}
