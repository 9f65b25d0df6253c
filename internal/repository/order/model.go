package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderDB struct {
	ID                 string
	CustomerID         string
	CarrierID          *string
	Status             string
	DeliveryMethod     string
	RestaurantName     string
	RestaurantLocation string
	Building           string
	Location           string
	Cart               []byte
	TotalPrice         string
	CarrierPayout      string
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

// ScanArgs порядок совпадает с orderColumns.
func (o *OrderDB) ScanArgs() []any {
	return []any{
		&o.ID,
		&o.CustomerID,
		&o.CarrierID,
		&o.Status,
		&o.DeliveryMethod,
		&o.RestaurantName,
		&o.RestaurantLocation,
		&o.Building,
		&o.Location,
		&o.Cart,
		&o.TotalPrice,
		&o.CarrierPayout,
		&o.OrderCode,
		&o.DropoffPhotoURL,
		&o.ExchangeStartedAt,
		&o.ExchangeExpired,
		&o.CancelReason,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.ClaimedAt,
		&o.CompletedAt,
	}
}

type OrderModifyDB struct {
	CarrierID         *string
	DropoffPhotoURL   *string
	ExchangeStartedAt *time.Time
	ExchangeExpired   *bool
	CancelReason      *string
	UpdatedAt         *time.Time
	ClaimedAt         *time.Time
	CompletedAt       *time.Time
}

// корзина лежит в jsonb
type CartDB struct {
	Items []CartItemDB    `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type CartItemDB struct {
	MenuItemID string          `json:"menuItemId"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Options    []CartOptionDB  `json:"options,omitempty"`
}

type CartOptionDB struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}
