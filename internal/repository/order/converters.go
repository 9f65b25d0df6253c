package order

import (
	"encoding/json"
	"fmt"

	"dormeal/internal/entities"

	"github.com/shopspring/decimal"
)

func ToDomain(o *OrderDB) (*entities.Order, error) {
	if o == nil {
		return nil, nil
	}

	cart, err := cartToDomain(o.Cart)
	if err != nil {
		return nil, err
	}
	total, err := decimal.NewFromString(o.TotalPrice)
	if err != nil {
		return nil, fmt.Errorf("total_price %q: %w", o.TotalPrice, err)
	}
	payout, err := decimal.NewFromString(o.CarrierPayout)
	if err != nil {
		return nil, fmt.Errorf("carrier_payout %q: %w", o.CarrierPayout, err)
	}

	return &entities.Order{
		ID:                 o.ID,
		CustomerID:         o.CustomerID,
		CarrierID:          o.CarrierID,
		Status:             entities.OrderStatus(o.Status),
		DeliveryMethod:     entities.DeliveryMethod(o.DeliveryMethod),
		RestaurantName:     o.RestaurantName,
		RestaurantLocation: o.RestaurantLocation,
		Building:           o.Building,
		Location:           o.Location,
		Cart:               cart,
		TotalPrice:         total,
		CarrierPayout:      payout,
		OrderCode:          o.OrderCode,
		DropoffPhotoURL:    o.DropoffPhotoURL,
		ExchangeStartedAt:  o.ExchangeStartedAt,
		ExchangeExpired:    o.ExchangeExpired,
		CancelReason:       o.CancelReason,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
		ClaimedAt:          o.ClaimedAt,
		CompletedAt:        o.CompletedAt,
	}, nil
}

func ToDomainList(orders []OrderDB) ([]entities.Order, error) {
	result := make([]entities.Order, 0, len(orders))
	for i := range orders {
		order, err := ToDomain(&orders[i])
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", orders[i].ID, err)
		}
		result = append(result, *order)
	}
	return result, nil
}

func FromDomainModify(m *entities.OrderModify) *OrderModifyDB {
	if m == nil {
		return &OrderModifyDB{}
	}
	return &OrderModifyDB{
		CarrierID:         m.CarrierID,
		DropoffPhotoURL:   m.DropoffPhotoURL,
		ExchangeStartedAt: m.ExchangeStartedAt,
		ExchangeExpired:   m.ExchangeExpired,
		CancelReason:      m.CancelReason,
		UpdatedAt:         m.UpdatedAt,
		ClaimedAt:         m.ClaimedAt,
		CompletedAt:       m.CompletedAt,
	}
}

func CartFromDomain(c entities.Cart) ([]byte, error) {
	cartDB := CartDB{
		Items: make([]CartItemDB, 0, len(c.Items)),
		Total: c.Total,
	}
	for _, item := range c.Items {
		itemDB := CartItemDB{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		}
		for _, opt := range item.Options {
			itemDB.Options = append(itemDB.Options, CartOptionDB{
				ID:    opt.ID,
				Name:  opt.Name,
				Price: opt.Price,
			})
		}
		cartDB.Items = append(cartDB.Items, itemDB)
	}

	raw, err := json.Marshal(cartDB)
	if err != nil {
		return nil, fmt.Errorf("marshal cart: %w", err)
	}
	return raw, nil
}

func cartToDomain(raw []byte) (entities.Cart, error) {
	var cartDB CartDB
	if err := json.Unmarshal(raw, &cartDB); err != nil {
		return entities.Cart{}, fmt.Errorf("unmarshal cart: %w", err)
	}

	items := make([]entities.CartItem, 0, len(cartDB.Items))
	for _, itemDB := range cartDB.Items {
		item := entities.CartItem{
			MenuItemID: itemDB.MenuItemID,
			Name:       itemDB.Name,
			Quantity:   itemDB.Quantity,
			UnitPrice:  itemDB.UnitPrice,
		}
		for _, opt := range itemDB.Options {
			item.Options = append(item.Options, entities.CartOption{
				ID:    opt.ID,
				Name:  opt.Name,
				Price: opt.Price,
			})
		}
		items = append(items, item)
	}

	return entities.Cart{
		Items: items,
		Total: cartDB.Total,
	}, nil
}
