package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Cart struct {
	Items []CartItem
	Total decimal.Decimal
}

type CartItem struct {
	MenuItemID string
	Name       string
	Quantity   int
	UnitPrice  decimal.Decimal
	Options    []CartOption
}

type CartOption struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// LineTotal quantity * (unitPrice + сумма опций).
func (i CartItem) LineTotal() decimal.Decimal {
	price := i.UnitPrice
	for _, opt := range i.Options {
		price = price.Add(opt.Price)
	}
	return price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func NewCart(items []CartItem) Cart {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return Cart{
		Items: items,
		Total: total,
	}
}

// Summary строка для ленты курьера: "2× Big Mac, 1× Fries".
func (c Cart) Summary() string {
	parts := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		parts = append(parts, fmt.Sprintf("%d× %s", item.Quantity, item.Name))
	}
	return strings.Join(parts, ", ")
}
