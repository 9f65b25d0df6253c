package carrier_payout

import (
	"dormeal/internal/entities"

	"github.com/shopspring/decimal"
)

// PayoutFactory считает выплату курьеру при создании заказа.
type PayoutFactory struct {
	base            decimal.Decimal
	meetAtDoorBonus decimal.Decimal
}

func New(base, meetAtDoorBonus decimal.Decimal) *PayoutFactory {
	return &PayoutFactory{
		base:            base,
		meetAtDoorBonus: meetAtDoorBonus,
	}
}

func (f *PayoutFactory) CarrierPayout(method entities.DeliveryMethod) decimal.Decimal {
	payout := f.base
	switch method {
	case entities.DeliveryMeetAtDoor:
		// курьер может прождать у двери все окно
		payout = payout.Add(f.meetAtDoorBonus)
	case entities.DeliveryHandoff, entities.DeliveryDropoff:
	default:
	}

	return payout.Round(2)
}
