package lifecycle

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"dormeal/internal/entities"
)

type Action string

const (
	ActionClaim           Action = "claim"
	ActionPickup          Action = "pickup"
	ActionNearby          Action = "nearby"
	ActionAtExchangePoint Action = "at_exchange_point"
	ActionConfirmReceived Action = "confirm_received"
	ActionDropoff         Action = "dropoff"
	ActionHandoff         Action = "handoff"
	ActionCancel          Action = "cancel"
)

func (a Action) String() string {
	return string(a)
}

// кто вправе выполнить действие
type actorRole int

const (
	roleAnyCarrier     actorRole = iota // любой, кроме самого клиента
	roleHolder                          // курьер, за которым закреплен заказ
	roleCustomer                        // клиент заказа
	roleHolderOrSystem                  // курьер-держатель или система
)

type recipient int

const (
	toCustomer recipient = iota
	toCarrier
)

type notice struct {
	to   recipient
	kind entities.NotificationKind
}

type transition struct {
	from    []entities.OrderStatus
	to      entities.OrderStatus
	actor   actorRole
	guard   func(order *entities.Order, req Request) error
	notices []notice
}

var nonTerminal = []entities.OrderStatus{
	entities.OrderPending,
	entities.OrderClaimed,
	entities.OrderPickedUp,
	entities.OrderNearby,
	entities.OrderAtExchangePoint,
}

// transitions единственная таблица допустимых переходов.
var transitions = map[Action]transition{
	ActionClaim: {
		from:  []entities.OrderStatus{entities.OrderPending},
		to:    entities.OrderClaimed,
		actor: roleAnyCarrier,
	},
	ActionPickup: {
		from:    []entities.OrderStatus{entities.OrderClaimed},
		to:      entities.OrderPickedUp,
		actor:   roleHolder,
		notices: []notice{{toCustomer, entities.NotifyCarrierEnRoute}},
	},
	ActionNearby: {
		from:    []entities.OrderStatus{entities.OrderPickedUp},
		to:      entities.OrderNearby,
		actor:   roleHolder,
		notices: []notice{{toCustomer, entities.NotifyArrivingSoon}},
	},
	ActionAtExchangePoint: {
		from:    []entities.OrderStatus{entities.OrderNearby},
		to:      entities.OrderAtExchangePoint,
		actor:   roleHolder,
		guard:   requireMethod(entities.DeliveryMeetAtDoor),
		notices: []notice{{toCustomer, entities.NotifyCarrierAtExchangePoint}},
	},
	ActionConfirmReceived: {
		from:    []entities.OrderStatus{entities.OrderAtExchangePoint},
		to:      entities.OrderDelivered,
		actor:   roleCustomer,
		notices: []notice{{toCarrier, entities.NotifyOrderReceived}},
	},
	ActionDropoff: {
		from:    []entities.OrderStatus{entities.OrderNearby, entities.OrderAtExchangePoint},
		to:      entities.OrderDelivered,
		actor:   roleHolder,
		guard:   dropoffAllowed,
		notices: []notice{{toCustomer, entities.NotifyOrderDroppedOff}},
	},
	ActionHandoff: {
		from:    []entities.OrderStatus{entities.OrderNearby},
		to:      entities.OrderDelivered,
		actor:   roleHolder,
		guard:   handoffAllowed,
		notices: []notice{{toCustomer, entities.NotifyOrderHandedOff}},
	},
	ActionCancel: {
		from:  nonTerminal,
		to:    entities.OrderCancelled,
		actor: roleHolderOrSystem,
		notices: []notice{
			{toCustomer, entities.NotifyOrderCancelled},
			{toCarrier, entities.NotifyOrderCancelled},
		},
	},
}

func requireMethod(method entities.DeliveryMethod) func(*entities.Order, Request) error {
	return func(order *entities.Order, req Request) error {
		if order.DeliveryMethod != method {
			return fmt.Errorf("%w: %s requires %s delivery, order uses %s",
				ErrInvalidTransition, req.Action, method, order.DeliveryMethod)
		}
		return nil
	}
}

// dropoff возможен из nearby для способа dropoff и из at_exchange_point
// для meet_at_door, но только после истечения окна ожидания.
func dropoffAllowed(order *entities.Order, req Request) error {
	if strings.TrimSpace(req.PhotoURL) == "" {
		return ErrMissingPhoto
	}

	switch order.Status {
	case entities.OrderNearby:
		if order.DeliveryMethod != entities.DeliveryDropoff {
			return fmt.Errorf("%w: dropoff from nearby requires dropoff delivery, order uses %s",
				ErrInvalidTransition, order.DeliveryMethod)
		}
	case entities.OrderAtExchangePoint:
		if !order.ExchangeExpired {
			return fmt.Errorf("%w: exchange window is still open", ErrInvalidTransition)
		}
	}
	return nil
}

func handoffAllowed(order *entities.Order, req Request) error {
	if order.DeliveryMethod != entities.DeliveryHandoff {
		return fmt.Errorf("%w: handoff requires handoff delivery, order uses %s",
			ErrInvalidTransition, order.DeliveryMethod)
	}
	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(req.OrderCode)), []byte(order.OrderCode)) != 1 {
		return ErrInvalidOrderCode
	}
	return nil
}
