package entities

import "time"

type OrderEventType string

const (
	OrderEventCreated       OrderEventType = "order.created"
	OrderEventCancelled     OrderEventType = "order.cancelled"
	OrderEventStatusChanged OrderEventType = "order.status.changed"
)

func (t OrderEventType) String() string {
	return string(t)
}

// OrderEvent сообщение шины. Для created несет данные заказа.
type OrderEvent struct {
	Type       OrderEventType
	OrderID    string
	Status     OrderStatus
	PrevStatus OrderStatus
	ActorID    string
	Reason     string
	OccurredAt time.Time
	Create     *OrderCreate
}

type NotificationKind string

const (
	NotifyCarrierEnRoute         NotificationKind = "carrier_en_route"
	NotifyArrivingSoon           NotificationKind = "arriving_soon"
	NotifyCarrierAtExchangePoint NotificationKind = "carrier_at_exchange_point"
	NotifyOrderReceived          NotificationKind = "order_received"
	NotifyOrderDroppedOff        NotificationKind = "order_dropped_off"
	NotifyOrderHandedOff         NotificationKind = "order_handed_off"
	NotifyOrderCancelled         NotificationKind = "order_cancelled"
	NotifyCustomerUnavailable    NotificationKind = "customer_unavailable"
)

func (k NotificationKind) String() string {
	return string(k)
}

type Notification struct {
	RecipientID string
	Kind        NotificationKind
	OrderID     string
	Payload     map[string]string
}
