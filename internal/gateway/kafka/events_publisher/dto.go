package events_publisher

import (
	"time"

	"dormeal/internal/entities"
)

// eventMessage формат сообщения в KAFKA_EVENTS_TOPIC.
type eventMessage struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"orderId"`
	Status     string    `json:"status"`
	PrevStatus string    `json:"prevStatus,omitempty"`
	ActorID    string    `json:"actorId,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func fromDomain(event entities.OrderEvent) eventMessage {
	return eventMessage{
		Type:       event.Type.String(),
		OrderID:    event.OrderID,
		Status:     event.Status.String(),
		PrevStatus: event.PrevStatus.String(),
		ActorID:    event.ActorID,
		Reason:     event.Reason,
		OccurredAt: event.OccurredAt.UTC(),
	}
}
