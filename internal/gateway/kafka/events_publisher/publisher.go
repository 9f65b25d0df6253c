package events_publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dormeal/internal/entities"

	"github.com/IBM/sarama"
)

// Publisher пишет события заказа в топик, ключ - ID заказа, поэтому
// события одного заказа идут в одну партицию по порядку.
type Publisher struct {
	producer producer
	topic    string
}

func New(producer producer, topic string) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
	}
}

func (p *Publisher) Publish(ctx context.Context, event entities.OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(fromDomain(event))
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	start := time.Now()
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.OrderID),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(event.Type)},
		},
	})
	result := "ok"
	if err != nil {
		result = "error"
	}
	PublishDuration.WithLabelValues(event.Type.String(), result).Observe(time.Since(start).Seconds())

	if err != nil {
		return fmt.Errorf("publish %s for order %s: %w", event.Type, event.OrderID, err)
	}
	return nil
}
