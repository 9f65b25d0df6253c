package checkout_events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"dormeal/internal/entities"
	service_order "dormeal/internal/service/order"
	"dormeal/internal/service/order_events"
	"dormeal/pkg/logger"

	"github.com/IBM/sarama"
)

type Handler struct {
	orderEvents              Service
	log                      handlerLogger
	messageProcessingTimeout time.Duration
}

func New(log handlerLogger, orderEvents Service, timeout time.Duration) *Handler {
	return &Handler{
		orderEvents:              orderEvents,
		log:                      log.With(logger.NewField("handler", "checkout_events")),
		messageProcessingTimeout: timeout,
	}
}

func (h *Handler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				h.log.Info("checkout events: claim closed, exiting ConsumeClaim")
				return nil
			}

			if h.messageProcessing(sess, message) {
				return nil
			}

		case <-sess.Context().Done():
			// rebalance или остановка группы
			h.log.Info("checkout events: session context done, exiting ConsumeClaim")
			return nil
		}
	}
}

// messageProcessing возвращает true, если ConsumeClaim надо прервать:
// сообщение остается незакоммиченным до следующей сессии.
func (h *Handler) messageProcessing(sess sarama.ConsumerGroupSession, message *sarama.ConsumerMessage) bool {
	ctx, cancel := context.WithTimeout(sess.Context(), h.messageProcessingTimeout)
	defer cancel()

	var event checkoutEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		h.log.With(
			logger.ErrorField(err),
			logger.NewField("offset", message.Offset),
		).Error("checkout events: bad message")
		sess.MarkMessage(message, "")
		return false
	}

	msgLog := h.log.With(
		logger.NewField("order", event.OrderID),
		logger.NewField("type", event.Type),
		logger.NewField("offset", message.Offset),
	)
	msgLog.Info("checkout events: processing")

	order, err := h.orderEvents.ProcessOrderEvent(ctx, event.toEntity())
	if err != nil {
		errLog := msgLog.With(logger.ErrorField(err))
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			errLog.Warn("checkout events: context cancelled, message will be reprocessed")
			return true

		case isPermanent(err):
			// повтор даст ту же ошибку, коммитим и идем дальше
			errLog.Warn("checkout events: event rejected, skipping")
			sess.MarkMessage(message, "")
			return false

		default:
			// offset не коммитим: следующая сессия перечитает сообщение,
			// создание заказа идемпотентно по ID
			errLog.Error("checkout events: failed to process event, message will be reprocessed")
			return true
		}
	}

	msgLog.With(
		logger.NewField("current_status", order.Status.String()),
	).Info("checkout events: processed")

	sess.MarkMessage(message, "")
	return false
}

func isPermanent(err error) bool {
	switch {
	case errors.Is(err, order_events.ErrInvalidEvent),
		errors.Is(err, order_events.ErrUndefinedEventType),
		errors.Is(err, order_events.ErrMissingPayload),
		errors.Is(err, entities.ErrOrderNotFound),
		service_order.IsValidationError(err):
		return true
	default:
		return false
	}
}
