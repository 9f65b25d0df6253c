package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"dormeal/internal/entities"
	"dormeal/pkg/logger"

	"github.com/jonboulle/clockwork"
)

const (
	DefaultExchangeCountdown = 300 * time.Second

	// сколько даем на обработку срабатывания отсчета
	expiryHandleTimeout = 10 * time.Second

	instructionProceedToDropoff = "proceed_to_dropoff"
)

type Config struct {
	ExchangeCountdown time.Duration
}

// Request одно действие над заказом. System - действие от имени системы
// (фоновые задачи, события шины), ActorID тогда не обязателен.
type Request struct {
	OrderID   string
	ActorID   string
	System    bool
	Action    Action
	PhotoURL  string
	OrderCode string
	Reason    string
	// IfStatus если задан, переход выполняется только из этого статуса.
	IfStatus entities.OrderStatus
}

// Result заказ после перехода. Notified false - переход применен,
// но хотя бы одно уведомление не доставлено.
type Result struct {
	Order    *entities.Order
	Notified bool
}

type Service struct {
	repository        Repository
	notifier          Notifier
	publisher         EventPublisher
	countdown         Countdown
	txManager         TxManager
	clock             clockwork.Clock
	log               handlerLogger
	exchangeCountdown time.Duration
}

func New(
	repository Repository,
	notifier Notifier,
	publisher EventPublisher,
	countdown Countdown,
	txManager TxManager,
	clock clockwork.Clock,
	log handlerLogger,
	cfg Config,
) *Service {
	window := cfg.ExchangeCountdown
	if window <= 0 {
		window = DefaultExchangeCountdown
	}

	return &Service{
		repository:        repository,
		notifier:          notifier,
		publisher:         publisher,
		countdown:         countdown,
		txManager:         txManager,
		clock:             clock,
		log:               log,
		exchangeCountdown: window,
	}
}

func (s *Service) Claim(ctx context.Context, orderID, carrierID string) (*Result, error) {
	return s.Apply(ctx, Request{OrderID: orderID, ActorID: carrierID, Action: ActionClaim})
}

func (s *Service) Pickup(ctx context.Context, orderID, carrierID string) (*Result, error) {
	return s.Apply(ctx, Request{OrderID: orderID, ActorID: carrierID, Action: ActionPickup})
}

func (s *Service) Nearby(ctx context.Context, orderID, carrierID string) (*Result, error) {
	return s.Apply(ctx, Request{OrderID: orderID, ActorID: carrierID, Action: ActionNearby})
}

func (s *Service) ArriveAtExchangePoint(ctx context.Context, orderID, carrierID string) (*Result, error) {
	return s.Apply(ctx, Request{OrderID: orderID, ActorID: carrierID, Action: ActionAtExchangePoint})
}

func (s *Service) ConfirmReceived(ctx context.Context, orderID, customerID string) (*Result, error) {
	return s.Apply(ctx, Request{OrderID: orderID, ActorID: customerID, Action: ActionConfirmReceived})
}

func (s *Service) Dropoff(ctx context.Context, orderID, carrierID, photoURL string) (*Result, error) {
	return s.Apply(ctx, Request{OrderID: orderID, ActorID: carrierID, Action: ActionDropoff, PhotoURL: photoURL})
}

func (s *Service) Handoff(ctx context.Context, orderID, carrierID, orderCode string) (*Result, error) {
	return s.Apply(ctx, Request{OrderID: orderID, ActorID: carrierID, Action: ActionHandoff, OrderCode: orderCode})
}

func (s *Service) Cancel(ctx context.Context, orderID, carrierID, reason string) (*Result, error) {
	return s.Apply(ctx, Request{OrderID: orderID, ActorID: carrierID, Action: ActionCancel, Reason: reason})
}

func (s *Service) CancelBySystem(ctx context.Context, orderID, reason string) (*Result, error) {
	return s.Apply(ctx, Request{OrderID: orderID, System: true, Action: ActionCancel, Reason: reason})
}

// Apply проверяет и применяет переход.
//
//  1. Заказ в терминальном статусе: ErrOrderAlreadyComplete, без побочных эффектов.
//  2. Роль, исходный статус и доп. условия проверяются по таблице transitions.
//  3. Статус меняется условным UPDATE (CAS). Проигравший гонку получает
//     типизированную ошибку, состояние не меняется.
//  4. После записи: отсчет у двери, событие в шину (best-effort), уведомления.
//     Ошибка уведомления возвращается вместе с результатом и не откатывает переход.
func (s *Service) Apply(ctx context.Context, req Request) (*Result, error) {
	result, err := s.apply(ctx, req)
	TransitionsTotal.WithLabelValues(req.Action.String(), resultLabel(err)).Inc()
	return result, err
}

func (s *Service) apply(ctx context.Context, req Request) (*Result, error) {
	rule, ok := transitions[req.Action]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
	if !isValidOrderID(req.OrderID) {
		return nil, entities.ErrInvalidOrderID
	}
	if !req.System && !isValidActorID(req.ActorID) {
		return nil, entities.ErrInvalidUserID
	}

	order, err := s.repository.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	if err := checkTransition(order, req, rule); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	modify := buildModify(req, rule.to, now)

	err = s.txManager.DoReadCommitted(ctx, func(ctx context.Context) error {
		applied, err := s.repository.CompareAndSetStatus(ctx, order.ID, order.Status, rule.to, modify)
		if err != nil {
			return fmt.Errorf("compare and set status: %w", err)
		}
		if applied {
			return nil
		}

		current, err := s.repository.GetByID(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("reload order after lost race: %w", err)
		}
		return lostRaceError(req.Action, current)
	})
	if err != nil {
		return nil, err
	}

	updated := modify.Apply(*order, rule.to)

	log := s.log.With(
		logger.NewField("order_id", order.ID),
		logger.NewField("action", req.Action.String()),
	)
	log.Info("order transition applied",
		logger.NewField("from", order.Status.String()),
		logger.NewField("to", updated.Status.String()),
	)

	s.syncCountdown(order.Status, &updated)
	s.publish(ctx, log, entities.OrderEvent{
		Type:       entities.OrderEventStatusChanged,
		OrderID:    updated.ID,
		Status:     updated.Status,
		PrevStatus: order.Status,
		ActorID:    req.ActorID,
		Reason:     req.Reason,
		OccurredAt: now,
	})

	result := &Result{Order: &updated, Notified: true}
	if err := s.notifyAll(ctx, &updated, rule.notices, notificationPayload(req, &updated)); err != nil {
		result.Notified = false
		log.Warn("transition applied but notification failed", logger.ErrorField(err))
		return result, fmt.Errorf("%w: %w", ErrNotificationDeliveryFailed, err)
	}

	return result, nil
}

// ExchangeExpired отсчет у двери дошел до нуля. Статус не меняется:
// ставим флаг (он же открывает dropoff) и один раз говорим курьеру,
// что клиент не вышел.
func (s *Service) ExchangeExpired(ctx context.Context, orderID string) error {
	marked, err := s.repository.MarkExchangeExpired(ctx, orderID, s.clock.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark exchange expired: %w", err)
	}
	if !marked {
		// заказ уже ушел из at_exchange_point или сигнал уже был
		return nil
	}
	ExchangeExpiredTotal.Inc()

	order, err := s.repository.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}

	s.log.Info("exchange window expired, carrier told to proceed as dropoff",
		logger.NewField("order_id", orderID),
	)

	payload := map[string]string{
		"status":      order.Status.String(),
		"instruction": instructionProceedToDropoff,
	}
	err = s.notifyAll(ctx, order, []notice{{toCarrier, entities.NotifyCustomerUnavailable}}, payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotificationDeliveryFailed, err)
	}
	return nil
}

// RestoreCountdowns заново заводит отсчеты для заказов у двери, которых
// нет в памяти (например, после рестарта). Дедлайн считается от
// exchange_started_at, поэтому окно не продлевается.
func (s *Service) RestoreCountdowns(ctx context.Context) (int, error) {
	orders, err := s.repository.ListAwaitingExchange(ctx)
	if err != nil {
		return 0, fmt.Errorf("list awaiting exchange: %w", err)
	}

	restored := 0
	for _, order := range orders {
		if order.ExchangeStartedAt == nil {
			continue
		}
		if _, running := s.countdown.Remaining(order.ID); running {
			continue
		}
		s.countdown.StartAt(order.ID, order.ExchangeStartedAt.Add(s.exchangeCountdown), s.onExchangeExpired)
		restored++
	}

	ExchangeCountdownsActive.Set(float64(s.countdown.Active()))
	return restored, nil
}

func checkTransition(order *entities.Order, req Request, rule transition) error {
	if order.Status.IsTerminal() {
		return entities.ErrOrderAlreadyComplete
	}
	if req.Action == ActionClaim && order.Status != entities.OrderPending {
		return entities.ErrOrderAlreadyClaimed
	}
	if req.IfStatus != "" && order.Status != req.IfStatus {
		return fmt.Errorf("%w: now %s", ErrStatusChanged, order.Status)
	}

	switch rule.actor {
	case roleAnyCarrier:
		if order.CustomerID == req.ActorID {
			return ErrCannotClaimOwnOrder
		}
	case roleHolder:
		if !order.IsHeldBy(req.ActorID) {
			return entities.ErrNotOrderCarrier
		}
	case roleCustomer:
		if order.CustomerID != req.ActorID {
			return ErrNotOrderCustomer
		}
	case roleHolderOrSystem:
		if !req.System && !order.IsHeldBy(req.ActorID) {
			return entities.ErrNotOrderCarrier
		}
	}

	if !slices.Contains(rule.from, order.Status) {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, req.Action, order.Status)
	}

	if rule.guard != nil {
		return rule.guard(order, req)
	}
	return nil
}

func buildModify(req Request, to entities.OrderStatus, now time.Time) entities.OrderModify {
	modify := entities.OrderModify{
		UpdatedAt: &now,
	}

	switch req.Action {
	case ActionClaim:
		carrierID := req.ActorID
		modify.CarrierID = &carrierID
		modify.ClaimedAt = &now
	case ActionAtExchangePoint:
		modify.ExchangeStartedAt = &now
	case ActionDropoff:
		photo := strings.TrimSpace(req.PhotoURL)
		modify.DropoffPhotoURL = &photo
	case ActionCancel:
		if reason := strings.TrimSpace(req.Reason); reason != "" {
			modify.CancelReason = &reason
		}
	}

	if to.IsTerminal() {
		modify.CompletedAt = &now
	}
	return modify
}

// lostRaceError объясняет, почему CAS не прошел, по свежему состоянию.
func lostRaceError(action Action, current *entities.Order) error {
	switch {
	case current.Status.IsTerminal():
		return entities.ErrOrderAlreadyComplete
	case action == ActionClaim:
		return entities.ErrOrderAlreadyClaimed
	default:
		return fmt.Errorf("%w: now %s", ErrStatusChanged, current.Status)
	}
}

func (s *Service) syncCountdown(from entities.OrderStatus, order *entities.Order) {
	switch {
	case order.Status == entities.OrderAtExchangePoint && order.ExchangeStartedAt != nil:
		s.countdown.StartAt(order.ID, order.ExchangeStartedAt.Add(s.exchangeCountdown), s.onExchangeExpired)
	case from == entities.OrderAtExchangePoint:
		s.countdown.Stop(order.ID)
	default:
		return
	}
	ExchangeCountdownsActive.Set(float64(s.countdown.Active()))
}

func (s *Service) onExchangeExpired(ctx context.Context, orderID string) {
	ctx, cancel := context.WithTimeout(ctx, expiryHandleTimeout)
	defer cancel()

	ExchangeCountdownsActive.Set(float64(s.countdown.Active()))
	if err := s.ExchangeExpired(ctx, orderID); err != nil {
		s.log.Error("exchange expiry handling failed",
			logger.NewField("order_id", orderID),
			logger.ErrorField(err),
		)
	}
}

func (s *Service) publish(ctx context.Context, log logger.Logger, event entities.OrderEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		EventPublishFailuresTotal.Inc()
		log.Warn("order event publish failed", logger.ErrorField(err))
	}
}

func (s *Service) notifyAll(
	ctx context.Context,
	order *entities.Order,
	notices []notice,
	payload map[string]string,
) error {
	var errs []error
	for _, n := range notices {
		recipientID := order.CustomerID
		if n.to == toCarrier {
			if order.CarrierID == nil {
				continue
			}
			recipientID = *order.CarrierID
		}

		err := s.notifier.Notify(ctx, entities.Notification{
			RecipientID: recipientID,
			Kind:        n.kind,
			OrderID:     order.ID,
			Payload:     payload,
		})
		if err != nil {
			NotificationsTotal.WithLabelValues(n.kind.String(), "error").Inc()
			errs = append(errs, fmt.Errorf("notify %s: %w", recipientID, err))
			continue
		}
		NotificationsTotal.WithLabelValues(n.kind.String(), "ok").Inc()
	}
	return errors.Join(errs...)
}

func notificationPayload(req Request, order *entities.Order) map[string]string {
	payload := map[string]string{
		"status": order.Status.String(),
	}
	if order.DropoffPhotoURL != nil {
		payload["photoUrl"] = *order.DropoffPhotoURL
	}
	if req.Reason != "" {
		payload["reason"] = req.Reason
	}
	return payload
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotificationDeliveryFailed):
		return "notification_failed"
	case errors.Is(err, entities.ErrOrderAlreadyComplete):
		return "already_complete"
	case errors.Is(err, entities.ErrOrderAlreadyClaimed):
		return "already_claimed"
	case errors.Is(err, ErrStatusChanged):
		return "status_changed"
	default:
		return "rejected"
	}
}
