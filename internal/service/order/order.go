package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dormeal/internal/entities"
	"dormeal/internal/service/lifecycle"
	"dormeal/pkg/logger"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const (
	DefaultStalePendingTTL = 2 * time.Hour
	defaultStaleBatchSize  = 100

	StaleCancelReason = "no carrier claimed the order in time"
)

type Config struct {
	StalePendingTTL time.Duration
	StaleBatchSize  uint64
}

type Service struct {
	repository Repository
	lifecycle  Lifecycle
	countdown  Countdown
	payout     PayoutFactory
	publisher  EventPublisher
	clock      clockwork.Clock
	log        handlerLogger

	staleTTL       time.Duration
	staleBatchSize uint64
}

func New(
	repository Repository,
	lifecycle Lifecycle,
	countdown Countdown,
	payout PayoutFactory,
	publisher EventPublisher,
	clock clockwork.Clock,
	log handlerLogger,
	cfg Config,
) *Service {
	if cfg.StalePendingTTL <= 0 {
		cfg.StalePendingTTL = DefaultStalePendingTTL
	}
	if cfg.StaleBatchSize == 0 {
		cfg.StaleBatchSize = defaultStaleBatchSize
	}

	return &Service{
		repository:     repository,
		lifecycle:      lifecycle,
		countdown:      countdown,
		payout:         payout,
		publisher:      publisher,
		clock:          clock,
		log:            log,
		staleTTL:       cfg.StalePendingTTL,
		staleBatchSize: cfg.StaleBatchSize,
	}
}

// CreateOrder оформляет заказ в pending. Итог корзины и выплата считаются
// здесь, присланные клиентом суммы не используются. Повтор с тем же ID
// возвращает entities.ErrOrderExists.
func (s *Service) CreateOrder(ctx context.Context, create entities.OrderCreate) (*entities.Order, error) {
	if err := validateCreate(&create); err != nil {
		return nil, err
	}

	method := create.DeliveryMethod
	if method == "" {
		method = entities.DefaultDeliveryMethod
	}

	orderID := uuid.NewString()
	if create.ID != nil {
		canonical, err := canonicalOrderID(*create.ID)
		if err != nil {
			return nil, err
		}
		orderID = canonical
	}

	code, err := newOrderCode()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	cart := entities.NewCart(create.Items)

	created, err := s.repository.Create(ctx, entities.Order{
		ID:                 orderID,
		CustomerID:         create.CustomerID,
		Status:             entities.OrderPending,
		DeliveryMethod:     method,
		RestaurantName:     strings.TrimSpace(create.RestaurantName),
		RestaurantLocation: strings.TrimSpace(create.RestaurantLocation),
		Building:           strings.TrimSpace(create.Building),
		Location:           strings.TrimSpace(create.Location),
		Cart:               cart,
		TotalPrice:         cart.Total,
		CarrierPayout:      s.payout.CarrierPayout(method),
		OrderCode:          code,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.log.Info("order created",
		logger.NewField("order_id", created.ID),
		logger.NewField("delivery_method", created.DeliveryMethod.String()),
		logger.NewField("total", created.TotalPrice.String()),
	)

	err = s.publisher.Publish(ctx, entities.OrderEvent{
		Type:       entities.OrderEventCreated,
		OrderID:    created.ID,
		Status:     created.Status,
		ActorID:    created.CustomerID,
		OccurredAt: now,
	})
	if err != nil {
		s.log.Warn("order created event publish failed",
			logger.NewField("order_id", created.ID),
			logger.ErrorField(err),
		)
	}

	return created, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (*entities.Order, error) {
	orderID, err := canonicalOrderID(orderID)
	if err != nil {
		return nil, err
	}

	order, err := s.repository.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// ListAvailable лента свободных заказов, без заказов самого пользователя.
func (s *Service) ListAvailable(ctx context.Context, userID string) ([]entities.AvailableOrder, error) {
	if !isValidUserID(userID) {
		return nil, entities.ErrInvalidUserID
	}

	orders, err := s.repository.ListAvailable(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list available orders: %w", err)
	}

	available := make([]entities.AvailableOrder, 0, len(orders))
	for i := range orders {
		available = append(available, entities.NewAvailableOrder(&orders[i]))
	}
	return available, nil
}

func (s *Service) ListCarrierOrders(ctx context.Context, carrierID string) (*entities.CarrierOrders, error) {
	if !isValidUserID(carrierID) {
		return nil, entities.ErrInvalidUserID
	}

	orders, err := s.repository.ListByCarrier(ctx, carrierID)
	if err != nil {
		return nil, fmt.Errorf("list carrier orders: %w", err)
	}

	result := &entities.CarrierOrders{
		Active:    make([]entities.CarrierOrder, 0),
		Completed: make([]entities.CarrierOrder, 0),
	}
	for i := range orders {
		view := entities.NewCarrierOrder(&orders[i])
		if orders[i].Status.IsTerminal() {
			result.Completed = append(result.Completed, view)
			continue
		}
		result.Active = append(result.Active, view)
	}
	return result, nil
}

// GetStatus то, что опрашивает приложение курьера. С carrierID завершенный
// заказ дает ErrOrderAlreadyComplete: это сигнал прекратить опрос.
func (s *Service) GetStatus(ctx context.Context, orderID, carrierID string) (*entities.OrderStatusView, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if carrierID != "" {
		if order.Status.IsTerminal() {
			return nil, entities.ErrOrderAlreadyComplete
		}
		if !order.IsHeldBy(carrierID) {
			return nil, entities.ErrNotOrderCarrier
		}
	}

	view := &entities.OrderStatusView{
		OrderID:          order.ID,
		OrderStatus:      order.Status,
		ExchangeType:     order.DeliveryMethod,
		ProceedToDropoff: order.Status == entities.OrderAtExchangePoint && order.ExchangeExpired,
	}

	if order.Status == entities.OrderAtExchangePoint && !order.ExchangeExpired {
		if left, ok := s.countdown.Remaining(order.ID); ok {
			seconds := int(left / time.Second)
			view.ExchangeSecondsLeft = &seconds
		}
	}

	return view, nil
}

// CancelStalePending отменяет от имени системы pending заказы, которые никто
// не взял за StalePendingTTL. Заказы, взятые параллельно, пропускаются.
func (s *Service) CancelStalePending(ctx context.Context) (int, error) {
	createdBefore := s.clock.Now().UTC().Add(-s.staleTTL)

	orders, err := s.repository.ListStalePending(ctx, createdBefore, s.staleBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list stale pending orders: %w", err)
	}

	var (
		cancelled int
		errs      []error
	)
	for _, order := range orders {
		_, err := s.lifecycle.Apply(ctx, lifecycle.Request{
			OrderID:  order.ID,
			System:   true,
			Action:   lifecycle.ActionCancel,
			Reason:   StaleCancelReason,
			IfStatus: entities.OrderPending,
		})
		switch {
		case err == nil, errors.Is(err, lifecycle.ErrNotificationDeliveryFailed):
			cancelled++
		case errors.Is(err, entities.ErrOrderAlreadyClaimed),
			errors.Is(err, entities.ErrOrderAlreadyComplete),
			errors.Is(err, lifecycle.ErrStatusChanged):
			// курьер успел взять заказ
		default:
			errs = append(errs, fmt.Errorf("cancel order %s: %w", order.ID, err))
		}
	}

	if cancelled > 0 {
		s.log.Info("stale pending orders cancelled",
			logger.NewField("count", cancelled),
			logger.NewField("created_before", createdBefore),
		)
	}
	return cancelled, errors.Join(errs...)
}
