package stale_orders

import (
	"context"
	"time"

	"dormeal/pkg/logger"
)

type Service interface {
	CancelStalePending(ctx context.Context) (int, error)
}

// StaleOrders отменяет pending заказы, которые никто не взял.
type StaleOrders struct {
	log      logger.Logger
	service  Service
	interval time.Duration
}

func NewStaleOrders(log logger.Logger, service Service, interval time.Duration) *StaleOrders {
	return &StaleOrders{
		log:      log,
		service:  service,
		interval: interval,
	}
}

func (s *StaleOrders) TTL() time.Duration {
	return s.interval
}

func (s *StaleOrders) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	cancelled, err := s.service.CancelStalePending(ctxWithTimeout)
	if cancelled > 0 {
		s.log.With(
			logger.NewField("cancelled_orders", cancelled),
		).Info("stale orders cleanup")
	}

	return err
}

func (s *StaleOrders) Info() string {
	return "stale pending orders cleanup"
}
