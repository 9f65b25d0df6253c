package exchange_recovery

import (
	"context"
	"time"

	"dormeal/pkg/logger"
)

type Service interface {
	RestoreCountdowns(ctx context.Context) (int, error)
}

// ExchangeRecovery поднимает отсчеты у двери, потерянные при рестарте.
// Первый прогон при старте воркера восстанавливает все, дальше задача
// подхватывает заказы, которые перевели в at_exchange_point другие инстансы.
type ExchangeRecovery struct {
	log      logger.Logger
	service  Service
	interval time.Duration
}

func NewExchangeRecovery(log logger.Logger, service Service, interval time.Duration) *ExchangeRecovery {
	return &ExchangeRecovery{
		log:      log,
		service:  service,
		interval: interval,
	}
}

func (e *ExchangeRecovery) TTL() time.Duration {
	return e.interval
}

func (e *ExchangeRecovery) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, e.interval)
	defer cancel()

	restored, err := e.service.RestoreCountdowns(ctxWithTimeout)
	if err != nil {
		return err
	}

	if restored > 0 {
		e.log.With(
			logger.NewField("restored_countdowns", restored),
		).Info("exchange recovery")
	}
	return nil
}

func (e *ExchangeRecovery) Info() string {
	return "exchange countdown recovery"
}
