package orderclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dormeal/pkg/logger"

	"github.com/jonboulle/clockwork"
)

const DefaultPollInterval = 10 * time.Second

type StatusSource interface {
	GetStatus(ctx context.Context, orderID, carrierID string) (*Status, error)
}

type pollerLogger interface {
	Warn(msg string, fields ...logger.Field)
}

// Poller опрашивает статус заказа с фиксированным интервалом.
// Временные ошибки (сеть, 5xx, 429, неизвестный статус) не прерывают цикл:
// следующая попытка через тот же интервал, без backoff и без ограничения
// числа попыток. Ошибки запроса (400, 401, 403, 404) завершают Watch.
type Poller struct {
	source   StatusSource
	log      pollerLogger
	clock    clockwork.Clock
	interval time.Duration
}

type PollerOption func(*Poller)

func WithClock(clock clockwork.Clock) PollerOption {
	return func(p *Poller) {
		p.clock = clock
	}
}

func WithInterval(interval time.Duration) PollerOption {
	return func(p *Poller) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

func NewPoller(source StatusSource, log pollerLogger, opts ...PollerOption) *Poller {
	p := &Poller{
		source:   source,
		log:      log,
		clock:    clockwork.NewRealClock(),
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Watch вызывает onUpdate на каждый успешный опрос. Первый опрос сразу.
// Возвращает nil, когда статус стал терминальным или сервис ответил
// ErrOrderAlreadyComplete, ошибку запроса, если повтор ее не исправит,
// и ctx.Err() при отмене.
func (p *Poller) Watch(ctx context.Context, orderID, carrierID string, onUpdate func(Status)) error {
	timer := p.clock.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.Chan():
		}

		done, err := p.poll(ctx, orderID, carrierID, onUpdate)
		if done {
			return err
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.log.Warn("poll order status failed, retrying",
				logger.NewField("order_id", orderID),
				logger.NewField("retry_in", p.interval.String()),
				logger.ErrorField(err),
			)
		}

		timer.Reset(p.interval)
	}
}

func (p *Poller) poll(ctx context.Context, orderID, carrierID string, onUpdate func(Status)) (bool, error) {
	status, err := p.source.GetStatus(ctx, orderID, carrierID)
	switch {
	case errors.Is(err, ErrOrderAlreadyComplete):
		return true, nil
	case isRequestError(err):
		return true, fmt.Errorf("watch order %s: %w", orderID, err)
	case err != nil:
		return false, err
	}

	onUpdate(*status)
	return status.IsTerminal(), nil
}

// isRequestError ошибки, которые повтор того же запроса не исправит.
func isRequestError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidInput)
}
