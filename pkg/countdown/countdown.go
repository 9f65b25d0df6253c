package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const DefaultTick = time.Second

// ExpireFunc вызывается один раз, когда отсчет по ключу дошел до нуля.
// ctx отменяется при Close менеджера.
type ExpireFunc func(ctx context.Context, key string)

// Manager держит не больше одного отсчета на ключ.
//
// Start по занятому ключу отменяет прежний отсчет. Остаток считается от
// дедлайна, а не от числа тиков, поэтому пропущенный тик не сдвигает
// срабатывание. Срабатывает только текущее поколение ключа.
type Manager struct {
	clock clockwork.Clock
	tick  time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	timers map[string]*timer
	gen    uint64
	wg     sync.WaitGroup
}

type timer struct {
	gen      uint64
	deadline time.Time
	cancel   context.CancelFunc
}

type Option func(*Manager)

func WithClock(clock clockwork.Clock) Option {
	return func(m *Manager) {
		m.clock = clock
	}
}

func WithTick(tick time.Duration) Option {
	return func(m *Manager) {
		if tick > 0 {
			m.tick = tick
		}
	}
}

func New(ctx context.Context, opts ...Option) *Manager {
	m := &Manager{
		clock:  clockwork.NewRealClock(),
		tick:   DefaultTick,
		timers: make(map[string]*timer),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.ctx, m.cancel = context.WithCancel(ctx)
	return m
}

// Start запускает отсчет длиной d. Прежний отсчет по key отменяется.
func (m *Manager) Start(key string, d time.Duration, onExpire ExpireFunc) {
	m.StartAt(key, m.clock.Now().Add(d), onExpire)
}

// StartAt то же, но с абсолютным дедлайном. Нужен для восстановления
// отсчетов после рестарта.
func (m *Manager) StartAt(key string, deadline time.Time, onExpire ExpireFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx.Err() != nil {
		return
	}
	if prev, ok := m.timers[key]; ok {
		prev.cancel()
	}

	m.gen++
	ctx, cancel := context.WithCancel(m.ctx)
	t := &timer{
		gen:      m.gen,
		deadline: deadline,
		cancel:   cancel,
	}
	m.timers[key] = t

	// тикер создаем до выхода из Start, чтобы fake clock его сразу видел
	ticker := m.clock.NewTicker(m.tick)

	m.wg.Add(1)
	go m.run(ctx, key, t, ticker, onExpire)
}

// Stop отменяет отсчет. false, если по ключу ничего не шло.
func (m *Manager) Stop(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.timers[key]
	if !ok {
		return false
	}
	t.cancel()
	delete(m.timers, key)
	return true
}

// Remaining остаток до срабатывания, округленный вниз до секунды.
func (m *Manager) Remaining(key string) (time.Duration, bool) {
	m.mu.Lock()
	t, ok := m.timers[key]
	m.mu.Unlock()
	if !ok {
		return 0, false
	}

	left := t.deadline.Sub(m.clock.Now())
	if left < 0 {
		left = 0
	}
	return left.Truncate(time.Second), true
}

func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Close отменяет все отсчеты и ждет их горутины.
func (m *Manager) Close() {
	m.mu.Lock()
	m.cancel()
	m.timers = make(map[string]*timer)
	m.mu.Unlock()

	m.wg.Wait()
}

func (m *Manager) run(
	ctx context.Context,
	key string,
	t *timer,
	ticker clockwork.Ticker,
	onExpire ExpireFunc,
) {
	defer m.wg.Done()
	defer ticker.Stop()
	defer t.cancel()

	if m.expired(t) && m.release(key, t.gen) {
		onExpire(m.ctx, key)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if !m.expired(t) {
				continue
			}
			if m.release(key, t.gen) {
				onExpire(m.ctx, key)
			}
			return
		}
	}
}

func (m *Manager) expired(t *timer) bool {
	return !m.clock.Now().Before(t.deadline)
}

// release снимает таймер, если он все еще текущий для ключа.
func (m *Manager) release(key string, gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.timers[key]
	if !ok || t.gen != gen {
		return false
	}
	delete(m.timers, key)
	return true
}
