package token_bucket

import (
	"sync"

	"github.com/jonboulle/clockwork"
)

/*
Allow отвечает true/false: запрос либо принимаем, либо отклоняем.
Токены копятся дробно, поэтому частые вызовы не теряют накопленное время.
*/

type Limiter interface {
	Allow() bool
}

type TokenBucket struct {
	mu         sync.Mutex
	clock      clockwork.Clock
	capacity   float64
	tokens     float64
	refillRate float64 // токенов в секунду
	lastRefill int64   // unix nano
}

func NewTokenBucket(capacity int, refillRate float64) *TokenBucket {
	return NewTokenBucketWithClock(clockwork.NewRealClock(), capacity, refillRate)
}

func NewTokenBucketWithClock(clock clockwork.Clock, capacity int, refillRate float64) *TokenBucket {
	return &TokenBucket{
		clock:      clock,
		capacity:   float64(capacity),
		tokens:     float64(capacity),
		refillRate: refillRate,
		lastRefill: clock.Now().UnixNano(),
	}
}

func (t *TokenBucket) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refill()

	if t.tokens >= 1 {
		t.tokens--
		return true
	}
	return false
}

func (t *TokenBucket) refill() {
	now := t.clock.Now().UnixNano()
	elapsed := float64(now-t.lastRefill) / 1e9
	if elapsed <= 0 {
		return
	}

	t.tokens = min(t.capacity, t.tokens+elapsed*t.refillRate)
	t.lastRefill = now
}
