package rate

import (
	"context"
	"fmt"
	"sync"
	"time"

	xrate "golang.org/x/time/rate"
)

// MemoryLimiter es el fallback en proceso cuando no hay Redis. Usa un token
// bucket por clave (burst = limit, recarga limit/window), así que el
// comportamiento se parece al fixed window sin el pico en el borde.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	calls   int
	now     func() time.Time
}

type bucket struct {
	lim      *xrate.Limiter
	lastSeen time.Time
	window   time.Duration
}

// sweepEvery: cada cuántas llamadas se purgan buckets inactivos.
const sweepEvery = 1024

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{buckets: map[string]*bucket{}, now: time.Now}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	if limit <= 0 || window <= 0 {
		return Result{Allowed: true}, nil
	}
	now := m.now()
	k := fmt.Sprintf("%s|%d|%s", key, limit, window)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.calls%sweepEvery == 0 {
		m.sweep(now)
	}

	b, ok := m.buckets[k]
	if !ok {
		b = &bucket{
			lim:    xrate.NewLimiter(xrate.Every(window/time.Duration(limit)), limit),
			window: window,
		}
		m.buckets[k] = b
	}
	b.lastSeen = now

	r := b.lim.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return Result{Allowed: false, RetryAfter: delay, CurrentHits: int64(limit) + 1}, nil
	}
	remaining := int64(b.lim.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: true, Remaining: remaining, CurrentHits: int64(limit) - remaining}, nil
}

func (m *MemoryLimiter) sweep(now time.Time) {
	for k, b := range m.buckets {
		if now.Sub(b.lastSeen) > 2*b.window {
			delete(m.buckets, k)
		}
	}
}
