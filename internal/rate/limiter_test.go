package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_BurstThenDeny(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	l := NewMemoryLimiter()
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		require.True(t, res.Allowed, "hit %d", i+1)
	}
	res, err := l.Allow(ctx, "1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	require.False(t, res.Allowed)
	require.InDelta(t, (20 * time.Second).Seconds(), res.RetryAfter.Seconds(), 0.5)

	// otra clave no comparte bucket
	res, err = l.Allow(ctx, "5.6.7.8", 3, time.Minute)
	require.NoError(t, err)
	require.True(t, res.Allowed)

	// el mismo IP con otro límite es otro contador
	res, err = l.Allow(ctx, "1.2.3.4", 10, time.Minute)
	require.NoError(t, err)
	require.True(t, res.Allowed)

	now = start.Add(21 * time.Second)
	res, err = l.Allow(ctx, "1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	require.True(t, res.Allowed)
}

func TestMemoryLimiter_DisabledLimit(t *testing.T) {
	res, err := NewMemoryLimiter().Allow(context.Background(), "k", 0, time.Minute)
	require.NoError(t, err)
	require.True(t, res.Allowed)
}

func TestMemoryLimiter_Sweep(t *testing.T) {
	start := time.Now()
	now := start
	l := NewMemoryLimiter()
	l.now = func() time.Time { return now }
	_, _ = l.Allow(context.Background(), "old", 5, time.Second)
	now = start.Add(time.Minute)
	l.sweep(now)
	require.Empty(t, l.buckets)
}
