package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryClient(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, Config{Kind: "memory", DefaultTTL: time.Minute})
	require.NoError(t, err)

	_, err = c.Get(ctx, "stats")
	require.ErrorIs(t, err, ErrNotFound)

	buf := []byte(`{"a":1}`)
	require.NoError(t, c.Set(ctx, "stats", buf, 0))
	buf[0] = 'X'

	got, err := c.Get(ctx, "stats")
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, string(got), "stored value is a copy")

	require.NoError(t, c.Delete(ctx, "stats"))
	_, err = c.Get(ctx, "stats")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Close())
}

func TestMemoryClientExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)
	_, err := c.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNewUnknownKind(t *testing.T) {
	_, err := New(context.Background(), Config{Kind: "memcached"})
	require.Error(t, err)
}
