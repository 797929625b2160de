package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dohkar/dohkar-api/internal/config"
	"github.com/dohkar/dohkar-api/internal/domain/repository"
	authsvc "github.com/dohkar/dohkar-api/internal/http/services/auth"
	"github.com/dohkar/dohkar-api/internal/store/memory"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newSweepStore(t *testing.T) (*memory.Store, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	return memory.New(memory.WithClock(clk.Now)), clk
}

func countCodes(t *testing.T, st repository.Store, phone string) int {
	t.Helper()
	n, err := st.Codes().CountByPhoneSince(context.Background(), phone, time.Time{})
	require.NoError(t, err)
	return n
}

func TestSweepOnce_KeepsCodesInsideRateWindow(t *testing.T) {
	ctx := context.Background()
	st, clk := newSweepStore(t)
	guard := authsvc.NewCodeRateGuard(st.Codes(), authsvc.RateGuardConfig{}, clk.Now)
	const phone = "+79991234567"

	for i := 0; i < 3; i++ {
		_, err := st.Codes().Create(ctx, phone, "123456", clk.Now(), clk.Now().Add(5*time.Minute), "198.51.100.7")
		require.NoError(t, err)
	}

	// códigos vencidos, pero la ventana de 10 minutos sigue abierta
	clk.Advance(6 * time.Minute)
	require.ErrorIs(t, guard.Check(ctx, phone, "198.51.100.7"), authsvc.ErrTooManyAttempts)

	sweepOnce(ctx, zap.NewNop(), st, clk.Now(), guard.Window())
	require.Equal(t, 3, countCodes(t, st, phone))
	require.ErrorIs(t, guard.Check(ctx, phone, "198.51.100.7"), authsvc.ErrTooManyAttempts)

	clk.Advance(5 * time.Minute)
	require.NoError(t, guard.Check(ctx, phone, "198.51.100.7"))
	sweepOnce(ctx, zap.NewNop(), st, clk.Now(), guard.Window())
	require.Zero(t, countCodes(t, st, phone))
}

func TestSweepOnce_KeepsUnexpiredCodes(t *testing.T) {
	ctx := context.Background()
	st, clk := newSweepStore(t)
	const phone = "+79990000001"

	// TTL más largo que la ventana: sale de la ventana pero sigue vigente
	_, err := st.Codes().Create(ctx, phone, "654321", clk.Now(), clk.Now().Add(30*time.Minute), "")
	require.NoError(t, err)

	clk.Advance(11 * time.Minute)
	sweepOnce(ctx, zap.NewNop(), st, clk.Now(), authsvc.DefaultCodeWindow)
	require.Equal(t, 1, countCodes(t, st, phone))

	got, err := st.Codes().Consume(ctx, phone, "654321", clk.Now())
	require.NoError(t, err)
	require.Equal(t, phone, got.Phone)
}

func TestSweepOnce_PurgesExpiredTokens(t *testing.T) {
	ctx := context.Background()
	st, clk := newSweepStore(t)
	start := clk.Now()

	u, _, err := st.Users().FindOrCreateByPhone(ctx, "+79990000002")
	require.NoError(t, err)
	_, err = st.Tokens().Create(ctx, u.ID, "stale-hash", start.Add(time.Minute))
	require.NoError(t, err)
	_, err = st.Tokens().Create(ctx, u.ID, "live-hash", start.Add(time.Hour))
	require.NoError(t, err)

	clk.Advance(2 * time.Minute)
	sweepOnce(ctx, zap.NewNop(), st, clk.Now(), authsvc.DefaultCodeWindow)

	// consumir con el reloj original: solo falla si la fila ya no existe
	_, err = st.Tokens().Consume(ctx, u.ID, "stale-hash", start)
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = st.Tokens().Consume(ctx, u.ID, "live-hash", clk.Now())
	require.NoError(t, err)
}

func TestSweepExpired_RunsUntilCanceled(t *testing.T) {
	st, clk := newSweepStore(t)
	const phone = "+79990000003"
	_, err := st.Codes().Create(context.Background(), phone, "000000", clk.Now(), clk.Now().Add(5*time.Minute), "")
	require.NoError(t, err)
	clk.Advance(11 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweepExpired(ctx, st, 5*time.Millisecond, authsvc.DefaultCodeWindow, clk.Now)
		close(done)
	}()

	require.Eventually(t, func() bool { return countCodes(t, st, phone) == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweepExpired did not stop after cancel")
	}
}

func TestCodeWindow(t *testing.T) {
	cfg := &config.Config{}
	require.Equal(t, authsvc.DefaultCodeWindow, codeWindow(cfg))
	cfg.Auth.OTP.Window = 20 * time.Minute
	require.Equal(t, 20*time.Minute, codeWindow(cfg))
}
