package health_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dohkar/dohkar-api/internal/cache"
	"github.com/dohkar/dohkar-api/internal/domain/repository"
	svc "github.com/dohkar/dohkar-api/internal/http/services/health"
	"github.com/dohkar/dohkar-api/internal/store/memory"
)

type downStore struct{ *memory.Store }

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestReady(t *testing.T) {
	ctx := context.Background()

	h := svc.NewHealthService(svc.Deps{Store: memory.New(), Cache: cache.NewMemory(0), Version: "1.2.3"})
	res := h.Ready(ctx)
	require.Equal(t, "ready", res.Status)
	require.Equal(t, "ok", res.Components["cache"].Status)
	require.Equal(t, "1.2.3", res.Version)

	h = svc.NewHealthService(svc.Deps{Store: memory.New(), SMSState: func() string { return "open" }})
	res = h.Ready(ctx)
	require.Equal(t, "degraded", res.Status)
	require.Equal(t, "disabled", res.Components["cache"].Status)

	var st repository.Store = downStore{memory.New()}
	res = svc.NewHealthService(svc.Deps{Store: st}).Ready(ctx)
	require.Equal(t, "unavailable", res.Status)
	require.Equal(t, "error", res.Components["db"].Status)
}
