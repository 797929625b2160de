package sms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHTTPSender_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sms/send", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "key", r.PostForm.Get("api_id"))
		require.Equal(t, "79991234567", r.PostForm.Get("to"))
		require.Equal(t, "Dohkar", r.PostForm.Get("from"))
		require.Contains(t, r.PostForm.Get("msg"), "123456")
		_, _ = w.Write([]byte(`{"status":"OK","status_code":100}`))
	}))
	defer srv.Close()

	s := NewHTTPSender(srv.URL+"/", "key", "Dohkar", time.Second)
	require.NoError(t, s.Send(context.Background(), "+79991234567", CodeText("123456")))
}

func TestHTTPSender_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ERROR","status_code":202,"status_text":"bad number"}`))
	}))
	defer srv.Close()

	err := NewHTTPSender(srv.URL, "k", "", time.Second).Send(context.Background(), "+70000000000", "x")
	require.ErrorIs(t, err, ErrRejected)
}

func TestHTTPSender_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewHTTPSender(srv.URL, "k", "", time.Second).Send(context.Background(), "+70000000000", "x")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrRejected)
}

type senderFunc func(ctx context.Context, phone, text string) error

func (f senderFunc) Send(ctx context.Context, phone, text string) error { return f(ctx, phone, text) }

func TestGuarded_TimeoutAppliesToSlowGateway(t *testing.T) {
	slow := senderFunc(func(ctx context.Context, _, _ string) error {
		<-ctx.Done()
		return ctx.Err()
	})
	g := NewGuarded(slow, 20*time.Millisecond, BreakerConfig{FailureThreshold: 5})

	start := time.Now()
	err := g.Send(context.Background(), "+79990000000", "x")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), time.Second)
}

func TestGuarded_OpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	failing := senderFunc(func(context.Context, string, string) error {
		calls.Add(1)
		return errors.New("connection refused")
	})
	g := NewGuarded(failing, time.Second, BreakerConfig{MaxRequests: 1, OpenTimeout: time.Minute, FailureThreshold: 3})

	for i := 0; i < 3; i++ {
		require.Error(t, g.Send(context.Background(), "+79990000000", "x"))
	}
	require.Equal(t, "open", g.State())

	err := g.Send(context.Background(), "+79990000000", "x")
	require.ErrorIs(t, err, ErrUnavailable)
	require.EqualValues(t, 3, calls.Load(), "open breaker must not call the gateway")
}

func TestGuarded_RejectionsDoNotTrip(t *testing.T) {
	rejecting := senderFunc(func(context.Context, string, string) error { return ErrRejected })
	g := NewGuarded(rejecting, time.Second, BreakerConfig{FailureThreshold: 1})
	for i := 0; i < 3; i++ {
		require.ErrorIs(t, g.Send(context.Background(), "+79990000000", "x"), ErrRejected)
	}
	require.Equal(t, "closed", g.State())
}

func TestLogSender(t *testing.T) {
	require.NoError(t, LogSender{}.Send(context.Background(), "+79991234567", "x"))
}
