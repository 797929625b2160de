package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
	"github.com/dohkar/dohkar-api/internal/http/helpers"
	jwtx "github.com/dohkar/dohkar-api/internal/jwt"
	"github.com/dohkar/dohkar-api/internal/rate"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func newIssuer(t *testing.T) *jwtx.Issuer {
	t.Helper()
	iss, err := jwtx.NewIssuer("test", "access-secret", "refresh-secret", time.Minute, time.Hour)
	require.NoError(t, err)
	return iss
}

func TestChainOrder(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	Chain(okHandler(), mk("A"), mk("B"), mk("C")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"A", "B", "C"}, order)
}

func TestRequireAuth(t *testing.T) {
	iss := newIssuer(t)
	var got Principal
	h := RequireAuth(iss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetPrincipal(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "token_missing")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "token_invalid")

	// un refresh token no sirve como access
	refresh, _, err := iss.IssueRefresh("user-1")
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	access, _, err := iss.IssueAccess("user-1")
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+access)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "user-1", got.UserID)
}

func TestRequireAuth_Cookie(t *testing.T) {
	iss := newIssuer(t)
	access, _, err := iss.IssueAccess("user-2")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: access})
	rec := httptest.NewRecorder()
	RequireAuth(iss)(okHandler()).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

type lookupFunc func(ctx context.Context, id string) (*repository.User, error)

func (f lookupFunc) GetByID(ctx context.Context, id string) (*repository.User, error) { return f(ctx, id) }

func TestRequireRole(t *testing.T) {
	users := lookupFunc(func(_ context.Context, id string) (*repository.User, error) {
		switch id {
		case "admin":
			return &repository.User{ID: id, Role: types.RoleAdmin}, nil
		case "user":
			return &repository.User{ID: id, Role: types.RoleUser}, nil
		}
		return nil, repository.ErrNotFound
	})
	h := RequireRole(users, types.RoleAdmin)(okHandler())

	cases := map[string]int{"admin": 200, "user": 403, "ghost": 401}
	for id, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/statistics", nil)
		req = req.WithContext(WithPrincipal(req.Context(), Principal{UserID: id}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, want, rec.Code, id)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithRecover(t *testing.T) {
	h := WithRecover()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "boom")
}

func TestWithRequestID(t *testing.T) {
	var seen string
	h := WithRequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	require.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, "abc", seen)
}

func TestWithCORS(t *testing.T) {
	h := WithCORS([]string{"http://localhost:3000/"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/properties", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/properties", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

type stubLimiter struct {
	res rate.Result
	err error
}

func (s stubLimiter) Allow(context.Context, string, int, time.Duration) (rate.Result, error) {
	return s.res, s.err
}

func TestWithRateLimit(t *testing.T) {
	deny := WithRateLimit(RateLimitConfig{
		Limiter: stubLimiter{res: rate.Result{Allowed: false, RetryAfter: 30 * time.Second}},
		Limit:   1, Window: time.Minute,
	})(okHandler())
	rec := httptest.NewRecorder()
	deny.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/send-code", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "30", rec.Header().Get("Retry-After"))

	// limiter caído: fail-open
	open := WithRateLimit(RateLimitConfig{
		Limiter: stubLimiter{err: errors.New("redis down")},
		Limit:   1, Window: time.Minute,
	})(okHandler())
	rec = httptest.NewRecorder()
	open.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	mem := WithRateLimit(RateLimitConfig{
		Limiter: rate.NewMemoryLimiter(), Scope: "auth", Limit: 2, Window: time.Minute,
		Whitelist: []string{"/healthz"},
	})(okHandler())
	codes := []int{}
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		mem.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
		codes = append(codes, rec.Code)
	}
	require.Equal(t, []int{200, 200, 429}, codes)

	rec = httptest.NewRecorder()
	mem.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestWithClientIP_SpoofedForwardedForKeepsRateKey(t *testing.T) {
	send := func(h http.Handler, n int) []int {
		codes := []int{}
		for i := 0; i < n; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/send-code", nil)
			req.RemoteAddr = "198.51.100.20:4000"
			req.Header.Set("X-Forwarded-For", "203.0.113."+strconv.Itoa(i+1))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}
		return codes
	}
	limited := func(tp helpers.TrustedProxies) http.Handler {
		return Chain(okHandler(),
			WithClientIP(tp),
			WithRateLimit(RateLimitConfig{Limiter: rate.NewMemoryLimiter(), Scope: "auth", Limit: 2, Window: time.Minute}),
		)
	}

	// peer no confiable: rotar XFF no abre cuotas nuevas
	require.Equal(t, []int{200, 200, 429}, send(limited(helpers.TrustedProxies{}), 3))

	tp, err := helpers.ParseTrustedProxies([]string{"198.51.100.0/24"})
	require.NoError(t, err)
	require.Equal(t, []int{200, 200, 200}, send(limited(tp), 3))
}

func TestNormalizePath(t *testing.T) {
	require.Equal(t, "/api/properties/:param", normalizePath("/api/properties/3f2b1c1e-8d1a-4c2b-9a5e-1b2c3d4e5f60"))
	require.Equal(t, "/api/favorites/:param", normalizePath("/api/favorites/42"))
	require.Equal(t, "/api/auth/send-code", normalizePath("/api/auth/send-code"))
	require.Equal(t, "/", normalizePath(""))
}
