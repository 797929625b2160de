package middlewares

import (
	"net/http"
	"strconv"
	"time"

	httperrors "github.com/dohkar/dohkar-api/internal/http/errors"
	"github.com/dohkar/dohkar-api/internal/http/helpers"
	"github.com/dohkar/dohkar-api/internal/observability/logger"
	"github.com/dohkar/dohkar-api/internal/rate"
)

// RateKeyFunc define la clave de rate limiting para un request.
type RateKeyFunc func(r *http.Request) string

// IPOnlyRateKey: una cuota por IP.
func IPOnlyRateKey(r *http.Request) string { return helpers.ClientIP(r) }

// RateLimitConfig configura WithRateLimit. Scope separa cuotas que
// comparten el mismo Limiter (ej: "global" y "auth").
type RateLimitConfig struct {
	Limiter   rate.Limiter
	Scope     string
	Limit     int
	Window    time.Duration
	KeyFunc   RateKeyFunc
	Whitelist []string
}

// WithRateLimit responde 429 con Retry-After cuando se agota la cuota. Si
// el limiter falla se deja pasar el request.
func WithRateLimit(cfg RateLimitConfig) Middleware {
	if cfg.Limiter == nil || cfg.Limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = IPOnlyRateKey
	}
	skip := make(map[string]struct{}, len(cfg.Whitelist))
	for _, p := range cfg.Whitelist {
		skip[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			res, err := cfg.Limiter.Allow(r.Context(), cfg.Scope+"|"+cfg.KeyFunc(r), cfg.Limit, cfg.Window)
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter error", logger.Component("rate"), logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if !res.Allowed {
				httperrors.WriteError(w, r, httperrors.ErrRateLimitExceeded.WithRetryAfter(res.RetryAfter))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
