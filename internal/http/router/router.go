// Package router registra todas las rutas HTTP del API.
package router

import (
	"net/http"
	"time"

	adminctrl "github.com/dohkar/dohkar-api/internal/http/controllers/admin"
	authctrl "github.com/dohkar/dohkar-api/internal/http/controllers/auth"
	favctrl "github.com/dohkar/dohkar-api/internal/http/controllers/favorites"
	healthctrl "github.com/dohkar/dohkar-api/internal/http/controllers/health"
	propctrl "github.com/dohkar/dohkar-api/internal/http/controllers/properties"
	userctrl "github.com/dohkar/dohkar-api/internal/http/controllers/users"
	mw "github.com/dohkar/dohkar-api/internal/http/middlewares"
	"github.com/dohkar/dohkar-api/internal/rate"
)

// RouterDeps contiene todas las dependencias del router.
type RouterDeps struct {
	Mux *http.ServeMux

	// Auth
	Tokens mw.AccessParser
	Users  mw.UserLookup

	// Controllers
	AuthControllers     *authctrl.Controllers
	UserControllers     *userctrl.Controllers
	PropertyControllers *propctrl.Controllers
	FavoriteControllers *favctrl.Controllers
	AdminControllers    *adminctrl.Controllers
	HealthControllers   *healthctrl.Controllers

	// Rate limit extra para /api/auth/*. Limiter nil lo desactiva.
	RateLimiter rate.Limiter
	AuthLimit   int
	AuthWindow  time.Duration

	// Metrics es el handler de /metrics (promhttp). Opcional.
	Metrics http.Handler
}

// RegisterRoutes registra todas las rutas. Es el único punto de entrada
// que usa app.New.
func RegisterRoutes(deps RouterDeps) {
	mux := deps.Mux
	if mux == nil {
		return
	}
	requireAuth := mw.RequireAuth(deps.Tokens)

	if deps.HealthControllers != nil {
		RegisterHealthRoutes(mux, HealthRouterDeps{
			Controllers: deps.HealthControllers,
			Metrics:     deps.Metrics,
		})
	}
	if deps.AuthControllers != nil {
		RegisterAuthRoutes(mux, AuthRouterDeps{
			Controllers: deps.AuthControllers,
			RequireAuth: requireAuth,
			RateLimit: mw.WithRateLimit(mw.RateLimitConfig{
				Limiter: deps.RateLimiter,
				Scope:   "auth",
				Limit:   deps.AuthLimit,
				Window:  deps.AuthWindow,
				KeyFunc: mw.IPOnlyRateKey,
			}),
		})
	}
	if deps.UserControllers != nil {
		RegisterUserRoutes(mux, deps.UserControllers, requireAuth)
	}
	if deps.PropertyControllers != nil {
		RegisterPropertyRoutes(mux, deps.PropertyControllers, requireAuth)
	}
	if deps.FavoriteControllers != nil {
		RegisterFavoriteRoutes(mux, deps.FavoriteControllers, requireAuth)
	}
	if deps.AdminControllers != nil {
		RegisterAdminRoutes(mux, AdminRouterDeps{
			Controllers: deps.AdminControllers,
			RequireAuth: requireAuth,
			Users:       deps.Users,
		})
	}
}
