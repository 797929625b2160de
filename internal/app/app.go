// Package app arma el handler HTTP: services, controllers, rutas y
// middlewares globales. No abre conexiones; eso lo hace BuildInfra.
package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dohkar/dohkar-api/internal/cache"
	"github.com/dohkar/dohkar-api/internal/config"
	"github.com/dohkar/dohkar-api/internal/domain/repository"
	adminctrl "github.com/dohkar/dohkar-api/internal/http/controllers/admin"
	authctrl "github.com/dohkar/dohkar-api/internal/http/controllers/auth"
	favctrl "github.com/dohkar/dohkar-api/internal/http/controllers/favorites"
	healthctrl "github.com/dohkar/dohkar-api/internal/http/controllers/health"
	propctrl "github.com/dohkar/dohkar-api/internal/http/controllers/properties"
	userctrl "github.com/dohkar/dohkar-api/internal/http/controllers/users"
	"github.com/dohkar/dohkar-api/internal/http/helpers"
	mw "github.com/dohkar/dohkar-api/internal/http/middlewares"
	"github.com/dohkar/dohkar-api/internal/http/router"
	adminsvc "github.com/dohkar/dohkar-api/internal/http/services/admin"
	authsvc "github.com/dohkar/dohkar-api/internal/http/services/auth"
	favsvc "github.com/dohkar/dohkar-api/internal/http/services/favorites"
	healthsvc "github.com/dohkar/dohkar-api/internal/http/services/health"
	propsvc "github.com/dohkar/dohkar-api/internal/http/services/properties"
	usersvc "github.com/dohkar/dohkar-api/internal/http/services/users"
	jwtx "github.com/dohkar/dohkar-api/internal/jwt"
	"github.com/dohkar/dohkar-api/internal/metrics"
	"github.com/dohkar/dohkar-api/internal/oauth"
	"github.com/dohkar/dohkar-api/internal/rate"
	"github.com/dohkar/dohkar-api/internal/security/password"
	"github.com/dohkar/dohkar-api/internal/sms"
)

// Deps contiene las dependencias ya construidas. Cache, Limiter, OAuth,
// Uploader, SMSState y Registry son opcionales.
type Deps struct {
	Config *config.Config
	Store  repository.Store
	Issuer *jwtx.Issuer

	Cache    cache.Client
	Limiter  rate.Limiter
	SMS      sms.Sender
	SMSState func() string
	OAuth    *oauth.Registry
	Uploader propsvc.Uploader

	PasswordParams password.Params
	PasswordPolicy password.Policy

	Registry *prometheus.Registry

	// Tests: reloj y generador de códigos fijos.
	Now         func() time.Time
	OTPGenerate func() (string, error)
}

// App es la aplicación cableada.
type App struct {
	Handler http.Handler
}

// New construye services, controllers y rutas.
func New(d Deps) (*App, error) {
	cfg := d.Config

	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if err := metrics.RegisterAll(reg,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	); err != nil {
		return nil, err
	}
	if err := metrics.Register(reg); err != nil {
		return nil, err
	}
	if err := mw.RegisterHTTPMetrics(reg); err != nil {
		return nil, err
	}

	// 1. Services
	authServices := authsvc.NewServices(authsvc.Deps{
		Store:          d.Store,
		Issuer:         d.Issuer,
		SMS:            d.SMS,
		OAuth:          d.OAuth,
		PasswordParams: d.PasswordParams,
		PasswordPolicy: d.PasswordPolicy,
		Now:            d.Now,
		Config: authsvc.Config{
			OTP: authsvc.OTPConfig{
				TTL:       cfg.Auth.OTP.TTL,
				DebugEcho: cfg.Auth.OTP.DebugEcho,
				Generate:  d.OTPGenerate,
			},
			RateGuard: authsvc.RateGuardConfig{
				Window:      cfg.Auth.OTP.Window,
				MaxPerPhone: cfg.Auth.OTP.MaxPerPhone,
				MaxPerIP:    cfg.Auth.OTP.MaxPerIP,
			},
			LinkUnverifiedEmail: cfg.Auth.OAuth.LinkUnverifiedEmail,
			StateTTL:            cfg.Auth.OAuth.StateTTL,
		},
	})
	userServices := usersvc.NewServices(usersvc.Deps{Store: d.Store})
	propServices := propsvc.NewServices(propsvc.Deps{Store: d.Store, Uploader: d.Uploader})
	favServices := favsvc.NewServices(favsvc.Deps{Store: d.Store})
	adminServices := adminsvc.NewServices(adminsvc.Deps{
		Store:    d.Store,
		Cache:    d.Cache,
		StatsTTL: cfg.Cache.DefaultTTL,
		Now:      d.Now,
	})
	healthServices := healthsvc.NewServices(healthsvc.Deps{
		Store:    d.Store,
		Cache:    d.Cache,
		SMSState: d.SMSState,
		Version:  cfg.App.Version,
	})

	// 2. Controllers
	authControllers := authctrl.NewControllers(authServices, authctrl.Config{
		Cookies: helpers.CookieOptions{
			Domain: cfg.Auth.CookieDomain,
			Secure: cfg.IsProduction(),
		},
		AccessTTL:     d.Issuer.AccessTTL,
		RefreshTTL:    d.Issuer.RefreshTTL,
		FrontendURL:   cfg.Frontend.URL,
		OAuthRedirect: cfg.Frontend.OAuthRedirect,
	})

	// 3. Rutas
	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		limiter = d.Limiter
	}
	mux := http.NewServeMux()
	router.RegisterRoutes(router.RouterDeps{
		Mux:                 mux,
		Tokens:              d.Issuer,
		Users:               d.Store.Users(),
		AuthControllers:     authControllers,
		UserControllers:     userctrl.NewControllers(userServices),
		PropertyControllers: propctrl.NewControllers(propServices),
		FavoriteControllers: favctrl.NewControllers(favServices),
		AdminControllers:    adminctrl.NewControllers(adminServices),
		HealthControllers:   healthctrl.NewControllers(healthServices),
		RateLimiter:         limiter,
		AuthLimit:           cfg.Rate.AuthMaxRequests,
		AuthWindow:          cfg.Rate.Window,
		Metrics:             promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	// 4. Middlewares globales
	trusted, err := helpers.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("app: server.trusted_proxies: %w", err)
	}
	return &App{Handler: applyGlobalMiddlewares(mux, cfg, limiter, trusted)}, nil
}

// applyGlobalMiddlewares envuelve el mux. El primero de la lista es el más externo.
func applyGlobalMiddlewares(h http.Handler, cfg *config.Config, limiter rate.Limiter, trusted helpers.TrustedProxies) http.Handler {
	return mw.Chain(h,
		mw.WithRecover(),
		mw.WithClientIP(trusted),
		mw.WithRequestID(),
		mw.WithTracing(),
		mw.WithMetrics(),
		mw.WithLogging(),
		mw.WithCORS(cfg.Server.CORSAllowedOrigins),
		mw.WithSecurityHeaders(),
		mw.WithRateLimit(mw.RateLimitConfig{
			Limiter:   limiter,
			Scope:     "global",
			Limit:     cfg.Rate.MaxRequests,
			Window:    cfg.Rate.Window,
			KeyFunc:   mw.IPOnlyRateKey,
			Whitelist: []string{"/healthz", "/readyz", "/metrics"},
		}),
	)
}
