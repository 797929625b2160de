package router

import (
	"net/http"

	ctrl "github.com/dohkar/dohkar-api/internal/http/controllers/auth"
	mw "github.com/dohkar/dohkar-api/internal/http/middlewares"
)

// AuthRouterDeps contiene las dependencias para el router de auth.
type AuthRouterDeps struct {
	Controllers *ctrl.Controllers
	RequireAuth mw.Middleware
	RateLimit   mw.Middleware
}

// RegisterAuthRoutes registra /api/auth/*. Todas las rutas pasan por el
// rate limit de auth y llevan Cache-Control: no-store.
func RegisterAuthRoutes(mux *http.ServeMux, deps AuthRouterDeps) {
	c := deps.Controllers

	public := func(h http.HandlerFunc) http.Handler {
		return mw.ChainFunc(h, deps.RateLimit, mw.WithNoStore())
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return mw.ChainFunc(h, deps.RateLimit, mw.WithNoStore(), deps.RequireAuth)
	}

	mux.Handle("POST /api/auth/send-code", public(c.Code.SendCode))
	mux.Handle("POST /api/auth/phone/verify", public(c.Code.VerifyCode))
	mux.Handle("POST /api/auth/register/phone-password", public(c.Password.Register))
	mux.Handle("POST /api/auth/login/phone-password", public(c.Password.Login))
	mux.Handle("POST /api/auth/refresh", public(c.Session.Refresh))

	mux.Handle("POST /api/auth/logout", authed(c.Session.Logout))
	mux.Handle("GET /api/auth/me", authed(c.Session.Me))
	mux.Handle("POST /api/auth/change-password", authed(c.Password.ChangePassword))

	// OAuth: /api/auth/me es más específico que {provider}, no colisionan.
	mux.Handle("GET /api/auth/{provider}", public(c.OAuth.Start))
	mux.Handle("GET /api/auth/{provider}/callback", public(c.OAuth.Callback))
}
