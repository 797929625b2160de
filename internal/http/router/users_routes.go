package router

import (
	"net/http"

	ctrl "github.com/dohkar/dohkar-api/internal/http/controllers/users"
	mw "github.com/dohkar/dohkar-api/internal/http/middlewares"
)

// RegisterUserRoutes registra /api/users/*.
func RegisterUserRoutes(mux *http.ServeMux, c *ctrl.Controllers, requireAuth mw.Middleware) {
	mux.Handle("GET /api/users/me", mw.ChainFunc(c.Users.Me, requireAuth, mw.WithNoStore()))
	mux.Handle("PATCH /api/users/me", mw.ChainFunc(c.Users.UpdateMe, requireAuth, mw.WithNoStore()))
	mux.HandleFunc("GET /api/users/{id}", c.Users.GetByID)
}
