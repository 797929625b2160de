package router

import (
	"net/http"

	ctrl "github.com/dohkar/dohkar-api/internal/http/controllers/favorites"
	mw "github.com/dohkar/dohkar-api/internal/http/middlewares"
)

// RegisterFavoriteRoutes registra /api/favorites/* (todas con bearer).
func RegisterFavoriteRoutes(mux *http.ServeMux, c *ctrl.Controllers, requireAuth mw.Middleware) {
	f := c.Favorites
	mux.Handle("GET /api/favorites", mw.ChainFunc(f.List, requireAuth, mw.WithNoStore()))
	mux.Handle("POST /api/favorites/{propertyId}", mw.ChainFunc(f.Add, requireAuth))
	mux.Handle("DELETE /api/favorites/{propertyId}", mw.ChainFunc(f.Remove, requireAuth))
}
