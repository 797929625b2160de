package router

import (
	"net/http"

	ctrl "github.com/dohkar/dohkar-api/internal/http/controllers/properties"
	mw "github.com/dohkar/dohkar-api/internal/http/middlewares"
)

// RegisterPropertyRoutes registra /api/properties/*. Lectura pública,
// escritura con bearer.
func RegisterPropertyRoutes(mux *http.ServeMux, c *ctrl.Controllers, requireAuth mw.Middleware) {
	p := c.Properties

	mux.HandleFunc("GET /api/properties", p.List)
	mux.HandleFunc("GET /api/properties/search", p.Search)
	mux.HandleFunc("GET /api/properties/{id}", p.Get)

	mux.Handle("POST /api/properties", mw.ChainFunc(p.Create, requireAuth))
	mux.Handle("POST /api/properties/uploads", mw.ChainFunc(p.Upload, requireAuth))
	mux.Handle("PUT /api/properties/{id}", mw.ChainFunc(p.Update, requireAuth))
	mux.Handle("DELETE /api/properties/{id}", mw.ChainFunc(p.Delete, requireAuth))
}
