package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dohkar/dohkar-api/internal/domain/types"
	ctrl "github.com/dohkar/dohkar-api/internal/http/controllers/admin"
	httperrors "github.com/dohkar/dohkar-api/internal/http/errors"
	mw "github.com/dohkar/dohkar-api/internal/http/middlewares"
)

// AdminRouterDeps contiene las dependencias para el router de admin.
type AdminRouterDeps struct {
	Controllers *ctrl.Controllers
	RequireAuth mw.Middleware
	Users       mw.UserLookup
}

// RegisterAdminRoutes monta un sub-router chi en /api/admin/. Todo el
// subárbol exige bearer + rol ADMIN.
func RegisterAdminRoutes(mux *http.ServeMux, deps AdminRouterDeps) {
	c := deps.Controllers

	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httperrors.WriteError(w, r, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httperrors.WriteError(w, r, httperrors.ErrMethodNotAllowed)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(deps.RequireAuth, mw.RequireRole(deps.Users, types.RoleAdmin), mw.WithNoStore())

		r.Get("/statistics", c.Statistics.Get)

		r.Get("/users", c.Users.List)
		r.Patch("/users/{id}/role", c.Users.UpdateRole)
		r.Delete("/users/{id}", c.Users.Delete)

		r.Get("/properties", c.Properties.List)
		r.Patch("/properties/{id}/status", c.Properties.UpdateStatus)
		r.Delete("/properties/{id}", c.Properties.Delete)
	})

	mux.Handle("/api/admin/", r)
}
