package router

import (
	"net/http"

	ctrl "github.com/dohkar/dohkar-api/internal/http/controllers/health"
	mw "github.com/dohkar/dohkar-api/internal/http/middlewares"
)

// HealthRouterDeps contiene las dependencias para el router de health.
type HealthRouterDeps struct {
	Controllers *ctrl.Controllers
	Metrics     http.Handler
}

// RegisterHealthRoutes registra /healthz, /readyz y /metrics. Sin auth.
func RegisterHealthRoutes(mux *http.ServeMux, deps HealthRouterDeps) {
	c := deps.Controllers
	mux.Handle("GET /healthz", mw.ChainFunc(c.Health.Live, mw.WithNoStore()))
	mux.Handle("GET /readyz", mw.ChainFunc(c.Health.Ready, mw.WithNoStore()))
	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics)
	}
}
