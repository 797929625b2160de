// Package health contiene los endpoints de liveness y readiness.
package health

import (
	"net/http"
	"time"

	dto "github.com/dohkar/dohkar-api/internal/http/dto/health"
	"github.com/dohkar/dohkar-api/internal/http/helpers"
	svc "github.com/dohkar/dohkar-api/internal/http/services/health"
)

// Controllers agrupa todos los controllers del dominio health.
type Controllers struct {
	Health *HealthController
}

// NewControllers crea el agregador de controllers health.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{Health: NewHealthController(s.Health)}
}

type HealthController struct {
	service svc.HealthService
}

func NewHealthController(service svc.HealthService) *HealthController {
	return &HealthController{service: service}
}

// Live maneja GET /healthz: el proceso responde.
func (c *HealthController) Live(w http.ResponseWriter, r *http.Request) {
	helpers.WriteData(w, http.StatusOK, dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	})
}

// Ready maneja GET /readyz. 503 solo si la base no responde.
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	res := c.service.Ready(r.Context())
	status := http.StatusOK
	if res.Status == svc.StatusUnavailable {
		status = http.StatusServiceUnavailable
	}
	helpers.WriteData(w, status, res)
}
