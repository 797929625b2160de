// Package health contiene el service de readiness.
package health

import (
	"context"
	"time"

	"github.com/dohkar/dohkar-api/internal/cache"
	"github.com/dohkar/dohkar-api/internal/domain/repository"
	dto "github.com/dohkar/dohkar-api/internal/http/dto/health"
)

const pingTimeout = 2 * time.Second

const (
	StatusReady       = "ready"
	StatusDegraded    = "degraded"
	StatusUnavailable = "unavailable"
)

// HealthService chequea las dependencias del proceso.
type HealthService interface {
	// Ready: "ready" si todo responde, "degraded" si falla algo opcional,
	// "unavailable" si la base no responde.
	Ready(ctx context.Context) dto.HealthResponse
}

// Deps contiene las dependencias del dominio health. Cache y SMSState son opcionales.
type Deps struct {
	Store    repository.Store
	Cache    cache.Client
	SMSState func() string
	Version  string
}

type healthService struct{ d Deps }

func NewHealthService(d Deps) HealthService { return &healthService{d: d} }

func ping(ctx context.Context, fn func(context.Context) error) dto.ComponentStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return dto.ComponentStatus{Status: "error", Message: err.Error()}
	}
	return dto.ComponentStatus{Status: "ok"}
}

func (s *healthService) Ready(ctx context.Context) dto.HealthResponse {
	out := dto.HealthResponse{
		Status:     StatusReady,
		Components: map[string]dto.ComponentStatus{},
		Version:    s.d.Version,
		Timestamp:  time.Now().UTC(),
	}

	out.Components["db"] = ping(ctx, s.d.Store.Ping)
	if out.Components["db"].Status != "ok" {
		out.Status = StatusUnavailable
	}

	if s.d.Cache != nil {
		out.Components["cache"] = ping(ctx, s.d.Cache.Ping)
	} else {
		out.Components["cache"] = dto.ComponentStatus{Status: "disabled"}
	}

	if s.d.SMSState != nil {
		st := s.d.SMSState()
		c := dto.ComponentStatus{Status: "ok", Message: "breaker " + st}
		if st == "open" {
			c.Status = "error"
		}
		out.Components["sms"] = c
	}

	if out.Status == StatusReady {
		for _, c := range out.Components {
			if c.Status == "error" {
				out.Status = StatusDegraded
				break
			}
		}
	}
	return out
}

// Services agrupa todos los services del dominio health.
type Services struct {
	Health HealthService
}

// NewServices crea el agregador de services health.
func NewServices(d Deps) Services {
	return Services{
		Health: NewHealthService(d),
	}
}
