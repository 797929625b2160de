// Package admin contiene los services de /api/admin.
package admin

import (
	"context"
	"errors"
	"time"

	"github.com/dohkar/dohkar-api/internal/cache"
	"github.com/dohkar/dohkar-api/internal/domain/repository"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrPropertyNotFound = errors.New("property not found")
	ErrSelfAction       = errors.New("admin cannot demote or delete itself")
)

// Deps contiene las dependencias para crear los services admin.
type Deps struct {
	Store repository.Store
	// Cache es opcional; sin él las estadísticas se calculan siempre.
	Cache    cache.Client
	StatsTTL time.Duration
	Now      func() time.Time
}

// Services agrupa todos los services del dominio admin.
type Services struct {
	Statistics StatisticsService
	Users      UserAdminService
	Properties PropertyAdminService
}

// NewServices crea el agregador de services admin.
func NewServices(d Deps) Services {
	stats := NewStatisticsService(d)
	return Services{
		Statistics: stats,
		Users:      NewUserAdminService(d.Store, stats.Invalidate),
		Properties: NewPropertyAdminService(d.Store, stats.Invalidate),
	}
}

// invalidator borra las estadísticas cacheadas después de una mutación.
type invalidator func(ctx context.Context)
