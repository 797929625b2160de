package repository

import (
	"context"
	"time"

	"github.com/dohkar/dohkar-api/internal/domain/types"
)

// Overview agrupa los contadores globales del dashboard.
type Overview struct {
	TotalUsers              int
	TotalProperties         int
	ActiveProperties        int
	PendingProperties       int
	TotalViews              int64
	PremiumUsers            int
	NewUsersLast30Days      int
	NewPropertiesLast30Days int
}

// DailyCount es la cantidad de anuncios creados en un día (UTC, YYYY-MM-DD).
type DailyCount struct {
	Date  string
	Count int
}

// StatsRepository expone agregados para el admin. Cada método es una
// consulta independiente; el service las lanza en paralelo.
type StatsRepository interface {
	Overview(ctx context.Context, now time.Time) (Overview, error)
	PropertiesByType(ctx context.Context) (map[types.PropertyType]int, error)
	PropertiesByRegion(ctx context.Context) (map[types.Region]int, error)
	DailyProperties(ctx context.Context, since time.Time) ([]DailyCount, error)
}

// Store agrupa todos los repositorios que un driver provee.
type Store interface {
	Users() UserRepository
	Codes() CodeRepository
	Tokens() TokenRepository
	Properties() PropertyRepository
	Favorites() FavoriteRepository
	Stats() StatsRepository
	Ping(ctx context.Context) error
	Close()
}
