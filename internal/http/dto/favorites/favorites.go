// Package favorites contiene los DTOs de /api/favorites.
package favorites

import (
	"time"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/http/dto/properties"
)

type FavoriteResponse struct {
	PropertyID string                       `json:"propertyId"`
	CreatedAt  time.Time                    `json:"createdAt"`
	Property   *properties.PropertyResponse `json:"property,omitempty"`
}

func FromFavorite(f *repository.Favorite) FavoriteResponse {
	out := FavoriteResponse{PropertyID: f.PropertyID, CreatedAt: f.CreatedAt}
	if f.Property != nil {
		p := properties.FromProperty(f.Property)
		out.Property = &p
	}
	return out
}

func FromFavorites(fs []repository.Favorite) []FavoriteResponse {
	out := make([]FavoriteResponse, 0, len(fs))
	for i := range fs {
		out = append(out, FromFavorite(&fs[i]))
	}
	return out
}
