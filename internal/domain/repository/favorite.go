package repository

import (
	"context"
	"time"
)

// Favorite une un usuario con un anuncio. El par es único.
type Favorite struct {
	UserID     string
	PropertyID string
	CreatedAt  time.Time
	Property   *Property
}

// FavoriteRepository define operaciones sobre favoritos.
type FavoriteRepository interface {
	// Add retorna ErrConflict si ya existe el par.
	Add(ctx context.Context, userID, propertyID string) (*Favorite, error)

	// Remove retorna ErrNotFound si el par no existe.
	Remove(ctx context.Context, userID, propertyID string) error

	// ListByUser ordena por created_at desc e incluye el anuncio.
	ListByUser(ctx context.Context, userID string) ([]Favorite, error)
}
