// Package favorites contiene el service de favoritos.
package favorites

import (
	"context"
	"errors"
	"fmt"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	dto "github.com/dohkar/dohkar-api/internal/http/dto/favorites"
)

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrAlreadyFavorite  = errors.New("property already in favorites")
	ErrNotFavorite      = errors.New("property not in favorites")
)

// FavoriteService define las operaciones de /api/favorites.
type FavoriteService interface {
	List(ctx context.Context, userID string) ([]dto.FavoriteResponse, error)
	Add(ctx context.Context, userID, propertyID string) (*dto.FavoriteResponse, error)
	Remove(ctx context.Context, userID, propertyID string) error
}

// Deps contiene las dependencias del dominio favorites.
type Deps struct {
	Store repository.Store
}

type favoriteService struct {
	repo repository.FavoriteRepository
}

func NewFavoriteService(d Deps) FavoriteService {
	return &favoriteService{repo: d.Store.Favorites()}
}

func (s *favoriteService) List(ctx context.Context, userID string) ([]dto.FavoriteResponse, error) {
	favs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return dto.FromFavorites(favs), nil
}

func (s *favoriteService) Add(ctx context.Context, userID, propertyID string) (*dto.FavoriteResponse, error) {
	f, err := s.repo.Add(ctx, userID, propertyID)
	switch {
	case repository.IsNotFound(err):
		return nil, ErrPropertyNotFound
	case repository.IsConflict(err):
		return nil, ErrAlreadyFavorite
	case err != nil:
		return nil, fmt.Errorf("add favorite: %w", err)
	}
	out := dto.FromFavorite(f)
	return &out, nil
}

func (s *favoriteService) Remove(ctx context.Context, userID, propertyID string) error {
	err := s.repo.Remove(ctx, userID, propertyID)
	if repository.IsNotFound(err) {
		return ErrNotFavorite
	}
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// Services agrupa los services del dominio favorites.
type Services struct {
	Favorites FavoriteService
}

func NewServices(d Deps) Services {
	return Services{Favorites: NewFavoriteService(d)}
}
