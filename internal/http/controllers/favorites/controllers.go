// Package favorites contiene los controllers de /api/favorites.
package favorites

import (
	"errors"
	"net/http"

	httperrors "github.com/dohkar/dohkar-api/internal/http/errors"
	"github.com/dohkar/dohkar-api/internal/http/helpers"
	mw "github.com/dohkar/dohkar-api/internal/http/middlewares"
	svc "github.com/dohkar/dohkar-api/internal/http/services/favorites"
)

const msgFavoriteRemoved = "Объявление удалено из избранного"

// Controllers agrupa todos los controllers del dominio favorites.
type Controllers struct {
	Favorites *FavoriteController
}

// NewControllers crea el agregador de controllers favorites.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{Favorites: NewFavoriteController(s.Favorites)}
}

type FavoriteController struct {
	service svc.FavoriteService
}

func NewFavoriteController(service svc.FavoriteService) *FavoriteController {
	return &FavoriteController{service: service}
}

// List maneja GET /api/favorites
func (c *FavoriteController) List(w http.ResponseWriter, r *http.Request) {
	p, ok := mw.GetPrincipal(r.Context())
	if !ok {
		httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
		return
	}
	res, err := c.service.List(r.Context(), p.UserID)
	if err != nil {
		writeFavoriteError(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, res)
}

// Add maneja POST /api/favorites/{propertyId}
func (c *FavoriteController) Add(w http.ResponseWriter, r *http.Request) {
	p, ok := mw.GetPrincipal(r.Context())
	if !ok {
		httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
		return
	}
	res, err := c.service.Add(r.Context(), p.UserID, r.PathValue("propertyId"))
	if err != nil {
		writeFavoriteError(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusCreated, res)
}

// Remove maneja DELETE /api/favorites/{propertyId}
func (c *FavoriteController) Remove(w http.ResponseWriter, r *http.Request) {
	p, ok := mw.GetPrincipal(r.Context())
	if !ok {
		httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
		return
	}
	if err := c.service.Remove(r.Context(), p.UserID, r.PathValue("propertyId")); err != nil {
		writeFavoriteError(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, helpers.Message{Message: msgFavoriteRemoved})
}

func writeFavoriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, svc.ErrPropertyNotFound):
		httperrors.WriteError(w, r, httperrors.ErrPropertyNotFound)
	case errors.Is(err, svc.ErrAlreadyFavorite):
		httperrors.WriteError(w, r, httperrors.ErrAlreadyExists)
	case errors.Is(err, svc.ErrNotFavorite):
		httperrors.WriteError(w, r, httperrors.ErrFavoriteNotFound)
	default:
		httperrors.WriteError(w, r, err)
	}
}
