// Package users contiene los controllers de /api/users.
package users

import (
	"errors"
	"net/http"

	dto "github.com/dohkar/dohkar-api/internal/http/dto/users"
	httperrors "github.com/dohkar/dohkar-api/internal/http/errors"
	"github.com/dohkar/dohkar-api/internal/http/helpers"
	mw "github.com/dohkar/dohkar-api/internal/http/middlewares"
	svc "github.com/dohkar/dohkar-api/internal/http/services/users"
	"github.com/dohkar/dohkar-api/internal/observability/logger"
)

// Controllers agrupa todos los controllers del dominio users.
type Controllers struct {
	Users *UserController
}

// NewControllers crea el agregador de controllers users.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{Users: NewUserController(s.Users)}
}

// UserController maneja /api/users/me y /api/users/{id}.
type UserController struct {
	service svc.UserService
}

func NewUserController(service svc.UserService) *UserController {
	return &UserController{service: service}
}

// Me maneja GET /api/users/me
func (c *UserController) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := mw.GetPrincipal(r.Context())
	if !ok {
		httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
		return
	}
	u, err := c.service.Me(r.Context(), p.UserID)
	if err != nil {
		writeUserError(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, u)
}

// UpdateMe maneja PATCH /api/users/me
func (c *UserController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	log := logger.From(r.Context()).With(logger.Layer("controller"), logger.Op("UserController.UpdateMe"))

	p, ok := mw.GetPrincipal(r.Context())
	if !ok {
		httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
		return
	}
	var req dto.UpdateUserRequest
	if err := helpers.BindJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	u, err := c.service.UpdateMe(r.Context(), p.UserID, req.Input())
	if err != nil {
		log.Debug("update profile failed", logger.UserID(p.UserID), logger.Err(err))
		writeUserError(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, u)
}

// GetByID maneja GET /api/users/{id} (perfil público)
func (c *UserController) GetByID(w http.ResponseWriter, r *http.Request) {
	u, err := c.service.GetPublic(r.Context(), r.PathValue("id"))
	if err != nil {
		writeUserError(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, u)
}

func writeUserError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, svc.ErrUserNotFound):
		httperrors.WriteError(w, r, httperrors.ErrUserNotFound)
	case errors.Is(err, svc.ErrPhoneTaken):
		httperrors.WriteError(w, r, httperrors.ErrPhoneTaken)
	default:
		httperrors.WriteError(w, r, err)
	}
}
