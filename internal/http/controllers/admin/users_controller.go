package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/dohkar/dohkar-api/internal/http/dto/admin"
	httperrors "github.com/dohkar/dohkar-api/internal/http/errors"
	"github.com/dohkar/dohkar-api/internal/http/helpers"
	mw "github.com/dohkar/dohkar-api/internal/http/middlewares"
	svc "github.com/dohkar/dohkar-api/internal/http/services/admin"
	"github.com/dohkar/dohkar-api/internal/observability/logger"
)

const msgUserDeleted = "Пользователь удален"

// UsersController maneja /api/admin/users.
type UsersController struct {
	service svc.UserAdminService
}

func NewUsersController(service svc.UserAdminService) *UsersController {
	return &UsersController{service: service}
}

// List maneja GET /api/admin/users?page&limit&search
func (c *UsersController) List(w http.ResponseWriter, r *http.Request) {
	q, err := dto.ParseListQuery(r.URL.Query())
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	res, err := c.service.List(r.Context(), q)
	if err != nil {
		writeAdminError(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, res)
}

// UpdateRole maneja PATCH /api/admin/users/{id}/role
func (c *UsersController) UpdateRole(w http.ResponseWriter, r *http.Request) {
	log := logger.From(r.Context()).With(logger.Layer("controller"), logger.Op("UsersController.UpdateRole"))

	p, ok := mw.GetPrincipal(r.Context())
	if !ok {
		httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
		return
	}
	var req dto.UpdateRoleRequest
	if err := helpers.BindJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	res, err := c.service.UpdateRole(r.Context(), p.UserID, id, req.Role)
	if err != nil {
		log.Debug("update role failed", logger.ID(id), logger.Err(err))
		writeAdminError(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, res)
}

// Delete maneja DELETE /api/admin/users/{id}
func (c *UsersController) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := mw.GetPrincipal(r.Context())
	if !ok {
		httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
		return
	}
	if err := c.service.Delete(r.Context(), p.UserID, chi.URLParam(r, "id")); err != nil {
		writeAdminError(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, helpers.Message{Message: msgUserDeleted})
}
