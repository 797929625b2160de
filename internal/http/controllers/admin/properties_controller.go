package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/dohkar/dohkar-api/internal/http/dto/admin"
	httperrors "github.com/dohkar/dohkar-api/internal/http/errors"
	"github.com/dohkar/dohkar-api/internal/http/helpers"
	mw "github.com/dohkar/dohkar-api/internal/http/middlewares"
	svc "github.com/dohkar/dohkar-api/internal/http/services/admin"
)

const msgPropertyDeleted = "Объявление удалено"

// PropertiesController maneja la moderación de anuncios.
type PropertiesController struct {
	service svc.PropertyAdminService
}

func NewPropertiesController(service svc.PropertyAdminService) *PropertiesController {
	return &PropertiesController{service: service}
}

// List maneja GET /api/admin/properties?page&limit&search&status&type
func (c *PropertiesController) List(w http.ResponseWriter, r *http.Request) {
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

// UpdateStatus maneja PATCH /api/admin/properties/{id}/status
func (c *PropertiesController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := mw.GetPrincipal(r.Context())
	if !ok {
		httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
		return
	}
	var req dto.UpdateStatusRequest
	if err := helpers.BindJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	res, err := c.service.UpdateStatus(r.Context(), p.UserID, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeAdminError(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, res)
}

// Delete maneja DELETE /api/admin/properties/{id}
func (c *PropertiesController) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := mw.GetPrincipal(r.Context())
	if !ok {
		httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
		return
	}
	if err := c.service.Delete(r.Context(), p.UserID, chi.URLParam(r, "id")); err != nil {
		writeAdminError(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, helpers.Message{Message: msgPropertyDeleted})
}
