// Package properties contiene los controllers de /api/properties.
package properties

import (
	"errors"
	"net/http"
	"strings"

	dto "github.com/dohkar/dohkar-api/internal/http/dto/properties"
	httperrors "github.com/dohkar/dohkar-api/internal/http/errors"
	"github.com/dohkar/dohkar-api/internal/http/helpers"
	mw "github.com/dohkar/dohkar-api/internal/http/middlewares"
	svc "github.com/dohkar/dohkar-api/internal/http/services/properties"
	"github.com/dohkar/dohkar-api/internal/observability/logger"
)

// Controllers agrupa todos los controllers del dominio properties.
type Controllers struct {
	Properties *PropertyController
}

// NewControllers crea el agregador de controllers properties.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{Properties: NewPropertyController(s.Properties)}
}

// PropertyController maneja el CRUD de anuncios.
type PropertyController struct {
	service svc.PropertyService
}

func NewPropertyController(service svc.PropertyService) *PropertyController {
	return &PropertyController{service: service}
}

// List maneja GET /api/properties
func (c *PropertyController) List(w http.ResponseWriter, r *http.Request) {
	q, err := dto.ParsePropertyQuery(r.URL.Query())
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	res, err := c.service.List(r.Context(), q)
	if err != nil {
		writePropertyError(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, res)
}

// Search maneja GET /api/properties/search?q=
func (c *PropertyController) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		httperrors.WriteError(w, r, httperrors.ErrValidation.WithDetail("q: is required"))
		return
	}
	res, err := c.service.Search(r.Context(), q)
	if err != nil {
		writePropertyError(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, res)
}

// Get maneja GET /api/properties/{id}
func (c *PropertyController) Get(w http.ResponseWriter, r *http.Request) {
	res, err := c.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writePropertyError(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, res)
}

// Create maneja POST /api/properties
func (c *PropertyController) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.From(r.Context()).With(logger.Layer("controller"), logger.Op("PropertyController.Create"))

	p, ok := mw.GetPrincipal(r.Context())
	if !ok {
		httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
		return
	}
	var req dto.CreatePropertyRequest
	if err := helpers.BindJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	res, err := c.service.Create(r.Context(), p.UserID, req.Input())
	if err != nil {
		writePropertyError(w, r, err)
		return
	}
	log.Info("property created", logger.UserID(p.UserID), logger.PropertyID(res.ID))
	helpers.WriteData(w, http.StatusCreated, res)
}

// Update maneja PUT /api/properties/{id}
func (c *PropertyController) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := mw.GetPrincipal(r.Context())
	if !ok {
		httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
		return
	}
	var req dto.UpdatePropertyRequest
	if err := helpers.BindJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	res, err := c.service.Update(r.Context(), p.UserID, r.PathValue("id"), req.Patch())
	if err != nil {
		writePropertyError(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, res)
}

// Delete maneja DELETE /api/properties/{id}
func (c *PropertyController) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := mw.GetPrincipal(r.Context())
	if !ok {
		httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
		return
	}
	if err := c.service.Delete(r.Context(), p.UserID, r.PathValue("id")); err != nil {
		writePropertyError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Upload maneja POST /api/properties/uploads: devuelve una URL firmada
// para subir la imagen directo al bucket.
func (c *PropertyController) Upload(w http.ResponseWriter, r *http.Request) {
	p, ok := mw.GetPrincipal(r.Context())
	if !ok {
		httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
		return
	}
	var req dto.UploadRequest
	if err := helpers.BindJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	up, err := c.service.PresignUpload(r.Context(), p.UserID, req.ContentType)
	if err != nil {
		writePropertyError(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, up)
}

func writePropertyError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, svc.ErrPropertyNotFound):
		httperrors.WriteError(w, r, httperrors.ErrPropertyNotFound)
	case errors.Is(err, svc.ErrNotOwner):
		httperrors.WriteError(w, r, httperrors.ErrNotOwner)
	case errors.Is(err, svc.ErrUploadsDisabled):
		httperrors.WriteError(w, r, httperrors.ErrUploadsDisabled)
	case errors.Is(err, svc.ErrUnsupportedImage):
		httperrors.WriteError(w, r, httperrors.ErrBadImageType)
	default:
		httperrors.WriteError(w, r, err)
	}
}
