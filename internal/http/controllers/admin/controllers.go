// Package admin contiene los controllers de /api/admin. Se montan en un
// sub-router chi, por eso los path params salen de chi.URLParam.
package admin

import (
	"errors"
	"net/http"

	httperrors "github.com/dohkar/dohkar-api/internal/http/errors"
	svc "github.com/dohkar/dohkar-api/internal/http/services/admin"
)

// Controllers agrupa todos los controllers del dominio admin.
type Controllers struct {
	Statistics *StatisticsController
	Users      *UsersController
	Properties *PropertiesController
}

// NewControllers crea el agregador de controllers admin.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Statistics: NewStatisticsController(s.Statistics),
		Users:      NewUsersController(s.Users),
		Properties: NewPropertiesController(s.Properties),
	}
}

func writeAdminError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, svc.ErrSelfAction):
		httperrors.WriteError(w, r, httperrors.ErrSelfAction)
	case errors.Is(err, svc.ErrUserNotFound):
		httperrors.WriteError(w, r, httperrors.ErrUserNotFound)
	case errors.Is(err, svc.ErrPropertyNotFound):
		httperrors.WriteError(w, r, httperrors.ErrPropertyNotFound)
	default:
		httperrors.WriteError(w, r, err)
	}
}
