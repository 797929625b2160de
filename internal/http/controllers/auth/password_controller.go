package auth

import (
	"net/http"

	dto "github.com/dohkar/dohkar-api/internal/http/dto/auth"
	httperrors "github.com/dohkar/dohkar-api/internal/http/errors"
	"github.com/dohkar/dohkar-api/internal/http/helpers"
	mw "github.com/dohkar/dohkar-api/internal/http/middlewares"
	svc "github.com/dohkar/dohkar-api/internal/http/services/auth"
)

const msgPasswordChanged = "Пароль успешно изменен"

// PasswordController maneja registro, login y cambio de contraseña.
type PasswordController struct {
	session svc.Session
}

func NewPasswordController(session svc.Session) *PasswordController {
	return &PasswordController{session: session}
}

// Register maneja POST /api/auth/register/phone-password
func (c *PasswordController) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.PhonePasswordRequest
	if err := helpers.BindJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	res, err := c.session.RegisterWithPassword(r.Context(), req.Phone, req.Password)
	if err != nil {
		writeAuthError(w, r, err, 0)
		return
	}
	helpers.WriteData(w, http.StatusCreated, res)
}

// Login maneja POST /api/auth/login/phone-password
func (c *PasswordController) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.PhonePasswordRequest
	if err := helpers.BindJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	res, err := c.session.LoginWithPassword(r.Context(), req.Phone, req.Password)
	if err != nil {
		writeAuthError(w, r, err, 0)
		return
	}
	helpers.WriteData(w, http.StatusOK, res)
}

// ChangePassword maneja POST /api/auth/change-password (bearer)
func (c *PasswordController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := mw.GetPrincipal(r.Context())
	if !ok {
		httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
		return
	}
	var req dto.ChangePasswordRequest
	if err := helpers.BindJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	if err := c.session.ChangePassword(r.Context(), p.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		writeAuthError(w, r, err, 0)
		return
	}
	helpers.WriteData(w, http.StatusOK, helpers.Message{Message: msgPasswordChanged})
}
