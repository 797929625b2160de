package auth

import (
	"net/http"
	"strings"

	dto "github.com/dohkar/dohkar-api/internal/http/dto/auth"
	httperrors "github.com/dohkar/dohkar-api/internal/http/errors"
	"github.com/dohkar/dohkar-api/internal/http/helpers"
	mw "github.com/dohkar/dohkar-api/internal/http/middlewares"
	svc "github.com/dohkar/dohkar-api/internal/http/services/auth"
)

const msgLoggedOut = "Выход выполнен успешно"

// SessionController maneja refresh, logout y /me.
type SessionController struct {
	session svc.Session
	cfg     Config
}

func NewSessionController(session svc.Session, cfg Config) *SessionController {
	return &SessionController{session: session, cfg: cfg}
}

// Refresh maneja POST /api/auth/refresh. El token viene en el body o en
// la cookie refreshToken; si vino por cookie se responde también con cookies.
func (c *SessionController) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		if err := helpers.ReadJSON(w, r, &req); err != nil {
			httperrors.WriteError(w, r, err)
			return
		}
	}
	fromCookie := false
	if strings.TrimSpace(req.RefreshToken) == "" {
		req.RefreshToken = helpers.CookieValue(r, helpers.RefreshCookie)
		fromCookie = req.RefreshToken != ""
	}
	if err := req.Validate(); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}

	pair, err := c.session.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if fromCookie {
			helpers.ClearAuthCookies(w, c.cfg.Cookies)
		}
		writeAuthError(w, r, err, 0)
		return
	}
	if fromCookie {
		helpers.SetAuthCookies(w, c.cfg.Cookies, pair.AccessToken, pair.RefreshToken, c.cfg.AccessTTL, c.cfg.RefreshTTL)
	}
	helpers.WriteData(w, http.StatusOK, pair)
}

// Logout maneja POST /api/auth/logout (bearer). Revoca todos los refresh.
func (c *SessionController) Logout(w http.ResponseWriter, r *http.Request) {
	p, ok := mw.GetPrincipal(r.Context())
	if !ok {
		httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
		return
	}
	if err := c.session.Logout(r.Context(), p.UserID); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.ClearAuthCookies(w, c.cfg.Cookies)
	helpers.WriteData(w, http.StatusOK, helpers.Message{Message: msgLoggedOut})
}

// Me maneja GET /api/auth/me (bearer)
func (c *SessionController) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := mw.GetPrincipal(r.Context())
	if !ok {
		httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
		return
	}
	u, err := c.session.Me(r.Context(), p.UserID)
	if err != nil {
		writeAuthError(w, r, err, 0)
		return
	}
	helpers.WriteData(w, http.StatusOK, u)
}
