package auth

import (
	"net/http"
	"net/url"
	"strings"

	httperrors "github.com/dohkar/dohkar-api/internal/http/errors"
	"github.com/dohkar/dohkar-api/internal/http/helpers"
	svc "github.com/dohkar/dohkar-api/internal/http/services/auth"
	"github.com/dohkar/dohkar-api/internal/observability/logger"
)

// OAuthController maneja GET /api/auth/{provider} y su callback.
type OAuthController struct {
	session svc.Session
	cfg     Config
}

func NewOAuthController(session svc.Session, cfg Config) *OAuthController {
	return &OAuthController{session: session, cfg: cfg}
}

// Start redirige al consentimiento del proveedor.
func (c *OAuthController) Start(w http.ResponseWriter, r *http.Request) {
	target, err := c.session.OAuthURL(r.Context(), r.PathValue("provider"))
	if err != nil {
		writeAuthError(w, r, err, 0)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Callback intercambia el code, deja las cookies de sesión y responde JSON
// o redirige al frontend según frontend.oauth_redirect.
func (c *OAuthController) Callback(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")
	log := logger.From(r.Context()).With(
		logger.Layer("controller"),
		logger.Op("OAuthController.Callback"),
		logger.Provider(provider),
	)
	q := r.URL.Query()

	if e := q.Get("error"); e != "" {
		log.Info("provider returned error", logger.String("error", e))
		c.fail(w, r, httperrors.ErrOAuthFailed.WithDetail(e))
		return
	}

	res, err := c.session.OAuthLogin(r.Context(), provider, q.Get("code"), q.Get("state"))
	if err != nil {
		log.Debug("oauth login failed", logger.Err(err))
		if c.cfg.OAuthRedirect {
			c.redirect(w, r, url.Values{"error": {"oauth_failed"}})
			return
		}
		writeAuthError(w, r, err, 0)
		return
	}

	helpers.SetAuthCookies(w, c.cfg.Cookies, res.AccessToken, res.RefreshToken, c.cfg.AccessTTL, c.cfg.RefreshTTL)
	if c.cfg.OAuthRedirect {
		c.redirect(w, r, nil)
		return
	}
	helpers.WriteData(w, http.StatusOK, res)
}

func (c *OAuthController) fail(w http.ResponseWriter, r *http.Request, err error) {
	if c.cfg.OAuthRedirect {
		c.redirect(w, r, url.Values{"error": {"oauth_failed"}})
		return
	}
	httperrors.WriteError(w, r, err)
}

func (c *OAuthController) redirect(w http.ResponseWriter, r *http.Request, q url.Values) {
	target := strings.TrimRight(c.cfg.FrontendURL, "/") + "/auth/callback"
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	http.Redirect(w, r, target, http.StatusFound)
}
