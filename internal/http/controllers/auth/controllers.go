// Package auth contiene los controllers de /api/auth.
package auth

import (
	"time"

	"github.com/dohkar/dohkar-api/internal/http/helpers"
	svc "github.com/dohkar/dohkar-api/internal/http/services/auth"
)

// Config son los parámetros de cookies y redirección del callback OAuth.
type Config struct {
	Cookies       helpers.CookieOptions
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	FrontendURL   string
	OAuthRedirect bool
}

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Code     *CodeController
	Password *PasswordController
	Session  *SessionController
	OAuth    *OAuthController
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(s svc.Services, cfg Config) *Controllers {
	return &Controllers{
		Code:     NewCodeController(s.Session),
		Password: NewPasswordController(s.Session),
		Session:  NewSessionController(s.Session, cfg),
		OAuth:    NewOAuthController(s.Session, cfg),
	}
}
