// Package auth contiene los services de autenticación: códigos por SMS,
// contraseña, OAuth y rotación de refresh tokens.
package auth

import (
	"time"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	jwtx "github.com/dohkar/dohkar-api/internal/jwt"
	"github.com/dohkar/dohkar-api/internal/oauth"
	"github.com/dohkar/dohkar-api/internal/security/password"
	"github.com/dohkar/dohkar-api/internal/sms"
)

// Config agrupa los parámetros de auth que vienen de config.Auth.
type Config struct {
	OTP                 OTPConfig
	RateGuard           RateGuardConfig
	LinkUnverifiedEmail bool
	StateTTL            time.Duration
}

// Deps contiene las dependencias del dominio auth.
type Deps struct {
	Store          repository.Store
	Issuer         *jwtx.Issuer
	SMS            sms.Sender
	OAuth          *oauth.Registry
	PasswordParams password.Params
	PasswordPolicy password.Policy
	Config         Config
	// Now es reemplazable en tests.
	Now func() time.Time
}

func (d Deps) now() func() time.Time {
	if d.Now != nil {
		return d.Now
	}
	return time.Now
}

// Services agrupa los services del dominio auth.
type Services struct {
	Session Session
}

// NewServices crea el agregador de services auth.
func NewServices(d Deps) Services {
	return Services{Session: NewSession(d)}
}
