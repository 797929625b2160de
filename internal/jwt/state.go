package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const stateAudience = "oauth-state"

var ErrInvalidState = errors.New("invalid_state")

type stateClaims struct {
	Provider string `json:"prv"`
	jwtv5.RegisteredClaims
}

// SignState firma el parámetro state del flujo OAuth. Usa el secreto de
// access con aud=oauth-state, así que no es intercambiable por un access token.
func (i *Issuer) SignState(provider string, ttl time.Duration) (string, error) {
	now := i.now().UTC()
	c := stateClaims{
		Provider: provider,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    i.Iss,
			Audience:  jwtv5.ClaimStrings{stateAudience},
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	s, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, c).SignedString(i.AccessSecret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign state: %w", err)
	}
	return s, nil
}

// VerifyState chequea firma, expiración y que el proveedor coincida.
func (i *Issuer) VerifyState(state, provider string) error {
	var c stateClaims
	tok, err := jwtv5.ParseWithClaims(state, &c,
		func(*jwtv5.Token) (any, error) { return i.AccessSecret, nil },
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithAudience(stateAudience),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(i.now),
	)
	if err != nil || !tok.Valid || c.Provider != provider {
		return ErrInvalidState
	}
	return nil
}
