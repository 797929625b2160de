// Package jwt firma y valida los tokens de sesión (HS256).
//
// Access y refresh usan secretos distintos: un refresh nunca valida como
// access y viceversa. El claim "jti" es aleatorio para que dos pares
// emitidos en el mismo segundo no colisionen en refresh_tokens.token_hash.
package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid_jwt")
	ErrEmptySecret  = errors.New("jwt: empty secret")
)

// Claims son los claims registrados que emitimos.
type Claims struct {
	jwtv5.RegisteredClaims
}

// Issuer firma access y refresh tokens.
type Issuer struct {
	Iss           string
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	// Now es reemplazable en tests.
	Now func() time.Time
}

func NewIssuer(iss, accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, ErrEmptySecret
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Issuer{
		Iss:           iss,
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		Now:           time.Now,
	}, nil
}

func (i *Issuer) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}

// IssueAccess emite un access token para sub. Devuelve el token y su exp.
func (i *Issuer) IssueAccess(sub string) (string, time.Time, error) {
	return i.sign(sub, i.AccessSecret, i.AccessTTL)
}

// IssueRefresh emite un refresh token para sub.
func (i *Issuer) IssueRefresh(sub string) (string, time.Time, error) {
	return i.sign(sub, i.RefreshSecret, i.RefreshTTL)
}

func (i *Issuer) sign(sub string, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := i.now().UTC()
	exp := now.Add(ttl)
	claims := Claims{jwtv5.RegisteredClaims{
		Issuer:    i.Iss,
		Subject:   sub,
		IssuedAt:  jwtv5.NewNumericDate(now),
		ExpiresAt: jwtv5.NewNumericDate(exp),
		ID:        uuid.NewString(),
	}}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"
	signed, err := tk.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, exp, nil
}

// ParseAccess valida firma, exp e iss con el secreto de access.
func (i *Issuer) ParseAccess(token string) (*Claims, error) {
	return i.parse(token, i.AccessSecret)
}

// ParseRefresh valida con el secreto de refresh.
func (i *Issuer) ParseRefresh(token string) (*Claims, error) {
	return i.parse(token, i.RefreshSecret)
}

func (i *Issuer) parse(token string, secret []byte) (*Claims, error) {
	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(i.now),
	}
	if i.Iss != "" {
		opts = append(opts, jwtv5.WithIssuer(i.Iss))
	}
	var c Claims
	tok, err := jwtv5.ParseWithClaims(token, &c, func(*jwtv5.Token) (any, error) { return secret, nil }, opts...)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if c.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &c, nil
}
