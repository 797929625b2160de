package repository

import (
	"context"
	"time"
)

// RefreshToken persiste un refresh token emitido. El JWT en sí no se
// guarda: TokenHash es su SHA-256 hex y actúa como clave de búsqueda.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TokenRepository define operaciones sobre refresh tokens.
type TokenRepository interface {
	Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (*RefreshToken, error)

	// Consume borra atómicamente el token (hash, userID) no expirado y lo
	// retorna. ErrNotFound si no había ninguno vigente: ya rotado, revocado
	// o expirado. Dos Consume concurrentes del mismo hash: solo uno gana.
	Consume(ctx context.Context, userID, tokenHash string, now time.Time) (*RefreshToken, error)

	// RevokeAllByUser borra todos los tokens del usuario y retorna cuántos.
	RevokeAllByUser(ctx context.Context, userID string) (int, error)

	// CountByUser se usa en tests y en el CLI de diagnóstico.
	CountByUser(ctx context.Context, userID string) (int, error)

	// DeleteExpired limpia tokens vencidos antes de now.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
