package repository

import (
	"context"
	"time"
)

// OneTimeCode es un código OTP enviado por SMS. Varios pueden coexistir
// para el mismo teléfono; no pertenece a un usuario (puede precederlo).
type OneTimeCode struct {
	ID        string
	Phone     string
	Code      string
	ExpiresAt time.Time
	IP        *string
	CreatedAt time.Time
}

// CodeRepository define operaciones sobre códigos OTP.
type CodeRepository interface {
	// Create guarda createdAt tal cual: el rate guard compara contra el
	// reloj de la app, no contra el de la base.
	Create(ctx context.Context, phone, code string, createdAt, expiresAt time.Time, ip string) (*OneTimeCode, error)

	// Consume borra TODAS las filas (phone, code), vencidas o no, en una
	// sola sentencia y retorna la más reciente que seguía vigente en now.
	// ErrNotFound si ninguna estaba vigente.
	Consume(ctx context.Context, phone, code string, now time.Time) (*OneTimeCode, error)

	// CountByPhoneSince cuenta códigos creados para phone con created_at >= since.
	CountByPhoneSince(ctx context.Context, phone string, since time.Time) (int, error)

	// CountByIPSince cuenta códigos creados desde ip con created_at >= since.
	CountByIPSince(ctx context.Context, ip string, since time.Time) (int, error)

	// DeleteExpired limpia códigos con expires_at <= now y created_at <
	// createdBefore. Las filas más nuevas siguen contando para el rate guard.
	DeleteExpired(ctx context.Context, now, createdBefore time.Time) (int, error)
}
