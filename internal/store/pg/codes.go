package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
)

type codeRepo struct{ pool *pgxpool.Pool }

func (r *codeRepo) Create(ctx context.Context, phone, code string, createdAt, expiresAt time.Time, ip string) (*repository.OneTimeCode, error) {
	const q = `
		INSERT INTO one_time_codes (phone, code, expires_at, ip, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), COALESCE($5, NOW()))
		RETURNING id, phone, code, expires_at, ip, created_at`
	var ts *time.Time
	if !createdAt.IsZero() {
		ts = &createdAt
	}
	var c repository.OneTimeCode
	err := r.pool.QueryRow(ctx, q, phone, code, expiresAt, ip, ts).
		Scan(&c.ID, &c.Phone, &c.Code, &c.ExpiresAt, &c.IP, &c.CreatedAt)
	if err != nil {
		return nil, wrapErr("create code", err)
	}
	return &c, nil
}

// Consume: el DELETE ... RETURNING es la validación. Bajo READ COMMITTED
// un segundo DELETE concurrente espera el lock de fila y, tras el commit
// del primero, ya no encuentra nada.
func (r *codeRepo) Consume(ctx context.Context, phone, code string, now time.Time) (*repository.OneTimeCode, error) {
	const q = `
		WITH deleted AS (
			DELETE FROM one_time_codes
			WHERE phone = $1 AND code = $2
			RETURNING id, phone, code, expires_at, ip, created_at
		)
		SELECT id, phone, code, expires_at, ip, created_at
		FROM deleted
		WHERE expires_at > $3
		ORDER BY created_at DESC
		LIMIT 1`
	var c repository.OneTimeCode
	err := r.pool.QueryRow(ctx, q, phone, code, now).
		Scan(&c.ID, &c.Phone, &c.Code, &c.ExpiresAt, &c.IP, &c.CreatedAt)
	if err != nil {
		return nil, wrapErr("consume code", err)
	}
	return &c, nil
}

func (r *codeRepo) CountByPhoneSince(ctx context.Context, phone string, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM one_time_codes WHERE phone = $1 AND created_at >= $2`, phone, since).Scan(&n)
	if err != nil {
		return 0, wrapErr("count codes by phone", err)
	}
	return n, nil
}

func (r *codeRepo) CountByIPSince(ctx context.Context, ip string, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM one_time_codes WHERE ip = $1 AND created_at >= $2`, ip, since).Scan(&n)
	if err != nil {
		return 0, wrapErr("count codes by ip", err)
	}
	return n, nil
}

func (r *codeRepo) DeleteExpired(ctx context.Context, now, createdBefore time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM one_time_codes WHERE expires_at <= $1 AND created_at < $2`, now, createdBefore)
	if err != nil {
		return 0, wrapErr("delete expired codes", err)
	}
	return int(tag.RowsAffected()), nil
}
