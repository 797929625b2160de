package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
)

type tokenRepo struct{ pool *pgxpool.Pool }

func (r *tokenRepo) Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (*repository.RefreshToken, error) {
	const q = `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, token_hash, expires_at, created_at`
	var t repository.RefreshToken
	err := r.pool.QueryRow(ctx, q, userID, tokenHash, expiresAt).
		Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return nil, wrapErr("create refresh token", err)
	}
	return &t, nil
}

func (r *tokenRepo) Consume(ctx context.Context, userID, tokenHash string, now time.Time) (*repository.RefreshToken, error) {
	const q = `
		DELETE FROM refresh_tokens
		WHERE token_hash = $1 AND user_id = $2 AND expires_at > $3
		RETURNING id, user_id, token_hash, expires_at, created_at`
	var t repository.RefreshToken
	err := r.pool.QueryRow(ctx, q, tokenHash, userID, now).
		Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return nil, wrapErr("consume refresh token", err)
	}
	return &t, nil
}

func (r *tokenRepo) RevokeAllByUser(ctx context.Context, userID string) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return 0, wrapErr("revoke user tokens", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *tokenRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM refresh_tokens WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, wrapErr("count user tokens", err)
	}
	return n, nil
}

func (r *tokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, wrapErr("delete expired tokens", err)
	}
	return int(tag.RowsAffected()), nil
}
