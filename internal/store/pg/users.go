package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
)

type userRepo struct{ pool *pgxpool.Pool }

const userColumns = `u.id, u.phone, u.email, u.password_hash, u.name, u.avatar,
	u.role, u.is_premium, u.provider, u.provider_id, u.created_at, u.updated_at`

func scanUser(row pgx.Row, extra ...any) (*repository.User, error) {
	var u repository.User
	var role, provider string
	dest := []any{
		&u.ID, &u.Phone, &u.Email, &u.PasswordHash, &u.Name, &u.Avatar,
		&role, &u.IsPremium, &provider, &u.ProviderID, &u.CreatedAt, &u.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	u.Role = types.Role(role)
	u.Provider = types.AuthProvider(provider)
	return &u, nil
}

func (r *userRepo) getOne(ctx context.Context, op, where string, args ...any) (*repository.User, error) {
	q := `SELECT ` + userColumns + ` FROM users u WHERE ` + where
	u, err := scanUser(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*repository.User, error) {
	return r.getOne(ctx, "get user by id", `u.id = $1`, id)
}

func (r *userRepo) GetByPhone(ctx context.Context, phone string) (*repository.User, error) {
	return r.getOne(ctx, "get user by phone", `u.phone = $1`, phone)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	return r.getOne(ctx, "get user by email", `LOWER(u.email) = LOWER($1)`, email)
}

func (r *userRepo) GetByProvider(ctx context.Context, provider types.AuthProvider, providerID string) (*repository.User, error) {
	return r.getOne(ctx, "get user by provider", `u.provider = $1 AND u.provider_id = $2`, string(provider), providerID)
}

func (r *userRepo) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	role := in.Role
	if role == "" {
		role = types.RoleUser
	}
	provider := in.Provider
	if provider == "" {
		provider = types.ProviderLocal
	}
	const q = `
		INSERT INTO users AS u (phone, email, password_hash, name, avatar, role, is_premium, provider, provider_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns
	u, err := scanUser(r.pool.QueryRow(ctx, q,
		in.Phone, in.Email, in.PasswordHash, in.Name, in.Avatar,
		string(role), role == types.RolePremium, string(provider), in.ProviderID,
	))
	if err != nil {
		return nil, wrapErr("create user", err)
	}
	return u, nil
}

// FindOrCreateByPhone usa ON CONFLICT para que el alta sea atómica.
// xmax = 0 solo es cierto para filas recién insertadas.
func (r *userRepo) FindOrCreateByPhone(ctx context.Context, phone string) (*repository.User, bool, error) {
	const q = `
		INSERT INTO users AS u (phone, provider, role)
		VALUES ($1, 'LOCAL', 'USER')
		ON CONFLICT (phone) DO UPDATE SET phone = EXCLUDED.phone
		RETURNING ` + userColumns + `, (u.xmax = 0)`
	var created bool
	u, err := scanUser(r.pool.QueryRow(ctx, q, phone), &created)
	if err != nil {
		return nil, false, wrapErr("find or create by phone", err)
	}
	return u, created, nil
}

func (r *userRepo) LinkProvider(ctx context.Context, userID string, provider types.AuthProvider, providerID string) (*repository.User, error) {
	const q = `
		UPDATE users AS u SET provider = $2, provider_id = $3, updated_at = NOW()
		WHERE u.id = $1
		RETURNING ` + userColumns
	u, err := scanUser(r.pool.QueryRow(ctx, q, userID, string(provider), providerID))
	if err != nil {
		return nil, wrapErr("link provider", err)
	}
	return u, nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, id string, in repository.UpdateProfileInput) (*repository.User, error) {
	const q = `
		UPDATE users AS u SET
			name = COALESCE($2, u.name),
			phone = COALESCE($3, u.phone),
			avatar = COALESCE($4, u.avatar),
			updated_at = NOW()
		WHERE u.id = $1
		RETURNING ` + userColumns
	u, err := scanUser(r.pool.QueryRow(ctx, q, id, in.Name, in.Phone, in.Avatar))
	if err != nil {
		return nil, wrapErr("update profile", err)
	}
	return u, nil
}

func (r *userRepo) SetPasswordHash(ctx context.Context, id, hash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, hash)
	if err != nil {
		return wrapErr("set password", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepo) SetRole(ctx context.Context, id string, role types.Role) (*repository.User, error) {
	const q = `
		UPDATE users AS u SET role = $2, updated_at = NOW()
		WHERE u.id = $1
		RETURNING ` + userColumns
	u, err := scanUser(r.pool.QueryRow(ctx, q, id, string(role)))
	if err != nil {
		return nil, wrapErr("set role", err)
	}
	return u, nil
}

func (r *userRepo) List(ctx context.Context, f repository.ListUsersFilter) ([]repository.UserListItem, int, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	where := `TRUE`
	args := []any{}
	if f.Search != "" {
		args = append(args, likePattern(f.Search))
		where = `(u.email ILIKE $1 OR u.name ILIKE $1)`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users u WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, wrapErr("count users", err)
	}

	q := fmt.Sprintf(`
		SELECT %s, (SELECT COUNT(*) FROM properties p WHERE p.user_id = u.id)
		FROM users u WHERE %s
		ORDER BY u.created_at DESC
		LIMIT $%d OFFSET $%d`, userColumns, where, len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, q, append(args, limit, (page-1)*limit)...)
	if err != nil {
		return nil, 0, wrapErr("list users", err)
	}
	defer rows.Close()

	var out []repository.UserListItem
	for rows.Next() {
		var count int
		u, err := scanUser(rows, &count)
		if err != nil {
			return nil, 0, wrapErr("scan user", err)
		}
		out = append(out, repository.UserListItem{User: *u, PropertiesCount: count})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapErr("list users", err)
	}
	return out, total, nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
