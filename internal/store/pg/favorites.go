package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
)

type favoriteRepo struct{ pool *pgxpool.Pool }

// Add: un property_id inexistente viola la FK y vuelve como ErrNotFound.
func (r *favoriteRepo) Add(ctx context.Context, userID, propertyID string) (*repository.Favorite, error) {
	f := repository.Favorite{UserID: userID, PropertyID: propertyID}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO favorites (user_id, property_id) VALUES ($1, $2) RETURNING created_at`,
		userID, propertyID,
	).Scan(&f.CreatedAt)
	if err != nil {
		return nil, wrapErr("add favorite", err)
	}
	return &f, nil
}

func (r *favoriteRepo) Remove(ctx context.Context, userID, propertyID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND property_id = $2`, userID, propertyID)
	if err != nil {
		return wrapErr("remove favorite", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *favoriteRepo) ListByUser(ctx context.Context, userID string) ([]repository.Favorite, error) {
	q := `
		SELECT f.created_at, ` + propertyColumns + `, ` + ownerColumns + `
		FROM favorites f
		JOIN properties p ON p.id = f.property_id
		LEFT JOIN users u ON u.id = p.user_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, wrapErr("list favorites", err)
	}
	defer rows.Close()

	out := []repository.Favorite{}
	for rows.Next() {
		var fav repository.Favorite
		p, err := scanProperty(prefixedRow{row: rows, head: []any{&fav.CreatedAt}})
		if err != nil {
			return nil, wrapErr("scan favorite", err)
		}
		fav.UserID = userID
		fav.PropertyID = p.ID
		fav.Property = p
		out = append(out, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list favorites", err)
	}
	return out, nil
}

// prefixedRow antepone destinos propios a los que pide scanProperty.
type prefixedRow struct {
	row  interface{ Scan(dest ...any) error }
	head []any
}

func (p prefixedRow) Scan(dest ...any) error {
	return p.row.Scan(append(p.head, dest...)...)
}
