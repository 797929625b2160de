package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
)

type statsRepo struct{ pool *pgxpool.Pool }

func (r *statsRepo) Overview(ctx context.Context, now time.Time) (repository.Overview, error) {
	const q = `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM properties),
			(SELECT COUNT(*) FROM properties WHERE status = 'ACTIVE'),
			(SELECT COUNT(*) FROM properties WHERE status = 'PENDING'),
			(SELECT COALESCE(SUM(views), 0) FROM properties),
			(SELECT COUNT(*) FROM users WHERE is_premium),
			(SELECT COUNT(*) FROM users WHERE created_at >= $1),
			(SELECT COUNT(*) FROM properties WHERE created_at >= $1)`
	var o repository.Overview
	err := r.pool.QueryRow(ctx, q, now.AddDate(0, 0, -30)).Scan(
		&o.TotalUsers, &o.TotalProperties, &o.ActiveProperties, &o.PendingProperties,
		&o.TotalViews, &o.PremiumUsers, &o.NewUsersLast30Days, &o.NewPropertiesLast30Days,
	)
	if err != nil {
		return o, wrapErr("stats overview", err)
	}
	return o, nil
}

func (r *statsRepo) groupCount(ctx context.Context, op, column string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+column+`, COUNT(*) FROM properties GROUP BY `+column)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var k string
		var n int
		if err := rows.Scan(&k, &n); err != nil {
			return nil, wrapErr(op, err)
		}
		out[k] = n
	}
	return out, wrapErr(op, rows.Err())
}

func (r *statsRepo) PropertiesByType(ctx context.Context) (map[types.PropertyType]int, error) {
	m, err := r.groupCount(ctx, "stats by type", "type")
	if err != nil {
		return nil, err
	}
	out := make(map[types.PropertyType]int, len(m))
	for k, v := range m {
		out[types.PropertyType(k)] = v
	}
	return out, nil
}

func (r *statsRepo) PropertiesByRegion(ctx context.Context) (map[types.Region]int, error) {
	m, err := r.groupCount(ctx, "stats by region", "region")
	if err != nil {
		return nil, err
	}
	out := make(map[types.Region]int, len(m))
	for k, v := range m {
		out[types.Region(k)] = v
	}
	return out, nil
}

func (r *statsRepo) DailyProperties(ctx context.Context, since time.Time) ([]repository.DailyCount, error) {
	const q = `
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*)
		FROM properties
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day`
	rows, err := r.pool.Query(ctx, q, since)
	if err != nil {
		return nil, wrapErr("stats daily", err)
	}
	defer rows.Close()
	out := []repository.DailyCount{}
	for rows.Next() {
		var d repository.DailyCount
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, wrapErr("stats daily", err)
		}
		out = append(out, d)
	}
	return out, wrapErr("stats daily", rows.Err())
}
