package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
)

type propertyRepo struct{ pool *pgxpool.Pool }

const propertyColumns = `p.id, p.title, p.price, p.currency, p.location, p.region, p.type,
	p.rooms, p.area, p.description, p.images, p.features, p.status, p.views,
	p.user_id, p.created_at, p.updated_at`

// ownerColumns viene de un LEFT JOIN users u.
const ownerColumns = `u.id, u.name, u.phone, u.email, u.avatar`

func scanProperty(row pgx.Row) (*repository.Property, error) {
	var p repository.Property
	var currency, region, typ, status string
	var owner repository.PropertyOwner
	var ownerID *string
	err := row.Scan(
		&p.ID, &p.Title, &p.Price, &currency, &p.Location, &region, &typ,
		&p.Rooms, &p.Area, &p.Description, &p.Images, &p.Features, &status, &p.Views,
		&p.UserID, &p.CreatedAt, &p.UpdatedAt,
		&ownerID, &owner.Name, &owner.Phone, &owner.Email, &owner.Avatar,
	)
	if err != nil {
		return nil, err
	}
	p.Currency = types.Currency(currency)
	p.Region = types.Region(region)
	p.Type = types.PropertyType(typ)
	p.Status = types.PropertyStatus(status)
	if ownerID != nil {
		owner.ID = *ownerID
		p.Owner = &owner
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	return &p, nil
}

func (r *propertyRepo) Create(ctx context.Context, userID string, in repository.PropertyInput) (*repository.Property, error) {
	currency := in.Currency
	if currency == "" {
		currency = types.CurrencyRUB
	}
	status := in.Status
	if status == "" {
		status = types.StatusActive
	}
	features := in.Features
	if features == nil {
		features = []string{}
	}
	const q = `
		INSERT INTO properties (title, price, currency, location, region, type, rooms, area,
			description, images, features, status, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	var id string
	err := r.pool.QueryRow(ctx, q,
		in.Title, in.Price, string(currency), in.Location, string(in.Region), string(in.Type), in.Rooms, in.Area,
		in.Description, in.Images, features, string(status), userID,
	).Scan(&id)
	if err != nil {
		return nil, wrapErr("create property", err)
	}
	return r.GetByID(ctx, id)
}

func (r *propertyRepo) GetByID(ctx context.Context, id string) (*repository.Property, error) {
	q := `SELECT ` + propertyColumns + `, ` + ownerColumns + `
		FROM properties p LEFT JOIN users u ON u.id = p.user_id
		WHERE p.id = $1`
	p, err := scanProperty(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, wrapErr("get property", err)
	}
	return p, nil
}

func (r *propertyRepo) IncrementViews(ctx context.Context, id string) (*repository.Property, error) {
	q := `
		WITH p AS (
			UPDATE properties SET views = views + 1 WHERE id = $1 RETURNING *
		)
		SELECT ` + propertyColumns + `, ` + ownerColumns + `
		FROM p LEFT JOIN users u ON u.id = p.user_id`
	p, err := scanProperty(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, wrapErr("increment views", err)
	}
	return p, nil
}

func enumPtr[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func (r *propertyRepo) Update(ctx context.Context, id string, patch repository.PropertyPatch) (*repository.Property, error) {
	var images, features any
	if patch.Images != nil {
		images = *patch.Images
	}
	if patch.Features != nil {
		features = *patch.Features
	}
	const q = `
		UPDATE properties SET
			title = COALESCE($2, title),
			price = COALESCE($3, price),
			currency = COALESCE($4, currency),
			location = COALESCE($5, location),
			region = COALESCE($6, region),
			type = COALESCE($7, type),
			rooms = COALESCE($8, rooms),
			area = COALESCE($9, area),
			description = COALESCE($10, description),
			images = COALESCE($11::text[], images),
			features = COALESCE($12::text[], features),
			status = COALESCE($13, status),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id`
	var got string
	err := r.pool.QueryRow(ctx, q, id,
		patch.Title, patch.Price, enumPtr(patch.Currency), patch.Location,
		enumPtr(patch.Region), enumPtr(patch.Type), patch.Rooms, patch.Area,
		patch.Description, images, features, enumPtr(patch.Status),
	).Scan(&got)
	if err != nil {
		return nil, wrapErr("update property", err)
	}
	return r.GetByID(ctx, got)
}

func (r *propertyRepo) SetStatus(ctx context.Context, id string, status types.PropertyStatus) (*repository.Property, error) {
	return r.Update(ctx, id, repository.PropertyPatch{Status: &status})
}

func (r *propertyRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete property", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *propertyRepo) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM properties WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		if err = wrapErr("property exists", err); repository.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// buildWhere arma el WHERE aplicando cada filtro solo si está presente.
func buildWhere(f repository.PropertyFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != nil {
		add("p.status = $%d", string(*f.Status))
	}
	if f.Type != nil {
		add("p.type = $%d", string(*f.Type))
	}
	if f.Region != nil {
		add("p.region = $%d", string(*f.Region))
	}
	if f.PriceMin != nil {
		add("p.price >= $%d", *f.PriceMin)
	}
	if f.PriceMax != nil {
		add("p.price <= $%d", *f.PriceMax)
	}
	if f.Rooms != nil {
		add("p.rooms = $%d", *f.Rooms)
	}
	if f.AreaMin != nil {
		add("p.area >= $%d", *f.AreaMin)
	}
	if f.UserID != "" {
		add("p.user_id = $%d", f.UserID)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, likePattern(q))
		n := len(args)
		conds = append(conds, fmt.Sprintf("(p.title ILIKE $%d OR p.description ILIKE $%d OR p.location ILIKE $%d)", n, n, n))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, likePattern(s))
		n := len(args)
		conds = append(conds, fmt.Sprintf("(p.title ILIKE $%d OR p.location ILIKE $%d)", n, n))
	}
	if len(conds) == 0 {
		return "TRUE", args
	}
	return strings.Join(conds, " AND "), args
}

func orderBy(s repository.PropertySort) string {
	switch s {
	case repository.SortPriceAsc:
		return "p.price ASC, p.created_at DESC"
	case repository.SortPriceDesc:
		return "p.price DESC, p.created_at DESC"
	default:
		return "p.created_at DESC"
	}
}

func (r *propertyRepo) List(ctx context.Context, f repository.PropertyFilter) ([]repository.Property, int, error) {
	where, args := buildWhere(f)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM properties p WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, wrapErr("count properties", err)
	}

	offset, limit := offsetLimit(f.Offset, f.Limit)
	q := fmt.Sprintf(`
		SELECT %s, %s
		FROM properties p LEFT JOIN users u ON u.id = p.user_id
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		propertyColumns, ownerColumns, where, orderBy(f.Sort), len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, wrapErr("list properties", err)
	}
	defer rows.Close()

	out := []repository.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, 0, wrapErr("scan property", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapErr("list properties", err)
	}
	return out, total, nil
}
