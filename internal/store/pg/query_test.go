package pg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
)

func TestBuildWhere_OnlyPresentFilters(t *testing.T) {
	where, args := buildWhere(repository.PropertyFilter{})
	require.Equal(t, "TRUE", where)
	require.Empty(t, args)

	active := types.StatusActive
	minPrice := 1000.0
	rooms := 2
	where, args = buildWhere(repository.PropertyFilter{
		Status:   &active,
		PriceMin: &minPrice,
		Rooms:    &rooms,
		Query:    "грозный",
	})
	require.Equal(t,
		"p.status = $1 AND p.price >= $2 AND p.rooms = $3 AND (p.title ILIKE $4 OR p.description ILIKE $4 OR p.location ILIKE $4)",
		where)
	require.Equal(t, []any{"ACTIVE", 1000.0, 2, "%грозный%"}, args)
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	require.Equal(t, `%50\% off\_now%`, likePattern(" 50% off_now "))
}

func TestOrderBy(t *testing.T) {
	require.Equal(t, "p.created_at DESC", orderBy(""))
	require.Equal(t, "p.price ASC, p.created_at DESC", orderBy(repository.SortPriceAsc))
	require.Equal(t, "p.price DESC, p.created_at DESC", orderBy(repository.SortPriceDesc))
}

func TestWrapErr(t *testing.T) {
	require.NoError(t, wrapErr("x", nil))
	require.ErrorIs(t, wrapErr("x", pgx.ErrNoRows), repository.ErrNotFound)
	require.ErrorIs(t, wrapErr("x", &pgconn.PgError{Code: uniqueViolation}), repository.ErrConflict)
	require.ErrorIs(t, wrapErr("x", fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: foreignKeyViolation})), repository.ErrNotFound)
	require.ErrorIs(t, wrapErr("x", &pgconn.PgError{Code: invalidTextRepr}), repository.ErrNotFound)

	boom := errors.New("boom")
	err := wrapErr("op", boom)
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "pg: op")
}
