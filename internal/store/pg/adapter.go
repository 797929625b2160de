// Package pg implementa los repositorios sobre PostgreSQL con pgxpool.
package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/store"
)

func init() {
	store.RegisterAdapter(&postgresAdapter{})
}

type postgresAdapter struct{}

func (a *postgresAdapter) Name() string { return "postgres" }

func (a *postgresAdapter) Open(ctx context.Context, cfg store.Config) (repository.Store, error) {
	pool, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(pool), nil
}

// Connect abre y verifica un pool. Lo usa también el CLI de migraciones.
func Connect(ctx context.Context, cfg store.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}
	poolCfg.MaxConns = 10
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = 2
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}
	return pool, nil
}

// Store agrupa los repos que comparten el pool.
type Store struct {
	pool *pgxpool.Pool

	users      *userRepo
	codes      *codeRepo
	tokens     *tokenRepo
	properties *propertyRepo
	favorites  *favoriteRepo
	stats      *statsRepo
}

// New construye el Store sobre un pool existente.
func New(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:       pool,
		users:      &userRepo{pool: pool},
		codes:      &codeRepo{pool: pool},
		tokens:     &tokenRepo{pool: pool},
		properties: &propertyRepo{pool: pool},
		favorites:  &favoriteRepo{pool: pool},
		stats:      &statsRepo{pool: pool},
	}
}

func (s *Store) Users() repository.UserRepository { return s.users }
func (s *Store) Codes() repository.CodeRepository { return s.codes }
func (s *Store) Tokens() repository.TokenRepository { return s.tokens }
func (s *Store) Properties() repository.PropertyRepository { return s.properties }
func (s *Store) Favorites() repository.FavoriteRepository { return s.favorites }
func (s *Store) Stats() repository.StatsRepository { return s.stats }
func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }
func (s *Store) Close() { s.pool.Close() }
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	invalidTextRepr     = "22P02" // uuid mal formado
)

// wrapErr traduce errores de pgx a errores de repository.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("pg: %s: %w", op, repository.ErrConflict)
		case foreignKeyViolation, invalidTextRepr:
			return repository.ErrNotFound
		}
	}
	return fmt.Errorf("pg: %s: %w", op, err)
}

// likePattern escapa comodines y arma %q% para ILIKE.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(q)) + "%"
}

func offsetLimit(offset, limit int) (int, int) {
	if limit <= 0 {
		limit = 12
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
