// Package cache es un key/value con TTL para datos derivados (p.ej. las
// estadísticas del admin).
//
// Soporta:
//   - memory (go-cache, por proceso; dev y tests)
//   - redis (compartido entre réplicas)
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Client define las operaciones de cache.
type Client interface {
	// Get retorna ErrNotFound si la key no existe o expiró.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set guarda value. ttl == 0 usa el TTL por defecto del cliente.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

var ErrNotFound = errors.New("cache: key not found")

// Config para New.
type Config struct {
	Kind       string // memory | redis
	DefaultTTL time.Duration
	Addr       string
	Password   string
	DB         int
	Prefix     string
}

// New crea el cliente según Kind. Para redis verifica la conexión.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Kind {
	case "", "memory":
		return NewMemory(cfg.DefaultTTL), nil
	case "redis":
		return NewRedis(ctx, cfg)
	default:
		return nil, fmt.Errorf("cache: kind %q not supported", cfg.Kind)
	}
}
