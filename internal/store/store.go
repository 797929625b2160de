// Package store abre el driver de persistencia configurado.
//
// Los drivers se registran en init() (ver store/pg y store/memory) y se
// eligen por nombre: cmd importa los drivers con un blank import.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
)

// Config es lo que un adapter necesita para conectarse.
type Config struct {
	Driver   string
	DSN      string
	MaxConns int32
	MinConns int32
}

// Adapter crea un repository.Store para un driver.
type Adapter interface {
	Name() string
	Open(ctx context.Context, cfg Config) (repository.Store, error)
}

var (
	adaptersMu sync.RWMutex
	adapters   = map[string]Adapter{}
)

// RegisterAdapter registra un adapter. Panic si el nombre se repite.
func RegisterAdapter(a Adapter) {
	adaptersMu.Lock()
	defer adaptersMu.Unlock()
	if _, dup := adapters[a.Name()]; dup {
		panic("store: adapter registered twice: " + a.Name())
	}
	adapters[a.Name()] = a
}

// Drivers lista los drivers registrados, ordenados.
func Drivers() []string {
	adaptersMu.RLock()
	defer adaptersMu.RUnlock()
	out := make([]string, 0, len(adapters))
	for name := range adapters {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Open abre el driver cfg.Driver.
func Open(ctx context.Context, cfg Config) (repository.Store, error) {
	adaptersMu.RLock()
	a, ok := adapters[cfg.Driver]
	adaptersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("store: unknown driver %q (registered: %v)", cfg.Driver, Drivers())
	}
	s, err := a.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", cfg.Driver, err)
	}
	return s, nil
}
