// Package memory implementa repository.Store en proceso. Se usa en tests y
// en modo dev (storage.driver=memory). Un único mutex serializa todo, así
// que las operaciones de consumo son atómicas igual que en PostgreSQL.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/store"
)

func init() {
	store.RegisterAdapter(adapter{})
}

type adapter struct{}

func (adapter) Name() string { return "memory" }

func (adapter) Open(context.Context, store.Config) (repository.Store, error) {
	return New(), nil
}

// Store guarda todo en mapas protegidos por mu.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	users      map[string]*repository.User
	codes      map[string]*repository.OneTimeCode
	tokens     map[string]*repository.RefreshToken
	properties map[string]*repository.Property
	favorites  map[favKey]time.Time
}

type favKey struct{ userID, propertyID string }

// Option configura el Store.
type Option func(*Store)

// WithClock fija el reloj usado para created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		now:        time.Now,
		users:      map[string]*repository.User{},
		codes:      map[string]*repository.OneTimeCode{},
		tokens:     map[string]*repository.RefreshToken{},
		properties: map[string]*repository.Property{},
		favorites:  map[favKey]time.Time{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) Users() repository.UserRepository { return (*userRepo)(s) }
func (s *Store) Codes() repository.CodeRepository { return (*codeRepo)(s) }
func (s *Store) Tokens() repository.TokenRepository { return (*tokenRepo)(s) }
func (s *Store) Properties() repository.PropertyRepository { return (*propertyRepo)(s) }
func (s *Store) Favorites() repository.FavoriteRepository { return (*favoriteRepo)(s) }
func (s *Store) Stats() repository.StatsRepository { return (*statsRepo)(s) }
func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() {}

func newID() string { return uuid.NewString() }

func strp(v string) *string { return &v }

func copyStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
