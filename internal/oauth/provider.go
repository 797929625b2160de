// Package oauth normaliza los proveedores externos (Google, Yandex, VK)
// detrás de una sola interfaz. Cada adaptador resuelve su propio formato de
// perfil y devuelve un Profile.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"

	"golang.org/x/oauth2"

	"github.com/dohkar/dohkar-api/internal/domain/types"
)

// Profile es la identidad normalizada. Email vacío significa que el
// proveedor no lo entregó.
type Profile struct {
	ProviderID    string
	Email         string
	EmailVerified bool
	Name          string
	Avatar        string
}

// Provider es un proveedor OAuth2 authorization-code.
type Provider interface {
	Kind() types.AuthProvider
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Profile(ctx context.Context, tok *oauth2.Token) (*Profile, error)
}

var (
	ErrExchange = errors.New("oauth: code exchange failed")
	ErrProfile  = errors.New("oauth: profile fetch failed")
)

// Registry indexa los proveedores habilitados.
type Registry struct {
	mu        sync.RWMutex
	providers map[types.AuthProvider]Provider
}

func NewRegistry(ps ...Provider) *Registry {
	r := &Registry{providers: map[types.AuthProvider]Provider{}}
	for _, p := range ps {
		r.Register(p)
	}
	return r
}

func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	r.providers[p.Kind()] = p
	r.mu.Unlock()
}

func (r *Registry) Get(kind types.AuthProvider) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[kind]
	return p, ok
}

// Enabled lista los slugs habilitados, ordenados.
func (r *Registry) Enabled() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.providers))
	for k := range r.providers {
		out = append(out, k.Slug())
	}
	sort.Strings(out)
	return out
}

// WithHTTPClient hace que oauth2 use c para el intercambio de tokens.
func WithHTTPClient(ctx context.Context, c *http.Client) context.Context {
	if c == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, c)
}

// FetchJSON ejecuta req y decodifica un body 2xx en out.
func FetchJSON(c *http.Client, req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProfile, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read: %v", ErrProfile, err)
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: status %d", ErrProfile, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrProfile, err)
	}
	return nil
}
