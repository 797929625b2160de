package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/dohkar/dohkar-api/internal/domain/types"
)

type stubProvider struct{ kind types.AuthProvider }

func (s stubProvider) Kind() types.AuthProvider  { return s.kind }
func (s stubProvider) AuthCodeURL(string) string { return "" }
func (s stubProvider) Exchange(context.Context, string) (*oauth2.Token, error) {
	return &oauth2.Token{}, nil
}
func (s stubProvider) Profile(context.Context, *oauth2.Token) (*Profile, error) { return &Profile{}, nil }

func TestRegistry(t *testing.T) {
	r := NewRegistry(stubProvider{types.ProviderVK}, stubProvider{types.ProviderGoogle})
	_, ok := r.Get(types.ProviderGoogle)
	require.True(t, ok)
	_, ok = r.Get(types.ProviderYandex)
	require.False(t, ok)
	require.Equal(t, []string{"google", "vk"}, r.Enabled())
}

func TestFetchJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"42"}`))
	}))
	defer srv.Close()

	var out struct{ ID string }
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/ok", nil)
	require.NoError(t, FetchJSON(srv.Client(), req, &out))
	require.Equal(t, "42", out.ID)

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/bad", nil)
	require.ErrorIs(t, FetchJSON(srv.Client(), req, &out), ErrProfile)
}
