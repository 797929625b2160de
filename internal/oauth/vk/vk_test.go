package vk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestVKProfileTakesEmailFromToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/access_token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"vk-at","expires_in":86400,"user_id":777,"email":"z@mail.ru"}`))
	})
	mux.HandleFunc("/users.get", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "vk-at", r.URL.Query().Get("access_token"))
		require.Equal(t, "photo_200", r.URL.Query().Get("fields"))
		_, _ = w.Write([]byte(`{"response":[{"id":777,"first_name":"Зелимхан","last_name":"Д","photo_200":"https://vk/p.jpg"}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := New("cid", "secret", "cb", nil,
		WithEndpoint(oauth2.Endpoint{TokenURL: srv.URL + "/access_token", AuthStyle: oauth2.AuthStyleInParams}, srv.URL+"/users.get"),
		WithHTTPClient(srv.Client()),
	)
	tok, err := p.Exchange(context.Background(), "code")
	require.NoError(t, err)
	prof, err := p.Profile(context.Background(), tok)
	require.NoError(t, err)
	require.Equal(t, "777", prof.ProviderID)
	require.Equal(t, "z@mail.ru", prof.Email)
	require.True(t, prof.EmailVerified)
	require.Equal(t, "Зелимхан Д", prof.Name)
	require.Equal(t, "https://vk/p.jpg", prof.Avatar)
}

func TestVKNoEmail(t *testing.T) {
	tok := (&oauth2.Token{AccessToken: "x"}).WithExtra(map[string]any{"user_id": float64(5)})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":[]}`))
	}))
	defer srv.Close()

	p := New("cid", "secret", "cb", nil, WithEndpoint(Endpoint, srv.URL), WithHTTPClient(srv.Client()))
	prof, err := p.Profile(context.Background(), tok)
	require.NoError(t, err)
	require.Equal(t, "5", prof.ProviderID)
	require.Empty(t, prof.Email)
	require.False(t, prof.EmailVerified)
}

func TestVKAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"error_code":5,"error_msg":"User authorization failed"}}`))
	}))
	defer srv.Close()
	p := New("cid", "secret", "cb", nil, WithEndpoint(Endpoint, srv.URL), WithHTTPClient(srv.Client()))
	_, err := p.Profile(context.Background(), &oauth2.Token{AccessToken: "x"})
	require.Error(t, err)
}
