package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newServer(t *testing.T, userinfo string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "the-code", r.PostForm.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(userinfo))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGoogleFlow(t *testing.T) {
	srv := newServer(t, `{"sub":"g-123","email":"a@gmail.com","email_verified":true,"name":"Ali","picture":"https://p/x.png"}`)
	p := New("cid", "secret", "http://localhost/cb", nil,
		WithEndpoint(oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}, srv.URL+"/userinfo"),
		WithHTTPClient(srv.Client()),
	)

	u, err := url.Parse(p.AuthCodeURL("st"))
	require.NoError(t, err)
	require.Equal(t, "st", u.Query().Get("state"))
	require.Equal(t, "cid", u.Query().Get("client_id"))
	require.Equal(t, "openid email profile", u.Query().Get("scope"))

	tok, err := p.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	prof, err := p.Profile(context.Background(), tok)
	require.NoError(t, err)
	require.Equal(t, "g-123", prof.ProviderID)
	require.Equal(t, "a@gmail.com", prof.Email)
	require.True(t, prof.EmailVerified)
	require.Equal(t, "Ali", prof.Name)
}

func TestGoogleUnverifiedEmail(t *testing.T) {
	srv := newServer(t, `{"sub":"g-1","email":"x@corp.example","email_verified":false}`)
	p := New("cid", "secret", "cb", nil,
		WithEndpoint(oauth2.Endpoint{TokenURL: srv.URL + "/token"}, srv.URL+"/userinfo"),
		WithHTTPClient(srv.Client()),
	)
	tok, err := p.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	prof, err := p.Profile(context.Background(), tok)
	require.NoError(t, err)
	require.False(t, prof.EmailVerified)
}
