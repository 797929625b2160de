package yandex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestYandexProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "cid", r.PostForm.Get("client_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"ya-at","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/info", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "OAuth ya-at", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"1000","emails":["m@yandex.ru"],"display_name":"magomed","default_avatar_id":"131652443","is_avatar_empty":false}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := New("cid", "secret", "cb", nil,
		WithEndpoint(oauth2.Endpoint{TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInParams}, srv.URL+"/info"),
		WithHTTPClient(srv.Client()),
	)
	tok, err := p.Exchange(context.Background(), "code")
	require.NoError(t, err)
	prof, err := p.Profile(context.Background(), tok)
	require.NoError(t, err)
	require.Equal(t, "1000", prof.ProviderID)
	require.Equal(t, "m@yandex.ru", prof.Email)
	require.True(t, prof.EmailVerified)
	require.Equal(t, "magomed", prof.Name)
	require.Equal(t, "https://avatars.yandex.net/get-yapic/131652443/islands-200", prof.Avatar)
}

func TestYandexExchangeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	p := New("cid", "secret", "cb", nil,
		WithEndpoint(oauth2.Endpoint{TokenURL: srv.URL, AuthStyle: oauth2.AuthStyleInParams}, srv.URL),
		WithHTTPClient(srv.Client()),
	)
	_, err := p.Exchange(context.Background(), "bad")
	require.Error(t, err)
}
