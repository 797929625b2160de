package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	httperrors "github.com/dohkar/dohkar-api/internal/http/errors"
)

func TestReadJSON(t *testing.T) {
	var body struct {
		Phone string `json:"phone"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"phone":"+79991234567","extra":1}`))
	req.Header.Set("Content-Type", "application/json")
	require.NoError(t, ReadJSON(httptest.NewRecorder(), req, &body))
	require.Equal(t, "+79991234567", body.Phone)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	err := ReadJSON(httptest.NewRecorder(), req, &body)
	require.Equal(t, "invalid_json", httperrors.FromError(err).Code)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	err = ReadJSON(httptest.NewRecorder(), req, &body)
	require.Equal(t, "bad_request", httperrors.FromError(err).Code)
}

func TestWriteData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteData(rec, http.StatusCreated, Message{Message: "ok"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "success", got["status"])
	require.Equal(t, "ok", got["data"].(map[string]any)["message"])
}

func TestClientIP_IgnoresHeadersWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	require.Equal(t, "10.0.0.9", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	require.Equal(t, "10.0.0.9", ClientIP(req))

	req = req.WithContext(WithClientIP(req.Context(), "203.0.113.5"))
	require.Equal(t, "203.0.113.5", ClientIP(req))
}

func TestResolveClientIP(t *testing.T) {
	tp, err := ParseTrustedProxies([]string{"10.0.0.0/8", " 192.168.1.10 ", ""})
	require.NoError(t, err)

	cases := []struct {
		name   string
		remote string
		xff    string
		xreal  string
		want   string
	}{
		{"untrusted peer ignores xff", "198.51.100.20:5000", "203.0.113.5", "", "198.51.100.20"},
		{"untrusted peer ignores x-real-ip", "198.51.100.20:5000", "", "203.0.113.5", "198.51.100.20"},
		{"trusted peer uses first untrusted hop", "10.0.0.9:80", "1.2.3.4, 203.0.113.5, 10.0.0.7", "", "203.0.113.5"},
		{"trusted single proxy", "192.168.1.10:80", "203.0.113.5", "", "203.0.113.5"},
		{"trusted peer x-real-ip", "10.0.0.9:80", "", "203.0.113.9", "203.0.113.9"},
		{"garbage hop stops walk", "10.0.0.9:80", "203.0.113.5, nope", "", "10.0.0.9"},
		{"all hops trusted", "10.0.0.9:80", "10.1.1.1, 10.2.2.2", "", "10.1.1.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.xreal != "" {
				req.Header.Set("X-Real-IP", tc.xreal)
			}
			require.Equal(t, tc.want, ResolveClientIP(req, tp))
		})
	}

	_, err = ParseTrustedProxies([]string{"10.0.0.0/99"})
	require.Error(t, err)
	_, err = ParseTrustedProxies([]string{"proxy.local"})
	require.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Empty(t, BearerToken(req))
	req.Header.Set("Authorization", "bearer abc.def")
	require.Equal(t, "abc.def", BearerToken(req))
	req.Header.Set("Authorization", "Basic xyz")
	require.Empty(t, BearerToken(req))
}

func TestAuthCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	SetAuthCookies(rec, CookieOptions{Secure: true}, "a", "r", 15*time.Minute, 7*24*time.Hour)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, c := range cookies {
		require.True(t, c.HttpOnly)
		require.True(t, c.Secure)
		require.Equal(t, http.SameSiteLaxMode, c.SameSite)
	}
	require.Equal(t, 900, cookies[0].MaxAge)
	require.Equal(t, 604800, cookies[1].MaxAge)
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=2&limit=x", nil)
	v, ok := QueryInt(req, "page")
	require.True(t, ok)
	require.Equal(t, 2, *v)
	_, ok = QueryInt(req, "limit")
	require.False(t, ok)
	v, ok = QueryInt(req, "rooms")
	require.True(t, ok)
	require.Nil(t, v)
}
