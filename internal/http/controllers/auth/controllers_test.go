package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	dto "github.com/dohkar/dohkar-api/internal/http/dto/auth"
	"github.com/dohkar/dohkar-api/internal/http/helpers"
	mw "github.com/dohkar/dohkar-api/internal/http/middlewares"
	svc "github.com/dohkar/dohkar-api/internal/http/services/auth"
)

type fakeSession struct {
	svc.Session

	sendErr    error
	refreshErr error
	loginErr   error
	gotRefresh string
	gotIPs     []string
}

func (f *fakeSession) SendCode(_ context.Context, _ string, ip string) error {
	f.gotIPs = append(f.gotIPs, ip)
	return f.sendErr
}
func (f *fakeSession) CodeWindow() time.Duration { return 10 * time.Minute }

func (f *fakeSession) Refresh(_ context.Context, token string) (*dto.TokenPair, error) {
	f.gotRefresh = token
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return &dto.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh", ExpiresIn: 900}, nil
}

func (f *fakeSession) OAuthLogin(context.Context, string, string, string) (*dto.AuthResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &dto.AuthResponse{
		TokenPair: dto.TokenPair{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900},
		User:      &dto.AuthUser{ID: "u1"},
	}, nil
}

func testConfig() Config {
	return Config{
		AccessTTL:   15 * time.Minute,
		RefreshTTL:  time.Hour,
		FrontendURL: "https://dohkar.ru/",
	}
}

func cookiesByName(res *http.Response) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range res.Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestSendCode_RateLimitedSetsRetryAfter(t *testing.T) {
	c := NewCodeController(&fakeSession{sendErr: svc.ErrTooManyAttempts})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/send-code", strings.NewReader(`{"phone":"+79991234567"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c.SendCode(rec, req)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "600", rec.Header().Get("Retry-After"))
}

func TestSendCode_UntrustedPeerCannotSpoofOrigin(t *testing.T) {
	f := &fakeSession{}
	c := NewCodeController(f)
	trusted, err := helpers.ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)
	h := mw.ChainFunc(c.SendCode, mw.WithClientIP(trusted))

	for i, xff := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/send-code", strings.NewReader(`{"phone":"+7999123456`+string(rune('0'+i))+`"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", xff)
		req.RemoteAddr = "198.51.100.20:4000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	require.Equal(t, []string{"198.51.100.20", "198.51.100.20"}, f.gotIPs)

	// detrás del proxy confiable sí cuenta el cliente real
	req := httptest.NewRequest(http.MethodPost, "/api/auth/send-code", strings.NewReader(`{"phone":"+79991234569"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.3")
	req.RemoteAddr = "10.0.0.5:4000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "203.0.113.3", f.gotIPs[2])
}

func TestRefresh_FromCookieRotatesCookies(t *testing.T) {
	f := &fakeSession{}
	c := NewSessionController(f, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: helpers.RefreshCookie, Value: "old-refresh"})
	rec := httptest.NewRecorder()
	c.Refresh(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "old-refresh", f.gotRefresh)
	ck := cookiesByName(rec.Result())
	require.Equal(t, "new-access", ck[helpers.AccessCookie].Value)
	require.Equal(t, "new-refresh", ck[helpers.RefreshCookie].Value)
	require.True(t, ck[helpers.RefreshCookie].HttpOnly)
}

func TestRefresh_BodyWinsAndNoCookies(t *testing.T) {
	f := &fakeSession{}
	c := NewSessionController(f, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", strings.NewReader(`{"refreshToken":"from-body"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: helpers.RefreshCookie, Value: "from-cookie"})
	rec := httptest.NewRecorder()
	c.Refresh(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "from-body", f.gotRefresh)
	require.Empty(t, rec.Result().Cookies())
}

func TestRefresh_InvalidCookieClearsCookies(t *testing.T) {
	c := NewSessionController(&fakeSession{refreshErr: svc.ErrInvalidRefresh}, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: helpers.RefreshCookie, Value: "stale"})
	rec := httptest.NewRecorder()
	c.Refresh(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	ck := cookiesByName(rec.Result())
	require.Equal(t, -1, ck[helpers.RefreshCookie].MaxAge)
	require.Equal(t, -1, ck[helpers.AccessCookie].MaxAge)
}

func TestRefresh_MissingToken(t *testing.T) {
	c := NewSessionController(&fakeSession{}, testConfig())
	rec := httptest.NewRecorder()
	c.Refresh(rec, httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOAuthCallback_ProviderErrorRedirects(t *testing.T) {
	cfg := testConfig()
	cfg.OAuthRedirect = true
	c := NewOAuthController(&fakeSession{}, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?error=access_denied", nil)
	req.SetPathValue("provider", "google")
	rec := httptest.NewRecorder()
	c.Callback(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "https://dohkar.ru/auth/callback?error=oauth_failed", rec.Header().Get("Location"))
}

func TestOAuthCallback_SuccessRedirectSetsCookies(t *testing.T) {
	cfg := testConfig()
	cfg.OAuthRedirect = true
	c := NewOAuthController(&fakeSession{}, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/yandex/callback?code=c&state=s", nil)
	req.SetPathValue("provider", "yandex")
	rec := httptest.NewRecorder()
	c.Callback(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "https://dohkar.ru/auth/callback", rec.Header().Get("Location"))
	ck := cookiesByName(rec.Result())
	require.Equal(t, "a", ck[helpers.AccessCookie].Value)
	require.Equal(t, "r", ck[helpers.RefreshCookie].Value)
}

func TestOAuthCallback_JSONModeMapsErrors(t *testing.T) {
	c := NewOAuthController(&fakeSession{loginErr: svc.ErrInvalidState}, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/vk/callback?code=c&state=bad", nil)
	req.SetPathValue("provider", "vk")
	rec := httptest.NewRecorder()
	c.Callback(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid_state")
}
