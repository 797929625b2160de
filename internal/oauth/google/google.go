// Package google implementa oauth.Provider para Google (OAuth2 + userinfo).
package google

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/dohkar/dohkar-api/internal/domain/types"
	"github.com/dohkar/dohkar-api/internal/oauth"
)

const userInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

type Provider struct {
	cfg         oauth2.Config
	userInfoURL string
	http        *http.Client
}

// Option ajusta endpoints (tests) o el cliente HTTP.
type Option func(*Provider)

func WithEndpoint(e oauth2.Endpoint, userInfo string) Option {
	return func(p *Provider) {
		p.cfg.Endpoint = e
		p.userInfoURL = userInfo
	}
}

func WithHTTPClient(c *http.Client) Option { return func(p *Provider) { p.http = c } }

func New(clientID, clientSecret, redirectURL string, scopes []string, opts ...Option) *Provider {
	if len(scopes) == 0 {
		scopes = []string{"openid", "email", "profile"}
	}
	p := &Provider{
		cfg: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       scopes,
			Endpoint:     googleoauth.Endpoint,
		},
		userInfoURL: userInfoURL,
		http:        &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Provider) Kind() types.AuthProvider { return types.ProviderGoogle }

func (p *Provider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.SetAuthURLParam("prompt", "select_account"))
}

func (p *Provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := p.cfg.Exchange(oauth.WithHTTPClient(ctx, p.http), code)
	if err != nil {
		return nil, fmt.Errorf("%w: google: %v", oauth.ErrExchange, err)
	}
	return tok, nil
}

type userInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (p *Provider) Profile(ctx context.Context, tok *oauth2.Token) (*oauth.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	tok.SetAuthHeader(req)
	var ui userInfo
	if err := oauth.FetchJSON(p.http, req, &ui); err != nil {
		return nil, err
	}
	if ui.Sub == "" {
		return nil, fmt.Errorf("%w: google: missing sub", oauth.ErrProfile)
	}
	return &oauth.Profile{
		ProviderID:    ui.Sub,
		Email:         ui.Email,
		EmailVerified: ui.Email != "" && ui.EmailVerified,
		Name:          ui.Name,
		Avatar:        ui.Picture,
	}, nil
}
