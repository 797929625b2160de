// Package yandex implementa oauth.Provider para Yandex ID.
package yandex

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/dohkar/dohkar-api/internal/domain/types"
	"github.com/dohkar/dohkar-api/internal/oauth"
)

var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://oauth.yandex.ru/authorize",
	TokenURL:  "https://oauth.yandex.ru/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

const (
	infoURL   = "https://login.yandex.ru/info?format=json"
	avatarFmt = "https://avatars.yandex.net/get-yapic/%s/islands-200"
)

type Provider struct {
	cfg     oauth2.Config
	infoURL string
	http    *http.Client
}

type Option func(*Provider)

func WithEndpoint(e oauth2.Endpoint, info string) Option {
	return func(p *Provider) {
		p.cfg.Endpoint = e
		p.infoURL = info
	}
}

func WithHTTPClient(c *http.Client) Option { return func(p *Provider) { p.http = c } }

func New(clientID, clientSecret, redirectURL string, scopes []string, opts ...Option) *Provider {
	if len(scopes) == 0 {
		scopes = []string{"login:email", "login:info"}
	}
	p := &Provider{
		cfg: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       scopes,
			Endpoint:     Endpoint,
		},
		infoURL: infoURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Provider) Kind() types.AuthProvider { return types.ProviderYandex }

func (p *Provider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

func (p *Provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := p.cfg.Exchange(oauth.WithHTTPClient(ctx, p.http), code)
	if err != nil {
		return nil, fmt.Errorf("%w: yandex: %v", oauth.ErrExchange, err)
	}
	return tok, nil
}

type info struct {
	ID              string   `json:"id"`
	DefaultEmail    string   `json:"default_email"`
	Emails          []string `json:"emails"`
	RealName        string   `json:"real_name"`
	DisplayName     string   `json:"display_name"`
	DefaultAvatarID string   `json:"default_avatar_id"`
	IsAvatarEmpty   bool     `json:"is_avatar_empty"`
}

// Profile usa "Authorization: OAuth <token>". Yandex solo expone correos
// confirmados, así que se marcan como verificados.
func (p *Provider) Profile(ctx context.Context, tok *oauth2.Token) (*oauth.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.infoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "OAuth "+tok.AccessToken)
	var in info
	if err := oauth.FetchJSON(p.http, req, &in); err != nil {
		return nil, err
	}
	if in.ID == "" {
		return nil, fmt.Errorf("%w: yandex: missing id", oauth.ErrProfile)
	}
	email := in.DefaultEmail
	if email == "" && len(in.Emails) > 0 {
		email = in.Emails[0]
	}
	name := in.RealName
	if name == "" {
		name = in.DisplayName
	}
	var avatar string
	if in.DefaultAvatarID != "" && !in.IsAvatarEmpty {
		avatar = fmt.Sprintf(avatarFmt, in.DefaultAvatarID)
	}
	return &oauth.Profile{
		ProviderID:    in.ID,
		Email:         email,
		EmailVerified: email != "",
		Name:          name,
		Avatar:        avatar,
	}, nil
}
