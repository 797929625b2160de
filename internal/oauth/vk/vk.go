// Package vk implementa oauth.Provider para VK (oauth.vk.com + users.get).
package vk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/dohkar/dohkar-api/internal/domain/types"
	"github.com/dohkar/dohkar-api/internal/oauth"
)

var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://oauth.vk.com/authorize",
	TokenURL:  "https://oauth.vk.com/access_token",
	AuthStyle: oauth2.AuthStyleInParams,
}

const (
	usersGetURL = "https://api.vk.com/method/users.get"
	apiVersion  = "5.199"
)

type Provider struct {
	cfg      oauth2.Config
	usersURL string
	http     *http.Client
}

type Option func(*Provider)

func WithEndpoint(e oauth2.Endpoint, usersGet string) Option {
	return func(p *Provider) {
		p.cfg.Endpoint = e
		p.usersURL = usersGet
	}
}

func WithHTTPClient(c *http.Client) Option { return func(p *Provider) { p.http = c } }

func New(clientID, clientSecret, redirectURL string, scopes []string, opts ...Option) *Provider {
	if len(scopes) == 0 {
		scopes = []string{"email"}
	}
	p := &Provider{
		cfg: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       scopes,
			Endpoint:     Endpoint,
		},
		usersURL: usersGetURL,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Provider) Kind() types.AuthProvider { return types.ProviderVK }

func (p *Provider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("v", apiVersion))
}

func (p *Provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := p.cfg.Exchange(oauth.WithHTTPClient(ctx, p.http), code)
	if err != nil {
		return nil, fmt.Errorf("%w: vk: %v", oauth.ErrExchange, err)
	}
	return tok, nil
}

type usersGetResponse struct {
	Response []struct {
		ID        int64  `json:"id"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Photo200  string `json:"photo_200"`
	} `json:"response"`
	Error *struct {
		Code int    `json:"error_code"`
		Msg  string `json:"error_msg"`
	} `json:"error"`
}

// Profile: VK entrega email y user_id en la respuesta del token (extra), no
// en users.get. Solo devuelve correos confirmados.
func (p *Provider) Profile(ctx context.Context, tok *oauth2.Token) (*oauth.Profile, error) {
	q := url.Values{}
	q.Set("fields", "photo_200")
	q.Set("v", apiVersion)
	q.Set("access_token", tok.AccessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.usersURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var out usersGetResponse
	if err := oauth.FetchJSON(p.http, req, &out); err != nil {
		return nil, err
	}
	if out.Error != nil {
		return nil, fmt.Errorf("%w: vk: %d %s", oauth.ErrProfile, out.Error.Code, out.Error.Msg)
	}

	prof := &oauth.Profile{}
	if len(out.Response) > 0 {
		u := out.Response[0]
		prof.ProviderID = strconv.FormatInt(u.ID, 10)
		prof.Name = strings.TrimSpace(u.FirstName + " " + u.LastName)
		prof.Avatar = u.Photo200
	}
	if prof.ProviderID == "" || prof.ProviderID == "0" {
		prof.ProviderID = extraString(tok, "user_id")
	}
	if prof.ProviderID == "" {
		return nil, fmt.Errorf("%w: vk: missing user id", oauth.ErrProfile)
	}
	prof.Email = extraString(tok, "email")
	prof.EmailVerified = prof.Email != ""
	return prof, nil
}

// extraString lee un campo extra del token; VK manda user_id como número.
func extraString(tok *oauth2.Token, key string) string {
	switch v := tok.Extra(key).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
