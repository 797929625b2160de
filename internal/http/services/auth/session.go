package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dohkar/dohkar-api/internal/audit"
	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
	dto "github.com/dohkar/dohkar-api/internal/http/dto/auth"
	jwtx "github.com/dohkar/dohkar-api/internal/jwt"
	"github.com/dohkar/dohkar-api/internal/metrics"
	"github.com/dohkar/dohkar-api/internal/oauth"
	"github.com/dohkar/dohkar-api/internal/observability/logger"
)

const DefaultStateTTL = 10 * time.Minute

// Session es la fachada que consumen los controllers de /api/auth.
type Session interface {
	SendCode(ctx context.Context, phone, ip string) error
	VerifyCode(ctx context.Context, phone, code string) (*dto.AuthResponse, error)
	RegisterWithPassword(ctx context.Context, phone, password string) (*dto.AuthResponse, error)
	LoginWithPassword(ctx context.Context, phone, password string) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error)
	Logout(ctx context.Context, userID string) error
	// OAuthURL devuelve la URL de consentimiento con un state firmado.
	OAuthURL(ctx context.Context, provider string) (string, error)
	OAuthLogin(ctx context.Context, provider, code, state string) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID string) (*dto.AuthUser, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	// CodeWindow se usa como Retry-After cuando SendCode está limitado.
	CodeWindow() time.Duration
}

type session struct {
	users     repository.UserRepository
	otp       *OTPService
	tokens    *TokenService
	identity  *IdentityService
	passwords *PasswordService
	issuer    *jwtx.Issuer
	providers *oauth.Registry
	guard     *CodeRateGuard
	stateTTL  time.Duration
}

// NewSession arma la fachada a partir de Deps.
func NewSession(d Deps) Session {
	now := d.now()
	guard := NewCodeRateGuard(d.Store.Codes(), d.Config.RateGuard, now)
	providers := d.OAuth
	if providers == nil {
		providers = oauth.NewRegistry()
	}
	stateTTL := d.Config.StateTTL
	if stateTTL <= 0 {
		stateTTL = DefaultStateTTL
	}
	return &session{
		users:     d.Store.Users(),
		otp:       NewOTPService(d.Store, guard, d.SMS, d.Config.OTP, now),
		tokens:    NewTokenService(d.Issuer, d.Store.Tokens(), now),
		identity:  NewIdentityService(d.Store.Users(), d.Config.LinkUnverifiedEmail),
		passwords: NewPasswordService(d.Store.Users(), d.PasswordParams, d.PasswordPolicy),
		issuer:    d.Issuer,
		providers: providers,
		guard:     guard,
		stateTTL:  stateTTL,
	}
}

func (s *session) CodeWindow() time.Duration { return s.guard.Window() }

func (s *session) respond(ctx context.Context, u *repository.User, method string) (*dto.AuthResponse, error) {
	pair, err := s.tokens.Generate(ctx, u.ID)
	if err != nil {
		metrics.AuthLogins.WithLabelValues(method, "fail").Inc()
		return nil, err
	}
	metrics.AuthLogins.WithLabelValues(method, "ok").Inc()
	audit.Log(ctx, audit.EventLogin, u.ID, u.ID, map[string]any{"method": method})
	return &dto.AuthResponse{TokenPair: *pair, User: dto.FromUser(u)}, nil
}

func (s *session) fail(method string, err error) error {
	metrics.AuthLogins.WithLabelValues(method, "fail").Inc()
	return err
}

func (s *session) SendCode(ctx context.Context, phone, ip string) error {
	return s.otp.SendCode(ctx, phone, ip)
}

func (s *session) VerifyCode(ctx context.Context, phone, code string) (*dto.AuthResponse, error) {
	u, created, err := s.otp.VerifyCode(ctx, phone, code)
	if err != nil {
		return nil, s.fail("otp", err)
	}
	if created {
		logger.Service(ctx, "auth.session", "VerifyCode").Info("user created by phone", logger.UserID(u.ID))
	}
	return s.respond(ctx, u, "otp")
}

func (s *session) RegisterWithPassword(ctx context.Context, phone, password string) (*dto.AuthResponse, error) {
	u, err := s.passwords.Register(ctx, phone, password)
	if err != nil {
		return nil, s.fail("register", err)
	}
	return s.respond(ctx, u, "register")
}

func (s *session) LoginWithPassword(ctx context.Context, phone, password string) (*dto.AuthResponse, error) {
	u, err := s.passwords.Login(ctx, phone, password)
	if err != nil {
		return nil, s.fail("password", err)
	}
	return s.respond(ctx, u, "password")
}

func (s *session) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	pair, userID, err := s.tokens.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, s.fail("refresh", err)
	}
	metrics.AuthLogins.WithLabelValues("refresh", "ok").Inc()
	logger.Service(ctx, "auth.session", "Refresh").Debug("refresh rotated", logger.UserID(userID))
	return pair, nil
}

func (s *session) Logout(ctx context.Context, userID string) error {
	if err := s.tokens.Logout(ctx, userID); err != nil {
		return err
	}
	audit.Log(ctx, audit.EventLogout, userID, userID, nil)
	return nil
}

func (s *session) provider(slug string) (oauth.Provider, error) {
	kind, ok := types.ParseOAuthProvider(slug)
	if !ok {
		return nil, ErrProviderDisabled
	}
	p, ok := s.providers.Get(kind)
	if !ok {
		return nil, ErrProviderDisabled
	}
	return p, nil
}

func (s *session) OAuthURL(_ context.Context, slug string) (string, error) {
	p, err := s.provider(slug)
	if err != nil {
		return "", err
	}
	state, err := s.issuer.SignState(p.Kind().Slug(), s.stateTTL)
	if err != nil {
		return "", err
	}
	return p.AuthCodeURL(state), nil
}

func (s *session) OAuthLogin(ctx context.Context, slug, code, state string) (*dto.AuthResponse, error) {
	p, err := s.provider(slug)
	if err != nil {
		return nil, err
	}
	method := "oauth_" + p.Kind().Slug()
	log := logger.Service(ctx, "auth.session", "OAuthLogin").With(logger.Provider(p.Kind().Slug()))

	if err := s.issuer.VerifyState(state, p.Kind().Slug()); err != nil {
		return nil, s.fail(method, ErrInvalidState)
	}
	if code == "" {
		return nil, s.fail(method, ErrOAuthFailed)
	}
	tok, err := p.Exchange(ctx, code)
	if err != nil {
		log.Warn("oauth exchange failed", logger.Err(err))
		return nil, s.fail(method, ErrOAuthFailed)
	}
	profile, err := p.Profile(ctx, tok)
	if err != nil || profile.ProviderID == "" {
		log.Warn("oauth profile failed", logger.Err(err))
		return nil, s.fail(method, ErrOAuthFailed)
	}
	u, linked, err := s.identity.Resolve(ctx, p.Kind(), profile)
	if err != nil {
		return nil, s.fail(method, err)
	}
	if linked {
		audit.Log(ctx, audit.EventIdentityLinked, u.ID, u.ID, map[string]any{"provider": p.Kind().Slug()})
	}
	return s.respond(ctx, u, method)
}

func (s *session) Me(ctx context.Context, userID string) (*dto.AuthUser, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return dto.FromUser(u), nil
}

// ChangePassword cierra todas las sesiones después de guardar el hash.
func (s *session) ChangePassword(ctx context.Context, userID, current, next string) error {
	if err := s.passwords.Change(ctx, userID, current, next); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Service(ctx, "auth.session", "ChangePassword").Info("current password mismatch", logger.UserID(userID))
		}
		return err
	}
	n, err := s.tokens.RevokeAll(ctx, userID)
	if err != nil {
		return err
	}
	audit.Log(ctx, audit.EventPasswordChanged, userID, userID, map[string]any{"revoked": n})
	return nil
}
