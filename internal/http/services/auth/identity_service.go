package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
	"github.com/dohkar/dohkar-api/internal/oauth"
	"github.com/dohkar/dohkar-api/internal/observability/logger"
)

// IdentityService resuelve un perfil OAuth a un usuario local.
type IdentityService struct {
	users               repository.UserRepository
	linkUnverifiedEmail bool
}

func NewIdentityService(users repository.UserRepository, linkUnverifiedEmail bool) *IdentityService {
	return &IdentityService{users: users, linkUnverifiedEmail: linkUnverifiedEmail}
}

// Resolve busca por (provider, providerID); si no, por email verificado
// (y vincula); si no, crea el usuario. linked indica si hubo vinculación.
func (s *IdentityService) Resolve(ctx context.Context, provider types.AuthProvider, p *oauth.Profile) (u *repository.User, linked bool, err error) {
	log := logger.Service(ctx, "auth.identity", "Resolve").With(logger.Provider(provider.Slug()))

	u, err = s.users.GetByProvider(ctx, provider, p.ProviderID)
	if err == nil {
		return u, false, nil
	}
	if !repository.IsNotFound(err) {
		return nil, false, fmt.Errorf("get by provider: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email != "" {
		existing, err := s.users.GetByEmail(ctx, email)
		switch {
		case err == nil:
			if !p.EmailVerified && !s.linkUnverifiedEmail {
				log.Info("refusing to link unverified email", logger.UserID(existing.ID), logger.Email(email))
				return nil, false, ErrEmailNotVerified
			}
			u, err := s.users.LinkProvider(ctx, existing.ID, provider, p.ProviderID)
			if err != nil {
				return nil, false, fmt.Errorf("link provider: %w", err)
			}
			log.Info("provider linked by email", logger.UserID(u.ID), logger.Email(email))
			return u, true, nil
		case !repository.IsNotFound(err):
			return nil, false, fmt.Errorf("get by email: %w", err)
		}
	}

	in := repository.CreateUserInput{
		Provider:   provider,
		ProviderID: &p.ProviderID,
	}
	if email != "" {
		in.Email = &email
	}
	if n := strings.TrimSpace(p.Name); n != "" {
		in.Name = &n
	}
	if a := strings.TrimSpace(p.Avatar); a != "" {
		in.Avatar = &a
	}
	u, err = s.users.Create(ctx, in)
	if repository.IsConflict(err) {
		// carrera con otro callback del mismo perfil
		u, err = s.users.GetByProvider(ctx, provider, p.ProviderID)
	}
	if err != nil {
		return nil, false, fmt.Errorf("create oauth user: %w", err)
	}
	log.Info("oauth user created", logger.UserID(u.ID), logger.Email(email))
	return u, false, nil
}
