// Package bootstrap crea o promueve el primer administrador. Lo usan el
// comando `dohkar admin` y el arranque del servidor cuando ADMIN_PHONE está
// configurado.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
	"github.com/dohkar/dohkar-api/internal/observability/logger"
	"github.com/dohkar/dohkar-api/internal/security/password"
	"github.com/dohkar/dohkar-api/internal/validation"
)

var (
	ErrInvalidPhone = errors.New("bootstrap: invalid phone")
	ErrWeakPassword = errors.New("bootstrap: weak password")
)

// AdminBootstrapConfig contiene lo necesario para crear el admin.
type AdminBootstrapConfig struct {
	Users    repository.UserRepository
	Phone    string
	Password string
	// Params/Policy en cero usan password.Default / password.DefaultPolicy.
	Params password.Params
	Policy password.Policy
}

// EnsureAdmin deja un usuario ADMIN con ese teléfono. Si el usuario ya
// existe se promueve y, si no tenía contraseña, se le asigna. Es idempotente.
func EnsureAdmin(ctx context.Context, cfg AdminBootstrapConfig) (u *repository.User, created bool, err error) {
	log := logger.Service(ctx, "bootstrap", "EnsureAdmin")

	phone, ok := validation.NormalizePhone(cfg.Phone)
	if !ok {
		return nil, false, ErrInvalidPhone
	}
	params, policy := cfg.Params, cfg.Policy
	if params == (password.Params{}) {
		params = password.Default
	}
	if policy.MinLength == 0 {
		policy = password.DefaultPolicy
	}

	existing, err := cfg.Users.GetByPhone(ctx, phone)
	switch {
	case err == nil:
		if existing.PasswordHash == nil || *existing.PasswordHash == "" {
			hash, err := hashValid(params, policy, cfg.Password)
			if err != nil {
				return nil, false, err
			}
			if err := cfg.Users.SetPasswordHash(ctx, existing.ID, hash); err != nil {
				return nil, false, fmt.Errorf("bootstrap: set password: %w", err)
			}
		}
		if existing.Role == types.RoleAdmin {
			return existing, false, nil
		}
		u, err := cfg.Users.SetRole(ctx, existing.ID, types.RoleAdmin)
		if err != nil {
			return nil, false, fmt.Errorf("bootstrap: promote: %w", err)
		}
		log.Info("existing user promoted to admin", logger.UserID(u.ID))
		return u, false, nil

	case !errors.Is(err, repository.ErrNotFound):
		return nil, false, fmt.Errorf("bootstrap: lookup: %w", err)
	}

	hash, err := hashValid(params, policy, cfg.Password)
	if err != nil {
		return nil, false, err
	}
	u, err = cfg.Users.Create(ctx, repository.CreateUserInput{
		Phone:        &phone,
		PasswordHash: &hash,
		Role:         types.RoleAdmin,
	})
	if err != nil {
		return nil, false, fmt.Errorf("bootstrap: create admin: %w", err)
	}
	log.Info("admin created", logger.UserID(u.ID), logger.Phone(phone))
	return u, true, nil
}

// Promote convierte en ADMIN al usuario id.
func Promote(ctx context.Context, users repository.UserRepository, id string) (*repository.User, error) {
	u, err := users.SetRole(ctx, strings.TrimSpace(id), types.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: promote %s: %w", id, err)
	}
	return u, nil
}

func hashValid(params password.Params, policy password.Policy, plain string) (string, error) {
	if ok, reasons := policy.Validate(plain); !ok {
		return "", fmt.Errorf("%w: %s", ErrWeakPassword, strings.Join(reasons, ","))
	}
	return password.Hash(params, plain)
}
