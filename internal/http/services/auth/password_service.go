package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/security/password"
)

// PasswordService cubre registro, login y cambio de contraseña por teléfono.
type PasswordService struct {
	users  repository.UserRepository
	params password.Params
	policy password.Policy
}

// Params o Policy en cero toman los defaults del paquete password.
func NewPasswordService(users repository.UserRepository, params password.Params, policy password.Policy) *PasswordService {
	if params.KeyLen == 0 {
		params = password.Default
	}
	if policy.MinLength == 0 && policy.MaxLength == 0 {
		policy.MinLength, policy.MaxLength = password.DefaultPolicy.MinLength, password.DefaultPolicy.MaxLength
	}
	return &PasswordService{users: users, params: params, policy: policy}
}

func (s *PasswordService) checkPolicy(pwd string) error {
	if ok, reasons := s.policy.Validate(pwd); !ok {
		return fmt.Errorf("%w: %s", ErrWeakPassword, strings.Join(reasons, ","))
	}
	return nil
}

func (s *PasswordService) Register(ctx context.Context, phone, pwd string) (*repository.User, error) {
	if err := s.checkPolicy(pwd); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByPhone(ctx, phone); err == nil {
		return nil, ErrPhoneTaken
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("get by phone: %w", err)
	}
	hash, err := password.Hash(s.params, pwd)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.Create(ctx, repository.CreateUserInput{Phone: &phone, PasswordHash: &hash})
	if repository.IsConflict(err) {
		return nil, ErrPhoneTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login no distingue "no existe" de "contraseña incorrecta".
func (s *PasswordService) Login(ctx context.Context, phone, pwd string) (*repository.User, error) {
	u, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get by phone: %w", err)
	}
	if !u.HasPassword() || !password.Verify(pwd, *u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Change verifica la actual y guarda el hash nuevo. Revocar sesiones
// queda a cargo del llamador.
func (s *PasswordService) Change(ctx context.Context, userID, current, next string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}
	if !u.HasPassword() || !password.Verify(current, *u.PasswordHash) {
		return ErrInvalidCredentials
	}
	if err := s.checkPolicy(next); err != nil {
		return err
	}
	hash, err := password.Hash(s.params, next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.SetPasswordHash(ctx, userID, hash)
}
