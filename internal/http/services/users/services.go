// Package users contiene el service de perfiles.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	dto "github.com/dohkar/dohkar-api/internal/http/dto/users"
	"github.com/dohkar/dohkar-api/internal/observability/logger"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrPhoneTaken   = errors.New("phone already in use")
)

// UserService define las operaciones de /api/users.
type UserService interface {
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateMe(ctx context.Context, userID string, in repository.UpdateProfileInput) (*dto.UserResponse, error)
	GetPublic(ctx context.Context, id string) (*dto.PublicUser, error)
}

// Deps contiene las dependencias del dominio users.
type Deps struct {
	Store repository.Store
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(d Deps) UserService {
	return &userService{users: d.Store.Users()}
}

func (s *userService) get(ctx context.Context, id string) (*repository.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *userService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	u, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := dto.FromUser(u)
	return &out, nil
}

func (s *userService) UpdateMe(ctx context.Context, userID string, in repository.UpdateProfileInput) (*dto.UserResponse, error) {
	u, err := s.users.UpdateProfile(ctx, userID, in)
	switch {
	case repository.IsNotFound(err):
		return nil, ErrUserNotFound
	case repository.IsConflict(err):
		return nil, ErrPhoneTaken
	case err != nil:
		return nil, fmt.Errorf("update profile: %w", err)
	}
	logger.Service(ctx, "users", "UpdateMe").Debug("profile updated", logger.UserID(userID))
	out := dto.FromUser(u)
	return &out, nil
}

func (s *userService) GetPublic(ctx context.Context, id string) (*dto.PublicUser, error) {
	u, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.PublicFromUser(u)
	return &out, nil
}

// Services agrupa los services del dominio users.
type Services struct {
	Users UserService
}

func NewServices(d Deps) Services {
	return Services{Users: NewUserService(d)}
}
