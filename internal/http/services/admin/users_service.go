package admin

import (
	"context"
	"fmt"

	"github.com/dohkar/dohkar-api/internal/audit"
	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
	dto "github.com/dohkar/dohkar-api/internal/http/dto/admin"
	"github.com/dohkar/dohkar-api/internal/observability/logger"
)

// UserAdminService administra cuentas.
type UserAdminService interface {
	List(ctx context.Context, q dto.ListQuery) (*dto.Page[dto.UserItem], error)
	UpdateRole(ctx context.Context, actorID, userID string, role types.Role) (*dto.RoleResponse, error)
	Delete(ctx context.Context, actorID, userID string) error
}

type userAdminService struct {
	users      repository.UserRepository
	invalidate invalidator
}

func NewUserAdminService(st repository.Store, inv invalidator) UserAdminService {
	if inv == nil {
		inv = func(context.Context) {}
	}
	return &userAdminService{users: st.Users(), invalidate: inv}
}

func (s *userAdminService) List(ctx context.Context, q dto.ListQuery) (*dto.Page[dto.UserItem], error) {
	items, total, err := s.users.List(ctx, q.UsersFilter())
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	page := dto.NewPage(dto.FromUserItems(items), total, q)
	return &page, nil
}

func (s *userAdminService) UpdateRole(ctx context.Context, actorID, userID string, role types.Role) (*dto.RoleResponse, error) {
	if actorID == userID && role != types.RoleAdmin {
		return nil, ErrSelfAction
	}
	u, err := s.users.SetRole(ctx, userID, role)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("set role: %w", err)
	}
	logger.Service(ctx, "admin.users", "UpdateRole").Info("role changed",
		logger.UserID(userID), logger.Role(string(role)), logger.String("actor_id", actorID))
	audit.Log(ctx, audit.EventUserRoleChanged, actorID, userID, map[string]any{"role": role})
	s.invalidate(ctx)
	out := dto.RoleFromUser(u)
	return &out, nil
}

// Delete borra en cascada anuncios, favoritos y sesiones.
func (s *userAdminService) Delete(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return ErrSelfAction
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if repository.IsNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	logger.Service(ctx, "admin.users", "Delete").Info("user deleted",
		logger.UserID(userID), logger.String("actor_id", actorID))
	audit.Log(ctx, audit.EventUserDeleted, actorID, userID, nil)
	s.invalidate(ctx)
	return nil
}
