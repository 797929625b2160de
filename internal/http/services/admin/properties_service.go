package admin

import (
	"context"
	"fmt"

	"github.com/dohkar/dohkar-api/internal/audit"
	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
	dto "github.com/dohkar/dohkar-api/internal/http/dto/admin"
	propdto "github.com/dohkar/dohkar-api/internal/http/dto/properties"
)

// PropertyAdminService modera anuncios de cualquier usuario.
type PropertyAdminService interface {
	List(ctx context.Context, q dto.ListQuery) (*dto.Page[propdto.PropertyResponse], error)
	UpdateStatus(ctx context.Context, actorID, propertyID string, status types.PropertyStatus) (*propdto.PropertyResponse, error)
	Delete(ctx context.Context, actorID, propertyID string) error
}

type propertyAdminService struct {
	props      repository.PropertyRepository
	invalidate invalidator
}

func NewPropertyAdminService(st repository.Store, inv invalidator) PropertyAdminService {
	if inv == nil {
		inv = func(context.Context) {}
	}
	return &propertyAdminService{props: st.Properties(), invalidate: inv}
}

func (s *propertyAdminService) List(ctx context.Context, q dto.ListQuery) (*dto.Page[propdto.PropertyResponse], error) {
	items, total, err := s.props.List(ctx, q.PropertiesFilter())
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	page := dto.NewPage(propdto.FromProperties(items), total, q)
	return &page, nil
}

func (s *propertyAdminService) UpdateStatus(ctx context.Context, actorID, propertyID string, status types.PropertyStatus) (*propdto.PropertyResponse, error) {
	p, err := s.props.SetStatus(ctx, propertyID, status)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("set status: %w", err)
	}
	audit.Log(ctx, audit.EventPropertyStatusSet, actorID, propertyID, map[string]any{"status": status})
	s.invalidate(ctx)
	out := propdto.FromProperty(p)
	return &out, nil
}

func (s *propertyAdminService) Delete(ctx context.Context, actorID, propertyID string) error {
	if err := s.props.Delete(ctx, propertyID); err != nil {
		if repository.IsNotFound(err) {
			return ErrPropertyNotFound
		}
		return fmt.Errorf("delete property: %w", err)
	}
	audit.Log(ctx, audit.EventPropertyDeleted, actorID, propertyID, nil)
	s.invalidate(ctx)
	return nil
}
