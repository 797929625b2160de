// Package properties contiene el service de anuncios.
package properties

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
	dto "github.com/dohkar/dohkar-api/internal/http/dto/properties"
	"github.com/dohkar/dohkar-api/internal/observability/logger"
	"github.com/dohkar/dohkar-api/internal/storage/s3"
)

// SearchLimit acota GET /properties/search.
const SearchLimit = 50

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrNotOwner         = errors.New("not the property owner")
	ErrUploadsDisabled  = errors.New("uploads not configured")
	ErrUnsupportedImage = errors.New("unsupported image type")
)

// Uploader firma subidas directas de imágenes (storage/s3.Presigner).
type Uploader interface {
	PresignImage(ctx context.Context, userID, contentType string) (*s3.Upload, error)
}

// PropertyService define las operaciones de /api/properties.
type PropertyService interface {
	List(ctx context.Context, q dto.PropertyQuery) (*dto.ListResponse, error)
	Search(ctx context.Context, query string) ([]dto.PropertyResponse, error)
	// Get suma una vista en la misma sentencia que lee el anuncio.
	Get(ctx context.Context, id string) (*dto.PropertyResponse, error)
	Create(ctx context.Context, userID string, in repository.PropertyInput) (*dto.PropertyResponse, error)
	Update(ctx context.Context, userID, id string, patch repository.PropertyPatch) (*dto.PropertyResponse, error)
	Delete(ctx context.Context, userID, id string) error
	PresignUpload(ctx context.Context, userID, contentType string) (*s3.Upload, error)
}

// Deps contiene las dependencias del dominio properties. Uploader nil
// deshabilita las subidas.
type Deps struct {
	Store    repository.Store
	Uploader Uploader
}

type propertyService struct {
	repo     repository.PropertyRepository
	uploader Uploader
}

func NewPropertyService(d Deps) PropertyService {
	return &propertyService{repo: d.Store.Properties(), uploader: d.Uploader}
}

func (s *propertyService) List(ctx context.Context, q dto.PropertyQuery) (*dto.ListResponse, error) {
	items, total, err := s.repo.List(ctx, q.Filter())
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return &dto.ListResponse{
		Data:       dto.FromProperties(items),
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: dto.TotalPages(total, q.Limit),
	}, nil
}

func (s *propertyService) Search(ctx context.Context, query string) ([]dto.PropertyResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []dto.PropertyResponse{}, nil
	}
	active := types.StatusActive
	items, _, err := s.repo.List(ctx, repository.PropertyFilter{
		Status: &active,
		Query:  query,
		Sort:   repository.SortDateDesc,
		Limit:  SearchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}
	return dto.FromProperties(items), nil
}

func (s *propertyService) Get(ctx context.Context, id string) (*dto.PropertyResponse, error) {
	p, err := s.repo.IncrementViews(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	out := dto.FromProperty(p)
	return &out, nil
}

func (s *propertyService) Create(ctx context.Context, userID string, in repository.PropertyInput) (*dto.PropertyResponse, error) {
	p, err := s.repo.Create(ctx, userID, in)
	if err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}
	logger.Service(ctx, "properties", "Create").Info("property created",
		logger.UserID(userID), logger.PropertyID(p.ID))
	out := dto.FromProperty(p)
	return &out, nil
}

// owned devuelve ErrPropertyNotFound antes que ErrNotOwner.
func (s *propertyService) owned(ctx context.Context, userID, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrPropertyNotFound
		}
		return fmt.Errorf("get property: %w", err)
	}
	if p.UserID != userID {
		return ErrNotOwner
	}
	return nil
}

func (s *propertyService) Update(ctx context.Context, userID, id string, patch repository.PropertyPatch) (*dto.PropertyResponse, error) {
	if err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	p, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("update property: %w", err)
	}
	out := dto.FromProperty(p)
	return &out, nil
}

func (s *propertyService) Delete(ctx context.Context, userID, id string) error {
	if err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrPropertyNotFound
		}
		return fmt.Errorf("delete property: %w", err)
	}
	logger.Service(ctx, "properties", "Delete").Info("property deleted",
		logger.UserID(userID), logger.PropertyID(id))
	return nil
}

func (s *propertyService) PresignUpload(ctx context.Context, userID, contentType string) (*s3.Upload, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}
	up, err := s.uploader.PresignImage(ctx, userID, contentType)
	switch {
	case errors.Is(err, s3.ErrUnsupportedType):
		return nil, ErrUnsupportedImage
	case errors.Is(err, s3.ErrNotConfigured):
		return nil, ErrUploadsDisabled
	case err != nil:
		return nil, err
	}
	return up, nil
}

// Services agrupa los services del dominio properties.
type Services struct {
	Properties PropertyService
}

func NewServices(d Deps) Services {
	return Services{Properties: NewPropertyService(d)}
}
