package properties

import (
	"time"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
)

// OwnerResponse son los datos de contacto del dueño.
type OwnerResponse struct {
	ID     string  `json:"id"`
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Email  *string `json:"email,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

type PropertyResponse struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Price       float64              `json:"price"`
	Currency    types.Currency       `json:"currency"`
	Location    string               `json:"location"`
	Region      types.Region         `json:"region"`
	Type        types.PropertyType   `json:"type"`
	Rooms       *int                 `json:"rooms"`
	Area        float64              `json:"area"`
	Description string               `json:"description"`
	Images      []string             `json:"images"`
	Features    []string             `json:"features"`
	Status      types.PropertyStatus `json:"status"`
	Views       int                  `json:"views"`
	UserID      string               `json:"userId"`
	User        *OwnerResponse       `json:"user,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

func FromProperty(p *repository.Property) PropertyResponse {
	out := PropertyResponse{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Currency:    p.Currency,
		Location:    p.Location,
		Region:      p.Region,
		Type:        p.Type,
		Rooms:       p.Rooms,
		Area:        p.Area,
		Description: p.Description,
		Images:      nonNil(p.Images),
		Features:    nonNil(p.Features),
		Status:      p.Status,
		Views:       p.Views,
		UserID:      p.UserID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if o := p.Owner; o != nil {
		out.User = &OwnerResponse{ID: o.ID, Name: o.Name, Phone: o.Phone, Email: o.Email, Avatar: o.Avatar}
	}
	return out
}

func FromProperties(ps []repository.Property) []PropertyResponse {
	out := make([]PropertyResponse, 0, len(ps))
	for i := range ps {
		out = append(out, FromProperty(&ps[i]))
	}
	return out
}

// ListResponse es la página de GET /api/properties.
type ListResponse struct {
	Data       []PropertyResponse `json:"data"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"totalPages"`
}

// TotalPages es ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
