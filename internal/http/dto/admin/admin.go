// Package admin contiene los DTOs de /api/admin.
package admin

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
	"github.com/dohkar/dohkar-api/internal/http/dto/properties"
	"github.com/dohkar/dohkar-api/internal/validation"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery: ?page&limit&search (+status&type en propiedades).
type ListQuery struct {
	Page   int
	Limit  int
	Search string
	Status *types.PropertyStatus
	Type   *types.PropertyType
}

func ParseListQuery(v url.Values) (ListQuery, error) {
	errs := validation.Errors{}
	q := ListQuery{Page: 1, Limit: DefaultLimit, Search: strings.TrimSpace(v.Get("search"))}
	if s := v.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			errs.Add("page", "must be a positive integer")
		}
		q.Page = n
	}
	if s := v.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > MaxLimit {
			errs.Add("limit", "must be between 1 and 100")
		}
		q.Limit = n
	}
	if s := v.Get("status"); s != "" {
		st := types.PropertyStatus(strings.ToUpper(s))
		if !st.IsValid() {
			errs.Add("status", "is invalid")
		}
		q.Status = &st
	}
	if s := v.Get("type"); s != "" {
		t := types.PropertyType(strings.ToUpper(s))
		if !t.IsValid() {
			errs.Add("type", "is invalid")
		}
		q.Type = &t
	}
	if err := errs.Err(); err != nil {
		return ListQuery{}, err
	}
	return q, nil
}

func (q ListQuery) UsersFilter() repository.ListUsersFilter {
	return repository.ListUsersFilter{Page: q.Page, Limit: q.Limit, Search: q.Search}
}

func (q ListQuery) PropertiesFilter() repository.PropertyFilter {
	return repository.PropertyFilter{
		Status: q.Status,
		Type:   q.Type,
		Search: q.Search,
		Sort:   repository.SortDateDesc,
		Offset: (q.Page - 1) * q.Limit,
		Limit:  q.Limit,
	}
}

// UpdateRoleRequest: PATCH /api/admin/users/{id}/role
type UpdateRoleRequest struct {
	Role types.Role `json:"role"`
}

func (r *UpdateRoleRequest) Validate() error {
	r.Role = types.Role(strings.ToUpper(strings.TrimSpace(string(r.Role))))
	if !r.Role.IsValid() {
		return validation.Errors{"role": "must be USER, PREMIUM or ADMIN"}
	}
	return nil
}

// UpdateStatusRequest: PATCH /api/admin/properties/{id}/status
type UpdateStatusRequest struct {
	Status types.PropertyStatus `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	r.Status = types.PropertyStatus(strings.ToUpper(strings.TrimSpace(string(r.Status))))
	if !r.Status.IsValid() {
		return validation.Errors{"status": "must be ACTIVE, PENDING, SOLD or ARCHIVED"}
	}
	return nil
}

// RoleResponse es la respuesta del cambio de rol.
type RoleResponse struct {
	ID    string     `json:"id"`
	Email *string    `json:"email"`
	Name  *string    `json:"name"`
	Role  types.Role `json:"role"`
}

func RoleFromUser(u *repository.User) RoleResponse {
	return RoleResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// UserItem es una fila del listado de usuarios.
type UserItem struct {
	ID              string             `json:"id"`
	Phone           *string            `json:"phone"`
	Email           *string            `json:"email"`
	Name            *string            `json:"name"`
	Avatar          *string            `json:"avatar"`
	Role            types.Role         `json:"role"`
	IsPremium       bool               `json:"isPremium"`
	Provider        types.AuthProvider `json:"provider"`
	CreatedAt       time.Time          `json:"createdAt"`
	PropertiesCount int                `json:"propertiesCount"`
}

func FromUserItems(items []repository.UserListItem) []UserItem {
	out := make([]UserItem, 0, len(items))
	for _, it := range items {
		out = append(out, UserItem{
			ID:              it.ID,
			Phone:           it.Phone,
			Email:           it.Email,
			Name:            it.Name,
			Avatar:          it.Avatar,
			Role:            it.Role,
			IsPremium:       it.IsPremium,
			Provider:        it.Provider,
			CreatedAt:       it.CreatedAt,
			PropertiesCount: it.PropertiesCount,
		})
	}
	return out
}

// Page es la envoltura paginada de ambos listados.
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func NewPage[T any](data []T, total int, q ListQuery) Page[T] {
	return Page[T]{
		Data:       data,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: properties.TotalPages(total, q.Limit),
	}
}

type Overview struct {
	TotalUsers              int   `json:"totalUsers"`
	TotalProperties         int   `json:"totalProperties"`
	ActiveProperties        int   `json:"activeProperties"`
	PendingProperties       int   `json:"pendingProperties"`
	TotalViews              int64 `json:"totalViews"`
	PremiumUsers            int   `json:"premiumUsers"`
	NewUsersLast30Days      int   `json:"newUsersLast30Days"`
	NewPropertiesLast30Days int   `json:"newPropertiesLast30Days"`
}

type TypeCount struct {
	Type  types.PropertyType `json:"type"`
	Count int                `json:"count"`
}

type RegionCount struct {
	Region types.Region `json:"region"`
	Count  int          `json:"count"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// StatisticsResponse: GET /api/admin/statistics
type StatisticsResponse struct {
	Overview           Overview      `json:"overview"`
	PropertiesByType   []TypeCount   `json:"propertiesByType"`
	PropertiesByRegion []RegionCount `json:"propertiesByRegion"`
	DailyStats         []DailyCount  `json:"dailyStats"`
}
