// Package users contiene los DTOs de /api/users.
package users

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
	"github.com/dohkar/dohkar-api/internal/validation"
)

const maxNameLength = 100

// UpdateUserRequest: PATCH /api/users/me. Campos ausentes no se tocan.
type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	errs := validation.Errors{}
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		if n == "" || utf8.RuneCountInString(n) > maxNameLength {
			errs.Add("name", "must be 1 to 100 characters")
		}
		r.Name = &n
	}
	if r.Phone != nil {
		norm, ok := validation.NormalizePhone(*r.Phone)
		if !ok {
			errs.Add("phone", "must be a Russian phone number (+7XXXXXXXXXX)")
		}
		r.Phone = &norm
	}
	if r.Avatar != nil {
		a := strings.TrimSpace(*r.Avatar)
		if a != "" && !strings.HasPrefix(a, "http://") && !strings.HasPrefix(a, "https://") {
			errs.Add("avatar", "must be an http(s) URL")
		}
		r.Avatar = &a
	}
	return errs.Err()
}

// Input convierte el request validado al input del repositorio.
func (r *UpdateUserRequest) Input() repository.UpdateProfileInput {
	return repository.UpdateProfileInput{Name: r.Name, Phone: r.Phone, Avatar: r.Avatar}
}

// UserResponse es el perfil propio (GET/PATCH /users/me).
type UserResponse struct {
	ID        string     `json:"id"`
	Phone     *string    `json:"phone"`
	Email     *string    `json:"email"`
	Name      *string    `json:"name"`
	Avatar    *string    `json:"avatar"`
	IsPremium bool       `json:"isPremium"`
	Role      types.Role `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func FromUser(u *repository.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Phone:     u.Phone,
		Email:     u.Email,
		Name:      u.Name,
		Avatar:    u.Avatar,
		IsPremium: u.IsPremium,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// PublicUser es lo que ve cualquiera en GET /users/{id}.
type PublicUser struct {
	ID        string    `json:"id"`
	Phone     *string   `json:"phone"`
	Email     *string   `json:"email"`
	Name      *string   `json:"name"`
	Avatar    *string   `json:"avatar"`
	IsPremium bool      `json:"isPremium"`
	CreatedAt time.Time `json:"createdAt"`
}

func PublicFromUser(u *repository.User) PublicUser {
	return PublicUser{
		ID:        u.ID,
		Phone:     u.Phone,
		Email:     u.Email,
		Name:      u.Name,
		Avatar:    u.Avatar,
		IsPremium: u.IsPremium,
		CreatedAt: u.CreatedAt,
	}
}
