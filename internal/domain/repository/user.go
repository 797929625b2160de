package repository

import (
	"context"
	"time"

	"github.com/dohkar/dohkar-api/internal/domain/types"
)

// User representa una cuenta. Phone y Email son únicos cuando están presentes.
type User struct {
	ID           string
	Phone        *string
	Email        *string
	PasswordHash *string
	Name         *string
	Avatar       *string
	Role         types.Role
	IsPremium    bool
	Provider     types.AuthProvider
	ProviderID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether phone+password login is possible.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// CreateUserInput contiene los datos para crear un usuario.
// Role vacío => USER, Provider vacío => LOCAL.
type CreateUserInput struct {
	Phone        *string
	Email        *string
	PasswordHash *string
	Name         *string
	Avatar       *string
	Role         types.Role
	Provider     types.AuthProvider
	ProviderID   *string
}

// UpdateProfileInput: nil significa "no tocar".
type UpdateProfileInput struct {
	Name   *string
	Phone  *string
	Avatar *string
}

// ListUsersFilter para el listado del admin.
type ListUsersFilter struct {
	Page   int
	Limit  int
	Search string // email o nombre, case-insensitive
}

// UserListItem es una fila del listado admin.
type UserListItem struct {
	User
	PropertiesCount int
}

// UserRepository define operaciones sobre usuarios.
type UserRepository interface {
	// GetByID retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByPhone retorna ErrNotFound si no existe.
	GetByPhone(ctx context.Context, phone string) (*User, error)

	// GetByEmail compara sin distinguir mayúsculas. ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByProvider busca por (provider, providerID) exacto.
	GetByProvider(ctx context.Context, provider types.AuthProvider, providerID string) (*User, error)

	// Create retorna ErrConflict si phone, email o (provider, providerID) ya existen.
	Create(ctx context.Context, in CreateUserInput) (*User, error)

	// FindOrCreateByPhone es un upsert atómico: dos llamadas concurrentes
	// para el mismo teléfono devuelven el mismo usuario.
	FindOrCreateByPhone(ctx context.Context, phone string) (u *User, created bool, err error)

	// LinkProvider sobrescribe provider/providerID del usuario.
	LinkProvider(ctx context.Context, userID string, provider types.AuthProvider, providerID string) (*User, error)

	// UpdateProfile retorna ErrConflict si el nuevo teléfono ya está en uso.
	UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*User, error)

	SetPasswordHash(ctx context.Context, id, hash string) error
	SetRole(ctx context.Context, id string, role types.Role) (*User, error)

	// List ordena por created_at desc. Retorna (items, total).
	List(ctx context.Context, f ListUsersFilter) ([]UserListItem, int, error)

	// Delete borra el usuario y, en cascada, sus tokens, anuncios y favoritos.
	Delete(ctx context.Context, id string) error
}
