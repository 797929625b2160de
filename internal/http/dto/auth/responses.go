package auth

import (
	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
)

// AuthUser es el bloque "user" de las respuestas de auth.
type AuthUser struct {
	ID        string             `json:"id"`
	Phone     *string            `json:"phone"`
	Email     *string            `json:"email"`
	IsPremium bool               `json:"isPremium"`
	Role      types.Role         `json:"role"`
	Provider  types.AuthProvider `json:"provider"`
}

func FromUser(u *repository.User) *AuthUser {
	return &AuthUser{
		ID:        u.ID,
		Phone:     u.Phone,
		Email:     u.Email,
		IsPremium: u.IsPremium,
		Role:      u.Role,
		Provider:  u.Provider,
	}
}

// TokenPair es la respuesta de refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	// ExpiresIn: segundos de vida del access token.
	ExpiresIn int64 `json:"expiresIn"`
}

// AuthResponse: tokens + usuario (verify, login, register, OAuth).
type AuthResponse struct {
	TokenPair
	User *AuthUser `json:"user"`
}

// SendCodeResponse: {message:"Код отправлен"}.
type SendCodeResponse struct {
	Message string `json:"message"`
}
