package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	dto "github.com/dohkar/dohkar-api/internal/http/dto/auth"
	jwtx "github.com/dohkar/dohkar-api/internal/jwt"
	tokens "github.com/dohkar/dohkar-api/internal/security/token"
)

// TokenService emite pares access/refresh y rota refresh tokens.
// En la base solo vive el SHA-256 del refresh.
type TokenService struct {
	issuer *jwtx.Issuer
	repo   repository.TokenRepository
	now    func() time.Time
}

func NewTokenService(issuer *jwtx.Issuer, repo repository.TokenRepository, now func() time.Time) *TokenService {
	if now == nil {
		now = time.Now
	}
	return &TokenService{issuer: issuer, repo: repo, now: now}
}

// Generate emite un par nuevo y persiste el hash del refresh.
func (s *TokenService) Generate(ctx context.Context, userID string) (*dto.TokenPair, error) {
	access, _, err := s.issuer.IssueAccess(userID)
	if err != nil {
		return nil, err
	}
	refresh, exp, err := s.issuer.IssueRefresh(userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Create(ctx, userID, tokens.SHA256Hex(refresh), exp); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &dto.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.issuer.AccessTTL / time.Second),
	}, nil
}

// Refresh consume el token viejo y emite uno nuevo. El borrado es la
// validación: un replay o un duplicado concurrente no encuentra la fila.
func (s *TokenService) Refresh(ctx context.Context, old string) (*dto.TokenPair, string, error) {
	claims, err := s.issuer.ParseRefresh(old)
	if err != nil {
		return nil, "", ErrInvalidRefresh
	}
	userID := claims.Subject
	if _, err := s.repo.Consume(ctx, userID, tokens.SHA256Hex(old), s.now()); err != nil {
		if repository.IsNotFound(err) {
			return nil, "", ErrInvalidRefresh
		}
		return nil, "", fmt.Errorf("consume refresh token: %w", err)
	}
	pair, err := s.Generate(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	return pair, userID, nil
}

// Logout revoca todas las sesiones del usuario. Es idempotente.
func (s *TokenService) Logout(ctx context.Context, userID string) error {
	_, err := s.RevokeAll(ctx, userID)
	return err
}

func (s *TokenService) RevokeAll(ctx context.Context, userID string) (int, error) {
	n, err := s.repo.RevokeAllByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return n, nil
}
