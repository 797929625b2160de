package memory

import (
	"context"
	"time"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
)

type codeRepo Store

func (r *codeRepo) Create(_ context.Context, phone, code string, createdAt, expiresAt time.Time, ip string) (*repository.OneTimeCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if createdAt.IsZero() {
		createdAt = r.now()
	}
	c := &repository.OneTimeCode{
		ID:        newID(),
		Phone:     phone,
		Code:      code,
		ExpiresAt: expiresAt,
		CreatedAt: createdAt,
	}
	if ip != "" {
		c.IP = strp(ip)
	}
	r.codes[c.ID] = c
	cp := *c
	return &cp, nil
}

func (r *codeRepo) Consume(_ context.Context, phone, code string, now time.Time) (*repository.OneTimeCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *repository.OneTimeCode
	for id, c := range r.codes {
		if c.Phone != phone || c.Code != code {
			continue
		}
		delete(r.codes, id)
		if now.Before(c.ExpiresAt) && (best == nil || c.CreatedAt.After(best.CreatedAt)) {
			best = c
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	return best, nil
}

func (r *codeRepo) CountByPhoneSince(_ context.Context, phone string, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.codes {
		if c.Phone == phone && !c.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *codeRepo) CountByIPSince(_ context.Context, ip string, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.codes {
		if c.IP != nil && *c.IP == ip && !c.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *codeRepo) DeleteExpired(_ context.Context, now, createdBefore time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, c := range r.codes {
		if !now.Before(c.ExpiresAt) && c.CreatedAt.Before(createdBefore) {
			delete(r.codes, id)
			n++
		}
	}
	return n, nil
}

type tokenRepo Store

func (r *tokenRepo) Create(_ context.Context, userID, tokenHash string, expiresAt time.Time) (*repository.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.TokenHash == tokenHash {
			return nil, repository.ErrConflict
		}
	}
	if _, ok := r.users[userID]; !ok {
		return nil, repository.ErrNotFound
	}
	t := &repository.RefreshToken{
		ID:        newID(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: r.now(),
	}
	r.tokens[t.ID] = t
	cp := *t
	return &cp, nil
}

func (r *tokenRepo) Consume(_ context.Context, userID, tokenHash string, now time.Time) (*repository.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tokens {
		if t.TokenHash == tokenHash && t.UserID == userID && now.Before(t.ExpiresAt) {
			delete(r.tokens, id)
			return t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *tokenRepo) RevokeAllByUser(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, id)
			n++
		}
	}
	return n, nil
}

func (r *tokenRepo) CountByUser(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.tokens {
		if t.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *tokenRepo) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, t := range r.tokens {
		if !now.Before(t.ExpiresAt) {
			delete(r.tokens, id)
			n++
		}
	}
	return n, nil
}
