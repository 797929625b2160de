package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
)

type userRepo Store

func cloneUser(u *repository.User) *repository.User {
	c := *u
	c.Phone = copyStr(u.Phone)
	c.Email = copyStr(u.Email)
	c.PasswordHash = copyStr(u.PasswordHash)
	c.Name = copyStr(u.Name)
	c.Avatar = copyStr(u.Avatar)
	c.ProviderID = copyStr(u.ProviderID)
	return &c
}

func (r *userRepo) find(match func(*repository.User) bool) (*repository.User, error) {
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) GetByID(_ context.Context, id string) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *userRepo) GetByPhone(_ context.Context, phone string) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(func(u *repository.User) bool { return u.Phone != nil && *u.Phone == phone })
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(func(u *repository.User) bool { return u.Email != nil && strings.EqualFold(*u.Email, email) })
}

func (r *userRepo) GetByProvider(_ context.Context, provider types.AuthProvider, providerID string) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(func(u *repository.User) bool {
		return u.Provider == provider && u.ProviderID != nil && *u.ProviderID == providerID
	})
}

// conflicts replica los unique indexes de la migración.
func (r *userRepo) conflicts(selfID string, phone, email *string, provider types.AuthProvider, providerID *string) bool {
	for id, u := range r.users {
		if id == selfID {
			continue
		}
		if phone != nil && u.Phone != nil && *u.Phone == *phone {
			return true
		}
		if email != nil && u.Email != nil && strings.EqualFold(*u.Email, *email) {
			return true
		}
		if providerID != nil && u.ProviderID != nil && u.Provider == provider && *u.ProviderID == *providerID {
			return true
		}
	}
	return false
}

func (r *userRepo) Create(_ context.Context, in repository.CreateUserInput) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.create(in)
}

func (r *userRepo) create(in repository.CreateUserInput) (*repository.User, error) {
	role := in.Role
	if role == "" {
		role = types.RoleUser
	}
	provider := in.Provider
	if provider == "" {
		provider = types.ProviderLocal
	}
	if r.conflicts("", in.Phone, in.Email, provider, in.ProviderID) {
		return nil, repository.ErrConflict
	}
	now := r.now()
	u := &repository.User{
		ID:           newID(),
		Phone:        copyStr(in.Phone),
		Email:        copyStr(in.Email),
		PasswordHash: copyStr(in.PasswordHash),
		Name:         copyStr(in.Name),
		Avatar:       copyStr(in.Avatar),
		Role:         role,
		IsPremium:    role == types.RolePremium,
		Provider:     provider,
		ProviderID:   copyStr(in.ProviderID),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[u.ID] = u
	return cloneUser(u), nil
}

func (r *userRepo) FindOrCreateByPhone(_ context.Context, phone string) (*repository.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, err := r.find(func(u *repository.User) bool { return u.Phone != nil && *u.Phone == phone }); err == nil {
		return u, false, nil
	}
	u, err := r.create(repository.CreateUserInput{Phone: strp(phone)})
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func (r *userRepo) mutate(id string, fn func(u *repository.User) error) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if err := fn(u); err != nil {
		return nil, err
	}
	u.UpdatedAt = r.now()
	return cloneUser(u), nil
}

func (r *userRepo) LinkProvider(_ context.Context, userID string, provider types.AuthProvider, providerID string) (*repository.User, error) {
	return r.mutate(userID, func(u *repository.User) error {
		if r.conflicts(userID, nil, nil, provider, &providerID) {
			return repository.ErrConflict
		}
		u.Provider = provider
		u.ProviderID = strp(providerID)
		return nil
	})
}

func (r *userRepo) UpdateProfile(_ context.Context, id string, in repository.UpdateProfileInput) (*repository.User, error) {
	return r.mutate(id, func(u *repository.User) error {
		if in.Phone != nil && r.conflicts(id, in.Phone, nil, "", nil) {
			return repository.ErrConflict
		}
		if in.Name != nil {
			u.Name = copyStr(in.Name)
		}
		if in.Phone != nil {
			u.Phone = copyStr(in.Phone)
		}
		if in.Avatar != nil {
			u.Avatar = copyStr(in.Avatar)
		}
		return nil
	})
}

func (r *userRepo) SetPasswordHash(_ context.Context, id, hash string) error {
	_, err := r.mutate(id, func(u *repository.User) error {
		u.PasswordHash = strp(hash)
		return nil
	})
	return err
}

func (r *userRepo) SetRole(_ context.Context, id string, role types.Role) (*repository.User, error) {
	return r.mutate(id, func(u *repository.User) error {
		u.Role = role
		return nil
	})
}

func (r *userRepo) List(_ context.Context, f repository.ListUsersFilter) ([]repository.UserListItem, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	var matched []*repository.User
	for _, u := range r.users {
		if search != "" {
			inEmail := u.Email != nil && strings.Contains(strings.ToLower(*u.Email), search)
			inName := u.Name != nil && strings.Contains(strings.ToLower(*u.Name), search)
			if !inEmail && !inName {
				continue
			}
		}
		matched = append(matched, u)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	limit, page := f.Limit, f.Page
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	out := []repository.UserListItem{}
	for _, u := range paginate(matched, (page-1)*limit, limit) {
		count := 0
		for _, p := range r.properties {
			if p.UserID == u.ID {
				count++
			}
		}
		out = append(out, repository.UserListItem{User: *cloneUser(u), PropertiesCount: count})
	}
	return out, len(matched), nil
}

// Delete replica ON DELETE CASCADE.
func (r *userRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	for k, t := range r.tokens {
		if t.UserID == id {
			delete(r.tokens, k)
		}
	}
	for pid, p := range r.properties {
		if p.UserID == id {
			(*Store)(r).deletePropertyLocked(pid)
		}
	}
	for k := range r.favorites {
		if k.userID == id {
			delete(r.favorites, k)
		}
	}
	return nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
