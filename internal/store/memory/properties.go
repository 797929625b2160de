package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
)

type propertyRepo Store

// view copia el anuncio y adjunta el dueño. Requiere mu tomado.
func (s *Store) view(p *repository.Property) *repository.Property {
	c := *p
	c.Images = append([]string{}, p.Images...)
	c.Features = append([]string{}, p.Features...)
	if p.Rooms != nil {
		rooms := *p.Rooms
		c.Rooms = &rooms
	}
	c.Owner = nil
	if u, ok := s.users[p.UserID]; ok {
		c.Owner = &repository.PropertyOwner{
			ID:     u.ID,
			Name:   copyStr(u.Name),
			Phone:  copyStr(u.Phone),
			Email:  copyStr(u.Email),
			Avatar: copyStr(u.Avatar),
		}
	}
	return &c
}

func (s *Store) deletePropertyLocked(id string) {
	delete(s.properties, id)
	for k := range s.favorites {
		if k.propertyID == id {
			delete(s.favorites, k)
		}
	}
}

func (r *propertyRepo) Create(_ context.Context, userID string, in repository.PropertyInput) (*repository.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return nil, repository.ErrNotFound
	}
	if in.Currency == "" {
		in.Currency = types.CurrencyRUB
	}
	if in.Status == "" {
		in.Status = types.StatusActive
	}
	now := r.now()
	p := &repository.Property{
		ID:          newID(),
		Title:       in.Title,
		Price:       in.Price,
		Currency:    in.Currency,
		Location:    in.Location,
		Region:      in.Region,
		Type:        in.Type,
		Rooms:       in.Rooms,
		Area:        in.Area,
		Description: in.Description,
		Images:      append([]string{}, in.Images...),
		Features:    append([]string{}, in.Features...),
		Status:      in.Status,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.properties[p.ID] = p
	return (*Store)(r).view(p), nil
}

func (r *propertyRepo) GetByID(_ context.Context, id string) (*repository.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.properties[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return (*Store)(r).view(p), nil
}

func (r *propertyRepo) IncrementViews(_ context.Context, id string) (*repository.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.properties[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Views++
	return (*Store)(r).view(p), nil
}

func (r *propertyRepo) Update(_ context.Context, id string, patch repository.PropertyPatch) (*repository.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.properties[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Currency != nil {
		p.Currency = *patch.Currency
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.Region != nil {
		p.Region = *patch.Region
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.Rooms != nil {
		rooms := *patch.Rooms
		p.Rooms = &rooms
	}
	if patch.Area != nil {
		p.Area = *patch.Area
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Images != nil {
		p.Images = append([]string{}, (*patch.Images)...)
	}
	if patch.Features != nil {
		p.Features = append([]string{}, (*patch.Features)...)
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	p.UpdatedAt = r.now()
	return (*Store)(r).view(p), nil
}

func (r *propertyRepo) SetStatus(ctx context.Context, id string, status types.PropertyStatus) (*repository.Property, error) {
	return r.Update(ctx, id, repository.PropertyPatch{Status: &status})
}

func (r *propertyRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.properties[id]; !ok {
		return repository.ErrNotFound
	}
	(*Store)(r).deletePropertyLocked(id)
	return nil
}

func (r *propertyRepo) Exists(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.properties[id]
	return ok, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func matches(p *repository.Property, f repository.PropertyFilter) bool {
	switch {
	case f.Status != nil && p.Status != *f.Status,
		f.Type != nil && p.Type != *f.Type,
		f.Region != nil && p.Region != *f.Region,
		f.PriceMin != nil && p.Price < *f.PriceMin,
		f.PriceMax != nil && p.Price > *f.PriceMax,
		f.Rooms != nil && (p.Rooms == nil || *p.Rooms != *f.Rooms),
		f.AreaMin != nil && p.Area < *f.AreaMin,
		f.UserID != "" && p.UserID != f.UserID:
		return false
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		if !containsFold(p.Title, q) && !containsFold(p.Description, q) && !containsFold(p.Location, q) {
			return false
		}
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		if !containsFold(p.Title, q) && !containsFold(p.Location, q) {
			return false
		}
	}
	return true
}

func (r *propertyRepo) List(_ context.Context, f repository.PropertyFilter) ([]repository.Property, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*repository.Property
	for _, p := range r.properties {
		if matches(p, f) {
			matched = append(matched, p)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch f.Sort {
		case repository.SortPriceAsc:
			if a.Price != b.Price {
				return a.Price < b.Price
			}
		case repository.SortPriceDesc:
			if a.Price != b.Price {
				return a.Price > b.Price
			}
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	limit := f.Limit
	if limit <= 0 {
		limit = 12
	}
	out := []repository.Property{}
	for _, p := range paginate(matched, f.Offset, limit) {
		out = append(out, *(*Store)(r).view(p))
	}
	return out, len(matched), nil
}

type favoriteRepo Store

func (r *favoriteRepo) Add(_ context.Context, userID, propertyID string) (*repository.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.properties[propertyID]; !ok {
		return nil, repository.ErrNotFound
	}
	k := favKey{userID, propertyID}
	if _, dup := r.favorites[k]; dup {
		return nil, repository.ErrConflict
	}
	now := r.now()
	r.favorites[k] = now
	return &repository.Favorite{UserID: userID, PropertyID: propertyID, CreatedAt: now}, nil
}

func (r *favoriteRepo) Remove(_ context.Context, userID, propertyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := favKey{userID, propertyID}
	if _, ok := r.favorites[k]; !ok {
		return repository.ErrNotFound
	}
	delete(r.favorites, k)
	return nil
}

func (r *favoriteRepo) ListByUser(_ context.Context, userID string) ([]repository.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []repository.Favorite{}
	for k, at := range r.favorites {
		if k.userID != userID {
			continue
		}
		p, ok := r.properties[k.propertyID]
		if !ok {
			continue
		}
		out = append(out, repository.Favorite{
			UserID:     userID,
			PropertyID: k.propertyID,
			CreatedAt:  at,
			Property:   (*Store)(r).view(p),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type statsRepo Store

func (r *statsRepo) Overview(_ context.Context, now time.Time) (repository.Overview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	since := now.AddDate(0, 0, -30)
	var o repository.Overview
	o.TotalUsers = len(r.users)
	for _, u := range r.users {
		if u.IsPremium {
			o.PremiumUsers++
		}
		if !u.CreatedAt.Before(since) {
			o.NewUsersLast30Days++
		}
	}
	o.TotalProperties = len(r.properties)
	for _, p := range r.properties {
		switch p.Status {
		case types.StatusActive:
			o.ActiveProperties++
		case types.StatusPending:
			o.PendingProperties++
		}
		o.TotalViews += int64(p.Views)
		if !p.CreatedAt.Before(since) {
			o.NewPropertiesLast30Days++
		}
	}
	return o, nil
}

func (r *statsRepo) PropertiesByType(context.Context) (map[types.PropertyType]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[types.PropertyType]int{}
	for _, p := range r.properties {
		out[p.Type]++
	}
	return out, nil
}

func (r *statsRepo) PropertiesByRegion(context.Context) (map[types.Region]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[types.Region]int{}
	for _, p := range r.properties {
		out[p.Region]++
	}
	return out, nil
}

func (r *statsRepo) DailyProperties(_ context.Context, since time.Time) ([]repository.DailyCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int{}
	for _, p := range r.properties {
		if !p.CreatedAt.Before(since) {
			counts[p.CreatedAt.UTC().Format("2006-01-02")]++
		}
	}
	out := make([]repository.DailyCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, repository.DailyCount{Date: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
