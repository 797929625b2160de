package favorites_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
	svc "github.com/dohkar/dohkar-api/internal/http/services/favorites"
	"github.com/dohkar/dohkar-api/internal/store/memory"
)

func TestFavoriteService(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	s := svc.NewFavoriteService(svc.Deps{Store: st})

	u, _, err := st.Users().FindOrCreateByPhone(ctx, "+79990000001")
	require.NoError(t, err)
	p, err := st.Properties().Create(ctx, u.ID, repository.PropertyInput{
		Title: "Участок", Price: 10, Location: "Магас", Region: types.RegionIngushetia,
		Type: types.PropertyLand, Area: 600, Images: []string{"https://cdn/1.jpg"},
	})
	require.NoError(t, err)

	_, err = s.Add(ctx, u.ID, "missing")
	require.ErrorIs(t, err, svc.ErrPropertyNotFound)

	f, err := s.Add(ctx, u.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, f.PropertyID)
	_, err = s.Add(ctx, u.ID, p.ID)
	require.ErrorIs(t, err, svc.ErrAlreadyFavorite)

	list, err := s.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Участок", list[0].Property.Title)

	require.NoError(t, s.Remove(ctx, u.ID, p.ID))
	require.ErrorIs(t, s.Remove(ctx, u.ID, p.ID), svc.ErrNotFavorite)

	list, err = s.List(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, list)
}
