package users_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	svc "github.com/dohkar/dohkar-api/internal/http/services/users"
	"github.com/dohkar/dohkar-api/internal/store/memory"
)

func TestUserService(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	s := svc.NewUserService(svc.Deps{Store: st})

	a, _, err := st.Users().FindOrCreateByPhone(ctx, "+79990000001")
	require.NoError(t, err)
	_, _, err = st.Users().FindOrCreateByPhone(ctx, "+79990000002")
	require.NoError(t, err)

	me, err := s.Me(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "+79990000001", *me.Phone)

	name := "Ислам"
	upd, err := s.UpdateMe(ctx, a.ID, repository.UpdateProfileInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, name, *upd.Name)

	taken := "+79990000002"
	_, err = s.UpdateMe(ctx, a.ID, repository.UpdateProfileInput{Phone: &taken})
	require.ErrorIs(t, err, svc.ErrPhoneTaken)

	pub, err := s.GetPublic(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, name, *pub.Name)

	_, err = s.GetPublic(ctx, "missing")
	require.ErrorIs(t, err, svc.ErrUserNotFound)
	_, err = s.UpdateMe(ctx, "missing", repository.UpdateProfileInput{Name: &name})
	require.ErrorIs(t, err, svc.ErrUserNotFound)
}
