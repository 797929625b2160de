package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
	"github.com/dohkar/dohkar-api/internal/security/password"
	"github.com/dohkar/dohkar-api/internal/store/memory"
)

func cfgFor(users repository.UserRepository, phone, pwd string) AdminBootstrapConfig {
	return AdminBootstrapConfig{Users: users, Phone: phone, Password: pwd, Params: password.Fast}
}

func TestEnsureAdmin_CreatesThenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	users := memory.New().Users()

	u, created, err := EnsureAdmin(ctx, cfgFor(users, "89991234567", "supersecret"))
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, types.RoleAdmin, u.Role)
	require.Equal(t, "+79991234567", *u.Phone)
	require.True(t, password.Verify("supersecret", *u.PasswordHash))

	again, created, err := EnsureAdmin(ctx, cfgFor(users, "+79991234567", "ignored-now"))
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, u.ID, again.ID)
}

func TestEnsureAdmin_PromotesExistingOtpUser(t *testing.T) {
	ctx := context.Background()
	users := memory.New().Users()
	existing, _, err := users.FindOrCreateByPhone(ctx, "+79990000001")
	require.NoError(t, err)

	u, created, err := EnsureAdmin(ctx, cfgFor(users, "+79990000001", "supersecret"))
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, existing.ID, u.ID)
	require.Equal(t, types.RoleAdmin, u.Role)

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PasswordHash)
}

func TestEnsureAdmin_Rejects(t *testing.T) {
	ctx := context.Background()
	users := memory.New().Users()

	_, _, err := EnsureAdmin(ctx, cfgFor(users, "12345", "supersecret"))
	require.ErrorIs(t, err, ErrInvalidPhone)

	_, _, err = EnsureAdmin(ctx, cfgFor(users, "+79991234567", "short"))
	require.ErrorIs(t, err, ErrWeakPassword)
}

func TestPromote(t *testing.T) {
	ctx := context.Background()
	users := memory.New().Users()
	u, _, err := users.FindOrCreateByPhone(ctx, "+79990000002")
	require.NoError(t, err)

	got, err := Promote(ctx, users, u.ID)
	require.NoError(t, err)
	require.Equal(t, types.RoleAdmin, got.Role)

	_, err = Promote(ctx, users, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
