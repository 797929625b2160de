package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	return New(WithClock(clk.Now)), clk
}

func TestCodes_ConsumeDeletesAllMatchingAndReturnsNewestValid(t *testing.T) {
	ctx := context.Background()
	s, clk := newStore(t)
	codes := s.Codes()

	_, err := codes.Create(ctx, "+79991234567", "123456", clk.Now(), clk.Now().Add(-time.Second), "1.1.1.1")
	require.NoError(t, err)
	clk.Advance(time.Second)
	fresh, err := codes.Create(ctx, "+79991234567", "123456", clk.Now(), clk.Now().Add(5*time.Minute), "1.1.1.1")
	require.NoError(t, err)

	got, err := codes.Consume(ctx, "+79991234567", "123456", clk.Now())
	require.NoError(t, err)
	require.Equal(t, fresh.ID, got.ID)

	n, err := codes.CountByPhoneSince(ctx, "+79991234567", time.Time{})
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = codes.Consume(ctx, "+79991234567", "123456", clk.Now())
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCodes_ExpiredCodeIsRemovedButRejected(t *testing.T) {
	ctx := context.Background()
	s, clk := newStore(t)
	codes := s.Codes()

	_, err := codes.Create(ctx, "+79991234567", "111111", clk.Now(), clk.Now().Add(5*time.Minute), "")
	require.NoError(t, err)
	clk.Advance(6 * time.Minute)

	_, err = codes.Consume(ctx, "+79991234567", "111111", clk.Now())
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.Empty(t, s.codes)
}

func TestCodes_ConcurrentConsumeSingleWinner(t *testing.T) {
	ctx := context.Background()
	s, clk := newStore(t)
	_, err := s.Codes().Create(ctx, "+79990000000", "654321", clk.Now(), clk.Now().Add(time.Minute), "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Codes().Consume(ctx, "+79990000000", "654321", clk.Now()); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, wins)
}

func TestCodes_CountByIPUsesWindow(t *testing.T) {
	ctx := context.Background()
	s, clk := newStore(t)
	start := clk.Now()
	for i := 0; i < 3; i++ {
		_, err := s.Codes().Create(ctx, "+7999000000"+string(rune('0'+i)), "000000", clk.Now(), clk.Now().Add(time.Minute), "10.0.0.1")
		require.NoError(t, err)
		clk.Advance(4 * time.Minute)
	}
	n, err := s.Codes().CountByIPSince(ctx, "10.0.0.1", start)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = s.Codes().CountByIPSince(ctx, "10.0.0.1", clk.Now().Add(-10*time.Minute))
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestCodes_CreatedAtComesFromCaller(t *testing.T) {
	ctx := context.Background()
	s, clk := newStore(t)

	// reloj del llamador 20 minutos atrás del store
	issued := clk.Now().Add(-20 * time.Minute)
	c, err := s.Codes().Create(ctx, "+79991234567", "123456", issued, issued.Add(5*time.Minute), "")
	require.NoError(t, err)
	require.Equal(t, issued, c.CreatedAt)

	n, err := s.Codes().CountByPhoneSince(ctx, "+79991234567", clk.Now().Add(-10*time.Minute))
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = s.Codes().DeleteExpired(ctx, clk.Now(), clk.Now().Add(-10*time.Minute))
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestTokens_ConsumeOnce(t *testing.T) {
	ctx := context.Background()
	s, clk := newStore(t)
	u, _, err := s.Users().FindOrCreateByPhone(ctx, "+79991112233")
	require.NoError(t, err)

	_, err = s.Tokens().Create(ctx, u.ID, "hash-1", clk.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = s.Tokens().Create(ctx, u.ID, "hash-1", clk.Now().Add(time.Hour))
	require.ErrorIs(t, err, repository.ErrConflict)

	_, err = s.Tokens().Consume(ctx, "other-user", "hash-1", clk.Now())
	require.ErrorIs(t, err, repository.ErrNotFound)

	got, err := s.Tokens().Consume(ctx, u.ID, "hash-1", clk.Now())
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)

	_, err = s.Tokens().Consume(ctx, u.ID, "hash-1", clk.Now())
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTokens_RevokeAll(t *testing.T) {
	ctx := context.Background()
	s, clk := newStore(t)
	u, _, err := s.Users().FindOrCreateByPhone(ctx, "+79991112233")
	require.NoError(t, err)
	for _, h := range []string{"a", "b", "c"} {
		_, err := s.Tokens().Create(ctx, u.ID, h, clk.Now().Add(time.Hour))
		require.NoError(t, err)
	}
	n, err := s.Tokens().RevokeAllByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = s.Tokens().RevokeAllByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestUsers_FindOrCreateByPhoneIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	a, created, err := s.Users().FindOrCreateByPhone(ctx, "+79990001122")
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, types.RoleUser, a.Role)
	require.Equal(t, types.ProviderLocal, a.Provider)

	b, created, err := s.Users().FindOrCreateByPhone(ctx, "+79990001122")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, a.ID, b.ID)
}

func TestUsers_UniqueConstraints(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	email := "Ali@Example.com"
	_, err := s.Users().Create(ctx, repository.CreateUserInput{Email: &email})
	require.NoError(t, err)

	lower := "ali@example.com"
	_, err = s.Users().Create(ctx, repository.CreateUserInput{Email: &lower})
	require.ErrorIs(t, err, repository.ErrConflict)

	got, err := s.Users().GetByEmail(ctx, "ALI@example.com")
	require.NoError(t, err)
	require.Equal(t, email, *got.Email)
}

func TestFavorites_AddConflictAndCascade(t *testing.T) {
	ctx := context.Background()
	s, clk := newStore(t)
	u, _, err := s.Users().FindOrCreateByPhone(ctx, "+79990001122")
	require.NoError(t, err)

	p, err := s.Properties().Create(ctx, u.ID, repository.PropertyInput{
		Title: "Дом", Price: 1, Location: "Грозный",
		Region: types.RegionChechnya, Type: types.PropertyHouse, Area: 100,
	})
	require.NoError(t, err)
	require.Equal(t, types.CurrencyRUB, p.Currency)
	require.Equal(t, types.StatusActive, p.Status)
	require.NotNil(t, p.Owner)

	_, err = s.Favorites().Add(ctx, u.ID, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = s.Favorites().Add(ctx, u.ID, p.ID)
	require.NoError(t, err)
	clk.Advance(time.Second)
	_, err = s.Favorites().Add(ctx, u.ID, p.ID)
	require.ErrorIs(t, err, repository.ErrConflict)

	favs, err := s.Favorites().ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	require.Equal(t, "Дом", favs[0].Property.Title)

	require.NoError(t, s.Properties().Delete(ctx, p.ID))
	favs, err = s.Favorites().ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, favs)
	require.ErrorIs(t, s.Favorites().Remove(ctx, u.ID, p.ID), repository.ErrNotFound)
}

func TestProperties_ListFiltersSortsAndCounts(t *testing.T) {
	ctx := context.Background()
	s, clk := newStore(t)
	u, _, err := s.Users().FindOrCreateByPhone(ctx, "+79990001122")
	require.NoError(t, err)

	mk := func(title string, price float64, status types.PropertyStatus) {
		_, err := s.Properties().Create(ctx, u.ID, repository.PropertyInput{
			Title: title, Price: price, Location: "Назрань", Region: types.RegionIngushetia,
			Type: types.PropertyApartment, Area: 40, Status: status,
		})
		require.NoError(t, err)
		clk.Advance(time.Minute)
	}
	mk("Квартира A", 300, types.StatusActive)
	mk("Квартира B", 100, types.StatusActive)
	mk("Склад", 200, types.StatusPending)

	active := types.StatusActive
	items, total, err := s.Properties().List(ctx, repository.PropertyFilter{Status: &active, Sort: repository.SortPriceAsc})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Equal(t, "Квартира B", items[0].Title)

	items, total, err = s.Properties().List(ctx, repository.PropertyFilter{Query: "склад", Limit: 1})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, items, 1)

	items, _, err = s.Properties().List(ctx, repository.PropertyFilter{})
	require.NoError(t, err)
	require.Equal(t, "Склад", items[0].Title)

	byType, err := s.Stats().PropertiesByType(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, byType[types.PropertyApartment])

	o, err := s.Stats().Overview(ctx, clk.Now())
	require.NoError(t, err)
	require.Equal(t, 1, o.TotalUsers)
	require.Equal(t, 2, o.ActiveProperties)
	require.Equal(t, 1, o.PendingProperties)
}

func TestUsers_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	s, clk := newStore(t)
	u, _, err := s.Users().FindOrCreateByPhone(ctx, "+79990001122")
	require.NoError(t, err)
	_, err = s.Tokens().Create(ctx, u.ID, "h", clk.Now().Add(time.Hour))
	require.NoError(t, err)
	p, err := s.Properties().Create(ctx, u.ID, repository.PropertyInput{
		Title: "t", Price: 1, Location: "l", Region: types.RegionOther, Type: types.PropertyLand, Area: 1,
	})
	require.NoError(t, err)

	require.NoError(t, s.Users().Delete(ctx, u.ID))
	ok, err := s.Properties().Exists(ctx, p.ID)
	require.NoError(t, err)
	require.False(t, ok)
	n, err := s.Tokens().CountByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Zero(t, n)
}
