package store

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	migrations "github.com/dohkar/dohkar-api/migrations/postgres"
)

func TestParseMigrations_SortsAndIgnoresOtherFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/0002_b.sql":  {Data: []byte("SELECT 2")},
		"sql/0001_a.sql":  {Data: []byte("SELECT 1")},
		"sql/README.md":   {Data: []byte("docs")},
		"sql/10_late.sql": {Data: []byte("SELECT 10")},
	}
	got, err := NewMigrator(fsys, "sql").ParseMigrations()
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, 1, got[0].Version)
	require.Equal(t, "a", got[0].Name)
	require.Equal(t, 2, got[1].Version)
	require.Equal(t, 10, got[2].Version)
	require.Equal(t, "SELECT 10", got[2].SQL)
}

func TestParseMigrations_DuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"0001_a.sql": {Data: []byte("x")},
		"1_b.sql":    {Data: []byte("y")},
	}
	_, err := NewMigrator(fsys, ".").ParseMigrations()
	require.ErrorContains(t, err, "version 1")
}

func TestPending(t *testing.T) {
	all := []Migration{{Version: 1}, {Version: 2}, {Version: 3}}
	got := Pending(all, map[int]bool{1: true, 3: true})
	require.Len(t, got, 1)
	require.Equal(t, 2, got[0].Version)
}

func TestEmbeddedMigrationsParse(t *testing.T) {
	got, err := NewMigrator(migrations.FS, migrations.Dir).ParseMigrations()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(got), 2)
	require.Equal(t, 1, got[0].Version)
	require.Contains(t, got[0].SQL, "one_time_codes")
}

type fakeAdapter struct{ name string }

func (f fakeAdapter) Name() string { return f.name }
func (f fakeAdapter) Open(context.Context, Config) (repository.Store, error) {
	return nil, nil
}

func TestOpenUnknownDriver(t *testing.T) {
	RegisterAdapter(fakeAdapter{name: "fake-test"})
	require.Contains(t, Drivers(), "fake-test")

	_, err := Open(context.Background(), Config{Driver: "nope"})
	require.ErrorContains(t, err, `unknown driver "nope"`)
}
