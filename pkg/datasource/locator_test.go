package datasource

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_SQLiteRelativePath(t *testing.T) {
	loc, err := Resolve("sqlite:///data/sales.db", ResolveOptions{ProjectRoot: "/srv/app"})
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, loc.Driver)
	assert.Equal(t, filepath.FromSlash("/srv/app/data/sales.db"), loc.DSN)
	assert.Equal(t, "sqlite:////srv/app/data/sales.db", loc.Identity)
}

func TestResolve_SQLiteAbsolutePath(t *testing.T) {
	loc, err := Resolve("sqlite:////var/db/sales.db", ResolveOptions{ProjectRoot: "/srv/app"})
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/var/db/sales.db"), loc.DSN)
}

func TestResolve_SameLogicalSourceSameIdentity(t *testing.T) {
	a, err := Resolve("sqlite:///data/sales.db", ResolveOptions{ProjectRoot: "/srv/app"})
	require.NoError(t, err)
	b, err := Resolve("sqlite:///data/./sales.db", ResolveOptions{ProjectRoot: "/srv/app"})
	require.NoError(t, err)
	assert.Equal(t, a.Identity, b.Identity)
}

func TestResolve_EmptySelectsFixture(t *testing.T) {
	loc, err := Resolve("", ResolveOptions{ProjectRoot: "/srv/app", FixtureDBPath: "testdata/fixture.db"})
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, loc.Driver)
	assert.Equal(t, filepath.FromSlash("/srv/app/testdata/fixture.db"), loc.DSN)
}

func TestResolve_EmptyWithoutFixtureFails(t *testing.T) {
	_, err := Resolve("", ResolveOptions{})
	require.Error(t, err)
}

func TestResolve_Postgres(t *testing.T) {
	for _, raw := range []string{
		"postgres://app:secret@db:5432/sales",
		"postgresql://app:secret@db:5432/sales",
		"host=db port=5432 user=app dbname=sales",
	} {
		loc, err := Resolve(raw, ResolveOptions{})
		require.NoError(t, err, raw)
		assert.Equal(t, DriverPostgres, loc.Driver, raw)
		assert.Equal(t, raw, loc.Identity, raw)
	}
}

func TestResolve_SQLServer(t *testing.T) {
	loc, err := Resolve("sqlserver://sa:secret@db:1433?database=sales", ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, DriverMSSQL, loc.Driver)
}

func TestResolve_Unrecognized(t *testing.T) {
	_, err := Resolve("mongodb://db/sales", ResolveOptions{})
	require.Error(t, err)
}
