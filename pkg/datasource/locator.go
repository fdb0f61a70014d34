package datasource

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Driver names accepted by the registry.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMSSQL    = "sqlserver"
)

// Locator is a resolved connection identity: which adapter to use, the DSN to
// hand it, and the normalized identity string that keys the schema cache.
// Two connects to the same logical source resolve to the same Identity.
type Locator struct {
	Driver   string
	DSN      string
	Identity string
}

// ResolveOptions anchor relative sqlite paths and supply the fixture default.
type ResolveOptions struct {
	// ProjectRoot anchors relative sqlite paths; empty means the process
	// working directory.
	ProjectRoot string
	// FixtureDBPath is used when raw is empty.
	FixtureDBPath string
}

// Resolve parses a raw connection string into a Locator. Accepted forms:
//
//	sqlite:///<path>          relative paths resolve against ProjectRoot
//	postgres://... or postgresql://...
//	host=... keyword DSNs     treated as PostgreSQL
//	sqlserver://...
//
// An empty raw string selects the bundled fixture database.
func Resolve(raw string, opts ResolveOptions) (Locator, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if opts.FixtureDBPath == "" {
			return Locator{}, fmt.Errorf("no connection string and no fixture database configured")
		}
		return sqliteLocator(opts.FixtureDBPath, opts.ProjectRoot)
	}

	switch {
	case strings.HasPrefix(raw, "sqlite:///"):
		return sqliteLocator(strings.TrimPrefix(raw, "sqlite:///"), opts.ProjectRoot)
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return Locator{Driver: DriverPostgres, DSN: raw, Identity: raw}, nil
	case strings.Contains(raw, "host=") && !strings.Contains(raw, "://"):
		return Locator{Driver: DriverPostgres, DSN: raw, Identity: raw}, nil
	case strings.HasPrefix(raw, "sqlserver://"):
		return Locator{Driver: DriverMSSQL, DSN: raw, Identity: raw}, nil
	default:
		return Locator{}, fmt.Errorf("unrecognized connection string form (want sqlite:///, postgres://, postgresql://, sqlserver://, or a keyword DSN)")
	}
}

// sqliteLocator resolves path against root and normalizes the identity so
// "./fixture.db" and its absolute form key the same cache entry.
func sqliteLocator(path, root string) (Locator, error) {
	if path == "" {
		return Locator{}, fmt.Errorf("sqlite locator has an empty path")
	}
	if !filepath.IsAbs(path) {
		if root != "" {
			path = filepath.Join(root, path)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return Locator{}, fmt.Errorf("resolve sqlite path: %w", err)
		}
		path = abs
	}
	path = filepath.Clean(path)
	return Locator{
		Driver:   DriverSQLite,
		DSN:      path,
		Identity: "sqlite:///" + filepath.ToSlash(path),
	}, nil
}
