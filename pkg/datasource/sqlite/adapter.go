// Package sqlite provides the SQLite datasource adapter. It backs the
// bundled fixture database and any sqlite:/// locator.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/querylens/querylens/pkg/datasource"
	"github.com/querylens/querylens/pkg/datasource/sqlstd"
)

// Open connects to the SQLite file named by loc and assembles a handle.
func Open(ctx context.Context, loc datasource.Locator) (*datasource.Handle, error) {
	db, err := sql.Open("sqlite", loc.DSN)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// modernc's in-process driver serializes writers; a single connection
	// avoids table-lock errors on concurrent reads of the same file.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	return datasource.NewHandle(
		loc.Identity,
		loc.Driver,
		sqlstd.NewTester(db),
		NewExtractor(db),
		sqlstd.NewExecutor(db),
		db.Close,
	), nil
}
