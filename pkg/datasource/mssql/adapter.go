// Package mssql provides the SQL Server datasource adapter over the
// go-mssqldb database/sql driver.
package mssql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/querylens/querylens/pkg/datasource"
	"github.com/querylens/querylens/pkg/datasource/sqlstd"
)

// Open connects to the SQL Server named by loc and assembles a handle.
func Open(ctx context.Context, loc datasource.Locator) (*datasource.Handle, error) {
	db, err := sql.Open("sqlserver", loc.DSN)
	if err != nil {
		return nil, fmt.Errorf("open sqlserver connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlserver: %w", err)
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
