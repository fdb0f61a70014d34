// Package postgres provides the PostgreSQL datasource adapter, built on
// pgx connection pools.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/querylens/querylens/pkg/datasource"
)

// Open connects to the PostgreSQL server named by loc and assembles a handle.
func Open(ctx context.Context, loc datasource.Locator) (*datasource.Handle, error) {
	pool, err := pgxpool.New(ctx, loc.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	closeFn := func() error {
		pool.Close()
		return nil
	}
	return datasource.NewHandle(
		loc.Identity,
		loc.Driver,
		&Tester{pool: pool},
		NewExtractor(pool),
		NewExecutor(pool),
		closeFn,
	), nil
}

// Tester implements datasource.ConnectionTester for PostgreSQL.
type Tester struct {
	pool *pgxpool.Pool
}

// TestConnection pings the server.
func (t *Tester) TestConnection(ctx context.Context) error {
	if err := t.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

var _ datasource.ConnectionTester = (*Tester)(nil)
