// Package sqlstd adapts any database/sql driver to the datasource
// capabilities that do not need driver-specific SQL. The sqlite and
// sqlserver adapters build on it; introspection stays in the adapters
// because catalog queries differ per engine.
package sqlstd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/querylens/querylens/pkg/datasource"
)

// Executor implements datasource.SQLExecutor over a *sql.DB.
type Executor struct {
	db *sql.DB
}

// NewExecutor wraps db. The caller retains ownership of db's lifecycle.
func NewExecutor(db *sql.DB) *Executor {
	return &Executor{db: db}
}

// Query runs sql and materializes up to limit rows (limit <= 0 reads all).
// Type names come from the driver's DatabaseTypeName, falling back to the Go
// scan type when the driver reports none (sqlite does this for expressions).
func (e *Executor) Query(ctx context.Context, sqlQuery string, limit int) (*datasource.RowSet, error) {
	rows, err := e.db.QueryContext(ctx, sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	typeNames := make([]string, len(columns))
	if colTypes, err := rows.ColumnTypes(); err == nil {
		for i, ct := range colTypes {
			typeNames[i] = ct.DatabaseTypeName()
			if typeNames[i] == "" && ct.ScanType() != nil {
				typeNames[i] = ct.ScanType().String()
			}
		}
	}

	result := &datasource.RowSet{
		Columns:   columns,
		TypeNames: typeNames,
		Rows:      make([][]any, 0),
	}

	for rows.Next() {
		if limit > 0 && len(result.Rows) >= limit {
			break
		}

		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		// database/sql hands back []byte for text under many drivers;
		// convert so results serialize as strings.
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return result, nil
}

// Tester implements datasource.ConnectionTester over a *sql.DB.
type Tester struct {
	db *sql.DB
}

// NewTester wraps db.
func NewTester(db *sql.DB) *Tester {
	return &Tester{db: db}
}

// TestConnection pings the database.
func (t *Tester) TestConnection(ctx context.Context) error {
	if err := t.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Ensure interfaces are implemented at compile time.
var (
	_ datasource.SQLExecutor      = (*Executor)(nil)
	_ datasource.ConnectionTester = (*Tester)(nil)
)
