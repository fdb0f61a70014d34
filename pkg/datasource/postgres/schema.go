package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/querylens/querylens/pkg/datasource"
)

// Extractor implements datasource.SchemaExtractor for PostgreSQL using
// information_schema and the pg_catalog.
type Extractor struct {
	pool *pgxpool.Pool
}

// NewExtractor wraps pool.
func NewExtractor(pool *pgxpool.Pool) *Extractor {
	return &Extractor{pool: pool}
}

// GetTables returns all user table names, excluding system schemas.
func (e *Extractor) GetTables(ctx context.Context) ([]string, error) {
	const query = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
		  AND table_schema NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
		ORDER BY table_name
	`

	rows, err := e.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table row: %w", err)
		}
		tables = append(tables, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table rows: %w", err)
	}

	return tables, nil
}

// GetColumns returns the columns of table in ordinal position order.
func (e *Extractor) GetColumns(ctx context.Context, table string) ([]datasource.Column, error) {
	const query = `
		SELECT
			c.column_name,
			c.data_type,
			c.is_nullable = 'YES' AS is_nullable,
			c.column_default,
			EXISTS (
				SELECT 1
				FROM information_schema.table_constraints tc
				JOIN information_schema.key_column_usage kcu
				  ON kcu.constraint_name = tc.constraint_name
				 AND kcu.table_schema = tc.table_schema
				WHERE tc.constraint_type = 'PRIMARY KEY'
				  AND tc.table_name = c.table_name
				  AND tc.table_schema = c.table_schema
				  AND kcu.column_name = c.column_name
			) AS is_primary
		FROM information_schema.columns c
		WHERE c.table_name = $1
		  AND c.table_schema NOT IN ('pg_catalog', 'information_schema')
		ORDER BY c.ordinal_position
	`

	rows, err := e.pool.Query(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("query columns for %s: %w", table, err)
	}
	defer rows.Close()

	var columns []datasource.Column
	for rows.Next() {
		var col datasource.Column
		if err := rows.Scan(&col.Name, &col.DataType, &col.IsNullable, &col.Default, &col.IsPrimary); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column rows: %w", err)
	}

	return columns, nil
}

// GetForeignKeys returns the outbound foreign keys of table.
func (e *Extractor) GetForeignKeys(ctx context.Context, table string) ([]datasource.ForeignKey, error) {
	const query = `
		SELECT
			kcu.column_name,
			ccu.table_name AS referenced_table,
			ccu.column_name AS referenced_column
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON kcu.constraint_name = tc.constraint_name
		 AND kcu.table_schema = tc.table_schema
		JOIN information_schema.constraint_column_usage ccu
		  ON ccu.constraint_name = tc.constraint_name
		 AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
		  AND tc.table_name = $1
		ORDER BY kcu.ordinal_position
	`

	rows, err := e.pool.Query(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("query foreign keys for %s: %w", table, err)
	}
	defer rows.Close()

	var fks []datasource.ForeignKey
	for rows.Next() {
		var fk datasource.ForeignKey
		if err := rows.Scan(&fk.Column, &fk.ReferencedTable, &fk.ReferencedColumn); err != nil {
			return nil, fmt.Errorf("scan foreign key row: %w", err)
		}
		fks = append(fks, fk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foreign key rows: %w", err)
	}

	return fks, nil
}

// Ensure Extractor implements datasource.SchemaExtractor at compile time.
var _ datasource.SchemaExtractor = (*Extractor)(nil)
