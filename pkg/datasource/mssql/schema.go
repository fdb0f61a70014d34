package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/querylens/querylens/pkg/datasource"
)

// Extractor implements datasource.SchemaExtractor for SQL Server using the
// sys catalog views.
type Extractor struct {
	db *sql.DB
}

// NewExtractor wraps db.
func NewExtractor(db *sql.DB) *Extractor {
	return &Extractor{db: db}
}

// GetTables returns all user table names, excluding system tables.
func (e *Extractor) GetTables(ctx context.Context) ([]string, error) {
	const query = `
	SET NOCOUNT ON;
	SELECT t.name
	FROM sys.tables t
	WHERE t.is_ms_shipped = 0
	ORDER BY t.name
	`

	rows, err := e.db.QueryContext(ctx, query)
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

// GetColumns returns the columns of table in column_id order.
func (e *Extractor) GetColumns(ctx context.Context, table string) ([]datasource.Column, error) {
	const query = `
	SET NOCOUNT ON;
	SELECT
	    c.name AS column_name,
	    tp.name AS data_type,
	    CASE WHEN c.is_nullable = 1 THEN 1 ELSE 0 END AS is_nullable,
	    CASE WHEN pk.column_id IS NOT NULL THEN 1 ELSE 0 END AS is_primary,
	    dc.definition AS column_default
	FROM sys.columns c
	INNER JOIN sys.types tp ON c.user_type_id = tp.user_type_id
	LEFT JOIN (
	    SELECT ic.object_id, ic.column_id
	    FROM sys.index_columns ic
	    INNER JOIN sys.indexes i ON ic.object_id = i.object_id AND ic.index_id = i.index_id
	    WHERE i.is_primary_key = 1
	) pk ON c.object_id = pk.object_id AND c.column_id = pk.column_id
	LEFT JOIN sys.default_constraints dc ON c.default_object_id = dc.object_id
	WHERE c.object_id = OBJECT_ID(QUOTENAME(@table))
	ORDER BY c.column_id
	`

	rows, err := e.db.QueryContext(ctx, query, sql.Named("table", table))
	if err != nil {
		return nil, fmt.Errorf("query columns for %s: %w", table, err)
	}
	defer rows.Close()

	var columns []datasource.Column
	for rows.Next() {
		var (
			col                   datasource.Column
			isNullable, isPrimary int
			dflt                  sql.NullString
		)
		if err := rows.Scan(&col.Name, &col.DataType, &isNullable, &isPrimary, &dflt); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}

		col.DataType = strings.ToLower(col.DataType)
		col.IsNullable = isNullable == 1
		col.IsPrimary = isPrimary == 1
		if dflt.Valid {
			col.Default = &dflt.String
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
	SET NOCOUNT ON;
	SELECT
	    COL_NAME(fkc.parent_object_id, fkc.parent_column_id) AS column_name,
	    OBJECT_NAME(fk.referenced_object_id) AS referenced_table,
	    COL_NAME(fkc.referenced_object_id, fkc.referenced_column_id) AS referenced_column
	FROM sys.foreign_keys fk
	INNER JOIN sys.foreign_key_columns fkc ON fk.object_id = fkc.constraint_object_id
	WHERE fk.parent_object_id = OBJECT_ID(QUOTENAME(@table))
	  AND fk.is_ms_shipped = 0
	ORDER BY fk.name, fkc.constraint_column_id
	`

	rows, err := e.db.QueryContext(ctx, query, sql.Named("table", table))
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
