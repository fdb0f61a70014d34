package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/querylens/querylens/pkg/datasource"
)

// Extractor implements datasource.SchemaExtractor using SQLite's PRAGMA
// catalog functions.
type Extractor struct {
	db *sql.DB
}

// NewExtractor wraps db.
func NewExtractor(db *sql.DB) *Extractor {
	return &Extractor{db: db}
}

// GetTables returns user table names, excluding SQLite's internal tables.
func (e *Extractor) GetTables(ctx context.Context) ([]string, error) {
	query := `
	SELECT name FROM sqlite_master
	WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
	ORDER BY name
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

// GetColumns returns the columns of table in declaration order.
func (e *Extractor) GetColumns(ctx context.Context, table string) ([]datasource.Column, error) {
	rows, err := e.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("query columns for %s: %w", table, err)
	}
	defer rows.Close()

	var columns []datasource.Column
	for rows.Next() {
		var (
			cid      int
			name     string
			dataType string
			notNull  int
			dflt     sql.NullString
			pk       int
		)
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}

		col := datasource.Column{
			Name:       name,
			DataType:   strings.ToLower(dataType),
			IsNullable: notNull == 0,
			IsPrimary:  pk > 0,
		}
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

// GetForeignKeys returns the outbound foreign keys of table. When the
// referenced column is implicit (references the target's primary key without
// naming it) SQLite reports NULL; "id" is assumed in that case, matching how
// such references resolve in practice.
func (e *Extractor) GetForeignKeys(ctx context.Context, table string) ([]datasource.ForeignKey, error) {
	rows, err := e.db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("query foreign keys for %s: %w", table, err)
	}
	defer rows.Close()

	var fks []datasource.ForeignKey
	for rows.Next() {
		var (
			id, seq            int
			refTable, fromCol  string
			toCol              sql.NullString
			onUpdate, onDelete string
			match              string
		)
		if err := rows.Scan(&id, &seq, &refTable, &fromCol, &toCol, &onUpdate, &onDelete, &match); err != nil {
			return nil, fmt.Errorf("scan foreign key row: %w", err)
		}

		fk := datasource.ForeignKey{
			Column:           fromCol,
			ReferencedTable:  refTable,
			ReferencedColumn: "id",
		}
		if toCol.Valid {
			fk.ReferencedColumn = toCol.String
		}
		fks = append(fks, fk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foreign key rows: %w", err)
	}

	return fks, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Ensure Extractor implements datasource.SchemaExtractor at compile time.
var _ datasource.SchemaExtractor = (*Extractor)(nil)
