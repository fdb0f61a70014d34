// Package datasource defines the capability interfaces a relational store
// must provide to the query pipeline, plus the driver registry and locator
// resolution that produce live handles.
package datasource

import "context"

// ConnectionTester verifies database connectivity.
type ConnectionTester interface {
	// TestConnection returns nil if the database is reachable with valid
	// credentials.
	TestConnection(ctx context.Context) error
}

// SchemaExtractor enumerates tables, columns, and foreign keys.
type SchemaExtractor interface {
	// GetTables returns all user table names.
	GetTables(ctx context.Context) ([]string, error)

	// GetColumns returns columns for a specific table in ordinal order.
	GetColumns(ctx context.Context, table string) ([]Column, error)

	// GetForeignKeys returns foreign key relationships for a table.
	GetForeignKeys(ctx context.Context, table string) ([]ForeignKey, error)
}

// SQLExecutor runs a single SQL statement against the store.
// Implementations do no safety screening of their own; callers must gate
// every statement through the guard first.
type SQLExecutor interface {
	// Query runs sql and materializes up to limit rows. limit <= 0 means
	// no bound. The returned TypeNames carry the driver's reported type per
	// column, unnormalized.
	Query(ctx context.Context, sql string, limit int) (*RowSet, error)
}

// Column describes one table column.
type Column struct {
	Name       string  `json:"name"`
	DataType   string  `json:"data_type"`
	IsNullable bool    `json:"is_nullable"`
	IsPrimary  bool    `json:"is_primary"`
	Default    *string `json:"default,omitempty"`
}

// ForeignKey describes one outgoing foreign key edge.
type ForeignKey struct {
	Column           string `json:"column"`
	ReferencedTable  string `json:"referenced_table"`
	ReferencedColumn string `json:"referenced_column"`
}

// RowSet is the raw tabular result of one statement. Rows are positional:
// Rows[i][j] is the value of Columns[j] in row i.
type RowSet struct {
	Columns   []string `json:"columns"`
	TypeNames []string `json:"type_names"`
	Rows      [][]any  `json:"rows"`
}

// Handle is a live, connected reference to one relational store. It bundles
// the capabilities the pipeline needs plus the normalized identity used as
// the schema-cache key.
type Handle struct {
	// Identity is the normalized locator. It may embed credentials; use
	// logging.SanitizeLocator before logging or echoing it.
	Identity string

	// Driver names the adapter that opened this handle.
	Driver string

	Tester    ConnectionTester
	Extractor SchemaExtractor
	Executor  SQLExecutor

	closeFn func() error
}

// NewHandle bundles one connected store's capabilities. closeFn releases the
// underlying connection and may be nil.
func NewHandle(identity, driver string, tester ConnectionTester, extractor SchemaExtractor, executor SQLExecutor, closeFn func() error) *Handle {
	return &Handle{
		Identity:  identity,
		Driver:    driver,
		Tester:    tester,
		Extractor: extractor,
		Executor:  executor,
		closeFn:   closeFn,
	}
}

// Close releases the underlying connection.
func (h *Handle) Close() error {
	if h.closeFn == nil {
		return nil
	}
	return h.closeFn()
}
