package mssql

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"name"}).
		AddRow("customers").
		AddRow("orders")
	mock.ExpectQuery("FROM sys.tables").WillReturnRows(rows)

	extractor := NewExtractor(db)
	tables, err := extractor.GetTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"customers", "orders"}, tables)
}

func TestGetColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "is_primary", "column_default"}).
		AddRow("id", "INT", 0, 1, nil).
		AddRow("name", "NVARCHAR", 0, 0, nil).
		AddRow("created_at", "DATETIME2", 1, 0, "(getdate())")
	mock.ExpectQuery("FROM sys.columns").WillReturnRows(rows)

	extractor := NewExtractor(db)
	columns, err := extractor.GetColumns(context.Background(), "customers")
	require.NoError(t, err)
	require.Len(t, columns, 3)

	assert.Equal(t, "id", columns[0].Name)
	assert.Equal(t, "int", columns[0].DataType)
	assert.True(t, columns[0].IsPrimary)
	assert.False(t, columns[0].IsNullable)

	assert.Equal(t, "datetime2", columns[2].DataType)
	assert.True(t, columns[2].IsNullable)
	require.NotNil(t, columns[2].Default)
	assert.Equal(t, "(getdate())", *columns[2].Default)
}

func TestGetForeignKeys(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"column_name", "referenced_table", "referenced_column"}).
		AddRow("customer_id", "customers", "id")
	mock.ExpectQuery("FROM sys.foreign_keys").WillReturnRows(rows)

	extractor := NewExtractor(db)
	fks, err := extractor.GetForeignKeys(context.Background(), "orders")
	require.NoError(t, err)
	require.Len(t, fks, 1)
	assert.Equal(t, "customer_id", fks[0].Column)
	assert.Equal(t, "customers", fks[0].ReferencedTable)
	assert.Equal(t, "id", fks[0].ReferencedColumn)
}
