package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querylens/querylens/pkg/apperrors"
	"github.com/querylens/querylens/pkg/config"
	"github.com/querylens/querylens/pkg/datasource"
	"github.com/querylens/querylens/pkg/guard"
)

type stubSQLExecutor struct {
	lastQuery string
	lastLimit int
	result    *datasource.RowSet
	err       error
}

func (s *stubSQLExecutor) Query(ctx context.Context, sqlQuery string, limit int) (*datasource.RowSet, error) {
	s.lastQuery = sqlQuery
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func testConfig(maxRows int) config.QueryConfig {
	return config.QueryConfig{TimeoutSeconds: 30, MaxRows: maxRows, SampleLimit: 5}
}

func rowSet(n int) *datasource.RowSet {
	rs := &datasource.RowSet{
		Columns:   []string{"id", "name"},
		TypeNames: []string{"INTEGER", "TEXT"},
	}
	for i := 0; i < n; i++ {
		rs.Rows = append(rs.Rows, []any{int64(i), "row"})
	}
	return rs
}

func TestExecuteSuccess(t *testing.T) {
	stub := &stubSQLExecutor{result: rowSet(3)}
	exec := New(guard.New(), testConfig(100), nil)

	result, err := exec.Execute(context.Background(), stub, "SELECT id, name FROM customers")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, result.Columns)
	assert.Equal(t, []string{"int64", "object"}, result.DataTypes)
	assert.Equal(t, 3, result.RowCount)
	assert.False(t, result.Truncated)

	// One row past the cap is requested so truncation is detectable.
	assert.Equal(t, 101, stub.lastLimit)
}

func TestExecuteRejectsUnsafeSQL(t *testing.T) {
	stub := &stubSQLExecutor{result: rowSet(1)}
	exec := New(guard.New(), testConfig(100), nil)

	_, err := exec.Execute(context.Background(), stub, "DROP TABLE customers")
	require.Error(t, err)

	var valErr *apperrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Empty(t, stub.lastQuery)
}

func TestExecuteTruncation(t *testing.T) {
	tests := []struct {
		name          string
		maxRows       int
		returnedRows  int
		wantCount     int
		wantTruncated bool
	}{
		{"under cap", 5, 3, 3, false},
		{"exactly at cap", 5, 5, 5, false},
		{"over cap", 5, 6, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubSQLExecutor{result: rowSet(tt.returnedRows)}
			exec := New(guard.New(), testConfig(tt.maxRows), nil)

			result, err := exec.Execute(context.Background(), stub, "SELECT id, name FROM customers")
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, result.RowCount)
			assert.Equal(t, tt.wantCount, len(result.Rows))
			assert.Equal(t, tt.wantTruncated, result.Truncated)
		})
	}
}

func TestExecuteTimeout(t *testing.T) {
	stub := &stubSQLExecutor{err: context.DeadlineExceeded}
	exec := New(guard.New(), testConfig(100), nil)

	_, err := exec.Execute(context.Background(), stub, "SELECT id FROM customers")
	require.Error(t, err)

	var execErr *apperrors.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.True(t, execErr.Timeout)
	assert.True(t, apperrors.IsTimeout(err))
}

func TestExecuteDatabaseError(t *testing.T) {
	stub := &stubSQLExecutor{err: errors.New("no such table: orders")}
	exec := New(guard.New(), testConfig(100), nil)

	_, err := exec.Execute(context.Background(), stub, "SELECT id FROM orders")
	require.Error(t, err)

	var execErr *apperrors.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.False(t, execErr.Timeout)
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"INTEGER", "int64"},
		{"INT4", "int64"},
		{"bigint", "int64"},
		{"FLOAT8", "float64"},
		{"decimal(10,2)", "float64"},
		{"NUMERIC", "float64"},
		{"real", "float64"},
		{"BOOL", "bool"},
		{"boolean", "bool"},
		{"DATE", "datetime64"},
		{"TIMESTAMPTZ", "datetime64"},
		{"datetime2", "datetime64"},
		{"TEXT", "object"},
		{"VARCHAR", "object"},
		{"", "object"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeType(tt.in), "type %q", tt.in)
	}
}
