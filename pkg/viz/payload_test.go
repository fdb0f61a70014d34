package viz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPayloadBarGroupsAndSums(t *testing.T) {
	columns := []string{"category", "amount"}
	dataTypes := []string{"object", "float64"}
	rows := [][]any{
		{"Books", 10.0},
		{"Electronics", 999.99},
		{"Books", 5.0},
		{"Clothing", 20.0},
	}

	p, err := BuildPayload(Bar, "Sales by category", columns, dataTypes, rows)
	require.NoError(t, err)

	assert.Equal(t, Bar, p.Type)
	assert.Equal(t, "category", p.XLabel)
	assert.Equal(t, "amount", p.YLabel)
	assert.Equal(t, []any{"Books", "Clothing", "Electronics"}, p.X)
	assert.Equal(t, []float64{15.0, 20.0, 999.99}, p.Y)
}

func TestBuildPayloadBarCountsWithoutNumeric(t *testing.T) {
	columns := []string{"region"}
	dataTypes := []string{"object"}
	rows := [][]any{{"North"}, {"South"}, {"North"}, {"North"}, {"East"}}

	p, err := BuildPayload(Bar, "Regions", columns, dataTypes, rows)
	require.NoError(t, err)

	assert.Equal(t, []any{"North", "South", "East"}, p.X)
	assert.Equal(t, []float64{3, 1, 1}, p.Y)
}

func TestBuildPayloadPieCounts(t *testing.T) {
	columns := []string{"region"}
	dataTypes := []string{"object"}
	rows := [][]any{{"West"}, {"West"}, {"North"}}

	p, err := BuildPayload(Pie, "Customers by region", columns, dataTypes, rows)
	require.NoError(t, err)

	assert.Equal(t, Pie, p.Type)
	assert.Equal(t, []any{"West", "North"}, p.X)
	assert.Equal(t, []float64{2, 1}, p.Y)
}

func TestBuildPayloadLineSortsByDate(t *testing.T) {
	columns := []string{"sale_date", "amount"}
	dataTypes := []string{"datetime64", "float64"}
	rows := [][]any{
		{"2026-03-10", 30.0},
		{"2026-01-05", 10.0},
		{"2026-02-20", 20.0},
	}

	p, err := BuildPayload(Line, "Sales over time", columns, dataTypes, rows)
	require.NoError(t, err)

	assert.Equal(t, []any{"2026-01-05", "2026-02-20", "2026-03-10"}, p.X)
	assert.Equal(t, []float64{10.0, 20.0, 30.0}, p.Y)
}

func TestBuildPayloadScatter(t *testing.T) {
	columns := []string{"price", "quantity"}
	dataTypes := []string{"float64", "int64"}
	rows := [][]any{
		{19.99, int64(3)},
		{49.99, int64(1)},
	}

	p, err := BuildPayload(Scatter, "Price vs quantity", columns, dataTypes, rows)
	require.NoError(t, err)

	assert.Equal(t, []any{19.99, 49.99}, p.X)
	assert.Equal(t, []float64{3, 1}, p.Y)
}

func TestBuildPayloadTableIsNil(t *testing.T) {
	p, err := BuildPayload(Table, "Everything", []string{"a"}, []string{"object"}, [][]any{{"x"}})
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestBuildPayloadEmptyRows(t *testing.T) {
	_, err := BuildPayload(Bar, "Empty", []string{"a"}, []string{"object"}, nil)
	assert.Error(t, err)
}
