package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "bare object",
			input: `{"query": "SELECT 1"}`,
			want:  `{"query": "SELECT 1"}`,
		},
		{
			name:  "markdown fenced",
			input: "```json\n{\"query\": \"SELECT 1\"}\n```",
			want:  `{"query": "SELECT 1"}`,
		},
		{
			name:  "surrounding prose",
			input: `Here is the query: {"query": "SELECT 1"} hope that helps`,
			want:  `{"query": "SELECT 1"}`,
		},
		{
			name:  "think tags stripped",
			input: "<think>reasoning here</think>{\"query\": \"SELECT 1\"}",
			want:  `{"query": "SELECT 1"}`,
		},
		{
			name:  "nested braces in string",
			input: `{"explanation": "groups {by} category", "query": "SELECT 1"}`,
			want:  `{"explanation": "groups {by} category", "query": "SELECT 1"}`,
		},
		{
			name:  "array",
			input: `[1, 2, 3]`,
			want:  `[1, 2, 3]`,
		},
		{
			name:    "no JSON at all",
			input:   "I cannot answer that question.",
			wantErr: true,
		},
		{
			name:    "unbalanced",
			input:   `{"query": "SELECT 1"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseJSONResponse(t *testing.T) {
	type sqlArgs struct {
		Query      string   `json:"query"`
		TablesUsed []string `json:"tables_used"`
	}

	got, err := ParseJSONResponse[sqlArgs](
		"The SQL is:\n```json\n{\"query\": \"SELECT name FROM customers\", \"tables_used\": [\"customers\"]}\n```")
	require.NoError(t, err)
	assert.Equal(t, "SELECT name FROM customers", got.Query)
	assert.Equal(t, []string{"customers"}, got.TablesUsed)
}
