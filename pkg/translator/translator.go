// Package translator turns natural language questions into SQL using an
// external language model. Two providers are supported, OpenAI-compatible
// endpoints and Anthropic; both return the same Result shape so the rest of
// the pipeline never sees provider detail.
package translator

import "context"

// ResultType distinguishes a generated query from a plain text answer.
type ResultType string

const (
	TypeSQL  ResultType = "sql"
	TypeText ResultType = "text"
)

// Result is one translation outcome. For TypeSQL, SQLQuery holds a single
// SELECT statement yet to be validated; for TypeText, Text holds the model's
// direct answer.
type Result struct {
	Type        ResultType `json:"type"`
	SQLQuery    string     `json:"sql_query,omitempty"`
	Explanation string     `json:"explanation,omitempty"`
	TablesUsed  []string   `json:"tables_used,omitempty"`
	Text        string     `json:"text,omitempty"`
}

// ResultSummary describes an executed result set for chart suggestion. Rows
// themselves are never sent to the model.
type ResultSummary struct {
	Question  string   `json:"question"`
	SQLQuery  string   `json:"sql_query"`
	Columns   []string `json:"columns"`
	DataTypes []string `json:"data_types"`
	RowCount  int      `json:"row_count"`
}

// Suggestion is a model-proposed visualization. ChartType is validated
// against the closed chart set by the caller before use.
type Suggestion struct {
	ChartType string `json:"chart_type"`
	Reason    string `json:"reason"`
	Title     string `json:"title"`
}

// Translator converts questions to SQL and proposes charts.
type Translator interface {
	Translate(ctx context.Context, schemaDescription, question string) (*Result, error)
	SuggestChart(ctx context.Context, summary ResultSummary) (*Suggestion, error)
}
