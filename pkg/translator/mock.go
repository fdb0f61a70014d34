package translator

import "context"

// MockTranslator is a configurable mock for testing. Set the function fields
// to control behavior; call counters record invocations.
type MockTranslator struct {
	// TranslateFunc is called when Translate is invoked. If nil, a fixed
	// SQL result is returned.
	TranslateFunc func(ctx context.Context, schemaDescription, question string) (*Result, error)

	// SuggestChartFunc is called when SuggestChart is invoked. If nil, a
	// table suggestion is returned.
	SuggestChartFunc func(ctx context.Context, summary ResultSummary) (*Suggestion, error)

	TranslateCalls    int
	SuggestChartCalls int
}

// NewMockTranslator creates a mock with default responses.
func NewMockTranslator() *MockTranslator {
	return &MockTranslator{}
}

func (m *MockTranslator) Translate(ctx context.Context, schemaDescription, question string) (*Result, error) {
	m.TranslateCalls++
	if m.TranslateFunc != nil {
		return m.TranslateFunc(ctx, schemaDescription, question)
	}
	return &Result{
		Type:        TypeSQL,
		SQLQuery:    "SELECT 1",
		Explanation: "mock translation",
	}, nil
}

func (m *MockTranslator) SuggestChart(ctx context.Context, summary ResultSummary) (*Suggestion, error) {
	m.SuggestChartCalls++
	if m.SuggestChartFunc != nil {
		return m.SuggestChartFunc(ctx, summary)
	}
	return &Suggestion{ChartType: "table", Reason: "mock suggestion", Title: "Results"}, nil
}

// Ensure MockTranslator implements Translator at compile time.
var _ Translator = (*MockTranslator)(nil)
