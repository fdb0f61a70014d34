package translator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querylens/querylens/pkg/apperrors"
	"github.com/querylens/querylens/pkg/config"
)

func TestFactory(t *testing.T) {
	openaiCfg := config.TranslatorConfig{
		Provider: config.ProviderOpenAI, Model: "gpt-4o", APIKey: "sk-test", TimeoutSeconds: 60,
	}
	tr, err := New(openaiCfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &OpenAITranslator{}, tr)

	anthropicCfg := config.TranslatorConfig{
		Provider: config.ProviderAnthropic, Model: "claude-sonnet-4-5", APIKey: "sk-ant-test", TimeoutSeconds: 60,
	}
	tr, err = New(anthropicCfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &AnthropicTranslator{}, tr)

	_, err = New(config.TranslatorConfig{Provider: "cohere"}, nil)
	assert.Error(t, err)
}

func TestFactoryRejectsMissingModel(t *testing.T) {
	_, err := New(config.TranslatorConfig{Provider: config.ProviderOpenAI}, nil)
	assert.Error(t, err)
}

func TestParseSQLArguments(t *testing.T) {
	result, err := parseSQLArguments(`{
		"query": "SELECT category, SUM(amount) FROM sales GROUP BY category",
		"explanation": "Totals sales per category",
		"tables_used": ["sales"]
	}`)
	require.NoError(t, err)

	assert.Equal(t, TypeSQL, result.Type)
	assert.Contains(t, result.SQLQuery, "GROUP BY category")
	assert.Equal(t, []string{"sales"}, result.TablesUsed)
}

func TestParseSQLArgumentsEmptyQuery(t *testing.T) {
	_, err := parseSQLArguments(`{"query": "", "explanation": "nothing to run"}`)
	require.Error(t, err)

	var trErr *apperrors.TranslationError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, "nothing to run", trErr.SQLExplanation)
}

func TestParseSQLArgumentsMalformed(t *testing.T) {
	_, err := parseSQLArguments(`{"query": `)
	assert.Error(t, err)
}

func TestParseSuggestionArguments(t *testing.T) {
	s, err := parseSuggestionArguments(`{"chart_type": "bar", "reason": "categorical vs numeric", "title": "Sales by category"}`)
	require.NoError(t, err)
	assert.Equal(t, "bar", s.ChartType)
	assert.Equal(t, "Sales by category", s.Title)
}

func TestMockTranslatorCounters(t *testing.T) {
	mock := NewMockTranslator()

	result, err := mock.Translate(context.Background(), "schema", "question")
	require.NoError(t, err)
	assert.Equal(t, TypeSQL, result.Type)

	_, err = mock.SuggestChart(context.Background(), ResultSummary{})
	require.NoError(t, err)

	assert.Equal(t, 1, mock.TranslateCalls)
	assert.Equal(t, 1, mock.SuggestChartCalls)
}

func TestSystemPromptIncludesSchema(t *testing.T) {
	prompt := systemPrompt("Table 'customers' contains columns: id, name.")
	assert.Contains(t, prompt, "Table 'customers'")
	assert.Contains(t, prompt, "Only generate SELECT queries")
}
