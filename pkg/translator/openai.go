package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/querylens/querylens/pkg/apperrors"
)

var generateSQLTool = openai.Tool{
	Type: openai.ToolTypeFunction,
	Function: &openai.FunctionDefinition{
		Name:        "generate_sql",
		Description: "Generate SQL query based on the user's question and database schema",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {
					"type": "string",
					"description": "The complete SQL SELECT query"
				},
				"explanation": {
					"type": "string",
					"description": "Human-readable explanation of what the query does"
				},
				"tables_used": {
					"type": "array",
					"items": {"type": "string"},
					"description": "List of tables used in the query"
				}
			},
			"required": ["query", "explanation", "tables_used"]
		}`),
	},
}

var suggestVisualizationTool = openai.Tool{
	Type: openai.ToolTypeFunction,
	Function: &openai.FunctionDefinition{
		Name:        "suggest_visualization",
		Description: "Suggest the best visualization type based on query results and data characteristics",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"chart_type": {
					"type": "string",
					"enum": ["bar", "line", "pie", "scatter", "table"],
					"description": "Recommended chart type"
				},
				"reason": {
					"type": "string",
					"description": "Explanation for why this chart type is recommended"
				},
				"title": {
					"type": "string",
					"description": "Suggested title for the visualization"
				}
			},
			"required": ["chart_type", "reason", "title"]
		}`),
	},
}

// OpenAITranslator implements Translator over any OpenAI-compatible
// endpoint using tool calling.
type OpenAITranslator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewOpenAITranslator creates a translator against baseURL (empty means the
// public OpenAI API). If logger is nil, a no-op logger is used.
func NewOpenAITranslator(baseURL, model, apiKey string, timeout time.Duration, logger *zap.Logger) (*OpenAITranslator, error) {
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(baseURL, "/")
	}

	return &OpenAITranslator{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		timeout: timeout,
		logger:  logger.Named("translator"),
	}, nil
}

// Translate asks the model for SQL answering question. When the model calls
// the generate_sql tool the result is TypeSQL; a plain completion becomes a
// TypeText answer.
func (t *OpenAITranslator) Translate(ctx context.Context, schemaDescription, question string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	t.logger.Debug("translation request",
		zap.String("model", t.model),
		zap.Int("question_len", len(question)))

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(schemaDescription)},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
		Tools:       []openai.Tool{generateSQLTool},
		ToolChoice:  "auto",
		Temperature: 0.1,
	})
	if err != nil {
		return nil, &apperrors.TranslationError{Cause: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &apperrors.TranslationError{Cause: fmt.Errorf("empty completion")}
	}

	message := resp.Choices[0].Message
	for _, call := range message.ToolCalls {
		if call.Function.Name != generateSQLTool.Function.Name {
			continue
		}
		return parseSQLArguments(call.Function.Arguments)
	}

	if strings.TrimSpace(message.Content) == "" {
		return nil, &apperrors.TranslationError{Cause: fmt.Errorf("no SQL and no text in completion")}
	}
	return &Result{Type: TypeText, Text: message.Content}, nil
}

// SuggestChart asks the model for a visualization, forcing the
// suggest_visualization tool.
func (t *OpenAITranslator) SuggestChart(ctx context.Context, summary ResultSummary) (*Suggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: chartPrompt(summary)},
		},
		Tools: []openai.Tool{suggestVisualizationTool},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: suggestVisualizationTool.Function.Name},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, &apperrors.TranslationError{Cause: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &apperrors.TranslationError{Cause: fmt.Errorf("empty completion")}
	}

	for _, call := range resp.Choices[0].Message.ToolCalls {
		if call.Function.Name != suggestVisualizationTool.Function.Name {
			continue
		}
		return parseSuggestionArguments(call.Function.Arguments)
	}
	return nil, &apperrors.TranslationError{Cause: fmt.Errorf("no visualization suggestion in completion")}
}

func parseSQLArguments(arguments string) (*Result, error) {
	var args struct {
		Query       string   `json:"query"`
		Explanation string   `json:"explanation"`
		TablesUsed  []string `json:"tables_used"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return nil, &apperrors.TranslationError{Cause: fmt.Errorf("parse tool arguments: %w", err)}
	}
	if strings.TrimSpace(args.Query) == "" {
		return nil, &apperrors.TranslationError{
			SQLExplanation: args.Explanation,
			Cause:          fmt.Errorf("tool call produced no query"),
		}
	}
	return &Result{
		Type:        TypeSQL,
		SQLQuery:    args.Query,
		Explanation: args.Explanation,
		TablesUsed:  args.TablesUsed,
	}, nil
}

func parseSuggestionArguments(arguments string) (*Suggestion, error) {
	var s Suggestion
	if err := json.Unmarshal([]byte(arguments), &s); err != nil {
		return nil, &apperrors.TranslationError{Cause: fmt.Errorf("parse tool arguments: %w", err)}
	}
	return &s, nil
}

// Ensure OpenAITranslator implements Translator at compile time.
var _ Translator = (*OpenAITranslator)(nil)
