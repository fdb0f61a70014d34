package translator

import (
	"context"
	"fmt"
	"strings"
	"time"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/querylens/querylens/pkg/apperrors"
)

const anthropicMaxTokens = 2000

// AnthropicTranslator implements Translator against the Anthropic API.
// Instead of tool calling it instructs the model to answer with a single
// JSON object and extracts it from the response text.
type AnthropicTranslator struct {
	client  *anthropic.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewAnthropicTranslator creates a translator. If logger is nil, a no-op
// logger is used.
func NewAnthropicTranslator(model, apiKey string, timeout time.Duration, logger *zap.Logger) (*AnthropicTranslator, error) {
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AnthropicTranslator{
		client:  anthropic.NewClient(apiKey),
		model:   model,
		timeout: timeout,
		logger:  logger.Named("translator"),
	}, nil
}

func (t *AnthropicTranslator) Translate(ctx context.Context, schemaDescription, question string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	prompt := question + `

Answer with ONLY one JSON object, no prose around it:
- if the question maps to SQL: {"query": "<SELECT statement>", "explanation": "<what it does>", "tables_used": ["<table>"]}
- otherwise: {"answer": "<plain text answer>"}`

	resp, err := t.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(t.model),
		System:    systemPrompt(schemaDescription),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: anthropic.MessagesContentTypeText, Text: &prompt},
			}},
		},
	})
	if err != nil {
		return nil, &apperrors.TranslationError{Cause: err}
	}

	text := responseText(resp)
	parsed, err := ParseJSONResponse[struct {
		Query       string   `json:"query"`
		Explanation string   `json:"explanation"`
		TablesUsed  []string `json:"tables_used"`
		Answer      string   `json:"answer"`
	}](text)
	if err != nil {
		// Not JSON at all; treat the whole response as a text answer.
		if strings.TrimSpace(text) == "" {
			return nil, &apperrors.TranslationError{Cause: fmt.Errorf("empty response")}
		}
		return &Result{Type: TypeText, Text: strings.TrimSpace(text)}, nil
	}

	if strings.TrimSpace(parsed.Query) != "" {
		return &Result{
			Type:        TypeSQL,
			SQLQuery:    parsed.Query,
			Explanation: parsed.Explanation,
			TablesUsed:  parsed.TablesUsed,
		}, nil
	}
	if strings.TrimSpace(parsed.Answer) != "" {
		return &Result{Type: TypeText, Text: parsed.Answer}, nil
	}
	return nil, &apperrors.TranslationError{Cause: fmt.Errorf("response held neither query nor answer")}
}

func (t *AnthropicTranslator) SuggestChart(ctx context.Context, summary ResultSummary) (*Suggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	prompt := chartPrompt(summary) + `

Answer with ONLY one JSON object:
{"chart_type": "bar|line|pie|scatter|table", "reason": "<why>", "title": "<chart title>"}`

	resp, err := t.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(t.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: anthropic.MessagesContentTypeText, Text: &prompt},
			}},
		},
	})
	if err != nil {
		return nil, &apperrors.TranslationError{Cause: err}
	}

	suggestion, err := ParseJSONResponse[Suggestion](responseText(resp))
	if err != nil {
		return nil, &apperrors.TranslationError{Cause: err}
	}
	return &suggestion, nil
}

func responseText(resp anthropic.MessagesResponse) string {
	var sb strings.Builder
	for _, content := range resp.Content {
		if content.Text != nil {
			sb.WriteString(*content.Text)
		}
	}
	return sb.String()
}

// Ensure AnthropicTranslator implements Translator at compile time.
var _ Translator = (*AnthropicTranslator)(nil)
