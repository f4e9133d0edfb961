package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"ats-backend/internal/llm"
	"ats-backend/internal/shared/telemetry"
)

// DefaultModel is the model requested when LLM_MODEL is unset.
const DefaultModel = "gpt-4o"

// Client implements llm.Generator using OpenAI-compatible chat completions.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient constructs a new OpenAI client. baseURL may point at any OpenAI-compatible
// endpoint; empty uses api.openai.com.
func NewClient(apiKey, baseURL, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	cfg := openai.DefaultConfig(apiKey)
	if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
		cfg.BaseURL = strings.TrimRight(trimmed, "/")
	}
	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}, nil
}

// Model reports the model identifier sent with every request.
func (c *Client) Model() string {
	return c.model
}

// Generate sends one chat completion constrained to a JSON object and returns its content.
func (c *Client) Generate(ctx context.Context, prompt llm.Prompt) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System},
			{Role: openai.ChatMessageRoleUser, Content: prompt.User},
		},
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	logUsage(c.model, resp.Usage)

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices: %w", llm.ErrEmptyResponse)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai: %w", llm.ErrEmptyResponse)
	}
	return content, nil
}

func logUsage(model string, usage openai.Usage) {
	telemetry.Info("llm.response", map[string]any{
		"provider":          "openai",
		"model":             model,
		"prompt_tokens":     usage.PromptTokens,
		"completion_tokens": usage.CompletionTokens,
		"total_tokens":      usage.TotalTokens,
	})
}

var _ llm.Generator = (*Client)(nil)
