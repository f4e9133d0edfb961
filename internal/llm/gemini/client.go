package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"ats-backend/internal/llm"
	"ats-backend/internal/shared/telemetry"
)

// DefaultModel is used when LLM_MODEL is unset.
const DefaultModel = "gemini-2.5-flash"

// Client implements llm.Generator on the Gemini API.
type Client struct {
	api   *genai.Client
	model string
}

// NewClient builds a Gemini client. baseURL is only set in tests.
func NewClient(ctx context.Context, apiKey, baseURL, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: trimmed}
	}
	api, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{api: api, model: model}, nil
}

// Model returns the model name sent with every request.
func (c *Client) Model() string {
	return c.model
}

// Generate requests a JSON response for the prompt and returns the concatenated text parts.
func (c *Client) Generate(ctx context.Context, prompt llm.Prompt) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr(float32(0)),
	}
	resp, err := c.api.Models.GenerateContent(ctx, c.model, genai.Text(prompt.User), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini response missing candidates: %w", llm.ErrEmptyResponse)
	}
	if resp.UsageMetadata != nil {
		telemetry.Info("llm.response", map[string]any{
			"provider":          "gemini",
			"model":             c.model,
			"prompt_tokens":     resp.UsageMetadata.PromptTokenCount,
			"completion_tokens": resp.UsageMetadata.CandidatesTokenCount,
			"total_tokens":      resp.UsageMetadata.TotalTokenCount,
		})
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini: %w", llm.ErrEmptyResponse)
	}
	return text, nil
}

var _ llm.Generator = (*Client)(nil)
