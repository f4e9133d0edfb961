package llm

import (
	"context"
	"errors"
)

// Generator abstracts the model provider: one prompt in, the raw text completion out.
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt Prompt) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt Prompt) (string, error) {
	return f(ctx, prompt)
}

var (
	// ErrEmptyResponse is returned when the provider answers without any content.
	ErrEmptyResponse = errors.New("llm returned empty content")
	// ErrNotConfigured is returned by Unconfigured.
	ErrNotConfigured = errors.New("llm provider not configured")
)

// Unconfigured is used when no provider credentials are available so the API can still
// boot; every call fails.
type Unconfigured struct{}

// Generate returns ErrNotConfigured.
func (Unconfigured) Generate(context.Context, Prompt) (string, error) {
	return "", ErrNotConfigured
}
