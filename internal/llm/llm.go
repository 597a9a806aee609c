// Package llm holds the embedding and generation provider contracts and
// their implementations.
package llm

import "context"

// EmbeddingProvider converts text into embedding vectors. Deterministic per
// model version.
type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Provider generates text from a system prompt and a user prompt.
type Provider interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
