package llm

import (
	"context"
)

// LLMClient produces a text completion for an analysis or evaluation prompt.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EmbedderClient turns text into a dense vector. There is exactly one
// embedder in the system so every vector lives in the same space.
type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SearchClient runs a web-search-augmented completion. The response is free
// text; callers parse it heuristically.
type SearchClient interface {
	Search(ctx context.Context, prompt string) (string, error)
}
