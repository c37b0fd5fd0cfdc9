package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/matchforge/vendormatch/internal/config"
)

// Registry resolves every provider's client once at startup, so request
// handling never branches on provider strings. The embedder and search
// client are fixed to OpenAI regardless of the analysis provider.
type Registry struct {
	clients         map[Provider]LLMClient
	embedder        EmbedderClient
	search          SearchClient
	defaultProvider Provider
}

func NewRegistry(ctx context.Context, cfg config.LLMConfig) (*Registry, error) {
	openaiClient := NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.EmbeddingModel, cfg.SearchModel, "")

	geminiClient, err := NewGeminiClient(ctx, cfg.GoogleAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
	}

	// Ollama speaks the OpenAI wire protocol on its /v1 endpoint. The API
	// key is ignored by Ollama but required by the client config.
	baseURL := cfg.OllamaBaseURL
	if !strings.HasSuffix(baseURL, "/v1") {
		baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
	}
	ollamaClient := NewOpenAIClient("ollama", cfg.OllamaModel, cfg.EmbeddingModel, cfg.SearchModel, baseURL)

	def := Normalize(cfg.DefaultProvider, ProviderGemini)

	return &Registry{
		clients: map[Provider]LLMClient{
			ProviderOpenAI: openaiClient,
			ProviderGemini: geminiClient,
			ProviderOllama: ollamaClient,
		},
		embedder:        openaiClient,
		search:          openaiClient,
		defaultProvider: def,
	}, nil
}

// NewRegistryWithClients builds a registry from pre-constructed clients.
func NewRegistryWithClients(clients map[Provider]LLMClient, embedder EmbedderClient, search SearchClient, def Provider) *Registry {
	return &Registry{
		clients:         clients,
		embedder:        embedder,
		search:          search,
		defaultProvider: def,
	}
}

// Resolve normalizes an arbitrary provider string and returns the matching
// client. Unknown strings resolve to the default provider.
func (r *Registry) Resolve(s string) (Provider, LLMClient) {
	p := Normalize(s, r.defaultProvider)
	return p, r.clients[p]
}

func (r *Registry) Client(p Provider) LLMClient {
	return r.clients[p]
}

func (r *Registry) Embedder() EmbedderClient {
	return r.embedder
}

func (r *Registry) Search() SearchClient {
	return r.search
}

func (r *Registry) Default() Provider {
	return r.defaultProvider
}
