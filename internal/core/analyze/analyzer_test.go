package analyze

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/matchforge/vendormatch/internal/apperr"
	"github.com/matchforge/vendormatch/internal/core/cache"
	"github.com/matchforge/vendormatch/internal/llm"
	"github.com/matchforge/vendormatch/internal/store"
)

type mockLLM struct {
	response string
	err      error
	calls    int
}

func (m *mockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func newTestAnalyzer(client llm.LLMClient) *Analyzer {
	log := zap.NewNop()
	registry := llm.NewRegistryWithClients(map[llm.Provider]llm.LLMClient{
		llm.ProviderOpenAI: client,
		llm.ProviderGemini: client,
		llm.ProviderOllama: client,
	}, nil, nil, llm.ProviderOpenAI)
	return New(registry, cache.New(store.NewMemory(), log), log)
}

func TestVendorCapabilitiesTagsAndCaches(t *testing.T) {
	mock := &mockLLM{response: `{"key_technical_domains": ["NLP"], "tools": ["Go"]}`}
	a := newTestAnalyzer(mock)
	ctx := context.Background()

	caps, err := a.VendorCapabilities(ctx, llm.ProviderOpenAI, "Acme", "builds NLP tooling")

	assert.NoError(t, err)
	assert.Equal(t, "Acme", caps["name"])
	assert.Equal(t, "openai", caps["llm_provider"])
	assert.Equal(t, []any{"NLP"}, caps["key_technical_domains"])
	assert.Equal(t, 1, mock.calls)

	// Second call for identical content is served from cache.
	again, err := a.VendorCapabilities(ctx, llm.ProviderOpenAI, "Acme", "builds NLP tooling")
	assert.NoError(t, err)
	assert.Equal(t, caps, again)
	assert.Equal(t, 1, mock.calls)

	// Changed text is a new content hash and triggers a fresh call.
	_, err = a.VendorCapabilities(ctx, llm.ProviderOpenAI, "Acme", "builds CV tooling")
	assert.NoError(t, err)
	assert.Equal(t, 2, mock.calls)
}

func TestProblemAnalysisTagsAndCaches(t *testing.T) {
	mock := &mockLLM{response: `{"primary_technical_domains": ["ML"]}`}
	a := newTestAnalyzer(mock)
	ctx := context.Background()

	analysis, err := a.ProblemAnalysis(ctx, llm.ProviderGemini, "Title: T\nDescription: D\nOutcomes: O")

	assert.NoError(t, err)
	assert.Equal(t, "gemini", analysis["llm_provider"])
	assert.NotEmpty(t, analysis["content_hash"])
	assert.Equal(t, 1, mock.calls)

	_, err = a.ProblemAnalysis(ctx, llm.ProviderGemini, "Title: T\nDescription: D\nOutcomes: O")
	assert.NoError(t, err)
	assert.Equal(t, 1, mock.calls)
}

func TestVendorCapabilitiesLLMFailure(t *testing.T) {
	a := newTestAnalyzer(&mockLLM{err: errors.New("rate limited")})

	_, err := a.VendorCapabilities(context.Background(), llm.ProviderOpenAI, "Acme", "text")

	assert.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Upstream))
}

func TestProblemAnalysisMalformedOutput(t *testing.T) {
	a := newTestAnalyzer(&mockLLM{response: "I could not produce JSON, sorry."})

	_, err := a.ProblemAnalysis(context.Background(), llm.ProviderOpenAI, "Title: T")

	assert.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Upstream))
}
