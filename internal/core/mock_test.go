package core

import (
	"context"

	"github.com/matchforge/vendormatch/internal/llm"
)

type MockLLM struct {
	Response      string
	ResponseQueue []string
	Err           error
	Calls         int
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}

type MockEmbedder struct {
	Vector      []float32
	VectorQueue [][]float32
	Err         error
	Calls       int
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.VectorQueue) > 0 {
		v := m.VectorQueue[0]
		m.VectorQueue = m.VectorQueue[1:]
		return v, nil
	}
	return m.Vector, nil
}

type MockSearch struct {
	Response string
	Err      error
}

func (m *MockSearch) Search(ctx context.Context, prompt string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func testRegistry(client llm.LLMClient, embedder llm.EmbedderClient, search llm.SearchClient) *llm.Registry {
	return llm.NewRegistryWithClients(map[llm.Provider]llm.LLMClient{
		llm.ProviderOpenAI: client,
		llm.ProviderGemini: client,
		llm.ProviderOllama: client,
	}, embedder, search, llm.ProviderOpenAI)
}
