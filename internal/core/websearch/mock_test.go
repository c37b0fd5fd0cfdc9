package websearch

import (
	"context"

	"github.com/matchforge/vendormatch/internal/llm"
)

type MockSearch struct {
	Response string
	Err      error
	Prompt   string
}

func (m *MockSearch) Search(ctx context.Context, prompt string) (string, error) {
	m.Prompt = prompt
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

type MockLLM struct {
	Response      string
	ResponseQueue []string
	Err           error
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
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

func testRegistry(client llm.LLMClient) *llm.Registry {
	return llm.NewRegistryWithClients(map[llm.Provider]llm.LLMClient{
		llm.ProviderOpenAI: client,
		llm.ProviderGemini: client,
		llm.ProviderOllama: client,
	}, nil, nil, llm.ProviderOpenAI)
}
