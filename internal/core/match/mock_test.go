package match

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

func testRegistry(client llm.LLMClient) *llm.Registry {
	return llm.NewRegistryWithClients(map[llm.Provider]llm.LLMClient{
		llm.ProviderOpenAI: client,
		llm.ProviderGemini: client,
		llm.ProviderOllama: client,
	}, nil, nil, llm.ProviderOpenAI)
}
