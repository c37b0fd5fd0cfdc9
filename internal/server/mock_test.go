package server

import (
	"context"
	"errors"

	"github.com/matchforge/vendormatch/internal/llm"
	"github.com/matchforge/vendormatch/internal/store"
)

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

type MockEmbedder struct {
	Vector []float32
	Err    error
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.Err != nil {
		return nil, m.Err
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

// brokenStore fails every operation, for exercising the 500 mapping.
type brokenStore struct{}

var errStoreDown = errors.New("connection refused")

func (b *brokenStore) FindOne(ctx context.Context, collection string, filter store.Filter) (store.Document, error) {
	return nil, errStoreDown
}
func (b *brokenStore) FindAll(ctx context.Context, collection string) ([]store.Document, error) {
	return nil, errStoreDown
}
func (b *brokenStore) UpsertOne(ctx context.Context, collection string, filter store.Filter, doc store.Document) error {
	return errStoreDown
}
func (b *brokenStore) DeleteOne(ctx context.Context, collection string, filter store.Filter) (int64, error) {
	return 0, errStoreDown
}
func (b *brokenStore) DeleteMany(ctx context.Context, collection string, filter store.Filter) (int64, error) {
	return 0, errStoreDown
}
func (b *brokenStore) Count(ctx context.Context, collection string, filter store.Filter) (int64, error) {
	return 0, errStoreDown
}
func (b *brokenStore) Ping(ctx context.Context) error  { return errStoreDown }
func (b *brokenStore) Close(ctx context.Context) error { return nil }
