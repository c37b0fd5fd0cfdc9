package store

import (
	"context"
	"sync"
)

// Memory is an in-process Store used by tests and local development. It
// mirrors the Memgraph implementation's semantics: last-write-wins upserts
// keyed on the filter, insertion-recency ordering for FindAll.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]memoryDoc
}

type memoryDoc struct {
	filter Filter
	doc    Document
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]memoryDoc)}
}

func matches(d memoryDoc, filter Filter) bool {
	if filter.Key == "" {
		return true
	}
	if d.filter.Key == filter.Key {
		return d.filter.Value == filter.Value
	}
	v, ok := d.doc[filter.Key]
	s, isStr := v.(string)
	return ok && isStr && s == filter.Value
}

func (m *Memory) FindOne(ctx context.Context, collection string, filter Filter) (Document, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := m.collections[collection]
	for i := len(docs) - 1; i >= 0; i-- {
		if matches(docs[i], filter) {
			return docs[i].doc, nil
		}
	}
	return nil, nil
}

func (m *Memory) FindAll(ctx context.Context, collection string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := m.collections[collection]
	result := make([]Document, 0, len(docs))
	for i := len(docs) - 1; i >= 0; i-- {
		result = append(result, docs[i].doc)
	}
	return result, nil
}

func (m *Memory) UpsertOne(ctx context.Context, collection string, filter Filter, doc Document) error {
	if err := filter.validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	// An updated document becomes the most recent, matching the Memgraph
	// implementation's updated_at refresh.
	docs := m.collections[collection]
	for i := range docs {
		if docs[i].filter == filter {
			docs = append(docs[:i:i], docs[i+1:]...)
			break
		}
	}
	m.collections[collection] = append(docs, memoryDoc{filter: filter, doc: doc})
	return nil
}

func (m *Memory) DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error) {
	if err := filter.validate(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.collections[collection]
	for i := range docs {
		if matches(docs[i], filter) {
			m.collections[collection] = append(docs[:i:i], docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *Memory) DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error) {
	if err := filter.validate(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.collections[collection]
	kept := docs[:0:0]
	var deleted int64
	for _, d := range docs {
		if matches(d, filter) {
			deleted++
			continue
		}
		kept = append(kept, d)
	}
	m.collections[collection] = kept
	return deleted, nil
}

func (m *Memory) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	if err := filter.validate(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total int64
	for _, d := range m.collections[collection] {
		if matches(d, filter) {
			total++
		}
	}
	return total, nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) Close(ctx context.Context) error { return nil }
