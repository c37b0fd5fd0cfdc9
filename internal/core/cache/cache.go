// Package cache is the content-addressed store for the two expensive
// artifact kinds: structured analyses (partitioned per provider) and
// embedding vectors (shared across providers).
package cache

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/matchforge/vendormatch/internal/core/model"
	"github.com/matchforge/vendormatch/internal/llm"
	"github.com/matchforge/vendormatch/internal/store"
)

// Shared embedding partitions. Embeddings are provider-independent: they
// always come from the canonical embedder.
const (
	VendorEmbeddings  = "vendor_embeddings"
	ProblemEmbeddings = "ps_embeddings"
)

func VendorAnalysisCollection(p llm.Provider) string {
	return fmt.Sprintf("vendor_capabilities_%s", p)
}

func ProblemAnalysisCollection(p llm.Provider) string {
	return fmt.Sprintf("ps_analysis_%s", p)
}

// Cache wraps the document store with the availability-over-consistency
// policy the pipeline needs: read failures degrade to a miss and write
// failures are logged and swallowed, so a flaky store costs recomputation
// instead of failed requests.
type Cache struct {
	store store.Store
	log   *zap.Logger
}

func New(s store.Store, log *zap.Logger) *Cache {
	return &Cache{store: s, log: log}
}

// LoadAnalysis returns the cached analysis for a content hash, or nil on
// miss. Store errors are treated as a miss.
func (c *Cache) LoadAnalysis(ctx context.Context, collection, contentHash string) model.Analysis {
	doc, err := c.store.FindOne(ctx, collection, store.ByHash(contentHash))
	if err != nil {
		c.log.Error("error loading cached analysis", zap.String("collection", collection), zap.Error(err))
		return nil
	}
	if doc == nil {
		return nil
	}
	data, ok := doc["data"].(map[string]any)
	if !ok {
		return nil
	}
	return model.Analysis(data)
}

// SaveAnalysis upserts an analysis record. Best-effort: a failed write is
// logged and forces recomputation on the next read.
func (c *Cache) SaveAnalysis(ctx context.Context, collection, contentHash string, data model.Analysis) {
	doc := store.Document{
		"content_hash": contentHash,
		"data":         map[string]any(data),
	}
	if err := c.store.UpsertOne(ctx, collection, store.ByHash(contentHash), doc); err != nil {
		c.log.Error("error saving analysis", zap.String("collection", collection), zap.Error(err))
	}
}

// LoadEmbedding returns the cached vector for a content hash, or nil on
// miss. Store errors are treated as a miss.
func (c *Cache) LoadEmbedding(ctx context.Context, collection, contentHash string) []float32 {
	doc, err := c.store.FindOne(ctx, collection, store.ByHash(contentHash))
	if err != nil {
		c.log.Error("error loading cached embedding", zap.String("collection", collection), zap.Error(err))
		return nil
	}
	if doc == nil {
		return nil
	}
	raw, ok := doc["embedding"].([]any)
	if !ok {
		return nil
	}
	vector := make([]float32, 0, len(raw))
	for _, v := range raw {
		f, ok := v.(float64)
		if !ok {
			return nil
		}
		vector = append(vector, float32(f))
	}
	return vector
}

// SaveEmbedding upserts a vector record in array form. Best-effort, like
// SaveAnalysis.
func (c *Cache) SaveEmbedding(ctx context.Context, collection, contentHash string, vector []float32) {
	values := make([]any, len(vector))
	for i, v := range vector {
		values[i] = float64(v)
	}
	doc := store.Document{
		"content_hash": contentHash,
		"embedding":    values,
	}
	if err := c.store.UpsertOne(ctx, collection, store.ByHash(contentHash), doc); err != nil {
		c.log.Error("error saving embedding", zap.String("collection", collection), zap.Error(err))
	}
}

// HasEmbedding reports whether a vector exists without decoding it.
func (c *Cache) HasEmbedding(ctx context.Context, collection, contentHash string) (bool, int) {
	doc, err := c.store.FindOne(ctx, collection, store.ByHash(contentHash))
	if err != nil || doc == nil {
		return false, 0
	}
	raw, ok := doc["embedding"].([]any)
	if !ok {
		return true, 0
	}
	return true, len(raw)
}

// Delete removes one artifact from a partition. Unlike reads and writes,
// deletion errors surface: the caller assembles them into a deletion
// report.
func (c *Cache) Delete(ctx context.Context, collection, contentHash string) (int64, error) {
	return c.store.DeleteOne(ctx, collection, store.ByHash(contentHash))
}

// ClearAnalyses drops every analysis partition for every provider. Embedding
// partitions are left alone; vectors only die with their owning entity.
func (c *Cache) ClearAnalyses(ctx context.Context) error {
	for _, p := range llm.Providers() {
		for _, collection := range []string{VendorAnalysisCollection(p), ProblemAnalysisCollection(p)} {
			if _, err := c.store.DeleteMany(ctx, collection, store.All()); err != nil {
				return fmt.Errorf("failed to clear %s: %w", collection, err)
			}
		}
	}
	return nil
}

// CountAnalyses totals the cached analyses across every provider partition,
// for the dashboard.
func (c *Cache) CountAnalyses(ctx context.Context) int64 {
	var total int64
	for _, p := range llm.Providers() {
		for _, collection := range []string{VendorAnalysisCollection(p), ProblemAnalysisCollection(p)} {
			n, err := c.store.Count(ctx, collection, store.All())
			if err != nil {
				c.log.Error("error counting analyses", zap.String("collection", collection), zap.Error(err))
				continue
			}
			total += n
		}
	}
	return total
}
