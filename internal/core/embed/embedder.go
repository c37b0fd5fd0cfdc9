// Package embed produces dense vectors for structured analyses through the
// single canonical embedding provider, cache-checked first.
package embed

import (
	"context"

	"go.uber.org/zap"

	"github.com/matchforge/vendormatch/internal/apperr"
	"github.com/matchforge/vendormatch/internal/core/cache"
	"github.com/matchforge/vendormatch/internal/core/common"
	"github.com/matchforge/vendormatch/internal/core/model"
	"github.com/matchforge/vendormatch/internal/llm"
)

// Embedder caches vectors under the *source* content hash, not a hash of
// the flattened text, so analysis and embedding share one identity key.
// Every vector comes from the same embedding client regardless of which
// provider did the analysis; the shortlister's cosine comparisons are only
// valid inside a single embedding space.
type Embedder struct {
	client llm.EmbedderClient
	cache  *cache.Cache
	log    *zap.Logger
}

func New(client llm.EmbedderClient, c *cache.Cache, log *zap.Logger) *Embedder {
	return &Embedder{client: client, cache: c, log: log}
}

// Embedding resolves the vector for an analysis: cache first, one embedding
// call on miss. collection is the shared vendor or problem embedding
// partition.
func (e *Embedder) Embedding(ctx context.Context, collection, contentHash string, analysis model.Analysis) ([]float32, error) {
	if vector := e.cache.LoadEmbedding(ctx, collection, contentHash); vector != nil {
		e.log.Debug("using cached embedding", zap.String("collection", collection))
		return vector, nil
	}

	e.log.Info("generating embedding", zap.String("collection", collection))

	text := common.TextRepresentation(analysis)
	vector, err := e.client.Embed(ctx, text)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "embedding generation failed", err)
	}

	e.cache.SaveEmbedding(ctx, collection, contentHash, vector)
	return vector, nil
}
