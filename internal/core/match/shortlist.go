// Package match ranks vendors against a problem statement: embedding
// cosine-similarity shortlisting followed by weighted multi-criteria LLM
// evaluation in batches.
package match

import (
	"fmt"
	"math"
	"sort"

	"github.com/matchforge/vendormatch/internal/apperr"
	"github.com/matchforge/vendormatch/internal/core/model"
)

// CosineSimilarity returns the cosine of the angle between two vectors in
// [-1, 1]. Vectors must have the same dimension.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimension mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Shortlist ranks every vendor vector against the problem vector and keeps
// the top K. The sort is stable: tied scores retain their input order. The
// percentage is a linear rescale of the raw similarity and is deliberately
// not clamped for negative similarities.
func Shortlist(problemVector []float32, vendorVectors [][]float32, capabilities []model.Analysis, topK int) ([]model.ShortlistEntry, error) {
	if len(vendorVectors) != len(capabilities) {
		return nil, fmt.Errorf("vendor vectors and capabilities length mismatch: %d vs %d", len(vendorVectors), len(capabilities))
	}

	entries := make([]model.ShortlistEntry, 0, len(vendorVectors))
	for i, vector := range vendorVectors {
		similarity, err := CosineSimilarity(problemVector, vector)
		if err != nil {
			return nil, err
		}

		name, _ := capabilities[i]["name"].(string)
		entries = append(entries, model.ShortlistEntry{
			Name:                 name,
			SimilarityScore:      similarity,
			SimilarityPercentage: similarity * 100,
			Capabilities:         capabilities[i],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SimilarityScore > entries[j].SimilarityScore
	})

	if topK < len(entries) {
		entries = entries[:topK]
	}
	return entries, nil
}

// ValidateParams bounds the caller-supplied matching knobs.
func ValidateParams(topK, batchSize, topKLimit, batchSizeLimit int) error {
	if topK < 1 || topK > topKLimit {
		return apperr.Newf(apperr.Validation, "top_k must be between 1 and %d", topKLimit)
	}
	if batchSize < 1 || batchSize > batchSizeLimit {
		return apperr.Newf(apperr.Validation, "batch_size must be between 1 and %d", batchSizeLimit)
	}
	return nil
}
