package websearch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/matchforge/vendormatch/internal/apperr"
	"github.com/matchforge/vendormatch/internal/core/model"
)

func TestValidateCount(t *testing.T) {
	assert.NoError(t, ValidateCount(3))
	assert.NoError(t, ValidateCount(10))
	assert.True(t, apperr.Is(ValidateCount(2), apperr.Validation))
	assert.True(t, apperr.Is(ValidateCount(11), apperr.Validation))
}

func TestBuildQueriesFromDomains(t *testing.T) {
	analysis := model.Analysis{
		"primary_technical_domains":    []any{"NLP", "Computer Vision", "ML"},
		"required_tools_or_frameworks": []any{"PyTorch", "Kafka", "Redis", "Spark"},
	}

	queries := BuildQueries("Title: T", analysis)

	assert.Len(t, queries, 3)
	assert.Equal(t, "top companies specializing in NLP", queries[0])
	assert.Equal(t, "top companies specializing in Computer Vision", queries[1])
	assert.Equal(t, "companies using PyTorch, Kafka, Redis", queries[2])
}

func TestBuildQueriesDescriptionFallback(t *testing.T) {
	statement := "Title: T\nDescription: a real-time fraud detection platform\nOutcomes: O"

	queries := BuildQueries(statement, model.Analysis{})

	assert.Len(t, queries, 1)
	assert.Equal(t, "technology vendors for a real-time fraud detection platform", queries[0])
}

func TestBuildQueriesDefaultFallback(t *testing.T) {
	queries := BuildQueries("no structure here", model.Analysis{})

	assert.Len(t, queries, 1)
	assert.Equal(t, "technology vendors for software development", queries[0])
}

func TestBuildQueriesTruncatesLongDescription(t *testing.T) {
	long := strings.Repeat("x", 300)
	statement := "Description: " + long

	queries := BuildQueries(statement, model.Analysis{})

	assert.Len(t, queries, 1)
	assert.Len(t, queries[0], len("technology vendors for ")+120)
}

func TestDiscoverSuccess(t *testing.T) {
	mockSearch := &MockSearch{Response: numberedBoldResults}
	s := NewSearcher(mockSearch, zap.NewNop())

	outcome := s.Discover(context.Background(), "Title: T", model.Analysis{
		"primary_technical_domains": []any{"Robotics"},
	}, 2)

	assert.True(t, outcome.Successful)
	assert.Len(t, outcome.Vendors, 2)
	assert.Equal(t, numberedBoldResults, outcome.RawResults)
	assert.Contains(t, mockSearch.Prompt, "top companies specializing in Robotics")
	assert.Contains(t, mockSearch.Prompt, "find exactly 2 real")
}

func TestDiscoverSearchError(t *testing.T) {
	s := NewSearcher(&MockSearch{Err: errors.New("tool unavailable")}, zap.NewNop())

	outcome := s.Discover(context.Background(), "Title: T", model.Analysis{}, 5)

	assert.False(t, outcome.Successful)
	assert.Empty(t, outcome.Vendors)
	assert.Contains(t, outcome.Error, "tool unavailable")
}

func TestDiscoverEmptyResponse(t *testing.T) {
	s := NewSearcher(&MockSearch{Response: "   \n"}, zap.NewNop())

	outcome := s.Discover(context.Background(), "Title: T", model.Analysis{}, 5)

	assert.False(t, outcome.Successful)
	assert.Contains(t, outcome.Error, "no usable output")
}
