package websearch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/matchforge/vendormatch/internal/apperr"
	"github.com/matchforge/vendormatch/internal/core/model"
	"github.com/matchforge/vendormatch/internal/llm"
)

func TestValidateEvaluationParams(t *testing.T) {
	valid := []model.EvaluationParam{
		{Name: "Domain Fit", Weight: 60},
		{Name: "Experience", Weight: 40},
	}
	assert.NoError(t, ValidateEvaluationParams(valid))
	assert.NoError(t, ValidateEvaluationParams(model.DefaultEvaluationParams()))

	err := ValidateEvaluationParams(nil)
	assert.True(t, apperr.Is(err, apperr.Validation))

	err = ValidateEvaluationParams([]model.EvaluationParam{{Name: "", Weight: 100}})
	assert.True(t, apperr.Is(err, apperr.Validation))

	err = ValidateEvaluationParams([]model.EvaluationParam{{Name: "A", Weight: -10}, {Name: "B", Weight: 110}})
	assert.True(t, apperr.Is(err, apperr.Validation))

	err = ValidateEvaluationParams([]model.EvaluationParam{{Name: "A", Weight: 50}, {Name: "B", Weight: 49}})
	assert.True(t, apperr.Is(err, apperr.Validation))

	err = ValidateEvaluationParams([]model.EvaluationParam{{Name: "A", Weight: 50}, {Name: "B", Weight: 51}})
	assert.True(t, apperr.Is(err, apperr.Validation))
}

func TestWebEvaluateClampsScores(t *testing.T) {
	mockLLM := &MockLLM{
		Response: `{"name": "Acme", "domain_fit": 150, "experience": -20, "justification": "ok"}`,
	}
	ev := NewEvaluator(testRegistry(mockLLM), zap.NewNop())

	vendors := []model.WebVendor{{Name: "Acme", Description: "robotics vendor"}}
	params := []model.EvaluationParam{
		{Name: "Domain Fit", Weight: 50},
		{Name: "Experience", Weight: 50},
	}

	results := ev.Evaluate(context.Background(), llm.ProviderOpenAI, model.Analysis{}, vendors, params)

	assert.Len(t, results, 1)
	assert.Equal(t, 100.0, results[0].Scores["domain_fit"])
	assert.Equal(t, 0.0, results[0].Scores["experience"])
	assert.Equal(t, 50.0, results[0].CompositeScore)
	assert.Equal(t, "web_search", results[0].Source)
}

func TestWebEvaluateFallbackOnFailure(t *testing.T) {
	mockLLM := &MockLLM{Err: errors.New("model overloaded and rejecting all incoming traffic")}
	ev := NewEvaluator(testRegistry(mockLLM), zap.NewNop())

	vendors := []model.WebVendor{{
		Name:        "Acme",
		Description: "robotics vendor",
		WebSources:  []model.WebSource{{URL: "https://acme.example.com", Title: "Acme"}},
	}}

	results := ev.Evaluate(context.Background(), llm.ProviderOpenAI, model.Analysis{}, vendors, model.DefaultEvaluationParams())

	assert.Len(t, results, 1)
	assert.Equal(t, "Acme", results[0].Name)
	assert.Zero(t, results[0].CompositeScore)
	assert.Equal(t, "web_search_fallback", results[0].Source)
	assert.Contains(t, results[0].Justification, "Evaluation failed:")
	assert.Len(t, results[0].WebSources, 1)
	for _, score := range results[0].Scores {
		assert.Zero(t, score)
	}
}

func TestWebEvaluateSortsDescending(t *testing.T) {
	mockLLM := &MockLLM{
		ResponseQueue: []string{
			`{"name": "Low", "quality": 20, "justification": "weak"}`,
			`{"name": "High", "quality": 95, "justification": "strong"}`,
		},
	}
	ev := NewEvaluator(testRegistry(mockLLM), zap.NewNop())

	vendors := []model.WebVendor{
		{Name: "Low", Description: "d"},
		{Name: "High", Description: "d"},
	}
	params := []model.EvaluationParam{{Name: "Quality", Weight: 100}}

	results := ev.Evaluate(context.Background(), llm.ProviderOpenAI, model.Analysis{}, vendors, params)

	assert.Len(t, results, 2)
	assert.Equal(t, "High", results[0].Name)
	assert.Equal(t, 95.0, results[0].CompositeScore)
	assert.Equal(t, "Low", results[1].Name)
}

func TestWebEvaluateEmptyInput(t *testing.T) {
	ev := NewEvaluator(testRegistry(&MockLLM{}), zap.NewNop())

	results := ev.Evaluate(context.Background(), llm.ProviderOpenAI, model.Analysis{}, nil, model.DefaultEvaluationParams())
	assert.Empty(t, results)
}
