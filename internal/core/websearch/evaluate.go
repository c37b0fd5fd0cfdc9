package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/matchforge/vendormatch/internal/apperr"
	"github.com/matchforge/vendormatch/internal/core/common"
	"github.com/matchforge/vendormatch/internal/core/model"
	"github.com/matchforge/vendormatch/internal/llm"
)

const webEvaluationPrompt = `You are a senior technical procurement expert with 15+ years of experience.

PROBLEM REQUIREMENTS:
%s

VENDOR FROM WEB SEARCH:
%s

EVALUATION CRITERIA:
%s

Provide JSON response ONLY:
{
  "name": "<vendor name>",
  %s,
  "justification": "<3-5 sentences with specific evidence from vendor description>",
  "strengths": ["<specific strength 1>", "<specific strength 2>", "<specific strength 3>"],
  "concerns": ["<specific concern 1>", "<specific concern 2>"]
}

Only return valid JSON. No markdown, no explanation.`

// ValidateEvaluationParams enforces the web pipeline's strict weight
// contract: non-empty named criteria with non-negative percentage weights
// summing to exactly 100 (within floating-point tolerance). The batch
// evaluator deliberately has no such check.
func ValidateEvaluationParams(params []model.EvaluationParam) error {
	if len(params) == 0 {
		return apperr.New(apperr.Validation, "evaluation_params must be a non-empty list")
	}

	var total float64
	for _, p := range params {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return apperr.New(apperr.Validation, "parameter name cannot be empty")
		}
		if p.Weight < 0 {
			return apperr.Newf(apperr.Validation, "parameter weight must be a non-negative number: %s", name)
		}
		total += p.Weight
	}

	if math.Abs(total-100) > 0.01 {
		return apperr.Newf(apperr.Validation, "total weight must equal 100%%, got %g%%", total)
	}
	return nil
}

// Evaluator scores web-discovered vendor stubs one at a time. Web vendors
// have no embedding, so a failed call falls back to a zero composite
// rather than a similarity-derived score.
type Evaluator struct {
	registry *llm.Registry
	log      *zap.Logger
}

func NewEvaluator(registry *llm.Registry, log *zap.Logger) *Evaluator {
	return &Evaluator{registry: registry, log: log}
}

// Evaluate scores every vendor stub against the problem analysis using the
// caller's criteria (percentage weights, pre-validated to sum to 100).
func (ev *Evaluator) Evaluate(ctx context.Context, provider llm.Provider, psAnalysis model.Analysis, vendors []model.WebVendor, params []model.EvaluationParam) []model.Evaluation {
	if len(vendors) == 0 {
		return []model.Evaluation{}
	}

	criteria := make([]model.Criterion, len(params))
	weights := make(map[string]float64, len(params))
	for i, p := range params {
		key := common.NormalizeKey(p.Name)
		criteria[i] = model.Criterion{Key: key, Label: p.Name, Weight: p.Weight / 100.0}
		weights[key] = p.Weight / 100.0
	}

	client := ev.registry.Client(provider)
	results := make([]model.Evaluation, 0, len(vendors))

	for _, vendor := range vendors {
		evaluation, err := ev.evaluateVendor(ctx, client, psAnalysis, vendor, criteria, weights)
		if err != nil {
			ev.log.Error("web vendor evaluation failed",
				zap.String("vendor", vendor.Name), zap.Error(err))
			results = append(results, fallbackEvaluation(vendor, criteria, err))
			continue
		}
		ev.log.Info("evaluated web vendor",
			zap.String("vendor", evaluation.Name), zap.Float64("score", evaluation.CompositeScore))
		results = append(results, evaluation)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CompositeScore > results[j].CompositeScore
	})
	return results
}

func (ev *Evaluator) evaluateVendor(ctx context.Context, client llm.LLMClient, psAnalysis model.Analysis, vendor model.WebVendor, criteria []model.Criterion, weights map[string]float64) (model.Evaluation, error) {
	psJSON, err := json.MarshalIndent(psAnalysis, "", "  ")
	if err != nil {
		return model.Evaluation{}, err
	}

	vendorInfo := fmt.Sprintf("Name: %s\nDescription: %s\nFull Context: %s",
		vendor.Name, vendor.Description, vendor.FullText)

	prompt := fmt.Sprintf(webEvaluationPrompt,
		string(psJSON), vendorInfo, criteriaLines(criteria), scoreFields(criteria))

	response, err := client.Generate(ctx, prompt)
	if err != nil {
		return model.Evaluation{}, err
	}

	parsed, err := common.ParseJSON[map[string]any](response)
	if err != nil {
		return model.Evaluation{}, err
	}

	scores := make(map[string]float64, len(criteria))
	for _, c := range criteria {
		score := 0.0
		if v, ok := parsed[c.Key].(float64); ok {
			score = math.Max(0, math.Min(100, v))
		}
		scores[c.Key] = round(score, 1)
	}

	var composite float64
	for key, weight := range weights {
		composite += scores[key] * weight
	}

	name, _ := parsed["name"].(string)
	if name == "" {
		name = vendor.Name
	}
	justification, _ := parsed["justification"].(string)

	return model.Evaluation{
		Name:           name,
		Description:    vendor.Description,
		CompositeScore: round(composite, 2),
		Scores:         scores,
		Justification:  strings.TrimSpace(justification),
		Strengths:      stringList(parsed["strengths"]),
		Concerns:       stringList(parsed["concerns"]),
		WebSources:     vendor.WebSources,
		Source:         "web_search",
	}, nil
}

// fallbackEvaluation is the zero-composite substitute for a vendor whose
// evaluation call failed.
func fallbackEvaluation(vendor model.WebVendor, criteria []model.Criterion, cause error) model.Evaluation {
	msg := cause.Error()
	if len(msg) > 100 {
		msg = msg[:100]
	}

	scores := make(map[string]float64, len(criteria))
	for _, c := range criteria {
		scores[c.Key] = 0
	}

	name := vendor.Name
	if name == "" {
		name = "Unknown"
	}

	return model.Evaluation{
		Name:           name,
		Description:    vendor.Description,
		CompositeScore: 0,
		Scores:         scores,
		Justification:  fmt.Sprintf("Evaluation failed: %s", msg),
		Strengths:      []string{},
		Concerns:       []string{"LLM evaluation error", "Unable to score vendor"},
		WebSources:     vendor.WebSources,
		Source:         "web_search_fallback",
	}
}

func criteriaLines(criteria []model.Criterion) string {
	lines := make([]string, len(criteria))
	for i, c := range criteria {
		lines[i] = fmt.Sprintf("%d. %s (0-100)", i+1, c.Label)
	}
	return strings.Join(lines, "\n")
}

func scoreFields(criteria []model.Criterion) string {
	fields := make([]string, len(criteria))
	for i, c := range criteria {
		fields[i] = fmt.Sprintf("%q: <0-100 score>", c.Key)
	}
	return strings.Join(fields, ",\n  ")
}

func stringList(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			result = append(result, strings.TrimSpace(s))
		}
	}
	return result
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
