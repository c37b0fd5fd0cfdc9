package match

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/matchforge/vendormatch/internal/core/analyze"
	"github.com/matchforge/vendormatch/internal/core/common"
	"github.com/matchforge/vendormatch/internal/core/model"
	"github.com/matchforge/vendormatch/internal/llm"
	"github.com/matchforge/vendormatch/internal/store"
)

const evaluationPrompt = `You are a senior technical evaluator with 15+ years of experience in enterprise vendor selection.

TASK:
1. Analyze the PROBLEM STATEMENT and VENDOR CAPABILITIES.
2. For each vendor, assign a score (0-100) for every criterion:
   - 0  = no alignment
   - 50 = partial fit
   - 100 = perfect match
3. Provide a short justification and list 3-5 strengths & concerns.

PROBLEM STATEMENT:
%s

VENDORS TO EVALUATE:
%s

CRITERIA (score 0-100):
%s

OUTPUT STRICTLY IN JSON FORMAT:
[
  {
    "name": "<vendor name>",
    %s,
    "justification": "<3-5 sentences>",
    "strengths": ["<point1>", "<point2>", "<point3>"],
    "concerns": ["<point1>", "<point2>", "<point3>"]
  }
]`

const fallbackJustification = "LLM evaluation failed - fallback score from semantic similarity."

// Evaluator re-scores a shortlist with an LLM using weighted criteria, in
// fixed-size batches. Each batch gets exactly one LLM attempt; any failure
// maps the whole batch onto deterministic similarity-derived fallback
// scores, so every shortlisted vendor always gets a ranked result.
type Evaluator struct {
	registry *llm.Registry
	analyzer *analyze.Analyzer
	store    store.Store
	vendors  string // base vendor collection
	log      *zap.Logger
}

func NewEvaluator(registry *llm.Registry, analyzer *analyze.Analyzer, s store.Store, vendorCollection string, log *zap.Logger) *Evaluator {
	return &Evaluator{
		registry: registry,
		analyzer: analyzer,
		store:    s,
		vendors:  vendorCollection,
		log:      log,
	}
}

// batchOutcome is the explicit result of one batch attempt: parsed
// evaluations, or a failure to be mapped onto fallbacks.
type batchOutcome struct {
	evaluations []model.Evaluation
	err         error
}

// Evaluate scores the shortlist for a problem. Criteria weights are
// fractions; their sum is intentionally not checked here (the web pipeline
// is the strict one).
func (ev *Evaluator) Evaluate(ctx context.Context, provider llm.Provider, problem *model.Problem, shortlist []model.ShortlistEntry, batchSize int, criteria []model.Criterion) ([]model.Evaluation, error) {
	psAnalysis, err := ev.analyzer.ProblemAnalysis(ctx, provider, problem.FullStatement)
	if err != nil {
		return nil, err
	}

	if len(criteria) == 0 {
		criteria = model.DefaultCriteria()
	}
	weights := make(map[string]float64, len(criteria))
	for _, c := range criteria {
		weights[c.Key] = c.Weight
	}

	var results []model.Evaluation

	for start := 0; start < len(shortlist); start += batchSize {
		end := start + batchSize
		if end > len(shortlist) {
			end = len(shortlist)
		}
		batch := shortlist[start:end]
		batchNum := start/batchSize + 1

		vendorCaps := ev.resolveCapabilities(ctx, provider, batch)
		if len(vendorCaps) == 0 {
			ev.log.Warn("no vendor capability documents available for batch, skipping",
				zap.Int("batch", batchNum))
			continue
		}

		ev.log.Info("evaluating batch",
			zap.Int("batch", batchNum), zap.Int("vendors", len(vendorCaps)))

		outcome := ev.evaluateBatch(ctx, provider, psAnalysis, vendorCaps, criteria, weights)
		if outcome.err != nil {
			ev.log.Error("batch evaluation failed, using similarity fallback",
				zap.Int("batch", batchNum), zap.Error(outcome.err))
			results = append(results, fallbackEvaluations(batch, criteria)...)
			continue
		}
		results = append(results, outcome.evaluations...)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CompositeScore > results[j].CompositeScore
	})
	return results, nil
}

// resolveCapabilities fetches each batch vendor's provider-specific
// capability record, synthesizing it from the stored raw text when absent.
// Vendors with no base record are skipped; the evaluation proceeds with
// what remains.
func (ev *Evaluator) resolveCapabilities(ctx context.Context, provider llm.Provider, batch []model.ShortlistEntry) []model.Analysis {
	caps := make([]model.Analysis, 0, len(batch))
	for _, entry := range batch {
		base, err := ev.store.FindOne(ctx, ev.vendors, store.ByName(entry.Name))
		if err != nil || base == nil {
			ev.log.Warn("base vendor record not found, skipping",
				zap.String("vendor", entry.Name), zap.Error(err))
			continue
		}

		name, _ := base["name"].(string)
		text, _ := base["text"].(string)
		capabilities, err := ev.analyzer.VendorCapabilities(ctx, provider, name, text)
		if err != nil {
			ev.log.Error("failed to generate capabilities",
				zap.String("vendor", entry.Name), zap.String("provider", provider.String()), zap.Error(err))
			continue
		}
		caps = append(caps, capabilities)
	}
	return caps
}

func (ev *Evaluator) evaluateBatch(ctx context.Context, provider llm.Provider, psAnalysis model.Analysis, vendorCaps []model.Analysis, criteria []model.Criterion, weights map[string]float64) batchOutcome {
	psJSON, err := json.MarshalIndent(psAnalysis, "", "  ")
	if err != nil {
		return batchOutcome{err: err}
	}
	capsJSON, err := json.MarshalIndent(vendorCaps, "", "  ")
	if err != nil {
		return batchOutcome{err: err}
	}

	prompt := fmt.Sprintf(evaluationPrompt,
		string(psJSON), string(capsJSON), criteriaLines(criteria), scoreFields(criteria))

	response, err := ev.registry.Client(provider).Generate(ctx, prompt)
	if err != nil {
		return batchOutcome{err: err}
	}

	items, err := parseEvaluationItems(response)
	if err != nil {
		return batchOutcome{err: err}
	}

	evaluations := make([]model.Evaluation, 0, len(items))
	for _, item := range items {
		evaluations = append(evaluations, scoreItem(item, criteria, weights))
	}
	return batchOutcome{evaluations: evaluations}
}

// parseEvaluationItems expects a JSON array but tolerates a model returning
// a single object for a one-vendor batch.
func parseEvaluationItems(response string) ([]map[string]any, error) {
	items, err := common.ParseJSONList[map[string]any](response)
	if err == nil {
		return items, nil
	}
	single, objErr := common.ParseJSON[map[string]any](response)
	if objErr != nil {
		return nil, err
	}
	return []map[string]any{single}, nil
}

func scoreItem(item map[string]any, criteria []model.Criterion, weights map[string]float64) model.Evaluation {
	name, _ := item["name"].(string)
	if name == "" {
		name = "Unknown"
	}

	scores := make(map[string]float64, len(criteria))
	for _, c := range criteria {
		if v, ok := item[c.Key].(float64); ok {
			scores[c.Key] = round(v, 1)
		} else {
			scores[c.Key] = 0
		}
	}

	var composite float64
	for key, weight := range weights {
		composite += scores[key] * weight
	}

	justification, _ := item["justification"].(string)

	return model.Evaluation{
		Name:           name,
		CompositeScore: round(composite, 2),
		Scores:         scores,
		Justification:  strings.TrimSpace(justification),
		Strengths:      stringList(item["strengths"]),
		Concerns:       stringList(item["concerns"]),
	}
}

// fallbackEvaluations maps a failed batch onto deterministic scores derived
// from semantic similarity: composite = similarity% * 0.8.
func fallbackEvaluations(batch []model.ShortlistEntry, criteria []model.Criterion) []model.Evaluation {
	evaluations := make([]model.Evaluation, 0, len(batch))
	for _, entry := range batch {
		sim := entry.SimilarityScore * 100

		scores := make(map[string]float64, len(criteria))
		for _, c := range criteria {
			scores[c.Key] = round(sim, 1)
		}

		name := entry.Name
		if name == "" {
			name = "Unknown"
		}

		evaluations = append(evaluations, model.Evaluation{
			Name:           name,
			CompositeScore: round(sim*0.8, 1),
			Scores:         scores,
			Justification:  fallbackJustification,
			Strengths:      []string{"Semantic similarity match detected"},
			Concerns:       []string{"LLM unavailable", "Score is approximate"},
		})
	}
	return evaluations
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
		fields[i] = fmt.Sprintf("%q: float", c.Key)
	}
	return strings.Join(fields, ",\n    ")
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
