// Package core wires the matching pipeline together: onboarding, cached
// analysis and embedding, similarity shortlisting, batch evaluation, web
// discovery, and entity lifecycle.
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/matchforge/vendormatch/internal/apperr"
	"github.com/matchforge/vendormatch/internal/config"
	"github.com/matchforge/vendormatch/internal/core/analyze"
	"github.com/matchforge/vendormatch/internal/core/cache"
	"github.com/matchforge/vendormatch/internal/core/common"
	"github.com/matchforge/vendormatch/internal/core/embed"
	"github.com/matchforge/vendormatch/internal/core/match"
	"github.com/matchforge/vendormatch/internal/core/model"
	"github.com/matchforge/vendormatch/internal/core/websearch"
	"github.com/matchforge/vendormatch/internal/extract"
	"github.com/matchforge/vendormatch/internal/llm"
	"github.com/matchforge/vendormatch/internal/store"
)

// Base entity collections. Derived artifacts live in the cache partitions.
const (
	VendorsCollection  = "vendors"
	ProblemsCollection = "problem_statements"
)

type Matcher struct {
	store     store.Store
	registry  *llm.Registry
	cache     *cache.Cache
	analyzer  *analyze.Analyzer
	embedder  *embed.Embedder
	evaluator *match.Evaluator
	searcher  *websearch.Searcher
	webEval   *websearch.Evaluator
	limits    config.LimitsConfig
	log       *zap.Logger
}

func NewMatcher(s store.Store, registry *llm.Registry, limits config.LimitsConfig, log *zap.Logger) *Matcher {
	c := cache.New(s, log)
	analyzer := analyze.New(registry, c, log)
	return &Matcher{
		store:     s,
		registry:  registry,
		cache:     c,
		analyzer:  analyzer,
		embedder:  embed.New(registry.Embedder(), c, log),
		evaluator: match.NewEvaluator(registry, analyzer, s, VendorsCollection, log),
		searcher:  websearch.NewSearcher(registry.Search(), log),
		webEval:   websearch.NewEvaluator(registry, log),
		limits:    limits,
		log:       log,
	}
}

func (m *Matcher) Close(ctx context.Context) error {
	return m.store.Close(ctx)
}

func (m *Matcher) Ping(ctx context.Context) error {
	return m.store.Ping(ctx)
}

// ResolveProvider normalizes an arbitrary provider string onto the closed
// provider set.
func (m *Matcher) ResolveProvider(s string) llm.Provider {
	p, _ := m.registry.Resolve(s)
	return p
}

// --- Onboarding ---

// OnboardVendor stores a vendor profile extracted from an uploaded
// document and primes the provider's analysis cache plus the shared
// embedding cache.
func (m *Matcher) OnboardVendor(ctx context.Context, providerName, vendorName string, fileBytes []byte, extension string) (llm.Provider, error) {
	provider := m.ResolveProvider(providerName)

	vendorName = strings.TrimSpace(vendorName)
	if vendorName == "" || len(vendorName) > 100 {
		return provider, apperr.New(apperr.Validation, "invalid vendor name (max 100 characters)")
	}

	text, err := extract.Text(fileBytes, extension)
	if err != nil {
		return provider, apperr.Wrap(apperr.Validation, "document extraction failed", err)
	}

	doc := store.Document{"name": vendorName, "text": text}
	if err := m.store.UpsertOne(ctx, VendorsCollection, store.ByName(vendorName), doc); err != nil {
		return provider, apperr.Wrap(apperr.Storage, "failed to store vendor", err)
	}

	if _, _, err := m.processVendorProfile(ctx, provider, vendorName, text); err != nil {
		return provider, err
	}

	m.log.Info("vendor onboarded",
		zap.String("vendor", vendorName), zap.String("provider", provider.String()))
	return provider, nil
}

// OnboardProblem stores a problem statement and primes its analysis and
// embedding caches. The ID derives from the title hash alone, so a reused
// title overwrites the earlier statement.
func (m *Matcher) OnboardProblem(ctx context.Context, providerName, title, description, outcomes string) (*model.Problem, llm.Provider, error) {
	provider := m.ResolveProvider(providerName)

	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	outcomes = strings.TrimSpace(outcomes)

	if title == "" || description == "" || outcomes == "" {
		return nil, provider, apperr.New(apperr.Validation, "title, description, and outcomes are required")
	}
	if len(title) > 200 {
		return nil, provider, apperr.New(apperr.Validation, "title too long (max 200 characters)")
	}

	problem := &model.Problem{
		ID:            common.ProblemID(title),
		Title:         title,
		Description:   description,
		Outcomes:      outcomes,
		FullStatement: fmt.Sprintf("Title: %s\nDescription: %s\nOutcomes: %s", title, description, outcomes),
	}

	doc := store.Document{
		"id":             problem.ID,
		"title":          problem.Title,
		"description":    problem.Description,
		"outcomes":       problem.Outcomes,
		"full_statement": problem.FullStatement,
	}
	if err := m.store.UpsertOne(ctx, ProblemsCollection, store.ByID(problem.ID), doc); err != nil {
		return nil, provider, apperr.Wrap(apperr.Storage, "failed to store problem statement", err)
	}

	if _, _, err := m.processProblem(ctx, provider, problem.FullStatement); err != nil {
		return nil, provider, err
	}

	m.log.Info("problem statement onboarded",
		zap.String("id", problem.ID), zap.String("provider", provider.String()))
	return problem, provider, nil
}

func (m *Matcher) processVendorProfile(ctx context.Context, provider llm.Provider, name, text string) (model.Analysis, []float32, error) {
	capabilities, err := m.analyzer.VendorCapabilities(ctx, provider, name, text)
	if err != nil {
		return nil, nil, err
	}

	hash := common.VendorHash(name, text)
	vector, err := m.embedder.Embedding(ctx, cache.VendorEmbeddings, hash, capabilities)
	if err != nil {
		return nil, nil, err
	}
	return capabilities, vector, nil
}

func (m *Matcher) processProblem(ctx context.Context, provider llm.Provider, fullStatement string) (model.Analysis, []float32, error) {
	analysis, err := m.analyzer.ProblemAnalysis(ctx, provider, fullStatement)
	if err != nil {
		return nil, nil, err
	}

	hash := common.ContentHash(fullStatement)
	vector, err := m.embedder.Embedding(ctx, cache.ProblemEmbeddings, hash, analysis)
	if err != nil {
		return nil, nil, err
	}
	return analysis, vector, nil
}

// --- Matching ---

type MatchRequest struct {
	Provider  string
	ProblemID string
	TopK      int
	BatchSize int
	Criteria  []model.Criterion
}

type MatchResult struct {
	Problem           *model.Problem     `json:"problem_statement"`
	Results           []model.Evaluation `json:"results"`
	TotalVendors      int                `json:"total_vendors_analyzed"`
	Shortlisted       int                `json:"shortlisted_vendors"`
	TopCompositeScore float64            `json:"top_composite_score"`
	CacheStats        model.CacheStats   `json:"cache_stats"`
	Provider          llm.Provider       `json:"llm_provider"`
}

// Match runs the full pipeline for one problem statement: resolve analyses
// and embeddings for the problem and every vendor (cache-filling), rank by
// cosine similarity, keep the top K, then batch-evaluate with weighted
// criteria.
func (m *Matcher) Match(ctx context.Context, req MatchRequest) (*MatchResult, error) {
	if err := match.ValidateParams(req.TopK, req.BatchSize, m.limits.TopK, m.limits.BatchSize); err != nil {
		return nil, err
	}
	provider := m.ResolveProvider(req.Provider)

	problem, err := m.loadProblem(ctx, req.ProblemID)
	if err != nil {
		return nil, err
	}

	vendorDocs, err := m.store.FindAll(ctx, VendorsCollection)
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to list vendors", err)
	}
	if len(vendorDocs) == 0 {
		return nil, apperr.New(apperr.Validation, "no vendors available")
	}

	m.log.Info("vendor matching started",
		zap.String("ps_id", problem.ID), zap.String("provider", provider.String()),
		zap.Int("vendors", len(vendorDocs)))

	_, psVector, err := m.processProblem(ctx, provider, problem.FullStatement)
	if err != nil {
		return nil, err
	}

	capsCollection := cache.VendorAnalysisCollection(provider)
	capabilities := make([]model.Analysis, 0, len(vendorDocs))
	vectors := make([][]float32, 0, len(vendorDocs))
	var stats model.CacheStats

	for _, doc := range vendorDocs {
		name, _ := doc["name"].(string)
		text, _ := doc["text"].(string)
		hash := common.VendorHash(name, text)

		caps := m.cache.LoadAnalysis(ctx, capsCollection, hash)
		vec := m.cache.LoadEmbedding(ctx, cache.VendorEmbeddings, hash)

		if caps == nil || vec == nil {
			m.log.Info("processing vendor (not cached)",
				zap.String("vendor", name), zap.String("provider", provider.String()))
			caps, vec, err = m.processVendorProfile(ctx, provider, name, text)
			if err != nil {
				return nil, err
			}
			stats.VendorsProcessed++
		} else {
			stats.VendorsFromCache++
		}

		capabilities = append(capabilities, caps)
		vectors = append(vectors, vec)
	}

	m.log.Info("vendor cache stats",
		zap.Int("from_cache", stats.VendorsFromCache), zap.Int("processed", stats.VendorsProcessed))

	shortlist, err := match.Shortlist(psVector, vectors, capabilities, req.TopK)
	if err != nil {
		return nil, err
	}
	m.log.Info("shortlisted vendors", zap.Int("count", len(shortlist)))

	results, err := m.evaluator.Evaluate(ctx, provider, problem, shortlist, req.BatchSize, req.Criteria)
	if err != nil {
		return nil, err
	}

	var topScore float64
	if len(results) > 0 {
		topScore = results[0].CompositeScore
	}

	return &MatchResult{
		Problem:           problem,
		Results:           results,
		TotalVendors:      len(vendorDocs),
		Shortlisted:       len(results),
		TopCompositeScore: topScore,
		CacheStats:        stats,
		Provider:          provider,
	}, nil
}

// ExportResults runs the matching pipeline with default parameters and
// serializes the outcome for download.
func (m *Matcher) ExportResults(ctx context.Context, providerName, problemID string) ([]byte, error) {
	result, err := m.Match(ctx, MatchRequest{
		Provider:  providerName,
		ProblemID: problemID,
		TopK:      20,
		BatchSize: 5,
	})
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"problem_statement": result.Problem,
		"results":           result.Results,
		"generated_at":      time.Now().UTC().Format(time.RFC3339),
		"llm_provider":      result.Provider,
	}
	return json.MarshalIndent(payload, "", "  ")
}

// --- Web discovery ---

type WebSearchRequest struct {
	Provider         string
	ProblemID        string
	Count            int
	EvaluationParams []model.EvaluationParam
}

type WebSearchResult struct {
	ProblemID        string                  `json:"problem_statement_id"`
	Provider         llm.Provider            `json:"llm_provider"`
	Outcome          model.SearchOutcome     `json:"-"`
	TotalFound       int                     `json:"total_found"`
	SourcesCount     int                     `json:"sources_count"`
	TopScore         float64                 `json:"top_score"`
	Vendors          []model.Evaluation      `json:"vendors"`
	EvaluationParams []model.EvaluationParam `json:"evaluation_params"`
}

// WebDiscover searches the web for candidate vendors and evaluates the
// parsed stubs. A failed or empty search is reported through the result's
// Outcome rather than an error.
func (m *Matcher) WebDiscover(ctx context.Context, req WebSearchRequest) (*WebSearchResult, error) {
	if err := websearch.ValidateCount(req.Count); err != nil {
		return nil, err
	}

	params := req.EvaluationParams
	if len(params) == 0 {
		params = model.DefaultEvaluationParams()
	}
	if err := websearch.ValidateEvaluationParams(params); err != nil {
		return nil, err
	}

	provider := m.ResolveProvider(req.Provider)

	problem, err := m.loadProblem(ctx, req.ProblemID)
	if err != nil {
		return nil, err
	}

	m.log.Info("web search request",
		zap.String("ps_id", problem.ID), zap.Int("count", req.Count),
		zap.String("provider", provider.String()))

	psAnalysis, err := m.analyzer.ProblemAnalysis(ctx, provider, problem.FullStatement)
	if err != nil {
		return nil, err
	}

	result := &WebSearchResult{
		ProblemID:        problem.ID,
		Provider:         provider,
		Vendors:          []model.Evaluation{},
		EvaluationParams: params,
	}

	outcome := m.searcher.Discover(ctx, problem.FullStatement, psAnalysis, req.Count)
	result.Outcome = outcome
	result.SourcesCount = outcome.SourcesCount
	if !outcome.Successful || len(outcome.Vendors) == 0 {
		return result, nil
	}

	m.log.Info("found vendors from web search", zap.Int("count", len(outcome.Vendors)))

	evaluated := m.webEval.Evaluate(ctx, provider, psAnalysis, outcome.Vendors, params)
	result.Vendors = evaluated
	result.TotalFound = len(evaluated)
	if len(evaluated) > 0 {
		result.TopScore = evaluated[0].CompositeScore
	}
	return result, nil
}

// --- Listing & detail ---

type VendorInfo struct {
	Name           string         `json:"name"`
	TextPreview    string         `json:"text_preview"`
	FullTextLength int            `json:"full_text_length"`
	Capabilities   model.Analysis `json:"capabilities"`
	HasEmbedding   bool           `json:"has_embedding"`
}

func (m *Matcher) ListVendors(ctx context.Context, providerName string) ([]VendorInfo, llm.Provider, error) {
	provider := m.ResolveProvider(providerName)

	docs, err := m.store.FindAll(ctx, VendorsCollection)
	if err != nil {
		return nil, provider, apperr.Wrap(apperr.Storage, "failed to list vendors", err)
	}

	capsCollection := cache.VendorAnalysisCollection(provider)
	vendors := make([]VendorInfo, 0, len(docs))
	for _, doc := range docs {
		name, _ := doc["name"].(string)
		text, _ := doc["text"].(string)
		hash := common.VendorHash(name, text)

		preview := text
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}

		hasEmbedding, _ := m.cache.HasEmbedding(ctx, cache.VendorEmbeddings, hash)
		vendors = append(vendors, VendorInfo{
			Name:           name,
			TextPreview:    preview,
			FullTextLength: len(text),
			Capabilities:   m.cache.LoadAnalysis(ctx, capsCollection, hash),
			HasEmbedding:   hasEmbedding,
		})
	}
	return vendors, provider, nil
}

type VendorDetails struct {
	Name                string         `json:"name"`
	FullText            string         `json:"full_text"`
	TextLength          int            `json:"text_length"`
	Capabilities        model.Analysis `json:"capabilities"`
	HasEmbedding        bool           `json:"has_embedding"`
	EmbeddingDimensions int            `json:"embedding_dimensions"`
	Provider            llm.Provider   `json:"llm_provider"`
}

func (m *Matcher) VendorDetails(ctx context.Context, providerName, name string) (*VendorDetails, error) {
	provider := m.ResolveProvider(providerName)

	doc, err := m.store.FindOne(ctx, VendorsCollection, store.ByName(name))
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to load vendor", err)
	}
	if doc == nil {
		return nil, apperr.New(apperr.NotFound, "vendor not found")
	}

	vendorName, _ := doc["name"].(string)
	text, _ := doc["text"].(string)
	hash := common.VendorHash(vendorName, text)

	hasEmbedding, dimensions := m.cache.HasEmbedding(ctx, cache.VendorEmbeddings, hash)
	return &VendorDetails{
		Name:                vendorName,
		FullText:            text,
		TextLength:          len(text),
		Capabilities:        m.cache.LoadAnalysis(ctx, cache.VendorAnalysisCollection(provider), hash),
		HasEmbedding:        hasEmbedding,
		EmbeddingDimensions: dimensions,
		Provider:            provider,
	}, nil
}

type ProblemInfo struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Outcomes     string         `json:"outcomes"`
	HasAnalysis  bool           `json:"has_analysis"`
	Analysis     model.Analysis `json:"analysis"`
	HasEmbedding bool           `json:"has_embedding"`
}

func (m *Matcher) ListProblems(ctx context.Context, providerName string) ([]ProblemInfo, llm.Provider, error) {
	provider := m.ResolveProvider(providerName)

	docs, err := m.store.FindAll(ctx, ProblemsCollection)
	if err != nil {
		return nil, provider, apperr.Wrap(apperr.Storage, "failed to list problem statements", err)
	}

	analysisCollection := cache.ProblemAnalysisCollection(provider)
	problems := make([]ProblemInfo, 0, len(docs))
	for _, doc := range docs {
		problem := problemFromDoc(doc)
		hash := common.ContentHash(problem.FullStatement)

		analysis := m.cache.LoadAnalysis(ctx, analysisCollection, hash)
		hasEmbedding, _ := m.cache.HasEmbedding(ctx, cache.ProblemEmbeddings, hash)

		problems = append(problems, ProblemInfo{
			ID:           problem.ID,
			Title:        problem.Title,
			Description:  problem.Description,
			Outcomes:     problem.Outcomes,
			HasAnalysis:  analysis != nil,
			Analysis:     analysisPreview(analysis),
			HasEmbedding: hasEmbedding,
		})
	}
	return problems, provider, nil
}

type ProblemDetails struct {
	ID                  string         `json:"id"`
	Title               string         `json:"title"`
	Description         string         `json:"description"`
	Outcomes            string         `json:"outcomes"`
	FullStatement       string         `json:"full_statement"`
	Analysis            model.Analysis `json:"analysis"`
	HasEmbedding        bool           `json:"has_embedding"`
	EmbeddingDimensions int            `json:"embedding_dimensions"`
	Provider            llm.Provider   `json:"llm_provider"`
}

func (m *Matcher) ProblemDetails(ctx context.Context, providerName, id string) (*ProblemDetails, error) {
	provider := m.ResolveProvider(providerName)

	problem, err := m.loadProblem(ctx, id)
	if err != nil {
		return nil, err
	}
	hash := common.ContentHash(problem.FullStatement)

	hasEmbedding, dimensions := m.cache.HasEmbedding(ctx, cache.ProblemEmbeddings, hash)
	return &ProblemDetails{
		ID:                  problem.ID,
		Title:               problem.Title,
		Description:         problem.Description,
		Outcomes:            problem.Outcomes,
		FullStatement:       problem.FullStatement,
		Analysis:            m.cache.LoadAnalysis(ctx, cache.ProblemAnalysisCollection(provider), hash),
		HasEmbedding:        hasEmbedding,
		EmbeddingDimensions: dimensions,
		Provider:            provider,
	}, nil
}

// --- Deletion sagas ---

// DeleteVendor removes the base vendor record and fans out across every
// provider's analysis partition plus the shared embedding partition. Each
// partition delete is attempted regardless of earlier failures; the report
// records what actually happened.
func (m *Matcher) DeleteVendor(ctx context.Context, name string) (*model.DeletionReport, error) {
	doc, err := m.store.FindOne(ctx, VendorsCollection, store.ByName(name))
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to load vendor", err)
	}
	if doc == nil {
		return nil, apperr.New(apperr.NotFound, "vendor not found")
	}

	vendorName, _ := doc["name"].(string)
	text, _ := doc["text"].(string)
	hash := common.VendorHash(vendorName, text)

	report := &model.DeletionReport{}
	m.deleteStep(ctx, report, VendorsCollection, store.ByName(name))
	for _, p := range llm.Providers() {
		m.deleteStep(ctx, report, cache.VendorAnalysisCollection(p), store.ByHash(hash))
	}
	m.deleteStep(ctx, report, cache.VendorEmbeddings, store.ByHash(hash))

	m.log.Info("deleted vendor and associated data",
		zap.String("vendor", vendorName), zap.Strings("deleted_from", report.DeletedFrom),
		zap.Strings("failed", report.Failed))
	return report, nil
}

// DeleteProblem is the problem-statement counterpart of DeleteVendor.
func (m *Matcher) DeleteProblem(ctx context.Context, id string) (*model.DeletionReport, error) {
	problem, err := m.loadProblem(ctx, id)
	if err != nil {
		return nil, err
	}
	hash := common.ContentHash(problem.FullStatement)

	report := &model.DeletionReport{}
	m.deleteStep(ctx, report, ProblemsCollection, store.ByID(id))
	for _, p := range llm.Providers() {
		m.deleteStep(ctx, report, cache.ProblemAnalysisCollection(p), store.ByHash(hash))
	}
	m.deleteStep(ctx, report, cache.ProblemEmbeddings, store.ByHash(hash))

	m.log.Info("deleted problem statement and associated data",
		zap.String("id", id), zap.Strings("deleted_from", report.DeletedFrom),
		zap.Strings("failed", report.Failed))
	return report, nil
}

func (m *Matcher) deleteStep(ctx context.Context, report *model.DeletionReport, collection string, filter store.Filter) {
	count, err := m.store.DeleteOne(ctx, collection, filter)
	if err != nil {
		m.log.Error("partition delete failed", zap.String("collection", collection), zap.Error(err))
		report.Failed = append(report.Failed, collection)
		return
	}
	if count > 0 {
		report.DeletedFrom = append(report.DeletedFrom, collection)
	}
}

// --- Ops ---

type Dashboard struct {
	TotalVendors   int      `json:"total_vendors"`
	TotalProblems  int      `json:"total_ps"`
	CachedAnalyses int64    `json:"cached_analyses"`
	RecentVendors  []string `json:"recent_vendors"`
	RecentProblems []string `json:"recent_ps"`
}

func (m *Matcher) Dashboard(ctx context.Context) (*Dashboard, error) {
	vendors, err := m.store.FindAll(ctx, VendorsCollection)
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to list vendors", err)
	}
	problems, err := m.store.FindAll(ctx, ProblemsCollection)
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to list problem statements", err)
	}

	dashboard := &Dashboard{
		TotalVendors:   len(vendors),
		TotalProblems:  len(problems),
		CachedAnalyses: m.cache.CountAnalyses(ctx),
		RecentVendors:  []string{},
		RecentProblems: []string{},
	}

	for i, doc := range vendors {
		if i == 3 {
			break
		}
		if name, ok := doc["name"].(string); ok {
			dashboard.RecentVendors = append(dashboard.RecentVendors, name)
		}
	}
	for i, doc := range problems {
		if i == 3 {
			break
		}
		if title, ok := doc["title"].(string); ok {
			dashboard.RecentProblems = append(dashboard.RecentProblems, title)
		}
	}
	return dashboard, nil
}

func (m *Matcher) ClearCache(ctx context.Context) error {
	if err := m.cache.ClearAnalyses(ctx); err != nil {
		return apperr.Wrap(apperr.Storage, "failed to clear cache", err)
	}
	return nil
}

// --- helpers ---

func (m *Matcher) loadProblem(ctx context.Context, id string) (*model.Problem, error) {
	doc, err := m.store.FindOne(ctx, ProblemsCollection, store.ByID(id))
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to load problem statement", err)
	}
	if doc == nil {
		return nil, apperr.New(apperr.NotFound, "problem statement not found")
	}
	return problemFromDoc(doc), nil
}

func problemFromDoc(doc store.Document) *model.Problem {
	problem := &model.Problem{}
	problem.ID, _ = doc["id"].(string)
	problem.Title, _ = doc["title"].(string)
	problem.Description, _ = doc["description"].(string)
	problem.Outcomes, _ = doc["outcomes"].(string)
	problem.FullStatement, _ = doc["full_statement"].(string)
	return problem
}

// analysisPreview keeps the first two substantive fields of an analysis
// for list views.
func analysisPreview(analysis model.Analysis) model.Analysis {
	if analysis == nil {
		return nil
	}
	preview := model.Analysis{}
	for _, key := range sortedKeys(analysis) {
		if key == "llm_provider" || key == "content_hash" || key == "name" {
			continue
		}
		preview[key] = analysis[key]
		if len(preview) == 2 {
			break
		}
	}
	return preview
}

func sortedKeys(analysis model.Analysis) []string {
	keys := make([]string, 0, len(analysis))
	for k := range analysis {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
