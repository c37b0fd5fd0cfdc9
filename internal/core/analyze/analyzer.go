// Package analyze turns raw vendor and problem text into structured
// capability and requirement data via provider LLM calls, cache-checked
// first.
package analyze

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/matchforge/vendormatch/internal/apperr"
	"github.com/matchforge/vendormatch/internal/core/cache"
	"github.com/matchforge/vendormatch/internal/core/common"
	"github.com/matchforge/vendormatch/internal/core/model"
	"github.com/matchforge/vendormatch/internal/llm"
)

const vendorPrompt = `From this vendor profile, extract:
1. Key technical domains (e.g., NLP, CV, ML)
2. Tools and frameworks used
3. Core capabilities (e.g., scalability, real-time processing)
4. Industry experience
5. Team size and project scale

Vendor Profile: %s

Provide structured output in JSON format.`

const problemPrompt = `Analyze this problem statement and extract:
1. Primary technical domains (e.g., NLP, CV, ML)
2. Required tools or frameworks
3. Key technical requirements (e.g., real-time, accuracy)
4. Deployment constraints (e.g., cloud, edge)
5. Project complexity (e.g., research, production)

Problem Statement: %s

Provide structured analysis in JSON format.`

type Analyzer struct {
	registry *llm.Registry
	cache    *cache.Cache
	log      *zap.Logger
}

func New(registry *llm.Registry, c *cache.Cache, log *zap.Logger) *Analyzer {
	return &Analyzer{registry: registry, cache: c, log: log}
}

// VendorCapabilities resolves the structured capability record for a vendor
// under the given provider: cache first, one LLM call on miss. Malformed
// LLM output is an upstream fault and propagates; there is no fallback at
// this layer.
func (a *Analyzer) VendorCapabilities(ctx context.Context, provider llm.Provider, name, text string) (model.Analysis, error) {
	hash := common.VendorHash(name, text)
	collection := cache.VendorAnalysisCollection(provider)

	if capabilities := a.cache.LoadAnalysis(ctx, collection, hash); capabilities != nil {
		a.log.Debug("using cached vendor capabilities",
			zap.String("vendor", name), zap.String("provider", provider.String()))
		return capabilities, nil
	}

	a.log.Info("analyzing vendor capabilities",
		zap.String("vendor", name), zap.String("provider", provider.String()))

	response, err := a.registry.Client(provider).Generate(ctx, fmt.Sprintf(vendorPrompt, text))
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, fmt.Sprintf("vendor analysis failed for '%s'", name), err)
	}

	capabilities, err := common.ParseJSON[map[string]any](response)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, fmt.Sprintf("malformed vendor analysis output for '%s'", name), err)
	}

	capabilities["name"] = name
	capabilities["llm_provider"] = provider.String()
	a.cache.SaveAnalysis(ctx, collection, hash, capabilities)

	return capabilities, nil
}

// ProblemAnalysis resolves the structured requirement record for a problem
// statement under the given provider.
func (a *Analyzer) ProblemAnalysis(ctx context.Context, provider llm.Provider, fullStatement string) (model.Analysis, error) {
	hash := common.ContentHash(fullStatement)
	collection := cache.ProblemAnalysisCollection(provider)

	if analysis := a.cache.LoadAnalysis(ctx, collection, hash); analysis != nil {
		a.log.Debug("using cached problem analysis", zap.String("provider", provider.String()))
		return analysis, nil
	}

	a.log.Info("analyzing problem statement", zap.String("provider", provider.String()))

	response, err := a.registry.Client(provider).Generate(ctx, fmt.Sprintf(problemPrompt, fullStatement))
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "problem analysis failed", err)
	}

	analysis, err := common.ParseJSON[map[string]any](response)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "malformed problem analysis output", err)
	}

	analysis["llm_provider"] = provider.String()
	analysis["content_hash"] = hash
	a.cache.SaveAnalysis(ctx, collection, hash, analysis)

	return analysis, nil
}
