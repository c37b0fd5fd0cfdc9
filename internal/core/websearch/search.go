// Package websearch is the secondary discovery pipeline: it asks a
// search-capable LLM for real vendors matching a problem, heuristically
// parses the free-text answer into vendor stubs, and scores them with
// weighted criteria. It shares the analyzer's output format but none of
// the matching pipeline's caching.
package websearch

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/matchforge/vendormatch/internal/apperr"
	"github.com/matchforge/vendormatch/internal/core/common"
	"github.com/matchforge/vendormatch/internal/core/model"
	"github.com/matchforge/vendormatch/internal/llm"
)

const searchPrompt = `You are a procurement researcher. Use web search to find exactly %d real, active technology vendors.

SEARCH CRITERIA:
- Domains: %s
- Tools: %s
- Requirements: %s

USE THESE SEARCH QUERIES:
%s

INSTRUCTIONS:
1. Perform web search NOW using the tool.
2. Find %d real companies with active websites.
3. For each company provide:
   - Company name
   - 2-3 sentence description
   - Technologies used
   - Include the official website url

DO NOT hallucinate. Only use search results.

Return numbered list format:
1. **Company Name**
   Description...
   Technologies: ...
   Website: https://...`

// ValidateCount bounds the requested number of discovered vendors.
func ValidateCount(count int) error {
	if count < 3 || count > 10 {
		return apperr.New(apperr.Validation, "count must be between 3 and 10")
	}
	return nil
}

type Searcher struct {
	client llm.SearchClient
	log    *zap.Logger
}

func NewSearcher(client llm.SearchClient, log *zap.Logger) *Searcher {
	return &Searcher{client: client, log: log}
}

// Discover runs one search-augmented completion and parses the response.
// Tool failures and unusable output are reported through the outcome, not
// as errors: discovery finding nothing is a result, not a fault.
func (s *Searcher) Discover(ctx context.Context, problemStatement string, psAnalysis model.Analysis, count int) model.SearchOutcome {
	queries := BuildQueries(problemStatement, psAnalysis)
	s.log.Info("generated search queries", zap.Strings("queries", queries))

	prompt := buildSearchPrompt(psAnalysis, queries, count)

	response, err := s.client.Search(ctx, prompt)
	if err != nil {
		s.log.Error("web search call failed", zap.Error(err))
		return model.SearchOutcome{Successful: false, Error: err.Error()}
	}

	if strings.TrimSpace(response) == "" {
		s.log.Warn("web search returned no usable output")
		return model.SearchOutcome{
			RawResults: response,
			Successful: false,
			Error:      "web search not performed or no usable output from the tool",
		}
	}

	vendors := ParseResults(response)
	if len(vendors) > count {
		vendors = vendors[:count]
	}

	return model.SearchOutcome{
		Vendors:      vendors,
		RawResults:   response,
		SourcesCount: countSources(vendors),
		Successful:   true,
	}
}

// BuildQueries derives up to three search queries from the problem
// analysis: domain terms first, then tool terms, falling back to a
// truncated description line when both are empty.
func BuildQueries(problemStatement string, psAnalysis model.Analysis) []string {
	domains := common.ExtractStrings(psAnalysis["primary_technical_domains"])
	tools := common.ExtractStrings(psAnalysis["required_tools_or_frameworks"])

	var queries []string
	for i, d := range domains {
		if i >= 2 {
			break
		}
		queries = append(queries, fmt.Sprintf("top companies specializing in %s", d))
	}
	if len(tools) > 0 {
		queries = append(queries, fmt.Sprintf("companies using %s", strings.Join(head(tools, 3), ", ")))
	}

	if len(queries) == 0 {
		desc := descriptionLine(problemStatement)
		if len(desc) > 120 {
			desc = desc[:120]
		}
		if desc == "" {
			desc = "software development"
		}
		queries = append(queries, fmt.Sprintf("technology vendors for %s", desc))
	}
	return queries
}

func buildSearchPrompt(psAnalysis model.Analysis, queries []string, count int) string {
	domains := common.ExtractStrings(psAnalysis["primary_technical_domains"])
	tools := common.ExtractStrings(psAnalysis["required_tools_or_frameworks"])
	requirements := common.ExtractStrings(psAnalysis["key_technical_requirements"])

	domainsPreview := previewOr(domains, 5, "software development")
	toolsPreview := previewOr(tools, 6, "modern stack")
	reqsPreview := previewOr(requirements, 6, "enterprise-grade")

	lines := make([]string, len(queries))
	for i, q := range queries {
		lines[i] = "- " + q
	}

	return fmt.Sprintf(searchPrompt, count, domainsPreview, toolsPreview, reqsPreview, strings.Join(lines, "\n"), count)
}

func descriptionLine(problemStatement string) string {
	for _, line := range strings.Split(problemStatement, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(strings.ToLower(trimmed), "description:") {
			return strings.TrimSpace(trimmed[len("description:"):])
		}
	}
	return ""
}

func previewOr(items []string, n int, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(head(items, n), ", ")
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func countSources(vendors []model.WebVendor) int {
	seen := make(map[string]bool)
	for _, v := range vendors {
		for _, s := range v.WebSources {
			if s.URL != "" {
				seen[s.URL] = true
			}
		}
	}
	return len(seen)
}
