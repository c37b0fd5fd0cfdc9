package model

// Analysis is the structured output of an LLM extraction. The field set is
// provider- and prompt-dependent, so it stays a free-form document.
type Analysis map[string]any

// Vendor is the source-of-truth vendor record. Capability analyses and
// embeddings are derived artifacts keyed off its content hash.
type Vendor struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Problem is the source-of-truth problem statement record. ID is derived
// from the title hash.
type Problem struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Outcomes      string `json:"outcomes"`
	FullStatement string `json:"full_statement"`
}

// Criterion is one weighted scoring dimension. Weight is a fraction in the
// matching pipeline (0.4 means 40%); the web pipeline converts its
// percentage inputs to fractions before reaching scoring code.
type Criterion struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

// DefaultCriteria is the scoring rubric used when the caller supplies none.
func DefaultCriteria() []Criterion {
	return []Criterion{
		{Key: "domain_fit", Label: "Domain Fit", Weight: 0.4},
		{Key: "tools_fit", Label: "Tools/Stack Fit", Weight: 0.3},
		{Key: "experience", Label: "Experience", Weight: 0.2},
		{Key: "scalability", Label: "Scalability", Weight: 0.1},
	}
}

// EvaluationParam is a caller-supplied web-discovery criterion. Weights are
// percentages and must sum to 100 across a request.
type EvaluationParam struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

func DefaultEvaluationParams() []EvaluationParam {
	return []EvaluationParam{
		{Name: "Domain Fit", Weight: 40},
		{Name: "Tools Fit", Weight: 30},
		{Name: "Experience", Weight: 20},
		{Name: "Scalability", Weight: 10},
	}
}

// ShortlistEntry is one ranked vendor from the similarity stage. Ephemeral,
// computed per request.
type ShortlistEntry struct {
	Name                 string   `json:"name"`
	SimilarityScore      float64  `json:"semantic_similarity_score"`
	SimilarityPercentage float64  `json:"similarity_percentage"`
	Capabilities         Analysis `json:"vendor_capabilities"`
}

// Evaluation is one scored vendor from either evaluation pipeline.
// Scores holds the per-criterion values keyed by criterion key.
type Evaluation struct {
	Name           string             `json:"name"`
	Description    string             `json:"description,omitempty"`
	CompositeScore float64            `json:"composite_score"`
	Scores         map[string]float64 `json:"scores"`
	Justification  string             `json:"justification"`
	Strengths      []string           `json:"strengths"`
	Concerns       []string           `json:"concerns"`
	WebSources     []WebSource        `json:"web_sources,omitempty"`
	Source         string             `json:"source,omitempty"`
}

// WebSource is a citation attached to a web-discovered vendor.
type WebSource struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// WebVendor is a vendor stub heuristically parsed out of free-text search
// results. It carries no embedding and never enters the cache.
type WebVendor struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	FullText    string      `json:"full_text"`
	WebSources  []WebSource `json:"web_sources"`
}

// SearchOutcome is the result of the web search stage. An unusable tool
// response yields Successful=false with no vendors; the caller reports it
// rather than failing.
type SearchOutcome struct {
	Vendors      []WebVendor `json:"vendors"`
	RawResults   string      `json:"search_results_raw"`
	SourcesCount int         `json:"sources_count"`
	Successful   bool        `json:"search_successful"`
	Error        string      `json:"error,omitempty"`
}

// DeletionReport lists what a fan-out delete actually removed. Partition
// deletes are best-effort; failures land in Failed instead of aborting.
type DeletionReport struct {
	DeletedFrom []string `json:"deleted_from"`
	Failed      []string `json:"failed,omitempty"`
}

// CacheStats counts cache hits versus fresh computations during a matching
// run.
type CacheStats struct {
	VendorsFromCache int `json:"vendors_from_cache"`
	VendorsProcessed int `json:"vendors_processed"`
}
