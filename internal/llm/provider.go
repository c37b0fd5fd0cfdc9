package llm

import (
	"strings"
)

// Provider identifies an analysis LLM backend. The set is closed: adding a
// provider means adding a client and a registry entry, not a new string at a
// call site.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderOllama Provider = "ollama"
)

// Providers lists every supported provider. Deletion fan-out and cache
// partitioning iterate this.
func Providers() []Provider {
	return []Provider{ProviderOpenAI, ProviderGemini, ProviderOllama}
}

func (p Provider) String() string {
	return string(p)
}

func (p Provider) valid() bool {
	switch p {
	case ProviderOpenAI, ProviderGemini, ProviderOllama:
		return true
	}
	return false
}

// Normalize maps an arbitrary provider string onto the closed set. Unknown
// or empty values fall back to def: a bad provider name must never fail a
// request.
func Normalize(s string, def Provider) Provider {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if p.valid() {
		return p
	}
	return def
}
