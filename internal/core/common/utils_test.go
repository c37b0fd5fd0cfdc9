package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentHashDeterministic(t *testing.T) {
	h1 := ContentHash("some vendor profile text")
	h2 := ContentHash("some vendor profile text")
	h3 := ContentHash("some vendor profile text!")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
}

func TestVendorHashIncludesName(t *testing.T) {
	assert.NotEqual(t, VendorHash("Acme", "profile"), VendorHash("Beta", "profile"))
	assert.Equal(t, VendorHash("Acme", "profile"), ContentHash("Acme:profile"))
}

func TestProblemID(t *testing.T) {
	id := ProblemID("Build a search engine")

	assert.Len(t, id, 8)
	assert.Equal(t, id, ProblemID("Build a search engine"))
	assert.NotEqual(t, id, ProblemID("Build a search engine v2"))
}

func TestParseJSONWithMarkdownFences(t *testing.T) {
	response := "Here is the analysis:\n```json\n{\"domains\": [\"NLP\"], \"score\": 5}\n```\nDone."

	parsed, err := ParseJSON[map[string]any](response)

	assert.NoError(t, err)
	assert.Equal(t, []any{"NLP"}, parsed["domains"])
	assert.Equal(t, 5.0, parsed["score"])
}

func TestParseJSONNoObject(t *testing.T) {
	_, err := ParseJSON[map[string]any]("no json here at all")
	assert.Error(t, err)
}

func TestParseJSONMalformed(t *testing.T) {
	_, err := ParseJSON[map[string]any]("{\"unterminated\": ")
	assert.Error(t, err)
}

func TestParseJSONList(t *testing.T) {
	response := "Sure:\n[{\"name\": \"A\"}, {\"name\": \"B\"}]"

	items, err := ParseJSONList[map[string]any](response)

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "A", items[0]["name"])
}

func TestTextRepresentationDeterministic(t *testing.T) {
	data := map[string]any{
		"tools":   []any{"Go", "Python"},
		"domains": "NLP",
		"name":    "Acme",
	}

	text := TextRepresentation(data)

	assert.Equal(t, `domains: NLP tools: ["Go","Python"]`, text)
	assert.Equal(t, text, TextRepresentation(data))
	assert.NotContains(t, text, "Acme")
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "domain_fit", NormalizeKey("Domain Fit"))
	assert.Equal(t, "tools_stack_fit", NormalizeKey("Tools/Stack Fit!"))
	assert.Equal(t, "a_b", NormalizeKey("  A -- B  "))
}

func TestExtractStrings(t *testing.T) {
	data := map[string]any{
		"b": []any{"two", map[string]any{"x": "three"}},
		"a": "one",
		"c": 42,
	}

	result := ExtractStrings(data)

	assert.Equal(t, []string{"one", "two", "three"}, result)
	assert.Empty(t, ExtractStrings(nil))
	assert.Empty(t, ExtractStrings("   "))
}
