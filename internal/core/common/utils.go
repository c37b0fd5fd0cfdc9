package common

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ContentHash returns the deterministic identity key for a piece of source
// text. Vendors hash "name:text", problem statements hash the full statement.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// VendorHash is the content hash of a vendor profile, keyed on name plus
// raw text so renames invalidate derived artifacts.
func VendorHash(name, text string) string {
	return ContentHash(name + ":" + text)
}

// ProblemID derives the short identifier for a problem statement from its
// title alone. Identical titles collide and overwrite; this mirrors the
// existing data layout and must not change without a migration.
func ProblemID(title string) string {
	sum := md5.Sum([]byte(title))
	return hex.EncodeToString(sum[:])[:8]
}

// ParseJSON cleans and unmarshals a JSON object from an LLM response into T.
// It handles common LLM quirks like surrounding markdown or extra text.
func ParseJSON[T any](response string) (T, error) {
	var zero T
	jsonStr, err := sliceDelimited(response, '{', '}')
	if err != nil {
		return zero, err
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, jsonStr)
	}

	return result, nil
}

// ParseJSONList is the array counterpart of ParseJSON for responses that are
// required to be a JSON array.
func ParseJSONList[T any](response string) ([]T, error) {
	jsonStr, err := sliceDelimited(response, '[', ']')
	if err != nil {
		return nil, err
	}

	var result []T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON array: %w\nData: %s", err, jsonStr)
	}

	return result, nil
}

func sliceDelimited(s string, open, close byte) (string, error) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start == -1 || end == -1 || start >= end {
		return "", fmt.Errorf("no JSON found in response (missing '%c')", open)
	}
	return s[start : end+1], nil
}

// TextRepresentation flattens a structured analysis into one canonical string
// of "key: value" parts. Keys are iterated in sorted order so the same
// analysis always yields the same text; the "name" field is excluded.
// Lists and objects serialize to their canonical JSON form.
func TextRepresentation(data map[string]any) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		if k == "name" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		switch v := data[k].(type) {
		case string:
			parts = append(parts, fmt.Sprintf("%s: %s", k, v))
		case []any, map[string]any:
			b, err := json.Marshal(v)
			if err != nil {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s: %s", k, string(b)))
		default:
			parts = append(parts, fmt.Sprintf("%s: %v", k, v))
		}
	}
	return strings.Join(parts, " ")
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeKey converts a display label into a stable identifier,
// e.g. "Domain Fit" -> "domain_fit".
func NormalizeKey(name string) string {
	normalized := nonAlnum.ReplaceAllString(strings.ToLower(name), "_")
	return strings.Trim(normalized, "_")
}

// ExtractStrings collects every string reachable in a possibly nested
// analysis field. Providers return these fields as strings, lists, or
// objects depending on the model.
func ExtractStrings(data any) []string {
	var result []string
	switch v := data.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			result = append(result, v)
		}
	case []any:
		for _, item := range v {
			result = append(result, ExtractStrings(item)...)
		}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			result = append(result, ExtractStrings(v[k])...)
		}
	}
	return result
}
