package websearch

import (
	"regexp"
	"strings"

	"github.com/matchforge/vendormatch/internal/core/model"
)

const maxParsedVendors = 10

var (
	numberedBoldMarker = regexp.MustCompile(`\n\d+\.\s+\*\*`)
	numberedMarker     = regexp.MustCompile(`\n\d+\.`)
	blankLines         = regexp.MustCompile(`\n\n+`)

	boldSpan     = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	numberedName = regexp.MustCompile(`^\d+\.\s+([A-Z][A-Za-z0-9&\s.,-]{3,})`)
	leadingNum   = regexp.MustCompile(`^\d+\.\s*`)
	urlPattern   = regexp.MustCompile(`https?://[^\s<>"\)\]]+`)
)

// ParseResults segments free-text search output into vendor stubs. The
// response structure is not trusted: sections are found by the first
// splitting strategy that yields more than one piece (numbered+bold
// markers, then plain numbered markers, then blank-line paragraphs), and
// name/description/URLs are extracted per section with length gates.
func ParseResults(searchText string) []model.WebVendor {
	trimmed := strings.TrimSpace(searchText)
	if len(trimmed) < 50 {
		return []model.WebVendor{}
	}

	var vendors []model.WebVendor
	for _, section := range splitSections(trimmed) {
		section = strings.TrimSpace(section)
		if len(section) < 50 {
			continue
		}

		vendor := parseSection(section)
		if vendor.Name != "" && len(vendor.Description) > 30 {
			vendors = append(vendors, vendor)
		}
		if len(vendors) == maxParsedVendors {
			break
		}
	}
	if vendors == nil {
		return []model.WebVendor{}
	}
	return vendors
}

func splitSections(text string) []string {
	for _, marker := range []*regexp.Regexp{numberedBoldMarker, numberedMarker} {
		sections := splitBefore(text, marker)
		if len(sections) > 1 {
			return sections
		}
	}
	return blankLines.Split(text, -1)
}

// splitBefore splits at each marker match, keeping the matched line start
// with the section that follows it. The marker patterns begin with a
// newline, so the cut lands just after it.
func splitBefore(text string, marker *regexp.Regexp) []string {
	locs := marker.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}

	sections := make([]string, 0, len(locs)+1)
	prev := 0
	for _, loc := range locs {
		cut := loc[0] + 1
		sections = append(sections, text[prev:cut])
		prev = cut
	}
	sections = append(sections, text[prev:])
	return sections
}

func parseSection(section string) model.WebVendor {
	vendor := model.WebVendor{FullText: section}

	if m := boldSpan.FindStringSubmatch(section); m != nil {
		vendor.Name = strings.TrimSpace(m[1])
	} else if m := numberedName.FindStringSubmatch(section); m != nil {
		vendor.Name = strings.TrimSpace(m[1])
	}
	vendor.Name = strings.TrimSpace(leadingNum.ReplaceAllString(vendor.Name, ""))

	vendor.Description = extractDescription(section)

	for i, url := range urlPattern.FindAllString(section, -1) {
		if i == 2 {
			break
		}
		vendor.WebSources = append(vendor.WebSources, model.WebSource{URL: url, Title: vendor.Name})
	}

	return vendor
}

// extractDescription keeps up to three substantial lines, skipping URL and
// label lines and stripping bold markup and leading numerals.
func extractDescription(section string) string {
	var descLines []string
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !hasAnyPrefix(line, "http", "Technologies:", "Website:", "Tech Stack:") {
			line = boldSpan.ReplaceAllString(line, "")
			line = leadingNum.ReplaceAllString(line, "")
			if len(line) > 20 {
				descLines = append(descLines, line)
			}
		}
		if len(descLines) >= 3 {
			break
		}
	}
	return strings.Join(descLines, " ")
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
