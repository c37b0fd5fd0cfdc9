package websearch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const numberedBoldResults = `Here are the companies I found:
1. **Acme Robotics**
   Acme Robotics builds industrial automation platforms for large manufacturers worldwide.
   Technologies: Go, ROS, Kubernetes
   Website: https://acme-robotics.example.com
2. **Beta Vision**
   Beta Vision delivers computer vision inspection systems for production lines.
   Website: https://betavision.example.com
3. **Gamma AI**
   Gamma AI provides machine learning consulting and end-to-end model deployment services.
   Website: https://gamma-ai.example.com
   More: https://gamma-ai.example.com/about
   Extra: https://gamma-ai.example.com/contact`

func TestParseResultsNumberedBold(t *testing.T) {
	vendors := ParseResults(numberedBoldResults)

	assert.Len(t, vendors, 3)

	assert.Equal(t, "Acme Robotics", vendors[0].Name)
	assert.Contains(t, vendors[0].Description, "industrial automation platforms")
	assert.NotContains(t, vendors[0].Description, "Technologies:")
	assert.Len(t, vendors[0].WebSources, 1)
	assert.Equal(t, "https://acme-robotics.example.com", vendors[0].WebSources[0].URL)
	assert.Equal(t, "Acme Robotics", vendors[0].WebSources[0].Title)

	assert.Equal(t, "Beta Vision", vendors[1].Name)
	assert.Equal(t, "Gamma AI", vendors[2].Name)

	// URLs are capped at two per vendor.
	assert.Len(t, vendors[2].WebSources, 2)
}

func TestParseResultsTooShort(t *testing.T) {
	assert.Empty(t, ParseResults(""))
	assert.Empty(t, ParseResults("nothing found"))
}

func TestParseResultsBlankLineFallback(t *testing.T) {
	text := `**Acme Robotics** is a vendor specializing in warehouse automation and robotics software.

**Beta Vision** offers turnkey visual quality inspection deployments for factories.`

	vendors := ParseResults(text)

	assert.Len(t, vendors, 2)
	assert.Equal(t, "Acme Robotics", vendors[0].Name)
	assert.Equal(t, "Beta Vision", vendors[1].Name)
}

func TestParseResultsDropsShortDescriptions(t *testing.T) {
	text := `1. **Acme**
   Too short.
2. **Beta Vision**
   Beta Vision offers turnkey visual quality inspection deployments for factories.`

	vendors := ParseResults(text)

	assert.Len(t, vendors, 1)
	assert.Equal(t, "Beta Vision", vendors[0].Name)
}

func TestParseResultsCapsVendorCount(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("Results:\n")
	for i := 0; i < 15; i++ {
		sb.WriteString("1. **Vendor Number Here**\n")
		sb.WriteString("   This vendor builds enterprise integration software for regulated industries.\n")
	}

	vendors := ParseResults(sb.String())
	assert.Len(t, vendors, maxParsedVendors)
}
