package scraper

import (
	"net/url"
	"strings"

	"github.com/ottie-ai/ottie-app-1-sub003/cleaners"
)

// Provider is one structured-data source backed by a dedicated Apify actor.
// Adding a source means adding one entry here; nothing else changes.
type Provider struct {
	ID          string
	DisplayName string
	ActorID     string
	Hosts       []string // exact lowercased hostnames, never substrings
	BuildInput  func(sourceURL string, maxItems int) map[string]any
	Clean       func(any) any
}

var registry = []Provider{
	{
		ID:          "zillow",
		DisplayName: "Zillow",
		ActorID:     "maxcopell~zillow-detail-scraper",
		Hosts:       []string{"www.zillow.com", "zillow.com"},
		BuildInput:  buildZillowInput,
		Clean:       cleaners.Zillow,
	},
	{
		ID:          "realtor",
		DisplayName: "Realtor.com",
		ActorID:     "epctex~realtor-scraper",
		Hosts:       []string{"www.realtor.com", "realtor.com"},
		BuildInput:  buildRealtorInput,
		Clean:       cleaners.Realtor,
	},
}

// Route returns the structured provider for a listing URL, or nil when the
// caller should fall back to generic HTML scraping. Hostname comparison is
// exact: zillow.com.evil.example must not route to the Zillow actor.
func Route(sourceURL string) *Provider {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return nil
	}
	host := strings.ToLower(u.Hostname())
	for i := range registry {
		for _, h := range registry[i].Hosts {
			if host == h {
				return &registry[i]
			}
		}
	}
	return nil
}

// Providers returns the registry in routing order.
func Providers() []Provider {
	out := make([]Provider, len(registry))
	copy(out, registry)
	return out
}

func buildZillowInput(sourceURL string, maxItems int) map[string]any {
	if maxItems <= 0 {
		maxItems = 1
	}
	return map[string]any{
		"startUrls": []map[string]any{{"url": sourceURL}},
		"maxItems":  maxItems,
		"proxyConfiguration": map[string]any{
			"useApifyProxy":    true,
			"apifyProxyGroups": []string{"RESIDENTIAL"},
		},
	}
}

func buildRealtorInput(sourceURL string, maxItems int) map[string]any {
	if maxItems <= 0 {
		maxItems = 1
	}
	return map[string]any{
		"startUrls":   []string{sourceURL},
		"maxItems":    maxItems,
		"mode":        "DETAIL",
		"includeSold": false,
		"proxy": map[string]any{
			"useApifyProxy": true,
		},
	}
}
