package scraper

import (
	"testing"

	"github.com/ottie-ai/ottie-app-1-sub003/config"
	"github.com/ottie-ai/ottie-app-1-sub003/httputil"
)

func TestNewHandlerSelection(t *testing.T) {
	clients := httputil.NewClients(&config.ProxyConfig{})

	cfg := &config.Config{Providers: map[string]*config.ProviderConfig{}}
	h := NewHandler("https://www.zillow.com/homedetails/x", cfg, clients)
	if _, ok := h.(*ApifyHandler); !ok {
		t.Errorf("registry host handler = %T, want ApifyHandler", h)
	}

	cfg.ScrapeAPI.APIKey = "key"
	h = NewHandler("https://unknown-broker.com/listing", cfg, clients)
	if _, ok := h.(*APIHandler); !ok {
		t.Errorf("generic handler with api key = %T, want APIHandler", h)
	}

	cfg.ScrapeAPI.APIKey = ""
	h = NewHandler("https://unknown-broker.com/listing", cfg, clients)
	if _, ok := h.(*BrowserHandler); !ok {
		t.Errorf("generic handler without api key = %T, want BrowserHandler", h)
	}
}

func TestNewHandlerProviderOverrides(t *testing.T) {
	clients := httputil.NewClients(&config.ProxyConfig{})

	cfg := &config.Config{
		Providers: map[string]*config.ProviderConfig{
			"zillow": {ID: "zillow", Actor: "custom~zillow-actor", MaxItems: 5},
		},
	}
	h := NewHandler("https://www.zillow.com/homedetails/x", cfg, clients)
	apify, ok := h.(*ApifyHandler)
	if !ok {
		t.Fatalf("handler = %T, want ApifyHandler", h)
	}
	if apify.provider.ActorID != "custom~zillow-actor" {
		t.Errorf("actor = %s", apify.provider.ActorID)
	}
	if apify.maxItems != 5 {
		t.Errorf("maxItems = %d", apify.maxItems)
	}

	// The registry entry itself stays untouched.
	if p := Route("https://www.zillow.com/homedetails/x"); p.ActorID == "custom~zillow-actor" {
		t.Errorf("override leaked into the registry")
	}
}

func TestNewHandlerDisabledProviderFallsBack(t *testing.T) {
	clients := httputil.NewClients(&config.ProxyConfig{})

	cfg := &config.Config{
		ScrapeAPI: config.ScrapeAPIConfig{APIKey: "key"},
		Providers: map[string]*config.ProviderConfig{
			"zillow": {ID: "zillow", Disabled: true},
		},
	}
	h := NewHandler("https://www.zillow.com/homedetails/x", cfg, clients)
	if _, ok := h.(*APIHandler); !ok {
		t.Errorf("disabled provider handler = %T, want APIHandler fallback", h)
	}
}
