package scraper

import (
	"context"

	"github.com/ottie-ai/ottie-app-1-sub003/config"
	"github.com/ottie-ai/ottie-app-1-sub003/httputil"
	"github.com/ottie-ai/ottie-app-1-sub003/models"
)

// Handler captures the raw payload for one source URL. Exactly one handler
// runs per import: the provider's actor for registry hosts, otherwise a
// generic HTML fetcher.
type Handler interface {
	ID() string
	Fetch(ctx context.Context, sourceURL string) (*models.RawScrape, error)
}

// NewHandler picks the handler for a URL. Registry hosts get the Apify
// handler; everything else gets the scraping API when a key is configured,
// or the local browser as a fallback. Provider YAML overrides can swap the
// actor, raise the item cap, or disable the provider so its hosts fall back
// to the generic path.
func NewHandler(sourceURL string, cfg *config.Config, clients *httputil.Clients) Handler {
	if provider := Route(sourceURL); provider != nil {
		apifyCfg := cfg.Apify
		if override := cfg.Providers[provider.ID]; override != nil {
			if override.Disabled {
				provider = nil
			} else {
				if override.Actor != "" {
					p := *provider
					p.ActorID = override.Actor
					provider = &p
				}
				if override.MaxItems > 0 {
					apifyCfg.MaxItems = override.MaxItems
				}
			}
		}
		if provider != nil {
			return NewApifyHandler(provider, &apifyCfg, clients.API)
		}
	}
	if cfg.ScrapeAPI.APIKey != "" {
		return NewAPIHandler(&cfg.ScrapeAPI, clients.API)
	}
	return NewBrowserHandler()
}
