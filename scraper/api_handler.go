package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ottie-ai/ottie-app-1-sub003/config"
	"github.com/ottie-ai/ottie-app-1-sub003/models"
)

// APIHandler fetches raw HTML through a commercial scraping API that handles
// proxies and JS rendering upstream.
type APIHandler struct {
	cfg    *config.ScrapeAPIConfig
	client *http.Client
}

func NewAPIHandler(cfg *config.ScrapeAPIConfig, client *http.Client) *APIHandler {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &APIHandler{cfg: cfg, client: client}
}

func (h *APIHandler) ID() string {
	return "scrape_api"
}

func (h *APIHandler) Fetch(ctx context.Context, sourceURL string) (*models.RawScrape, error) {
	started := time.Now()

	q := url.Values{}
	q.Set("api_key", h.cfg.APIKey)
	q.Set("url", sourceURL)
	q.Set("render_js", "true")
	endpoint := h.cfg.Endpoint + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, models.TimeoutError("scrape api fetch", err)
		}
		return nil, models.SourceUnavailable("scrape api fetch", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, models.SourceUnavailable(
			fmt.Sprintf("scrape api returned %d: %s", resp.StatusCode, truncate(string(body), 200)), nil)
	}

	html, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.SourceUnavailable("read scrape api body", err)
	}

	return &models.RawScrape{
		Kind:       models.ScrapeKindHTML,
		SourceURL:  sourceURL,
		HTML:       string(html),
		CapturedAt: time.Now(),
		DurationMs: time.Since(started).Milliseconds(),
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
