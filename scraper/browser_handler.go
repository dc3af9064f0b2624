package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/ottie-ai/ottie-app-1-sub003/models"
)

// BrowserHandler renders a listing page in headless Chromium and captures
// the settled DOM. Used when no scraping API key is configured; listing
// sites are JS-heavy, so a plain GET would miss most of the content.
type BrowserHandler struct {
	mu          sync.Mutex
	pw          *playwright.Playwright
	browser     playwright.Browser
	initialized bool
}

func NewBrowserHandler() *BrowserHandler {
	return &BrowserHandler{}
}

func (h *BrowserHandler) ID() string {
	return "browser"
}

func (h *BrowserHandler) Fetch(ctx context.Context, sourceURL string) (*models.RawScrape, error) {
	if err := h.ensureBrowser(); err != nil {
		return nil, models.SourceUnavailable("launch browser", err)
	}

	started := time.Now()

	page, err := h.browser.NewPage(playwright.BrowserNewPageOptions{
		UserAgent: playwright.String("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"),
	})
	if err != nil {
		return nil, models.SourceUnavailable("open page", err)
	}
	defer page.Close()

	if _, err := page.Goto(sourceURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(45000),
	}); err != nil {
		return nil, models.SourceUnavailable(fmt.Sprintf("navigate to %s", sourceURL), err)
	}

	html, err := page.Content()
	if err != nil {
		return nil, models.SourceUnavailable("read page content", err)
	}

	return &models.RawScrape{
		Kind:       models.ScrapeKindHTML,
		SourceURL:  sourceURL,
		HTML:       html,
		CapturedAt: time.Now(),
		DurationMs: time.Since(started).Milliseconds(),
	}, nil
}

func (h *BrowserHandler) ensureBrowser() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.initialized {
		return nil
	}

	var err error
	h.pw, err = playwright.Run()
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	h.browser, err = h.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	h.initialized = true
	return nil
}

// Close shuts down the browser and the playwright driver.
func (h *BrowserHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.browser != nil {
		h.browser.Close()
		h.browser = nil
	}
	if h.pw != nil {
		h.pw.Stop()
		h.pw = nil
	}
	h.initialized = false
}
