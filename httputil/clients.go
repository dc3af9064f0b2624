package httputil

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"time"

	"github.com/ottie-ai/ottie-app-1-sub003/config"
)

type Clients struct {
	Scraping *http.Client // proxied, for target sites
	API      *http.Client // direct, for Apify/Supabase/Gemini
}

// NewClients builds the two HTTP clients the importer uses. The scraping
// client goes through the residential proxy when one is configured and
// disables HTTP/2, which some listing sites fingerprint.
func NewClients(proxyCfg *config.ProxyConfig) *Clients {
	scraping := &http.Client{
		Timeout: 60 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	if proxyCfg.URL != "" {
		if proxyURL, err := url.Parse(proxyCfg.URL); err == nil {
			scraping.Transport = &http.Transport{
				Proxy:             http.ProxyURL(proxyURL),
				ForceAttemptHTTP2: false,
				TLSNextProto:      make(map[string]func(string, *tls.Conn) http.RoundTripper),
			}
		}
	}

	return &Clients{
		Scraping: scraping,
		API:      &http.Client{Timeout: 30 * time.Second},
	}
}
