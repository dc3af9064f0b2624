package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ottie-ai/ottie-app-1-sub003/config"
	"github.com/ottie-ai/ottie-app-1-sub003/models"
)

// SupabaseStore publishes configurations to the serving database through the
// REST interface, so the importer never needs direct credentials for it.
type SupabaseStore struct {
	url        string
	serviceKey string
	client     *http.Client
}

func NewSupabaseStore(cfg *config.SupabaseConfig) *SupabaseStore {
	return &SupabaseStore{
		url:        cfg.URL,
		serviceKey: cfg.ServiceKey,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether publishing is configured at all. Local runs
// without Supabase credentials skip the publish step.
func (s *SupabaseStore) Enabled() bool {
	return s.url != "" && s.serviceKey != ""
}

type publishedConfiguration struct {
	SiteID      string          `json:"site_id"`
	Title       string          `json:"title"`
	Config      json.RawMessage `json:"config"`
	Fingerprint string          `json:"fingerprint"`
	SourceURL   string          `json:"source_url"`
	GeneratedAt time.Time       `json:"generated_at"`
	PublishedAt time.Time       `json:"published_at"`
}

// PublishConfiguration upserts the site's configuration row keyed on
// site_id.
func (s *SupabaseStore) PublishConfiguration(sc *models.SiteConfiguration) error {
	row := publishedConfiguration{
		SiteID:      sc.SiteID.String(),
		Title:       sc.Title,
		Config:      sc.Config,
		Fingerprint: sc.Fingerprint,
		SourceURL:   sc.SourceURL,
		GeneratedAt: sc.GeneratedAt,
		PublishedAt: time.Now(),
	}

	data, err := json.Marshal(row)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", s.url+"/rest/v1/site_configurations", bytes.NewReader(data))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Prefer", "resolution=merge-duplicates")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("supabase error %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
