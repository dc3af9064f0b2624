package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ScrapeKind tags which path captured a payload: generic HTML, or a
// structured provider identified by id ("structured:zillow").
type ScrapeKind string

const ScrapeKindHTML ScrapeKind = "html"

// StructuredKind returns the kind tag for a structured provider.
func StructuredKind(providerID string) ScrapeKind {
	return ScrapeKind("structured:" + providerID)
}

// ProviderID returns the provider id of a structured kind, or "" for HTML.
func (k ScrapeKind) ProviderID() string {
	const prefix = "structured:"
	if len(k) > len(prefix) && string(k[:len(prefix)]) == prefix {
		return string(k[len(prefix):])
	}
	return ""
}

// RawScrape is one captured payload, immutable once written. Retries create
// a new row; nothing ever mutates an existing capture.
type RawScrape struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	SiteID      uuid.UUID       `json:"site_id" db:"site_id"`
	Fingerprint string          `json:"fingerprint" db:"fingerprint"`
	Kind        ScrapeKind      `json:"kind" db:"kind"`
	SourceURL   string          `json:"source_url" db:"source_url"`
	HTML        string          `json:"html,omitempty" db:"html"`
	Payload     json.RawMessage `json:"payload,omitempty" db:"payload"`
	CapturedAt  time.Time       `json:"captured_at" db:"captured_at"`
	DurationMs  int64           `json:"duration_ms" db:"duration_ms"`
}
