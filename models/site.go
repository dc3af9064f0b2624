package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SiteConfiguration is the persisted page-configuration row for one site.
// Config always holds the current blob shape; older shapes are upgraded on
// read, never in place.
type SiteConfiguration struct {
	SiteID      uuid.UUID       `json:"site_id" db:"site_id"`
	Title       string          `json:"title" db:"title"`
	Config      json.RawMessage `json:"config" db:"config"`
	Fingerprint string          `json:"fingerprint" db:"fingerprint"`
	SourceURL   string          `json:"source_url" db:"source_url"`
	GeneratedAt time.Time       `json:"generated_at" db:"generated_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// StaleSite is a site whose configuration is older than the refresh window.
type StaleSite struct {
	SiteID    uuid.UUID
	SourceURL string
	UpdatedAt time.Time
}
