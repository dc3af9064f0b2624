package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ottie-ai/ottie-app-1-sub003/models"
)

// PostgresStore is the durable side of the importer: raw captures and
// published site configurations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

// =============================================================================
// Raw scrapes
// =============================================================================

// SaveRawScrape inserts one capture. Captures are append-only; a retry for
// the same URL writes a new row with its own id.
func (s *PostgresStore) SaveRawScrape(ctx context.Context, scrape *models.RawScrape) error {
	if scrape.ID == uuid.Nil {
		scrape.ID = uuid.New()
	}

	query := `
		INSERT INTO raw_scrapes (id, site_id, fingerprint, kind, source_url, html, payload, captured_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.pool.Exec(ctx, query,
		scrape.ID, scrape.SiteID, scrape.Fingerprint, string(scrape.Kind),
		scrape.SourceURL, scrape.HTML, scrape.Payload, scrape.CapturedAt, scrape.DurationMs,
	)
	return err
}

// LatestRawScrape returns the newest capture for a fingerprint, or nil.
func (s *PostgresStore) LatestRawScrape(ctx context.Context, fingerprint string) (*models.RawScrape, error) {
	query := `
		SELECT id, site_id, fingerprint, kind, source_url, html, payload, captured_at, duration_ms
		FROM raw_scrapes WHERE fingerprint = $1
		ORDER BY captured_at DESC LIMIT 1`

	var scrape models.RawScrape
	var kind string
	err := s.pool.QueryRow(ctx, query, fingerprint).Scan(
		&scrape.ID, &scrape.SiteID, &scrape.Fingerprint, &kind,
		&scrape.SourceURL, &scrape.HTML, &scrape.Payload, &scrape.CapturedAt, &scrape.DurationMs,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	scrape.Kind = models.ScrapeKind(kind)
	return &scrape, nil
}

// =============================================================================
// Site configurations
// =============================================================================

// SaveSiteConfiguration upserts the published configuration for a site. The
// blob is always written in the current shape.
func (s *PostgresStore) SaveSiteConfiguration(ctx context.Context, sc *models.SiteConfiguration) error {
	query := `
		INSERT INTO site_configurations (site_id, title, config, fingerprint, source_url, generated_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (site_id) DO UPDATE SET
			title = EXCLUDED.title,
			config = EXCLUDED.config,
			fingerprint = EXCLUDED.fingerprint,
			source_url = EXCLUDED.source_url,
			generated_at = EXCLUDED.generated_at,
			updated_at = NOW()`

	_, err := s.pool.Exec(ctx, query,
		sc.SiteID, sc.Title, sc.Config, sc.Fingerprint, sc.SourceURL, sc.GeneratedAt,
	)
	return err
}

// GetSiteConfiguration returns the stored configuration row, or nil. The
// blob comes back as stored; callers upgrade legacy shapes on read.
func (s *PostgresStore) GetSiteConfiguration(ctx context.Context, siteID uuid.UUID) (*models.SiteConfiguration, error) {
	query := `
		SELECT site_id, title, config, fingerprint, source_url, generated_at, updated_at
		FROM site_configurations WHERE site_id = $1`

	var sc models.SiteConfiguration
	err := s.pool.QueryRow(ctx, query, siteID).Scan(
		&sc.SiteID, &sc.Title, &sc.Config, &sc.Fingerprint, &sc.SourceURL, &sc.GeneratedAt, &sc.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

// ListStaleSites returns sites whose configuration has not been regenerated
// within maxAge, oldest first.
func (s *PostgresStore) ListStaleSites(ctx context.Context, maxAge time.Duration, limit int) ([]models.StaleSite, error) {
	query := `
		SELECT site_id, source_url, updated_at
		FROM site_configurations
		WHERE updated_at < $1 AND source_url <> ''
		ORDER BY updated_at ASC
		LIMIT $2`

	rows, err := s.pool.Query(ctx, query, time.Now().Add(-maxAge), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []models.StaleSite
	for rows.Next() {
		var site models.StaleSite
		if err := rows.Scan(&site.SiteID, &site.SourceURL, &site.UpdatedAt); err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}
