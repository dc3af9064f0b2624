// Package services orchestrates the import pipeline: fetch a listing,
// clean it, extract a property record, generate the site configuration,
// and persist the result.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ottie-ai/ottie-app-1-sub003/config"
	"github.com/ottie-ai/ottie-app-1-sub003/extract"
	"github.com/ottie-ai/ottie-app-1-sub003/generator"
	"github.com/ottie-ai/ottie-app-1-sub003/htmlclean"
	"github.com/ottie-ai/ottie-app-1-sub003/httputil"
	"github.com/ottie-ai/ottie-app-1-sub003/identity"
	"github.com/ottie-ai/ottie-app-1-sub003/models"
	"github.com/ottie-ai/ottie-app-1-sub003/pageconfig"
	"github.com/ottie-ai/ottie-app-1-sub003/scraper"
	"github.com/ottie-ai/ottie-app-1-sub003/storage"
)

// Fetcher matches the scraper handler surface so tests can import without a
// live actor or browser.
type Fetcher interface {
	ID() string
	Fetch(ctx context.Context, sourceURL string) (*models.RawScrape, error)
}

// ImportService runs one URL through the full pipeline. The Postgres store,
// publisher, and archive are optional; the operational store is not.
type ImportService struct {
	cfg     *config.Config
	store   *storage.PostgresStore
	ops     *storage.SQLiteStore
	publish *storage.SupabaseStore
	archive *storage.S3Archive
	gen     *generator.Generator
	clients *httputil.Clients

	// newHandler is swappable for tests.
	newHandler func(sourceURL string) Fetcher
}

func NewImportService(
	cfg *config.Config,
	store *storage.PostgresStore,
	ops *storage.SQLiteStore,
	publish *storage.SupabaseStore,
	archive *storage.S3Archive,
	gen *generator.Generator,
	clients *httputil.Clients,
) *ImportService {
	s := &ImportService{
		cfg:     cfg,
		store:   store,
		ops:     ops,
		publish: publish,
		archive: archive,
		gen:     gen,
		clients: clients,
	}
	s.newHandler = func(sourceURL string) Fetcher {
		return scraper.NewHandler(sourceURL, cfg, clients)
	}
	return s
}

// Import runs the pipeline for one source URL and returns the finished run
// record. The returned error is the pipeline failure, if any; the run record
// is always valid and persisted.
func (s *ImportService) Import(ctx context.Context, siteID uuid.UUID, sourceURL string) (*models.ImportRun, error) {
	run := &models.ImportRun{
		SiteID:    siteID.String(),
		SourceURL: sourceURL,
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
		Stage:     models.StageFetch,
	}
	if provider := scraper.Route(sourceURL); provider != nil {
		run.Provider = provider.ID
	}
	if err := s.ops.CreateRun(run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	// Fetch
	s.logRun(run, models.LogLevelInfo, "fetch started for %s", sourceURL)
	handler := s.newHandler(sourceURL)

	fetchStart := time.Now()
	scrape, err := handler.Fetch(ctx, sourceURL)
	run.FetchMs = time.Since(fetchStart).Milliseconds()
	if err != nil {
		return run, s.fail(run, err)
	}
	scrape.ID = uuid.New()
	scrape.SiteID = siteID
	scrape.Fingerprint = identity.Fingerprint(sourceURL)
	s.persistRaw(ctx, run, scrape)

	// Clean + extract. Neither stage fails the run; an unusable record
	// surfaces as an empty_extraction failure at the generate stage.
	run.Stage = models.StageClean
	record := s.buildRecord(run, scrape)

	// Generate
	run.Stage = models.StageGenerate
	genStart := time.Now()
	base, err := s.gen.GenerateBase(ctx, record)
	run.GenerateMs = time.Since(genStart).Milliseconds()
	if err != nil {
		return run, s.fail(run, err)
	}
	s.recordTokens(run, base.Meta)
	s.logRun(run, models.LogLevelInfo, "base configuration generated: %d sections", len(base.Config.SectionSettings))

	// Refine. A refine failure keeps the base configuration; the site ships
	// with unrefined copy rather than nothing.
	run.Stage = models.StageRefine
	refineStart := time.Now()
	refinement, err := s.gen.RefineCopy(ctx, base)
	run.RefineMs = time.Since(refineStart).Milliseconds()
	if err != nil {
		s.logRun(run, models.LogLevelWarn, "copy refinement failed, keeping base copy: %v", err)
	} else {
		s.recordTokens(run, refinement.Meta)
		generator.ApplyRefinement(base, refinement)
	}

	// Persist
	run.Stage = models.StagePersist
	blob, err := generator.Canonical(base)
	if err != nil {
		return run, s.fail(run, err)
	}
	sc := &models.SiteConfiguration{
		SiteID:      siteID,
		Title:       base.Title,
		Config:      blob,
		Fingerprint: scrape.Fingerprint,
		SourceURL:   sourceURL,
		GeneratedAt: time.Now(),
	}
	if s.store != nil {
		if err := s.store.SaveSiteConfiguration(ctx, sc); err != nil {
			return run, s.fail(run, err)
		}
	}
	if s.publish != nil && s.publish.Enabled() {
		if err := s.publish.PublishConfiguration(sc); err != nil {
			s.logRun(run, models.LogLevelWarn, "publish failed: %v", err)
		}
	}

	run.Stage = models.StageDone
	run.Status = models.RunStatusCompleted
	now := time.Now()
	run.FinishedAt = &now
	if err := s.ops.UpdateRun(run); err != nil {
		log.Printf("Error updating run %d: %v", run.ID, err)
	}
	s.logRun(run, models.LogLevelInfo, "import completed in %s", time.Since(run.StartedAt).Round(time.Millisecond))
	return run, nil
}

// buildRecord turns the raw capture into a property record via the provider
// cleaner for structured payloads or the HTML pipeline otherwise.
func (s *ImportService) buildRecord(run *models.ImportRun, scrape *models.RawScrape) *models.PropertyRecord {
	if providerID := scrape.Kind.ProviderID(); providerID != "" {
		var payload any
		if err := json.Unmarshal(scrape.Payload, &payload); err != nil {
			s.logRun(run, models.LogLevelWarn, "structured payload unreadable: %v", err)
			return &models.PropertyRecord{}
		}
		provider := providerFor(providerID)
		if provider == nil {
			s.logRun(run, models.LogLevelWarn, "no cleaner for provider %s", providerID)
			return RecordFromStructured(payload)
		}
		run.Stage = models.StageExtract
		return RecordFromStructured(provider.Clean(payload))
	}

	cleaned, err := htmlclean.Clean(scrape.HTML)
	if err != nil {
		s.logRun(run, models.LogLevelWarn, "html cleaning failed, extracting from raw markup: %v", err)
		cleaned = scrape.HTML
	}
	run.Stage = models.StageExtract
	return extract.Property(cleaned, scrape.SourceURL)
}

func providerFor(id string) *scraper.Provider {
	for _, p := range scraper.Providers() {
		if p.ID == id {
			provider := p
			return &provider
		}
	}
	return nil
}

// persistRaw stores the capture durably. Failures are logged, not fatal; the
// pipeline can still finish from the in-memory payload.
func (s *ImportService) persistRaw(ctx context.Context, run *models.ImportRun, scrape *models.RawScrape) {
	if s.store != nil {
		if err := s.store.SaveRawScrape(ctx, scrape); err != nil {
			s.logRun(run, models.LogLevelWarn, "raw scrape not persisted: %v", err)
		}
	}
	if s.archive != nil {
		if err := s.archive.ArchiveScrape(ctx, scrape); err != nil {
			s.logRun(run, models.LogLevelWarn, "raw scrape not archived: %v", err)
		}
	}
}

func (s *ImportService) recordTokens(run *models.ImportRun, meta *models.GenerationMeta) {
	if meta == nil {
		return
	}
	run.PromptTokens += meta.PromptTokens
	run.CompletionTokens += meta.CompletionTokens
	run.TotalTokens += meta.TotalTokens
}

func (s *ImportService) fail(run *models.ImportRun, err error) error {
	run.Status = models.RunStatusFailed
	run.ErrorKind = string(models.KindOf(err))
	run.ErrorDetail = err.Error()
	now := time.Now()
	run.FinishedAt = &now
	if updateErr := s.ops.UpdateRun(run); updateErr != nil {
		log.Printf("Error updating run %d: %v", run.ID, updateErr)
	}
	s.logRun(run, models.LogLevelError, "import failed at %s: %v", run.Stage, err)
	return err
}

func (s *ImportService) logRun(run *models.ImportRun, level models.LogLevel, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("[run %d] %s", run.ID, msg)
	entry := &models.ImportLog{
		RunID:   &run.ID,
		Level:   level,
		Message: msg,
		SiteID:  run.SiteID,
	}
	if err := s.ops.AppendLog(entry); err != nil {
		log.Printf("Error appending run log: %v", err)
	}
}

// LoadConfiguration reads a site's stored configuration and upgrades legacy
// blobs to the current shape on the way out.
func (s *ImportService) LoadConfiguration(ctx context.Context, siteID uuid.UUID) (*pageconfig.V2Config, error) {
	if s.store == nil {
		return nil, fmt.Errorf("no configuration store")
	}
	sc, err := s.store.GetSiteConfiguration(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return pageconfig.Empty(), nil
	}
	return pageconfig.ToCurrent(sc.Config), nil
}
