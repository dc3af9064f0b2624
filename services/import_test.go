package services

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ottie-ai/ottie-app-1-sub003/config"
	"github.com/ottie-ai/ottie-app-1-sub003/generator"
	"github.com/ottie-ai/ottie-app-1-sub003/models"
	"github.com/ottie-ai/ottie-app-1-sub003/storage"
)

type fakeFetcher struct {
	scrape *models.RawScrape
	err    error
}

func (f *fakeFetcher) ID() string { return "fake" }

func (f *fakeFetcher) Fetch(ctx context.Context, sourceURL string) (*models.RawScrape, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.scrape, nil
}

type scriptedLLM struct {
	responses []string
	errs      []error
	calls     int
}

func (l *scriptedLLM) GenerateJSON(ctx context.Context, prompt string, temperature float32) (string, *models.GenerationMeta, error) {
	i := l.calls
	l.calls++
	if i < len(l.errs) && l.errs[i] != nil {
		return "", nil, l.errs[i]
	}
	return l.responses[i], &models.GenerationMeta{TotalTokens: 50, Temperature: temperature}, nil
}

const listingHTML = `<html><body>
<h1>Charming Craftsman Retreat</h1>
<p class="address">456 Oakwood Dr, Austin, TX 78704</p>
<span class="price">$549,900</span>
<p>3 bed 2.5 bath 1,850 sqft</p>
</body></html>`

const baseResponseJSON = `{
	"title": "The Oakwood Craftsman",
	"theme": "classic",
	"highlights": [{"icon": "bed", "title": "Bedrooms", "value": "3"}],
	"sections": [
		{"id": "hero", "type": "hero", "variant": "full", "colorScheme": "light",
		 "content": {"headline": "Welcome home"}},
		{"id": "desc", "type": "description", "variant": "simple", "colorScheme": "light",
		 "content": {"body": "A nice house."}}
	]
}`

const refineResponseJSON = `{
	"title": "Sun-Drenched Craftsman Haven",
	"highlights": [{"icon": "bed", "title": "Sunny Bedrooms", "value": "3"}]
}`

func newTestService(t *testing.T, llm generator.LLM, fetcher Fetcher) (*ImportService, *storage.SQLiteStore) {
	t.Helper()
	ops, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "ops.db"))
	if err != nil {
		t.Fatalf("open ops store: %v", err)
	}
	t.Cleanup(func() { ops.Close() })

	svc := NewImportService(&config.Config{}, nil, ops, nil, nil, generator.New(llm), nil)
	svc.newHandler = func(sourceURL string) Fetcher { return fetcher }
	return svc, ops
}

func htmlScrape(sourceURL string) *models.RawScrape {
	return &models.RawScrape{
		Kind:       models.ScrapeKindHTML,
		SourceURL:  sourceURL,
		HTML:       listingHTML,
		CapturedAt: time.Now(),
	}
}

func TestImportHTMLPathCompletes(t *testing.T) {
	sourceURL := "https://example-broker.com/listing/42"
	llm := &scriptedLLM{responses: []string{baseResponseJSON, refineResponseJSON}}
	svc, ops := newTestService(t, llm, &fakeFetcher{scrape: htmlScrape(sourceURL)})

	run, err := svc.Import(context.Background(), uuid.New(), sourceURL)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if run.Status != models.RunStatusCompleted || run.Stage != models.StageDone {
		t.Errorf("run = %s/%s", run.Status, run.Stage)
	}
	if run.Provider != "" {
		t.Errorf("generic HTML run has provider %q", run.Provider)
	}
	if run.TotalTokens != 100 {
		t.Errorf("tokens = %d, want both passes counted", run.TotalTokens)
	}

	stored, err := ops.GetRun(run.ID)
	if err != nil || stored == nil {
		t.Fatalf("stored run: %v, %v", stored, err)
	}
	if stored.Status != models.RunStatusCompleted {
		t.Errorf("stored status = %s", stored.Status)
	}
	if stored.FinishedAt == nil {
		t.Errorf("finished_at not persisted")
	}
}

func TestImportStructuredPathUsesProviderCleaner(t *testing.T) {
	sourceURL := "https://www.zillow.com/homedetails/x"
	payload, _ := json.Marshal([]map[string]any{{
		"price":      450000,
		"bedrooms":   3,
		"zpid":       99999,
		"submitFlow": []string{"noise"},
		"address":    map[string]any{"streetAddress": "1 Main St", "city": "Austin"},
	}})
	fetcher := &fakeFetcher{scrape: &models.RawScrape{
		Kind:      models.StructuredKind("zillow"),
		SourceURL: sourceURL,
		Payload:   payload,
	}}
	llm := &scriptedLLM{responses: []string{baseResponseJSON, refineResponseJSON}}
	svc, _ := newTestService(t, llm, fetcher)

	run, err := svc.Import(context.Background(), uuid.New(), sourceURL)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if run.Provider != "zillow" {
		t.Errorf("provider = %q", run.Provider)
	}
	if run.Status != models.RunStatusCompleted {
		t.Errorf("status = %s", run.Status)
	}
}

func TestImportFetchFailureRecordsKind(t *testing.T) {
	llm := &scriptedLLM{responses: []string{baseResponseJSON}}
	svc, ops := newTestService(t, llm, &fakeFetcher{err: models.SourceUnavailable("actor exploded", nil)})

	run, err := svc.Import(context.Background(), uuid.New(), "https://example.com/listing")
	if err == nil {
		t.Fatalf("expected fetch error")
	}
	if run.Status != models.RunStatusFailed || run.Stage != models.StageFetch {
		t.Errorf("run = %s/%s", run.Status, run.Stage)
	}
	if run.ErrorKind != string(models.ErrKindSourceUnavailable) {
		t.Errorf("error kind = %q", run.ErrorKind)
	}
	if llm.calls != 0 {
		t.Errorf("generation ran after failed fetch")
	}

	logs, err := ops.LogsForRun(run.ID)
	if err != nil || len(logs) == 0 {
		t.Errorf("no run logs recorded: %v", err)
	}
}

func TestImportRefineFailureKeepsBase(t *testing.T) {
	llm := &scriptedLLM{
		responses: []string{baseResponseJSON, ""},
		errs:      []error{nil, fmt.Errorf("model overloaded")},
	}
	svc, _ := newTestService(t, llm, &fakeFetcher{scrape: htmlScrape("https://example.com/listing")})

	run, err := svc.Import(context.Background(), uuid.New(), "https://example.com/listing")
	if err != nil {
		t.Fatalf("import should survive refine failure: %v", err)
	}
	if run.Status != models.RunStatusCompleted {
		t.Errorf("status = %s", run.Status)
	}
	// Only the base pass counted tokens.
	if run.TotalTokens != 50 {
		t.Errorf("tokens = %d", run.TotalTokens)
	}
}

func TestImportEmptyExtractionFailsAtGenerate(t *testing.T) {
	fetcher := &fakeFetcher{scrape: &models.RawScrape{
		Kind:      models.ScrapeKindHTML,
		SourceURL: "https://example.com/blank",
		HTML:      "<html><head></head><body><div></div></body></html>",
	}}
	llm := &scriptedLLM{responses: []string{baseResponseJSON}}
	svc, _ := newTestService(t, llm, fetcher)

	run, err := svc.Import(context.Background(), uuid.New(), "https://example.com/blank")
	if models.KindOf(err) != models.ErrKindEmptyExtraction {
		t.Fatalf("expected empty_extraction, got %v", err)
	}
	if run.Status != models.RunStatusFailed || run.Stage != models.StageGenerate {
		t.Errorf("run = %s/%s", run.Status, run.Stage)
	}
	if llm.calls != 0 {
		t.Errorf("model called with empty record")
	}
}
