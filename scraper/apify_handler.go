package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/ottie-ai/ottie-app-1-sub003/config"
	"github.com/ottie-ai/ottie-app-1-sub003/models"
)

const apifyAPIBase = "https://api.apify.com/v2"

// ApifyHandler runs a provider's actor for one source URL: submit the run,
// poll on a constant interval until a terminal status or the wall-clock
// budget runs out, then fetch the dataset.
type ApifyHandler struct {
	provider    *Provider
	client      *http.Client
	apiKey      string
	baseURL     string
	maxItems    int
	pollDelay   time.Duration
	pollTimeout time.Duration
}

func NewApifyHandler(provider *Provider, cfg *config.ApifyConfig, client *http.Client) *ApifyHandler {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &ApifyHandler{
		provider:    provider,
		client:      client,
		apiKey:      cfg.APIKey,
		baseURL:     apifyAPIBase,
		maxItems:    cfg.MaxItems,
		pollDelay:   cfg.PollDelay,
		pollTimeout: cfg.PollTimeout,
	}
}

func (h *ApifyHandler) ID() string {
	return h.provider.ID
}

// Fetch captures the raw structured payload for sourceURL.
func (h *ApifyHandler) Fetch(ctx context.Context, sourceURL string) (*models.RawScrape, error) {
	if h.apiKey == "" {
		return nil, models.SourceUnavailable("APIFY_API_KEY not set", nil)
	}

	started := time.Now()

	runID, err := h.startRun(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	log.Printf("Apify run started: %s (actor: %s)", runID, h.provider.ActorID)

	datasetID, err := h.waitForRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	log.Printf("Apify run complete, dataset: %s", datasetID)

	payload, err := h.fetchDataset(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	return &models.RawScrape{
		Kind:       models.StructuredKind(h.provider.ID),
		SourceURL:  sourceURL,
		Payload:    payload,
		CapturedAt: time.Now(),
		DurationMs: time.Since(started).Milliseconds(),
	}, nil
}

func (h *ApifyHandler) startRun(ctx context.Context, sourceURL string) (string, error) {
	input := h.provider.BuildInput(sourceURL, h.maxItems)
	body, _ := json.Marshal(input)

	url := fmt.Sprintf("%s/acts/%s/runs?token=%s", h.baseURL, h.provider.ActorID, h.apiKey)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", models.SourceUnavailable("apify start run", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return "", models.SourceUnavailable(
			fmt.Sprintf("apify start run failed %d: %s", resp.StatusCode, string(respBody)), nil)
	}

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", models.SourceUnavailable("decode apify run response", err)
	}

	return result.Data.ID, nil
}

// waitForRun polls at a constant interval. The deadline aborts the in-flight
// request through the context, and expiry surfaces as a Timeout (not
// SourceUnavailable) so the caller may re-poll with a fresh budget instead of
// resubmitting the job.
func (h *ApifyHandler) waitForRun(ctx context.Context, runID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, h.pollTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/actor-runs/%s?token=%s", h.baseURL, runID, h.apiKey)

	for {
		status, datasetID, err := h.checkRun(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return "", models.TimeoutError(fmt.Sprintf("waiting for run %s", runID), ctx.Err())
			}
			return "", err
		}

		switch status {
		case "SUCCEEDED":
			return datasetID, nil
		case "FAILED", "ABORTED", "TIMED-OUT":
			return "", models.SourceUnavailable(fmt.Sprintf("run %s: %s", runID, status), nil)
		}

		log.Printf("Apify run status: %s", status)
		select {
		case <-ctx.Done():
			return "", models.TimeoutError(fmt.Sprintf("waiting for run %s", runID), ctx.Err())
		case <-time.After(h.pollDelay):
		}
	}
}

func (h *ApifyHandler) checkRun(ctx context.Context, url string) (status, datasetID string, err error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", "", err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", "", models.SourceUnavailable("apify status check", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", "", models.SourceUnavailable(
			fmt.Sprintf("apify status check failed %d: %s", resp.StatusCode, string(respBody)), nil)
	}

	var result struct {
		Data struct {
			Status           string `json:"status"`
			DefaultDatasetID string `json:"defaultDatasetId"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", models.SourceUnavailable("decode apify status", err)
	}

	return result.Data.Status, result.Data.DefaultDatasetID, nil
}

func (h *ApifyHandler) fetchDataset(ctx context.Context, datasetID string) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/datasets/%s/items?token=%s&format=json", h.baseURL, datasetID, h.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, models.SourceUnavailable("dataset fetch", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, models.SourceUnavailable(
			fmt.Sprintf("dataset fetch failed %d: %s", resp.StatusCode, string(respBody)), nil)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.SourceUnavailable("read dataset", err)
	}
	return payload, nil
}
