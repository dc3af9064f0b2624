package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/ottie-ai/ottie-app-1-sub003/config"
	"github.com/ottie-ai/ottie-app-1-sub003/models"
)

// GeminiClient wraps the genai SDK behind the LLM interface so the pipeline
// can be tested without network calls.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, cfg *config.GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: cfg.Model}, nil
}

// GenerateJSON runs one prompt and returns the raw JSON text the model
// produced, plus usage metadata for run bookkeeping.
func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string, temperature float32) (string, *models.GenerationMeta, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(temperature)
	model.GenerationConfig.ResponseMIMEType = "application/json"

	started := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", nil, fmt.Errorf("gemini generate: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		return "", nil, fmt.Errorf("gemini returned no text content")
	}

	meta := &models.GenerationMeta{
		DurationMs:  time.Since(started).Milliseconds(),
		Temperature: temperature,
	}
	if resp.UsageMetadata != nil {
		meta.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		meta.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		meta.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return cleanJSONBlock(text), meta, nil
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

func extractText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return b.String()
}

// cleanJSONBlock strips markdown code fences the model sometimes emits even
// with a JSON response type.
func cleanJSONBlock(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
