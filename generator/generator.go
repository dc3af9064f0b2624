// Package generator turns an extracted property record into a publishable
// page configuration through two independent AI passes: a low-temperature
// structure pass and a high-temperature copy pass.
package generator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ottie-ai/ottie-app-1-sub003/models"
	"github.com/ottie-ai/ottie-app-1-sub003/pageconfig"
)

const (
	// Structure generation runs cold so section layout stays deterministic
	// for similar inputs.
	baseTemperature float32 = 0.2
	// Copy refinement runs hot to get varied prose.
	refineTemperature float32 = 0.9
)

// LLM is the single call surface the generator needs from a model backend.
type LLM interface {
	GenerateJSON(ctx context.Context, prompt string, temperature float32) (string, *models.GenerationMeta, error)
}

// BaseConfig is the output of the structure pass.
type BaseConfig struct {
	Title      string
	Highlights []models.Highlight
	Config     *pageconfig.V2Config
	Meta       *models.GenerationMeta
}

// CopyRefinement is the output of the copy pass: a rewritten title and
// highlight set. Section content is out of its reach.
type CopyRefinement struct {
	Title      string
	Highlights []models.Highlight
	Meta       *models.GenerationMeta
}

type Generator struct {
	llm LLM
}

func New(llm LLM) *Generator {
	return &Generator{llm: llm}
}

// baseResponse is the JSON shape the structure prompt asks for.
type baseResponse struct {
	Title      string             `json:"title"`
	Theme      string             `json:"theme"`
	Highlights []models.Highlight `json:"highlights"`
	Sections   []struct {
		ID          string         `json:"id"`
		Type        string         `json:"type"`
		Variant     string         `json:"variant"`
		ColorScheme string         `json:"colorScheme"`
		Content     map[string]any `json:"content"`
	} `json:"sections"`
}

// GenerateBase runs the structure pass over an extracted record. It never
// reads prior configurations; each call starts from the record alone.
func (g *Generator) GenerateBase(ctx context.Context, record *models.PropertyRecord) (*BaseConfig, error) {
	if record == nil || record.IsEmpty() {
		return nil, models.EmptyExtraction("structure generation needs a non-empty property record")
	}

	raw, meta, err := g.llm.GenerateJSON(ctx, buildBasePrompt(record), baseTemperature)
	if err != nil {
		return nil, fmt.Errorf("base generation: %w", err)
	}

	var resp baseResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("base generation returned invalid JSON: %w", err)
	}
	if len(resp.Sections) == 0 {
		return nil, fmt.Errorf("base generation returned no sections")
	}

	cfg := pageconfig.Empty()
	if resp.Theme != "" {
		cfg.SiteSettings.Theme = resp.Theme
	}

	seen := make(map[string]bool, len(resp.Sections))
	for i, s := range resp.Sections {
		id := s.ID
		if id == "" || seen[id] {
			id = fmt.Sprintf("%s-%d", s.Type, i)
		}
		seen[id] = true

		cfg.SectionSettings = append(cfg.SectionSettings, pageconfig.SectionSetting{
			ID:          id,
			Type:        s.Type,
			Variant:     s.Variant,
			ColorScheme: s.ColorScheme,
		})
		content := s.Content
		if content == nil {
			content = map[string]any{}
		}
		cfg.SiteContent[id] = content
	}

	return &BaseConfig{
		Title:      resp.Title,
		Highlights: resp.Highlights,
		Config:     cfg,
		Meta:       meta,
	}, nil
}

type refineResponse struct {
	Title      string             `json:"title"`
	Highlights []models.Highlight `json:"highlights"`
}

// RefineCopy runs the copy pass over an existing base configuration. It
// rewrites only the title and highlight callouts; section structure and
// content belong to the structure pass and are never resubmitted. The base
// must already exist; refining without one is a caller bug, reported as a
// precondition violation rather than attempted.
func (g *Generator) RefineCopy(ctx context.Context, base *BaseConfig) (*CopyRefinement, error) {
	if base == nil || base.Config == nil || len(base.Config.SectionSettings) == 0 {
		return nil, models.PreconditionViolation("copy refinement requires a generated base configuration")
	}

	raw, meta, err := g.llm.GenerateJSON(ctx, buildRefinePrompt(base), refineTemperature)
	if err != nil {
		return nil, fmt.Errorf("copy refinement: %w", err)
	}

	var resp refineResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("copy refinement returned invalid JSON: %w", err)
	}

	return &CopyRefinement{Title: resp.Title, Highlights: resp.Highlights, Meta: meta}, nil
}

// ApplyRefinement replaces the base's title and highlights with the refined
// versions. Section settings and content stay exactly as the structure pass
// produced them; an empty refined field keeps the base value.
func ApplyRefinement(base *BaseConfig, refinement *CopyRefinement) {
	if base == nil || refinement == nil {
		return
	}
	if refinement.Title != "" {
		base.Title = refinement.Title
	}
	if len(refinement.Highlights) > 0 {
		base.Highlights = refinement.Highlights
	}
}

// Canonical serializes the configuration for persistence, folding the title
// and highlights into the blob so the published configuration is
// self-contained. Generation metadata stays in the run record, not in the
// published blob.
func Canonical(base *BaseConfig) (json.RawMessage, error) {
	if base == nil || base.Config == nil {
		return nil, fmt.Errorf("no configuration to serialize")
	}
	data, err := json.Marshal(struct {
		*pageconfig.V2Config
		Title      string             `json:"_title,omitempty"`
		Highlights []models.Highlight `json:"_highlights,omitempty"`
	}{base.Config, base.Title, base.Highlights})
	if err != nil {
		return nil, fmt.Errorf("serialize configuration: %w", err)
	}
	return data, nil
}
