package generator

import (
	"encoding/json"
	"fmt"

	"github.com/ottie-ai/ottie-app-1-sub003/models"
)

const basePromptTemplate = `You are generating a single-property real estate website configuration.

Given the property data below, produce a JSON object with exactly these fields:
- "title": a short evocative site title for the property (max 8 words)
- "theme": one of "classic", "modern", "luxury", "coastal"
- "highlights": an array of 3-5 objects {"icon": string, "title": string, "value": string}
  summarizing the strongest facts (price, beds/baths, square footage, year built)
- "sections": an ordered array of page sections, each
  {"id": string, "type": string, "variant": string, "colorScheme": string, "content": object}
  Use section types from: hero, gallery, highlights, description, features, location, contact.
  Every section id must be unique. Put all display text inside "content".

Only use facts present in the property data. Do not invent rooms, prices, or
amenities that are not listed.

Property data:
%s`

const refinePromptTemplate = `You are a real estate copywriter. Below are the title and highlight
callouts of a generated property website. Rewrite them so they read warmly
and vividly, without changing any facts or numbers.

Return a JSON object of exactly this form:
{"title": "<rewritten title>", "highlights": [{"icon": string, "title": string, "value": string}, ...]}

Keep the same number of highlights and the same icons; improve only the
wording. Never invent facts.

Current title and highlights:
%s`

func buildBasePrompt(record *models.PropertyRecord) string {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		data = []byte("{}")
	}
	return fmt.Sprintf(basePromptTemplate, data)
}

func buildRefinePrompt(base *BaseConfig) string {
	data, err := json.MarshalIndent(struct {
		Title      string             `json:"title"`
		Highlights []models.Highlight `json:"highlights"`
	}{base.Title, base.Highlights}, "", "  ")
	if err != nil {
		data = []byte("{}")
	}
	return fmt.Sprintf(refinePromptTemplate, data)
}
