package models

// GenerationMeta records token usage and timing for one AI call. It rides on
// the output as a diagnostic sub-field and is stripped before the
// configuration is persisted as canonical site content.
type GenerationMeta struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	DurationMs       int64   `json:"duration_ms"`
	Temperature      float32 `json:"temperature"`
}

// Highlight is one short callout (icon + title + value) shown prominently on
// a generated page.
type Highlight struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Value string `json:"value"`
}
