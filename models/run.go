package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Pipeline stages, recorded on the run so a failed import shows where it
// stopped and which stage a retry should resume from.
type RunStage string

const (
	StageFetch    RunStage = "fetch"
	StageClean    RunStage = "clean"
	StageExtract  RunStage = "extract"
	StageGenerate RunStage = "generate"
	StageRefine   RunStage = "refine"
	StagePersist  RunStage = "persist"
	StageDone     RunStage = "done"
)

// ImportRun is one attempt at importing a source URL into a site
// configuration. Stage timings and token counts are diagnostic only.
type ImportRun struct {
	ID          int64      `json:"id" db:"id"`
	SiteID      string     `json:"site_id" db:"site_id"`
	SourceURL   string     `json:"source_url" db:"source_url"`
	Provider    string     `json:"provider" db:"provider"` // "" for generic HTML
	StartedAt   time.Time  `json:"started_at" db:"started_at"`
	FinishedAt  *time.Time `json:"finished_at" db:"finished_at"`
	Status      RunStatus  `json:"status" db:"status"`
	Stage       RunStage   `json:"stage" db:"stage"`
	ErrorKind   string     `json:"error_kind,omitempty" db:"error_kind"`
	ErrorDetail string     `json:"error_detail,omitempty" db:"error_detail"`

	FetchMs    int64 `json:"fetch_ms" db:"fetch_ms"`
	GenerateMs int64 `json:"generate_ms" db:"generate_ms"`
	RefineMs   int64 `json:"refine_ms" db:"refine_ms"`

	PromptTokens     int `json:"prompt_tokens" db:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens" db:"completion_tokens"`
	TotalTokens      int `json:"total_tokens" db:"total_tokens"`
}
