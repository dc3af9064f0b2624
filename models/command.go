package models

import (
	"encoding/json"
	"time"
)

type CommandType string

const (
	CmdImportURL CommandType = "import_url"
	CmdRefresh   CommandType = "refresh"
	CmdPause     CommandType = "pause"
	CmdResume    CommandType = "resume"
)

// Command is a queued instruction from the debug UI, polled out of SQLite.
type Command struct {
	ID          int64           `json:"id" db:"id"`
	Command     CommandType     `json:"command" db:"command"`
	Params      json.RawMessage `json:"params" db:"params"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	ProcessedAt *time.Time      `json:"processed_at" db:"processed_at"`
}

type CommandParams struct {
	SiteID string `json:"site_id,omitempty"`
	URL    string `json:"url,omitempty"`
}
