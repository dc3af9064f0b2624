package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ottie-ai/ottie-app-1-sub003/models"
)

// SQLiteStore is the local operational store: run records, run logs, and the
// command queue the debug tooling writes into.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS import_runs (
		id INTEGER PRIMARY KEY,
		site_id TEXT,
		source_url TEXT,
		provider TEXT,
		started_at DATETIME,
		finished_at DATETIME,
		status TEXT,
		stage TEXT,
		error_kind TEXT,
		error_detail TEXT,
		fetch_ms INTEGER DEFAULT 0,
		generate_ms INTEGER DEFAULT 0,
		refine_ms INTEGER DEFAULT 0,
		prompt_tokens INTEGER DEFAULT 0,
		completion_tokens INTEGER DEFAULT 0,
		total_tokens INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS import_logs (
		id INTEGER PRIMARY KEY,
		run_id INTEGER,
		timestamp DATETIME,
		level TEXT,
		message TEXT,
		site_id TEXT
	);

	CREATE TABLE IF NOT EXISTS commands (
		id INTEGER PRIMARY KEY,
		command TEXT,
		params JSON,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		processed_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_runs_status ON import_runs(status, started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_site ON import_runs(site_id, started_at);
	CREATE INDEX IF NOT EXISTS idx_logs_run ON import_logs(run_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_commands_pending ON commands(processed_at) WHERE processed_at IS NULL;
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// Import runs
// =============================================================================

func (s *SQLiteStore) CreateRun(run *models.ImportRun) error {
	res, err := s.db.Exec(`
		INSERT INTO import_runs (site_id, source_url, provider, started_at, status, stage)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.SiteID, run.SourceURL, run.Provider, run.StartedAt, run.Status, run.Stage)
	if err != nil {
		return err
	}
	run.ID, err = res.LastInsertId()
	return err
}

func (s *SQLiteStore) UpdateRun(run *models.ImportRun) error {
	_, err := s.db.Exec(`
		UPDATE import_runs SET
			finished_at = ?, status = ?, stage = ?, error_kind = ?, error_detail = ?,
			fetch_ms = ?, generate_ms = ?, refine_ms = ?,
			prompt_tokens = ?, completion_tokens = ?, total_tokens = ?
		WHERE id = ?`,
		run.FinishedAt, run.Status, run.Stage, run.ErrorKind, run.ErrorDetail,
		run.FetchMs, run.GenerateMs, run.RefineMs,
		run.PromptTokens, run.CompletionTokens, run.TotalTokens,
		run.ID)
	return err
}

func (s *SQLiteStore) GetRun(id int64) (*models.ImportRun, error) {
	row := s.db.QueryRow(`
		SELECT id, site_id, source_url, provider, started_at, finished_at, status, stage,
			COALESCE(error_kind, ''), COALESCE(error_detail, ''),
			fetch_ms, generate_ms, refine_ms, prompt_tokens, completion_tokens, total_tokens
		FROM import_runs WHERE id = ?`, id)

	var run models.ImportRun
	var finishedAt sql.NullTime
	err := row.Scan(&run.ID, &run.SiteID, &run.SourceURL, &run.Provider, &run.StartedAt, &finishedAt,
		&run.Status, &run.Stage, &run.ErrorKind, &run.ErrorDetail,
		&run.FetchMs, &run.GenerateMs, &run.RefineMs,
		&run.PromptTokens, &run.CompletionTokens, &run.TotalTokens)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}
	return &run, nil
}

func (s *SQLiteStore) RecentRuns(limit int) ([]models.ImportRun, error) {
	rows, err := s.db.Query(`
		SELECT id, site_id, source_url, provider, started_at, finished_at, status, stage,
			COALESCE(error_kind, ''), COALESCE(error_detail, ''),
			fetch_ms, generate_ms, refine_ms, prompt_tokens, completion_tokens, total_tokens
		FROM import_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.ImportRun
	for rows.Next() {
		var run models.ImportRun
		var finishedAt sql.NullTime
		if err := rows.Scan(&run.ID, &run.SiteID, &run.SourceURL, &run.Provider, &run.StartedAt, &finishedAt,
			&run.Status, &run.Stage, &run.ErrorKind, &run.ErrorDetail,
			&run.FetchMs, &run.GenerateMs, &run.RefineMs,
			&run.PromptTokens, &run.CompletionTokens, &run.TotalTokens); err != nil {
			return nil, err
		}
		if finishedAt.Valid {
			run.FinishedAt = &finishedAt.Time
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// =============================================================================
// Run logs
// =============================================================================

func (s *SQLiteStore) AppendLog(entry *models.ImportLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO import_logs (run_id, timestamp, level, message, site_id)
		VALUES (?, ?, ?, ?, ?)`,
		entry.RunID, entry.Timestamp, entry.Level, entry.Message, entry.SiteID)
	return err
}

func (s *SQLiteStore) LogsForRun(runID int64) ([]models.ImportLog, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, timestamp, level, message, COALESCE(site_id, '')
		FROM import_logs WHERE run_id = ? ORDER BY timestamp`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.ImportLog
	for rows.Next() {
		var entry models.ImportLog
		if err := rows.Scan(&entry.ID, &entry.RunID, &entry.Timestamp, &entry.Level, &entry.Message, &entry.SiteID); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

// =============================================================================
// Command queue
// =============================================================================

func (s *SQLiteStore) EnqueueCommand(cmd models.CommandType, params *models.CommandParams) error {
	data, err := json.Marshal(params)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO commands (command, params) VALUES (?, ?)`, cmd, string(data))
	return err
}

// PendingCommands returns unprocessed commands in arrival order.
func (s *SQLiteStore) PendingCommands() ([]models.Command, error) {
	rows, err := s.db.Query(`
		SELECT id, command, COALESCE(params, '{}'), created_at
		FROM commands WHERE processed_at IS NULL ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cmds []models.Command
	for rows.Next() {
		var cmd models.Command
		var params string
		if err := rows.Scan(&cmd.ID, &cmd.Command, &params, &cmd.CreatedAt); err != nil {
			return nil, err
		}
		cmd.Params = json.RawMessage(params)
		cmds = append(cmds, cmd)
	}
	return cmds, rows.Err()
}

func (s *SQLiteStore) MarkCommandProcessed(id int64) error {
	_, err := s.db.Exec(`UPDATE commands SET processed_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}
