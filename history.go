package graveyard

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// History persists one row per probe run so past roster health can be
// queried after the in-memory feed has been replaced.
type History struct {
	db *sql.DB
}

// RunSummary is one recorded probe run.
type RunSummary struct {
	ID          string
	GeneratedAt string
	RecordedAt  time.Time
	Total       int
	OK          int
	Warn        int
	Error       int
	Critical    int
}

// OpenHistory opens (and if needed initializes) the history database.
func OpenHistory(dbPath string) (*History, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	h := &History{db: db}
	if err := h.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

func (h *History) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		generated_at TEXT NOT NULL,
		recorded_at INTEGER NOT NULL,
		total INTEGER NOT NULL,
		ok INTEGER NOT NULL,
		warn INTEGER NOT NULL,
		error INTEGER NOT NULL,
		critical INTEGER NOT NULL,
		payload TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_recorded ON runs(recorded_at);
	`
	if _, err := h.db.Exec(schema); err != nil {
		return fmt.Errorf("create history tables: %w", err)
	}
	return nil
}

// Append records a feed snapshot as one run.
func (h *History) Append(feed *StatusFeed) (string, error) {
	payload, err := json.Marshal(feed)
	if err != nil {
		return "", fmt.Errorf("encode history payload: %w", err)
	}
	counts := summarize(feed)
	id := uuid.New().String()
	_, err = h.db.Exec(
		`INSERT INTO runs (id, generated_at, recorded_at, total, ok, warn, error, critical, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, feed.GeneratedAt, time.Now().Unix(),
		counts.Total, counts.OK, counts.Warn, counts.Error, counts.Critical,
		string(payload),
	)
	if err != nil {
		return "", fmt.Errorf("insert history run: %w", err)
	}
	return id, nil
}

// Recent returns the newest n run summaries, newest first.
func (h *History) Recent(n int) ([]RunSummary, error) {
	rows, err := h.db.Query(
		`SELECT id, generated_at, recorded_at, total, ok, warn, error, critical
		 FROM runs ORDER BY recorded_at DESC, id LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var run RunSummary
		var recorded int64
		if err := rows.Scan(&run.ID, &run.GeneratedAt, &recorded,
			&run.Total, &run.OK, &run.Warn, &run.Error, &run.Critical); err != nil {
			return nil, fmt.Errorf("scan history run: %w", err)
		}
		run.RecordedAt = time.Unix(recorded, 0)
		out = append(out, run)
	}
	return out, rows.Err()
}

// Run loads the full feed recorded for one run id.
func (h *History) Run(id string) (*StatusFeed, error) {
	var payload string
	err := h.db.QueryRow(`SELECT payload FROM runs WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("history run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load history run: %w", err)
	}
	return DecodeFeed([]byte(payload))
}

// Close closes the underlying database.
func (h *History) Close() error {
	return h.db.Close()
}
