// Package storage keeps an audit journal of ingest attempts in SQLite so an
// operator can see what was fetched, when, and how it ended.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS ingests (
	id          TEXT PRIMARY KEY,
	profile_id  TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	detail      TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ingests_created_at ON ingests(created_at);
`

// Outcome values for an ingest record.
const (
	OutcomeOK         = "ok"
	OutcomeFetchError = "fetch_error"
	OutcomeParseError = "parse_error"
)

// IngestRecord is one row of the audit journal.
type IngestRecord struct {
	ID         string    `json:"id"`
	ProfileID  string    `json:"profile_id"`
	Outcome    string    `json:"outcome"`
	Detail     string    `json:"detail,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store wraps a SQLite database holding the ingest audit journal.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the journal database in dataDir and bootstraps the
// schema. Pass ":memory:" as dataDir for an in-memory database (used by
// tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "linkedingest.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrapping schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one ingest outcome to the journal.
func (s *Store) Record(rec IngestRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO ingests (id, profile_id, outcome, detail, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ProfileID, rec.Outcome, rec.Detail, rec.DurationMS,
		rec.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording ingest: %w", err)
	}
	return nil
}

// Recent returns up to limit journal rows, newest first.
func (s *Store) Recent(limit int) ([]IngestRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, profile_id, outcome, detail, duration_ms, created_at
		 FROM ingests ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing ingests: %w", err)
	}
	defer rows.Close()

	var records []IngestRecord
	for rows.Next() {
		var rec IngestRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.ProfileID, &rec.Outcome, &rec.Detail, &rec.DurationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning ingest row: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			rec.CreatedAt = ts
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
