// ============================================================================
// Neuro-Speak - Bildschirmtext-Vorleser
// ============================================================================
//
// Package:     history
// Description: SQLite log of spoken utterances
// Author:      ZeusXpresss
// Created:     2026-03-14
// License:     MIT
// ============================================================================

package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// OutcomeSpeaking marks an utterance that has not finished yet
const OutcomeSpeaking = "speaking"

// Entry is one spoken utterance
type Entry struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Sentences  int       `json:"sentences"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// Store persists utterance history in SQLite
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens or creates the history database at path
func Open(path string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS utterances (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		sentences INTEGER NOT NULL DEFAULT 0,
		outcome TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		finished_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_utterances_created ON utterances(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Start records a new utterance
func (s *Store) Start(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		return fmt.Errorf("utterance ID is required")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO utterances (id, text, sentences, outcome, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Text, e.Sentences, OutcomeSpeaking, e.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record utterance: %w", err)
	}
	return nil
}

// Finish stores the outcome of an utterance
func (s *Store) Finish(ctx context.Context, id, outcome, errText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE utterances SET outcome = ?, error = ?, finished_at = ? WHERE id = ?`,
		outcome, errText, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to finish utterance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("utterance not found: %s", id)
	}
	return nil
}

// List returns the most recent entries, newest first
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, sentences, outcome, error, created_at, finished_at
		 FROM utterances ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list utterances: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var finished sql.NullTime
		if err := rows.Scan(&e.ID, &e.Text, &e.Sentences, &e.Outcome, &e.Error, &e.CreatedAt, &finished); err != nil {
			return nil, fmt.Errorf("failed to scan utterance: %w", err)
		}
		if finished.Valid {
			e.FinishedAt = finished.Time
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Statistics counts utterances per outcome
func (s *Store) Statistics(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM utterances GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("failed to query statistics: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		stats[outcome] = n
	}
	return stats, rows.Err()
}

// Clear deletes all entries
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM utterances`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
