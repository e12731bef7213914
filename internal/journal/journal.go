// Package journal persists accepted contact submissions to SQLite for
// later review. Writes are best-effort; a journal failure never fails the
// submission.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/escuadron-404/sitio/internal/contact"
)

// Store implements contact.Recorder on SQLite.
// Use ":memory:" for an in-memory database, or a file path for persistent
// storage.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (and initializes) the journal database.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		subject TEXT NOT NULL,
		message TEXT NOT NULL,
		sink_notes TEXT,
		received_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_received_at ON submissions(received_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record implements contact.Recorder.
func (s *Store) Record(ctx context.Context, sub contact.Submission, sinkNotes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var notesJSON []byte
	if len(sinkNotes) > 0 {
		var err error
		notesJSON, err = json.Marshal(sinkNotes)
		if err != nil {
			return fmt.Errorf("marshal sink notes: %w", err)
		}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, name, email, subject, message, sink_notes, received_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), sub.Name, sub.Email, sub.Subject, sub.Message,
		string(notesJSON), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// Entry is one journaled submission.
type Entry struct {
	ID         string
	Name       string
	Email      string
	Subject    string
	Message    string
	SinkNotes  []string
	ReceivedAt time.Time
}

// Recent returns up to limit submissions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, subject, message, sink_notes, received_at
		 FROM submissions ORDER BY received_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var notesJSON string
		var ts int64
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Subject, &e.Message, &notesJSON, &ts); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		if notesJSON != "" {
			if err := json.Unmarshal([]byte(notesJSON), &e.SinkNotes); err != nil {
				return nil, fmt.Errorf("parse sink notes: %w", err)
			}
		}
		e.ReceivedAt = time.Unix(ts, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
