package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// memoryDSN is a private in-memory database. Nothing outlives the
// process.
const memoryDSN = ":memory:"

// Store holds the journal database and provides access to repositories.
type Store struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

// OpenMemory creates a Store on a private in-memory SQLite database and
// creates the journal tables. The journal lasts as long as the process;
// closing the Store discards it.
func OpenMemory(ctx context.Context) (*Store, error) {
	db, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	seq, err := newSequenceCounter(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, seq: seq, now: time.Now}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, seq: s.seq, now: s.now}
}

// SetClock overrides the timestamp source. Used by tests.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS session_events (
		sequence INTEGER PRIMARY KEY,
		session_id TEXT NOT NULL,
		learner TEXT NOT NULL DEFAULT '',
		action TEXT NOT NULL,
		level TEXT NOT NULL,
		puzzles_total INTEGER NOT NULL DEFAULT 0,
		puzzles_served INTEGER NOT NULL DEFAULT 0,
		correct_answers INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		ts INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS attempt_events (
		sequence INTEGER PRIMARY KEY,
		session_id TEXT NOT NULL,
		attempt_seq INTEGER NOT NULL,
		level TEXT NOT NULL,
		puzzle TEXT NOT NULL,
		correct_answer INTEGER NOT NULL,
		submitted TEXT NOT NULL,
		correct INTEGER NOT NULL,
		time_ms INTEGER NOT NULL,
		ts INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transition_events (
		sequence INTEGER PRIMARY KEY,
		session_id TEXT NOT NULL,
		from_level TEXT NOT NULL,
		to_level TEXT NOT NULL,
		kind TEXT NOT NULL,
		reason TEXT NOT NULL,
		score REAL NOT NULL,
		accuracy REAL NOT NULL,
		avg_time_ms INTEGER NOT NULL,
		clamped INTEGER NOT NULL DEFAULT 0,
		ts INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS llm_request_events (
		sequence INTEGER PRIMARY KEY,
		session_id TEXT NOT NULL DEFAULT '',
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		success INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		ts INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_session_events_session ON session_events(session_id);
	CREATE INDEX IF NOT EXISTS idx_attempt_events_session ON attempt_events(session_id);
	CREATE INDEX IF NOT EXISTS idx_transition_events_session ON transition_events(session_id);
	`
	_, err := db.ExecContext(ctx, schema)
	return err
}
