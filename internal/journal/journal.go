// Package journal keeps a local history of published tickets backed by
// SQLite. The tracker remains the source of truth for ticket state; the
// journal exists so an operator can inspect what this worker did without a
// tracker round trip.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"lectern/internal/config"
)

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Outcome records what happened to one publish target of one ticket.
type Outcome struct {
	Target string `json:"target"`
	State  string `json:"state"` // succeeded, skipped, failed
	Detail string `json:"detail,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Entry is one reported ticket run.
type Entry struct {
	ID         int64
	TicketID   int64
	GUID       string
	Title      string
	Failed     bool
	Failure    string
	Outcomes   []Outcome
	Duration   time.Duration
	ReportedAt time.Time
}

// Open initializes or connects to the journal database and applies the
// schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.JournalDir, "journal.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) applySchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS publish_journal (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ticket_id INTEGER NOT NULL,
    guid TEXT NOT NULL,
    title TEXT NOT NULL,
    failed INTEGER NOT NULL DEFAULT 0,
    failure TEXT,
    outcomes_json TEXT,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    reported_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_publish_journal_ticket ON publish_journal (ticket_id);
CREATE INDEX IF NOT EXISTS idx_publish_journal_reported ON publish_journal (reported_at);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Record appends one reported ticket run to the journal.
func (s *Store) Record(ctx context.Context, entry Entry) (int64, error) {
	outcomesJSON, err := json.Marshal(entry.Outcomes)
	if err != nil {
		return 0, fmt.Errorf("marshal outcomes: %w", err)
	}
	reportedAt := entry.ReportedAt
	if reportedAt.IsZero() {
		reportedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO publish_journal (
            ticket_id, guid, title, failed, failure, outcomes_json, duration_ms, reported_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.TicketID,
		entry.GUID,
		entry.Title,
		boolToInt(entry.Failed),
		nullableString(entry.Failure),
		string(outcomesJSON),
		entry.Duration.Milliseconds(),
		reportedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert journal entry: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns the latest entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, ticket_id, guid, title, failed, failure, outcomes_json, duration_ms, reported_at
         FROM publish_journal ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ByTicket returns all runs recorded for one ticket, newest first.
func (s *Store) ByTicket(ctx context.Context, ticketID int64) ([]Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, ticket_id, guid, title, failed, failure, outcomes_json, duration_ms, reported_at
         FROM publish_journal WHERE ticket_id = ? ORDER BY id DESC`,
		ticketID,
	)
	if err != nil {
		return nil, fmt.Errorf("query journal for ticket %d: %w", ticketID, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var entry Entry
	var failed int
	var failure sql.NullString
	var outcomesJSON sql.NullString
	var durationMS int64
	var reportedAt string

	if err := rows.Scan(
		&entry.ID, &entry.TicketID, &entry.GUID, &entry.Title,
		&failed, &failure, &outcomesJSON, &durationMS, &reportedAt,
	); err != nil {
		return Entry{}, fmt.Errorf("scan journal entry: %w", err)
	}
	entry.Failed = failed != 0
	entry.Failure = failure.String
	entry.Duration = time.Duration(durationMS) * time.Millisecond
	if outcomesJSON.Valid && outcomesJSON.String != "" {
		if err := json.Unmarshal([]byte(outcomesJSON.String), &entry.Outcomes); err != nil {
			return Entry{}, fmt.Errorf("unmarshal outcomes: %w", err)
		}
	}
	if parsed, err := time.Parse(time.RFC3339Nano, reportedAt); err == nil {
		entry.ReportedAt = parsed
	}
	return entry, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
