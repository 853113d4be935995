package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrBatchNotFound is returned when a batch id or prefix matches nothing
var ErrBatchNotFound = errors.New("batch not found")

// Batch is one committed import or rename run
type Batch struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Command    string // import | rename
	Source     string
	Mode       string
	Succeeded  int
	Failed     int
	Bytes      int64
}

// Entry is the outcome of one item in a batch
type Entry struct {
	BatchID   string
	Source    string
	Target    string
	Kind      string
	Timestamp time.Time
	Origin    string // where the timestamp came from: metadata | fallback
	Error     string // empty on success
}

// Journal records committed batches in SQLite
type Journal struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS batches (
    id          TEXT PRIMARY KEY,
    started_at  TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    command     TEXT NOT NULL,
    source      TEXT NOT NULL,
    mode        TEXT NOT NULL,
    succeeded   INTEGER NOT NULL,
    failed      INTEGER NOT NULL,
    bytes       INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS entries (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    batch_id   TEXT NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
    source     TEXT NOT NULL,
    target     TEXT NOT NULL,
    kind       TEXT NOT NULL,
    timestamp  TEXT,
    origin     TEXT,
    error      TEXT
);
CREATE INDEX IF NOT EXISTS idx_entries_batch ON entries(batch_id);
CREATE INDEX IF NOT EXISTS idx_batches_started ON batches(started_at);
`

// Open initializes or connects to the journal database
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Journal{db: db, path: path}, nil
}

// Path returns the database file location
func (j *Journal) Path() string {
	return j.path
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// NewBatchID returns a fresh batch identifier
func NewBatchID() string {
	return uuid.NewString()
}

// Record stores a batch and its entries in one transaction.
// An empty batch ID is filled in and returned.
func (j *Journal) Record(ctx context.Context, batch Batch, entries []Entry) (string, error) {
	if batch.ID == "" {
		batch.ID = NewBatchID()
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO batches (id, started_at, finished_at, command, source, mode, succeeded, failed, bytes)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		batch.ID,
		formatTime(batch.StartedAt),
		formatTime(batch.FinishedAt),
		batch.Command,
		batch.Source,
		batch.Mode,
		batch.Succeeded,
		batch.Failed,
		batch.Bytes,
	)
	if err != nil {
		return "", fmt.Errorf("insert batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (batch_id, source, target, kind, timestamp, origin, error)
         VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, batch.ID, e.Source, e.Target, e.Kind,
			nullableTime(e.Timestamp), nullableString(e.Origin), nullableString(e.Error)); err != nil {
			return "", fmt.Errorf("insert entry %s: %w", e.Source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return batch.ID, nil
}

// Batches lists the most recent batches first. A limit of 0 or less returns all.
func (j *Journal) Batches(ctx context.Context, limit int) ([]Batch, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, command, source, mode, succeeded, failed, bytes
         FROM batches ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		var (
			b                 Batch
			started, finished string
		)
		if err := rows.Scan(&b.ID, &started, &finished, &b.Command, &b.Source, &b.Mode,
			&b.Succeeded, &b.Failed, &b.Bytes); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		b.StartedAt = parseTime(started)
		b.FinishedAt = parseTime(finished)
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// ResolveBatchID expands a unique prefix of a batch id to the full id
func (j *Journal) ResolveBatchID(ctx context.Context, prefix string) (string, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT id FROM batches WHERE substr(id, 1, length(?)) = ? LIMIT 2`, prefix, prefix)
	if err != nil {
		return "", fmt.Errorf("query batch id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan batch id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrBatchNotFound, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("batch prefix %q is ambiguous", prefix)
	}
}

// Entries returns the items of one batch in recording order
func (j *Journal) Entries(ctx context.Context, batchID string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT batch_id, source, target, kind, timestamp, origin, error
         FROM entries WHERE batch_id = ? ORDER BY id`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                 Entry
			ts, origin, entry sql.NullString
		)
		if err := rows.Scan(&e.BatchID, &e.Source, &e.Target, &e.Kind, &ts, &origin, &entry); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if ts.Valid {
			e.Timestamp = parseTime(ts.String)
		}
		e.Origin = origin.String
		e.Error = entry.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	// Capture times are wall clock; keep the zone offset they were read in
	return t.Format(time.RFC3339)
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
