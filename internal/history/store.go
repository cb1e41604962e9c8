package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/timeline"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; the archive can be deleted and rebuilt from scratch.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Run kinds recorded in the ledger.
const (
	KindImport = "import"
	KindUpdate = "update"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Store manages the history ledger backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run describes one import or update invocation.
type Run struct {
	ID         string
	Webcam     string
	Kind       string
	StartedAt  time.Time
	FinishedAt time.Time
	Fetched    int
	Inserted   int
}

// Stats summarizes the ledger for status output.
type Stats struct {
	Runs      int64
	Images    int64
	LastRunAt string
}

// Open initializes or connects to the history database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
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

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
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
func (s *Store) Path() string {
	return s.path
}

// RecordRun persists a run and the records it accepted in one transaction.
// Images already present (same capture timestamp) are left untouched so the
// first-seen attribution survives re-imports.
func (s *Store) RecordRun(ctx context.Context, run Run, accepted timeline.Timeline) error {
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("run ID must not be empty")
	}
	ctx = ensureContext(ctx)

	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin history tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		_, err = tx.ExecContext(ctx,
			`INSERT INTO runs (id, webcam, kind, started_at, finished_at, fetched, inserted)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, run.Webcam, run.Kind,
			run.StartedAt.UTC().Format(time.RFC3339),
			run.FinishedAt.UTC().Format(time.RFC3339),
			run.Fetched, run.Inserted)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		firstSeen := run.FinishedAt.UTC().Format(time.RFC3339)
		for _, rec := range accepted {
			_, err = tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO images (timestamp, url, run_id, first_seen_at)
				 VALUES (?, ?, ?, ?)`,
				rec.Timestamp, rec.URL, run.ID, firstSeen)
			if err != nil {
				return fmt.Errorf("insert image %d: %w", rec.Timestamp, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit history tx: %w", err)
		}
		return nil
	})
}

// FirstSeen returns when an image with the given capture timestamp was
// first recorded, if ever.
func (s *Store) FirstSeen(ctx context.Context, timestamp int64) (string, bool, error) {
	ctx = ensureContext(ctx)
	var seen string
	err := s.db.QueryRowContext(ctx,
		"SELECT first_seen_at FROM images WHERE timestamp = ?", timestamp).Scan(&seen)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query first seen: %w", err)
	}
	return seen, true, nil
}

// Stats returns ledger totals for status output.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	var stats Stats
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM runs").Scan(&stats.Runs); err != nil {
		return Stats{}, fmt.Errorf("count runs: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM images").Scan(&stats.Images); err != nil {
		return Stats{}, fmt.Errorf("count images: %w", err)
	}
	err := s.db.QueryRowContext(ctx,
		"SELECT finished_at FROM runs ORDER BY started_at DESC LIMIT 1").Scan(&stats.LastRunAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Stats{}, fmt.Errorf("query last run: %w", err)
	}
	return stats, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to rebuild)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
