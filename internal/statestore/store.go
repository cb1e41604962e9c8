package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/logging"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/timeline"
)

// ErrMissingState indicates the state file does not exist yet. Run the
// bulk import to create it.
var ErrMissingState = errors.New("state file does not exist")

// ErrEmptyState indicates the state file exists but holds no records, so
// there is no head timestamp to merge against.
var ErrEmptyState = errors.New("state file holds no records")

const lockRetryDelay = 100 * time.Millisecond

// Store owns the timeline state file.
type Store struct {
	path   string
	logger *slog.Logger
	lock   *flock.Flock
}

type document struct {
	List timeline.Timeline `json:"list"`
}

// New creates a store for the given state file path.
func New(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "statestore"),
		lock:   flock.New(path + ".lock"),
	}
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a state file is present.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Load reads the timeline from disk. A missing file yields ErrMissingState.
func (s *Store) Load(ctx context.Context) (timeline.Timeline, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (run import first)", ErrMissingState, s.path)
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse state file %s: %w", s.path, err)
	}
	return doc.List, nil
}

// Head returns the most recent stored record. An empty or missing state
// yields ErrEmptyState / ErrMissingState.
func (s *Store) Head(ctx context.Context) (timeline.Record, error) {
	list, err := s.Load(ctx)
	if err != nil {
		return timeline.Record{}, err
	}
	head, ok := list.Head()
	if !ok {
		return timeline.Record{}, fmt.Errorf("%w: %s", ErrEmptyState, s.path)
	}
	return head, nil
}

// Replace overwrites the state file with the given timeline, creating it if
// necessary. The write is guarded by the advisory lock.
func (s *Store) Replace(ctx context.Context, list timeline.Timeline) error {
	unlock, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	return s.write(list)
}

// Update runs fn against the current timeline under the advisory lock and
// persists the result. fn reports whether the timeline changed; when it did
// not, no write is issued and the file stays byte-identical.
func (s *Store) Update(ctx context.Context, fn func(timeline.Timeline) (timeline.Timeline, bool, error)) error {
	unlock, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	current, err := s.Load(ctx)
	if err != nil {
		return err
	}

	updated, changed, err := fn(current)
	if err != nil {
		return err
	}
	if !changed {
		s.logger.Debug("state unchanged, skipping write", logging.String("path", s.path))
		return nil
	}

	return s.write(updated)
}

func (s *Store) acquireLock(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	ok, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire state lock: %w", err)
	}
	if !ok {
		return nil, errors.New("state lock held by another process")
	}
	return func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("failed to release state lock", logging.Error(err))
		}
	}, nil
}

// write replaces the state file atomically via temp file + rename.
func (s *Store) write(list timeline.Timeline) error {
	if list == nil {
		list = timeline.Timeline{}
	}
	data, err := json.Marshal(document{List: list})
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	s.logger.Debug("state written",
		logging.String("path", s.path),
		logging.Int("entry_count", len(list)))
	return nil
}
