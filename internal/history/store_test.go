package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/timeline"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testRun(kind string, fetched, inserted int) Run {
	now := time.Now()
	return Run{
		ID:         uuid.NewString(),
		Webcam:     "ys-bbsn",
		Kind:       kind,
		StartedAt:  now.Add(-time.Second),
		FinishedAt: now,
		Fetched:    fetched,
		Inserted:   inserted,
	}
}

func TestRecordRunAndStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	accepted := timeline.Timeline{
		{Timestamp: 1700000200, URL: "https://cams/b.jpg"},
		{Timestamp: 1700000100, URL: "https://cams/a.jpg"},
	}
	if err := store.RecordRun(ctx, testRun(KindUpdate, 2, 2), accepted); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Runs != 1 || stats.Images != 2 {
		t.Errorf("stats = %+v, want 1 run / 2 images", stats)
	}
	if stats.LastRunAt == "" {
		t.Error("last run timestamp missing")
	}
}

func TestRecordRunKeepsFirstSeenOnReimport(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := timeline.Timeline{{Timestamp: 1700000100, URL: "https://cams/a.jpg"}}
	firstRun := testRun(KindImport, 1, 1)
	if err := store.RecordRun(ctx, firstRun, rec); err != nil {
		t.Fatalf("first RecordRun: %v", err)
	}
	seen, ok, err := store.FirstSeen(ctx, 1700000100)
	if err != nil || !ok {
		t.Fatalf("FirstSeen after first run: %v ok=%v", err, ok)
	}

	later := testRun(KindImport, 1, 1)
	later.FinishedAt = later.FinishedAt.Add(time.Hour)
	if err := store.RecordRun(ctx, later, rec); err != nil {
		t.Fatalf("second RecordRun: %v", err)
	}

	seenAgain, ok, err := store.FirstSeen(ctx, 1700000100)
	if err != nil || !ok {
		t.Fatalf("FirstSeen after re-import: %v ok=%v", err, ok)
	}
	if seenAgain != seen {
		t.Errorf("first_seen_at changed on re-import: %q -> %q", seen, seenAgain)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Images != 1 {
		t.Errorf("images = %d, want 1 after duplicate insert", stats.Images)
	}
}

func TestRecordRunRejectsEmptyID(t *testing.T) {
	store := openTestStore(t)
	run := testRun(KindUpdate, 0, 0)
	run.ID = " "
	if err := store.RecordRun(context.Background(), run, nil); err == nil {
		t.Error("expected error for empty run ID")
	}
}

func TestFirstSeenUnknownTimestamp(t *testing.T) {
	store := openTestStore(t)
	_, ok, err := store.FirstSeen(context.Background(), 42)
	if err != nil {
		t.Fatalf("FirstSeen: %v", err)
	}
	if ok {
		t.Error("unknown timestamp reported as seen")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	stats, err := second.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats after reopen: %v", err)
	}
	if stats.Runs != 0 {
		t.Errorf("unexpected runs in fresh db: %d", stats.Runs)
	}
}
