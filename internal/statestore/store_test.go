package statestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/timeline"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "out.json"), nil)
}

func TestLoadMissingState(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Load(context.Background())
	if !errors.Is(err, ErrMissingState) {
		t.Errorf("err = %v, want ErrMissingState", err)
	}
}

func TestHeadEmptyState(t *testing.T) {
	store := newTestStore(t)
	if err := store.Replace(context.Background(), nil); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	_, err := store.Head(context.Background())
	if !errors.Is(err, ErrEmptyState) {
		t.Errorf("err = %v, want ErrEmptyState", err)
	}
}

func TestReplaceAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	list := timeline.Timeline{
		{Timestamp: 102, URL: "url102"},
		{Timestamp: 101, URL: "url101"},
	}
	if err := store.Replace(context.Background(), list); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 2 || loaded[0].Timestamp != 102 || loaded[1].URL != "url101" {
		t.Errorf("loaded = %v", loaded)
	}

	head, err := store.Head(context.Background())
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if head.Timestamp != 102 {
		t.Errorf("head = %v", head)
	}
}

func TestWriteProducesCompactDocument(t *testing.T) {
	store := newTestStore(t)
	list := timeline.Timeline{
		{Timestamp: 102, URL: "url102"},
		{Timestamp: 101, URL: "url101"},
		{Timestamp: 100, URL: "url100"},
	}
	if err := store.Replace(context.Background(), list); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"list":[[102,"url102"],[101,"url101"],[100,"url100"]]}`
	if string(data) != want {
		t.Errorf("state file = %s, want %s", data, want)
	}
}

func TestLoadAcceptsLegacyStringTimestamps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	legacy := `{"list": [["1700000100", "https://cams/a.jpg"]]}`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	store := New(path, nil)
	list, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(list) != 1 || list[0].Timestamp != 1700000100 {
		t.Errorf("list = %v", list)
	}
}

func TestLoadRejectsCorruptState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	if err := os.WriteFile(path, []byte(`{"list": [`), 0o644); err != nil {
		t.Fatal(err)
	}

	store := New(path, nil)
	if _, err := store.Load(context.Background()); err == nil {
		t.Error("expected error for corrupt state file")
	}
}

func TestUpdateSkipsWriteWhenUnchanged(t *testing.T) {
	store := newTestStore(t)
	list := timeline.Timeline{{Timestamp: 200, URL: "url200"}}
	if err := store.Replace(context.Background(), list); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	before, err := os.Stat(store.Path())
	if err != nil {
		t.Fatal(err)
	}

	err = store.Update(context.Background(), func(current timeline.Timeline) (timeline.Timeline, bool, error) {
		return current, false, nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	after, err := os.Stat(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !after.ModTime().Equal(before.ModTime()) {
		t.Error("state file was rewritten despite no change")
	}
}

func TestUpdateAppliesChange(t *testing.T) {
	store := newTestStore(t)
	if err := store.Replace(context.Background(), timeline.Timeline{{Timestamp: 100, URL: "url100"}}); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	err := store.Update(context.Background(), func(current timeline.Timeline) (timeline.Timeline, bool, error) {
		merged, inserted := timeline.Merge(current, timeline.Timeline{{Timestamp: 101, URL: "url101"}})
		return merged, len(inserted) > 0, nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 || loaded[0].Timestamp != 101 {
		t.Errorf("loaded = %v", loaded)
	}
}

func TestUpdatePropagatesMissingState(t *testing.T) {
	store := newTestStore(t)
	err := store.Update(context.Background(), func(current timeline.Timeline) (timeline.Timeline, bool, error) {
		t.Fatal("fn should not run without state")
		return nil, false, nil
	})
	if !errors.Is(err, ErrMissingState) {
		t.Errorf("err = %v, want ErrMissingState", err)
	}
}

func TestUpdateLeavesNoTempFile(t *testing.T) {
	store := newTestStore(t)
	if err := store.Replace(context.Background(), timeline.Timeline{{Timestamp: 1, URL: "a"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(store.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}
