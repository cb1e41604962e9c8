package watcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/config"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/monitor"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/statestore"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/timeline"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/volcview"
)

func newWatcherFixture(t *testing.T, requests *atomic.Int64) (*Watcher, *statestore.Store) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			requests.Add(1)
		}
		w.Write([]byte(`{"images": [{"imageTimestamp": 101, "imageUrl": "url101"}]}`))
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Webcam.BaseURL = server.URL
	cfg.Webcam.FetchCount = 1
	cfg.Monitor.PollInterval = 1
	cfg.Paths.StateFile = filepath.Join(t.TempDir(), "out.json")
	cfg.History.Enabled = false

	client, err := volcview.New(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	store := statestore.New(cfg.Paths.StateFile, nil)
	merger := monitor.NewMerger(&cfg, client, store, nil, nil, nil)
	merger.SetOutput(&strings.Builder{})

	w, err := New(&cfg, merger, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w, store
}

func TestWatcherRunsImmediatelyAndStopsOnCancel(t *testing.T) {
	var requests atomic.Int64
	w, store := newWatcherFixture(t, &requests)
	ctx, cancel := context.WithCancel(context.Background())

	if err := store.Replace(ctx, timeline.Timeline{{Timestamp: 100, URL: "url100"}}); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for requests.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("watcher never ran a merge cycle")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v on cancel, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}

	list, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Timestamp != 101 {
		t.Errorf("timeline after watch = %v", list)
	}
}

func TestWatcherRefusesSecondInstance(t *testing.T) {
	w, store := newWatcherFixture(t, nil)
	ctx := context.Background()
	if err := store.Replace(ctx, timeline.Timeline{{Timestamp: 100, URL: "url100"}}); err != nil {
		t.Fatal(err)
	}

	// Hold the watch lock externally, as a second instance would.
	other := flock.New(w.lockPath)
	locked, err := other.TryLock()
	if err != nil || !locked {
		t.Fatalf("could not take lock externally: %v", err)
	}
	defer other.Unlock()

	if err := w.Run(ctx); err == nil || !strings.Contains(err.Error(), "watch instance") {
		t.Errorf("Run = %v, want lock contention error", err)
	}
}

func TestWatcherSurvivesMergeFailure(t *testing.T) {
	// No state file seeded: every merge fails with missing state, but the
	// watcher keeps looping until canceled.
	var requests atomic.Int64
	w, _ := newWatcherFixture(t, &requests)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
