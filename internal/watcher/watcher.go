package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/config"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/logging"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/monitor"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/notifications"
)

// Watcher repeatedly runs the merger until its context is canceled.
type Watcher struct {
	cfg      *config.Config
	merger   *monitor.Merger
	notifier notifications.Service
	logger   *slog.Logger

	lockPath string
	lock     *flock.Flock
	running  atomic.Bool
}

// New constructs a watcher. The lock file lives next to the state file so
// two watchers pointed at the same timeline exclude each other even with
// different configs.
func New(cfg *config.Config, merger *monitor.Merger, notifier notifications.Service, logger *slog.Logger) (*Watcher, error) {
	if cfg == nil || merger == nil {
		return nil, errors.New("watcher requires config and merger")
	}
	lockPath := cfg.Paths.StateFile + ".watch.lock"
	return &Watcher{
		cfg:      cfg,
		merger:   merger,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "watcher"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Run executes merge cycles at the configured poll interval, starting with
// an immediate one. It returns nil when ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return errors.New("watcher already running")
	}
	defer w.running.Store(false)

	ok, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire watch lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another watch instance holds %s", w.lockPath)
	}
	defer func() {
		if err := w.lock.Unlock(); err != nil {
			w.logger.Warn("failed to release watch lock", logging.Error(err))
		}
	}()

	interval := time.Duration(w.cfg.Monitor.PollInterval) * time.Second
	w.logger.Info("watch started",
		logging.String("webcam", w.cfg.Webcam.Source),
		logging.Duration("interval", interval),
		logging.String("lock", w.lockPath))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped")
			return nil
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := w.merger.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		w.logger.Error("update run failed", logging.Error(err))
		if w.notifier != nil {
			if notifyErr := w.notifier.NotifyWatchError(ctx, err); notifyErr != nil {
				w.logger.Warn("failed to send error notification", logging.Error(notifyErr))
			}
		}
	}
}
