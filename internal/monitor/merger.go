package monitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/config"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/history"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/logging"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/notifications"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/statestore"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/timeline"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/volcview"
)

// Merger performs the incremental update: fetch the most recent images and
// prepend the ones newer than the stored head.
type Merger struct {
	cfg      *config.Config
	client   *volcview.Client
	store    *statestore.Store
	ledger   *history.Store
	notifier notifications.Service
	logger   *slog.Logger
	out      io.Writer
}

// NewMerger constructs a merger. The history ledger may be nil when
// archiving is disabled; a nil notifier disables pushes.
func NewMerger(cfg *config.Config, client *volcview.Client, store *statestore.Store, ledger *history.Store, notifier notifications.Service, logger *slog.Logger) *Merger {
	return &Merger{
		cfg:      cfg,
		client:   client,
		store:    store,
		ledger:   ledger,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "merger"),
		out:      os.Stdout,
	}
}

// SetOutput redirects the inserted-timestamp notifications, normally
// written to stdout.
func (m *Merger) SetOutput(w io.Writer) {
	if w != nil {
		m.out = w
	}
}

// Run executes one merge cycle and returns the records that were inserted,
// oldest accepted first. The persisted list must already exist and hold at
// least one record; when the fetched batch brings nothing new the state
// file is left untouched.
func (m *Merger) Run(ctx context.Context) (timeline.Timeline, error) {
	startedAt := time.Now()
	webcam := m.cfg.Webcam.Source

	// Surface missing/empty state before touching the network; the batch
	// has nothing to merge against otherwise.
	if _, err := m.store.Head(ctx); err != nil {
		return nil, err
	}

	listing, err := m.client.FetchRecent(ctx, webcam, m.cfg.Webcam.FetchCount)
	if err != nil {
		return nil, fmt.Errorf("fetch recent images for %s: %w", webcam, err)
	}
	batch, err := listing.Records()
	if err != nil {
		return nil, fmt.Errorf("convert listing for %s: %w", webcam, err)
	}

	var inserted timeline.Timeline
	err = m.store.Update(ctx, func(current timeline.Timeline) (timeline.Timeline, bool, error) {
		merged, accepted := timeline.Merge(current, batch)
		if !timeline.Descending(merged) {
			return nil, false, fmt.Errorf("merge produced out-of-order timeline for %s", webcam)
		}
		inserted = accepted
		return merged, len(accepted) > 0, nil
	})
	if err != nil {
		return nil, err
	}

	for _, rec := range inserted {
		fmt.Fprintf(m.out, "inserted new time %d\n", rec.Timestamp)
	}

	m.recordRun(ctx, webcam, startedAt, len(batch), inserted)

	if len(inserted) > 0 {
		m.logger.Info("merged new images",
			logging.String("webcam", webcam),
			logging.Int("inserted", len(inserted)),
			logging.Int64("newest", inserted[len(inserted)-1].Timestamp))
		m.notify(ctx, webcam, inserted)
	} else {
		m.logger.Debug("no new images", logging.String("webcam", webcam))
	}

	return inserted, nil
}

func (m *Merger) notify(ctx context.Context, webcam string, inserted timeline.Timeline) {
	if m.notifier == nil {
		return
	}
	newest := inserted[len(inserted)-1].Timestamp
	if err := m.notifier.NotifyNewImages(ctx, webcam, len(inserted), newest); err != nil {
		m.logger.Warn("failed to send new-image notification", logging.Error(err))
	}
}

func (m *Merger) recordRun(ctx context.Context, webcam string, startedAt time.Time, fetched int, inserted timeline.Timeline) {
	if m.ledger == nil {
		return
	}
	run := history.Run{
		ID:         uuid.NewString(),
		Webcam:     webcam,
		Kind:       history.KindUpdate,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Fetched:    fetched,
		Inserted:   len(inserted),
	}
	if err := m.ledger.RecordRun(ctx, run, inserted); err != nil {
		m.logger.Warn("failed to archive update run", logging.Error(err))
	}
}
