package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/config"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/history"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/logging"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/statestore"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/timeline"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/volcview"
)

// Importer performs the bulk import: fetch every image the API reports and
// overwrite the timeline state file with the result.
type Importer struct {
	cfg    *config.Config
	client *volcview.Client
	store  *statestore.Store
	ledger *history.Store
	logger *slog.Logger
}

// NewImporter constructs an importer. The history ledger may be nil when
// archiving is disabled.
func NewImporter(cfg *config.Config, client *volcview.Client, store *statestore.Store, ledger *history.Store, logger *slog.Logger) *Importer {
	return &Importer{
		cfg:    cfg,
		client: client,
		store:  store,
		ledger: ledger,
		logger: logging.NewComponentLogger(logger, "importer"),
	}
}

// Run fetches the full listing and replaces the persisted timeline,
// returning the number of records written. Any existing state file is
// overwritten; callers gate that behind confirmation.
func (i *Importer) Run(ctx context.Context) (int, error) {
	startedAt := time.Now()
	webcam := i.cfg.Webcam.Source

	listing, err := i.client.FetchAll(ctx, webcam)
	if err != nil {
		return 0, fmt.Errorf("fetch full listing for %s: %w", webcam, err)
	}
	records, err := listing.Records()
	if err != nil {
		return 0, fmt.Errorf("convert listing for %s: %w", webcam, err)
	}

	if err := i.store.Replace(ctx, records); err != nil {
		return 0, fmt.Errorf("write state: %w", err)
	}

	i.recordRun(ctx, webcam, startedAt, records)

	i.logger.Info("bulk import complete",
		logging.String("webcam", webcam),
		logging.Int("image_count", len(records)),
		logging.String("state_file", i.store.Path()))
	return len(records), nil
}

// recordRun archives the import. Ledger failures never fail the import;
// the JSON timeline is the canonical state.
func (i *Importer) recordRun(ctx context.Context, webcam string, startedAt time.Time, records timeline.Timeline) {
	if i.ledger == nil {
		return
	}
	run := history.Run{
		ID:         uuid.NewString(),
		Webcam:     webcam,
		Kind:       history.KindImport,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Fetched:    len(records),
		Inserted:   len(records),
	}
	if err := i.ledger.RecordRun(ctx, run, records); err != nil {
		i.logger.Warn("failed to archive import run", logging.Error(err))
	}
}
