package main

import (
	"log/slog"
	"time"

	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/config"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/history"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/logging"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/statestore"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/volcview"
)

func buildLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.NewFromConfig(cfg)
}

func buildClient(cfg *config.Config) (*volcview.Client, error) {
	return volcview.New(cfg.Webcam.BaseURL,
		volcview.WithTimeout(time.Duration(cfg.Webcam.RequestTimeout)*time.Second))
}

func buildStore(cfg *config.Config, logger *slog.Logger) *statestore.Store {
	return statestore.New(cfg.Paths.StateFile, logger)
}

// openHistory returns nil when archiving is disabled; callers treat a nil
// ledger as "do not archive".
func openHistory(cfg *config.Config) (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	return history.Open(cfg.History.Path)
}

func formatTimestamp(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}
