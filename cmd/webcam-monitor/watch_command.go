package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/monitor"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/notifications"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run update on the configured interval until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := buildLogger(cfg)
			if err != nil {
				return err
			}
			client, err := buildClient(cfg)
			if err != nil {
				return err
			}
			store := buildStore(cfg, logger)

			ledger, err := openHistory(cfg)
			if err != nil {
				return err
			}
			if ledger != nil {
				defer ledger.Close()
			}

			notifier := notifications.NewService(cfg)
			merger := monitor.NewMerger(cfg, client, store, ledger, notifier, logger)
			merger.SetOutput(cmd.OutOrStdout())

			w, err := watcher.New(cfg, merger, notifier, logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return w.Run(runCtx)
		},
	}
}
