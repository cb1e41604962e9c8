package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/monitor"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/notifications"
)

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Fetch the newest images and merge them into the timeline",
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

			inserted, err := merger.Run(cmd.Context())
			if err != nil {
				return err
			}
			if len(inserted) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Timeline already up to date")
			}
			return nil
		},
	}
}
