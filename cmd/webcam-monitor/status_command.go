package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/logging"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/statestore"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show timeline and archive status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Webcam", cfg.Webcam.Source},
				{"State file", cfg.Paths.StateFile},
			}

			store := buildStore(cfg, logging.NewNop())
			records, err := store.Load(cmd.Context())
			switch {
			case errors.Is(err, statestore.ErrMissingState):
				rows = append(rows, []string{"Timeline", "missing (run import first)"})
			case errors.Is(err, statestore.ErrEmptyState):
				rows = append(rows, []string{"Timeline", "empty"})
			case err != nil:
				return err
			default:
				newest := records[0]
				oldest := records[len(records)-1]
				rows = append(rows,
					[]string{"Records", strconv.Itoa(len(records))},
					[]string{"Newest", fmt.Sprintf("%d (%s)", newest.Timestamp, formatTimestamp(newest.Timestamp))},
					[]string{"Oldest", fmt.Sprintf("%d (%s)", oldest.Timestamp, formatTimestamp(oldest.Timestamp))},
				)
			}

			rows = append(rows, []string{"History archive", yesNo(cfg.History.Enabled)})
			if cfg.History.Enabled {
				ledger, err := openHistory(cfg)
				if err != nil {
					return err
				}
				defer ledger.Close()

				stats, err := ledger.Stats(cmd.Context())
				if err != nil {
					return err
				}
				lastRun := stats.LastRunAt
				if lastRun == "" {
					lastRun = "never"
				}
				rows = append(rows,
					[]string{"Archived runs", strconv.FormatInt(stats.Runs, 10)},
					[]string{"Archived images", strconv.FormatInt(stats.Images, 10)},
					[]string{"Last run", lastRun},
				)
			}
			rows = append(rows, []string{"Notifications", yesNo(cfg.Notifications.NtfyTopic != "")})

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Field", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}
