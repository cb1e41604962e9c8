package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/logging"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the stored timeline, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store := buildStore(cfg, logging.NewNop())
			records, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}

			if limit > 0 && limit < len(records) {
				records = records[:limit]
			}

			rows := make([][]string, 0, len(records))
			for _, record := range records {
				rows = append(rows, []string{
					strconv.FormatInt(record.Timestamp, 10),
					formatTimestamp(record.Timestamp),
					record.URL,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Timestamp", "Captured", "URL"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "%d record(s) in %s\n", len(rows), cfg.Paths.StateFile)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of records to show (0 for all)")
	return cmd
}
