package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/monitor"
	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/statestore"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Fetch the full image listing and write a fresh timeline",
		Long: "Fetch every image the API reports for the configured webcam and " +
			"replace the local timeline with the result. An existing non-empty " +
			"timeline is only overwritten with --force.",
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

			if !force {
				existing, err := store.Load(cmd.Context())
				switch {
				case errors.Is(err, statestore.ErrMissingState), errors.Is(err, statestore.ErrEmptyState):
				case err != nil:
					return err
				case len(existing) > 0:
					return fmt.Errorf("state file %s already holds %d records; use --force to overwrite", cfg.Paths.StateFile, len(existing))
				}
			}

			ledger, err := openHistory(cfg)
			if err != nil {
				return err
			}
			if ledger != nil {
				defer ledger.Close()
			}

			importer := monitor.NewImporter(cfg, client, store, ledger, logger)
			count, err := importer.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d image(s) from %s into %s\n",
				count, cfg.Webcam.Source, cfg.Paths.StateFile)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing non-empty timeline")
	return cmd
}
