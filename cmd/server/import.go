package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"universo/server/internal/importer"
	"universo/server/internal/models"
	"universo/server/internal/processor"
	"universo/server/internal/queue"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load CSV exports of the housing tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			recordsPath, _ := cmd.Flags().GetString("records")
			unitsPath, _ := cmd.Flags().GetString("units")
			migrate, _ := cmd.Flags().GetBool("migrate")
			if recordsPath == "" && unitsPath == "" {
				return fmt.Errorf("nothing to import: pass --records and/or --units")
			}

			cfg, logger, db, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			if migrate {
				if err := db.RunMigrations(); err != nil {
					return err
				}
			}

			q := queue.NewBatchQueue(cfg.Import.QueueSize, logger)
			proc := processor.NewBatchProcessor(db.GetDB(), q, cfg, logger)
			proc.Start()

			im := importer.New(db.GetDB(), q, cfg.Import.BatchSize, logger)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			files := []struct {
				path  string
				model interface{}
			}{
				{recordsPath, &models.Record{}},
				{unitsPath, &models.Unit{}},
			}

			var importErr error
			for _, f := range files {
				if f.path == "" {
					continue
				}
				if importErr = importFile(ctx, im, f.path, f.model); importErr != nil {
					break
				}
			}

			proc.Stop()

			stats := proc.Stats()
			logger.WithFields(logrus.Fields{
				"batches":        stats.Batches,
				"rows":           stats.Rows,
				"failed_batches": stats.FailedBatches,
				"failed_rows":    stats.FailedRows,
			}).Info("Import finished")

			if importErr != nil {
				return importErr
			}
			if stats.FailedRows > 0 {
				return fmt.Errorf("%d rows failed to import", stats.FailedRows)
			}
			return nil
		},
	}

	cmd.Flags().String("records", "", "CSV export of housing_universe")
	cmd.Flags().String("units", "", "CSV export of housing_units")
	cmd.Flags().Bool("migrate", false, "Run migrations before importing")

	return cmd
}

func importFile(ctx context.Context, im *importer.Importer, path string, model interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := im.ImportCSV(ctx, f, model); err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}
	return nil
}
