package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/greater-sydney/internal/postgis"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Load the cleaned shapefiles into PostGIS",
	Long: `Drops and recreates sa2_boundaries, catchments_primary, catchments_secondary
and catchments_future from the cleaned shapefiles in the output directory, then
adds the sa2_boundaries primary key and the population/businesses foreign keys.

Each step commits on its own. Any failure stops the upload and exits non-zero.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
			cfg.Paths.OutputDir = dir
		}
		if n, _ := cmd.Flags().GetInt("batch-size"); n > 0 {
			cfg.Database.BatchSize = n
		}
		if err := cfg.Validate("upload"); err != nil {
			return err
		}

		pool, err := dbPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		log := zap.L().With(zap.String("command", "upload"))
		tables := postgis.DefaultTables(cfg.Paths.OutputDir)
		log.Info("starting upload",
			zap.String("output_dir", cfg.Paths.OutputDir),
			zap.Strings("tables", postgis.TableNames(tables)),
			zap.Int("batch_size", cfg.Database.BatchSize),
		)

		res, err := postgis.Upload(ctx, pool, postgis.Options{
			Tables:    tables,
			BatchSize: cfg.Database.BatchSize,
		})
		if err != nil {
			return eris.Wrap(err, "upload")
		}

		for _, t := range tables {
			log.Info("loaded", zap.String("table", t.Name), zap.Int64("rows", res.Loaded[t.Name]))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d tables in %s\n", len(res.Loaded), res.Duration.Round(time.Millisecond))
		return nil
	},
}

func init() {
	uploadCmd.Flags().String("output-dir", "", "directory holding the cleaned shapefiles (default: from config)")
	uploadCmd.Flags().Int("batch-size", 0, "rows per COPY batch (default: from config or 50000)")
	rootCmd.AddCommand(uploadCmd)
}
