package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/greater-sydney/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "greater-sydney",
	Short: "Greater Sydney dataset ingest",
	Long:  "Cleans the regional income, population, business, transit stop and boundary datasets, writes normalized CSVs and shapefiles, and loads the geometries into PostGIS.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
