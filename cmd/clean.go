package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/greater-sydney/internal/config"
	"github.com/sells-group/greater-sydney/internal/pipeline"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean the raw datasets and write the normalized outputs",
	Long: `Loads the income, population, business and stop CSVs and the SA2 and school
catchment shapefiles, normalizes them, prints a sample of each, and writes the
cleaned CSVs, EPSG:4326 shapefiles and manifest.yaml to the output directory.

A problem with any shapefile is reported and nothing is written; the command
still exits successfully.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if dir, _ := cmd.Flags().GetString("input-dir"); dir != "" {
			cfg.Paths.InputDir = dir
		}
		if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
			cfg.Paths.OutputDir = dir
		}
		if region, _ := cmd.Flags().GetString("region"); region != "" {
			cfg.Region.Label = region
		}
		if err := cfg.Validate("clean"); err != nil {
			return err
		}

		log := zap.L().With(zap.String("command", "clean"))
		log.Info("starting clean",
			zap.String("input_dir", cfg.Paths.InputDir),
			zap.String("output_dir", cfg.Paths.OutputDir),
			zap.String("region", cfg.Region.Label),
		)

		res, err := pipeline.Run(cleanOptions(cfg, cmd))
		if err != nil {
			return eris.Wrap(err, "clean")
		}
		if !res.Saved {
			log.Warn("clean finished without saving outputs", zap.Error(res.GeometryErr))
		}
		return nil
	},
}

// cleanOptions maps the configuration onto pipeline options.
func cleanOptions(c *config.Config, cmd *cobra.Command) pipeline.Options {
	return pipeline.Options{
		Inputs: pipeline.Inputs{
			Income:              c.InputPath(c.Inputs.Income),
			Population:          c.InputPath(c.Inputs.Population),
			Businesses:          c.InputPath(c.Inputs.Businesses),
			Stops:               c.InputPath(c.Inputs.Stops),
			SA2Boundaries:       c.InputPath(c.Inputs.SA2Boundaries),
			CatchmentsPrimary:   c.InputPath(c.Inputs.CatchmentsPrimary),
			CatchmentsSecondary: c.InputPath(c.Inputs.CatchmentsSecondary),
			CatchmentsFuture:    c.InputPath(c.Inputs.CatchmentsFuture),
		},
		OutputDir:   c.Paths.OutputDir,
		RegionLabel: c.Region.Label,
		Out:         cmd.OutOrStdout(),
	}
}

func init() {
	cleanCmd.Flags().String("input-dir", "", "directory holding the raw inputs (default: from config)")
	cleanCmd.Flags().String("output-dir", "", "directory for the cleaned outputs (default: from config)")
	cleanCmd.Flags().String("region", "", "GCC_NAME21 value of the SA2 regions to keep (default: from config)")
	rootCmd.AddCommand(cleanCmd)
}
