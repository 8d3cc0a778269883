package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/greater-sydney/internal/pipeline"
	"github.com/sells-group/greater-sydney/internal/postgis"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last clean run and the loaded PostGIS tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()

		path := cfg.OutputPath(pipeline.ManifestName)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Fprintln(out, "No clean run found in", cfg.Paths.OutputDir)
		} else {
			m, err := pipeline.ReadManifest(path)
			if err != nil {
				return err
			}
			formatManifest(out, m)
		}

		skipDB, _ := cmd.Flags().GetBool("no-db")
		if skipDB {
			return nil
		}

		pool, err := dbPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		counts, err := postgis.TableCounts(cmd.Context(), pool,
			postgis.TableNames(postgis.DefaultTables(cfg.Paths.OutputDir)))
		if err != nil {
			return eris.Wrap(err, "status")
		}
		fmt.Fprintln(out)
		formatTableCounts(out, counts)
		return nil
	},
}

func init() {
	statusCmd.Flags().Bool("no-db", false, "only show the last clean run")
	rootCmd.AddCommand(statusCmd)
}

// formatManifest writes the outputs of a clean run as a table.
func formatManifest(out io.Writer, m *pipeline.Manifest) {
	_, _ = fmt.Fprintf(out, "Last clean: %s (%s)\n", m.GeneratedAt.Format("2006-01-02 15:04"), m.Region)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "OUTPUT\tKIND\tROWS\tCRS")
	_, _ = fmt.Fprintln(w, "------\t----\t----\t---")
	for _, o := range m.Outputs {
		crs := o.CRS
		if crs == "" {
			crs = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", o.Name, o.Kind, o.Rows, crs)
	}
	_ = w.Flush()
}

// formatTableCounts writes the row count of each spatial table.
func formatTableCounts(out io.Writer, counts []postgis.TableCount) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TABLE\tROWS")
	_, _ = fmt.Fprintln(w, "-----\t----")
	for _, c := range counts {
		rows := "missing"
		if c.Exists {
			rows = fmt.Sprintf("%d", c.Rows)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", c.Table, rows)
	}
	_ = w.Flush()
}
