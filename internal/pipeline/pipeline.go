// Package pipeline runs the cleaning pass: load the raw datasets, normalize
// them, and write the cleaned CSVs and shapefiles.
//
// Row-level data problems are absorbed by the normalizers. Problems with the
// geometry sources are caught once around the whole geometry stage: they are
// logged and the save step is skipped, so nothing is written for that run.
package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/greater-sydney/internal/clean"
	"github.com/sells-group/greater-sydney/internal/geo"
	"github.com/sells-group/greater-sydney/internal/model"
	"github.com/sells-group/greater-sydney/internal/tabular"
)

// Cleaned output file names.
const (
	IncomeOutput              = "income_cleaned.csv"
	PopulationOutput          = "population_cleaned.csv"
	BusinessesOutput          = "businesses_cleaned.csv"
	StopsOutput               = "stops_cleaned.csv"
	SA2Output                 = "sa2_cleaned.shp"
	CatchmentsPrimaryOutput   = "catchments_primary_cleaned.shp"
	CatchmentsSecondaryOutput = "catchments_secondary_cleaned.shp"
	CatchmentsFutureOutput    = "catchments_future_cleaned.shp"
)

// Inputs holds the paths of the raw source files.
type Inputs struct {
	Income              string
	Population          string
	Businesses          string
	Stops               string
	SA2Boundaries       string
	CatchmentsPrimary   string
	CatchmentsSecondary string
	CatchmentsFuture    string
}

// Options configures a cleaning run.
type Options struct {
	Inputs      Inputs
	OutputDir   string
	RegionLabel string
	Out         io.Writer // progress lines and sample tables; nil = os.Stdout
}

// Result summarizes a cleaning run.
type Result struct {
	Reports     []clean.Report
	Outputs     []Output
	Saved       bool
	GeometryErr error // set when the geometry stage failed and nothing was saved
}

// tables holds the cleaned CSV datasets between stages.
type tables struct {
	income     []model.IncomeRecord
	population []model.PopulationRecord
	businesses []model.BusinessRecord
	stops      []model.StopRecord
}

// shapes holds the cleaned geometry collections between stages.
type shapes struct {
	sa2       *geo.Collection
	primary   *geo.Collection
	secondary *geo.Collection
	future    *geo.Collection
}

// Run executes one cleaning pass. CSV load errors (missing files or columns)
// are returned. A geometry-stage failure is not: it is logged, recorded in
// Result.GeometryErr, and leaves every output unwritten.
func Run(opts Options) (*Result, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	log := zap.L().With(zap.String("component", "pipeline"))
	res := &Result{}

	fmt.Fprintln(out, "Loading CSV datasets...")
	raw, err := loadCSVs(opts.Inputs)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(out, "CSVs loaded.")

	fmt.Fprintln(out, "Cleaning CSV datasets...")
	var t tables
	var rep clean.Report
	t.income, rep = clean.Income(raw.income)
	res.Reports = append(res.Reports, rep)
	t.population, rep = clean.Population(raw.population)
	res.Reports = append(res.Reports, rep)
	t.businesses, rep = clean.Businesses(raw.businesses)
	res.Reports = append(res.Reports, rep)
	t.stops, rep = clean.Stops(raw.stops)
	res.Reports = append(res.Reports, rep)
	for _, r := range res.Reports {
		r.Log()
	}
	fmt.Fprintln(out, "CSVs cleaned.")

	outputs, err := geometryStage(out, opts, t)
	if err != nil {
		log.Error("geometry stage failed, nothing saved", zap.Error(err))
		fmt.Fprintf(out, "Error loading shapefiles: %v\n", err)
		res.GeometryErr = err
		return res, nil
	}

	res.Outputs = outputs
	res.Saved = true
	log.Info("cleaned datasets saved",
		zap.String("output_dir", opts.OutputDir),
		zap.Int("outputs", len(outputs)),
	)
	return res, nil
}

// rawTables holds the decoded source CSVs.
type rawTables struct {
	income     []model.RawIncome
	population []model.RawPopulation
	businesses []model.RawBusiness
	stops      []model.RawStop
}

func loadCSVs(in Inputs) (*rawTables, error) {
	var raw rawTables
	var err error

	if raw.income, err = tabular.ReadCSV[model.RawIncome](in.Income); err != nil {
		return nil, eris.Wrap(err, "pipeline: load income")
	}
	if raw.population, err = tabular.ReadCSV[model.RawPopulation](in.Population); err != nil {
		return nil, eris.Wrap(err, "pipeline: load population")
	}
	if raw.businesses, err = tabular.ReadCSV[model.RawBusiness](in.Businesses); err != nil {
		return nil, eris.Wrap(err, "pipeline: load businesses")
	}
	if raw.stops, err = tabular.ReadCSV[model.RawStop](in.Stops); err != nil {
		return nil, eris.Wrap(err, "pipeline: load stops")
	}
	return &raw, nil
}

// geometryStage loads and cleans the shapefiles, prints samples, and saves
// every output. Any error aborts the rest of the stage.
func geometryStage(out io.Writer, opts Options, t tables) ([]Output, error) {
	fmt.Fprintln(out, "Loading shapefiles...")

	var s shapes
	var err error

	sa2, err := geo.ReadShapefile(opts.Inputs.SA2Boundaries)
	if err != nil {
		return nil, err
	}
	if s.sa2, err = geo.CleanBoundaries(sa2, opts.RegionLabel); err != nil {
		return nil, err
	}
	fmt.Fprintln(out, "SA2 shapefile loaded.")

	if s.primary, err = loadCatchments(opts.Inputs.CatchmentsPrimary); err != nil {
		return nil, err
	}
	fmt.Fprintln(out, "Primary catchments loaded.")

	if s.secondary, err = loadCatchments(opts.Inputs.CatchmentsSecondary); err != nil {
		return nil, err
	}
	fmt.Fprintln(out, "Secondary catchments loaded.")

	if s.future, err = loadCatchments(opts.Inputs.CatchmentsFuture); err != nil {
		return nil, err
	}
	fmt.Fprintln(out, "Future catchments loaded.")

	fmt.Fprintln(out, "All datasets cleaned and ready for use.")
	fmt.Fprintln(out, strings.Repeat("-", 50))

	if err := printSamples(out, t, s); err != nil {
		return nil, err
	}

	return save(opts, t, s)
}

func loadCatchments(path string) (*geo.Collection, error) {
	c, err := geo.ReadShapefile(path)
	if err != nil {
		return nil, err
	}
	return geo.CleanCatchments(c)
}

func printSamples(out io.Writer, t tables, s shapes) error {
	type sample struct {
		title string
		fn    func() ([]string, [][]string, error)
	}
	samples := []sample{
		{"Sample Income Data:", func() ([]string, [][]string, error) { return recordSample(t.income, sampleRows) }},
		{"Sample Population Data:", func() ([]string, [][]string, error) { return recordSample(t.population, sampleRows) }},
		{"Sample Business Data:", func() ([]string, [][]string, error) { return recordSample(t.businesses, sampleRows) }},
		{"Sample Stops Data:", func() ([]string, [][]string, error) { return recordSample(t.stops, sampleRows) }},
	}
	for _, smp := range samples {
		header, rows, err := smp.fn()
		if err != nil {
			return err
		}
		writeTable(out, smp.title, header, rows)
	}

	header, rows := collectionSample(s.sa2, []string{geo.ColSA2Code, geo.ColSA2Name}, sampleRows)
	writeTable(out, "SA2 Regions:", header, rows)
	return nil
}

// save writes every cleaned dataset, then the manifest. Files are overwritten
// in place; a failure part-way leaves earlier files written.
func save(opts Options, t tables, s shapes) ([]Output, error) {
	dir := opts.OutputDir
	var outputs []Output

	csvOut := func(name string, rows int, write func(string) error) error {
		path := filepath.Join(dir, name)
		if err := write(path); err != nil {
			return err
		}
		outputs = append(outputs, Output{Name: name, Path: path, Kind: "csv", Rows: rows})
		return nil
	}
	if err := csvOut(IncomeOutput, len(t.income), func(p string) error { return tabular.WriteCSV(p, t.income) }); err != nil {
		return nil, err
	}
	if err := csvOut(PopulationOutput, len(t.population), func(p string) error { return tabular.WriteCSV(p, t.population) }); err != nil {
		return nil, err
	}
	if err := csvOut(BusinessesOutput, len(t.businesses), func(p string) error { return tabular.WriteCSV(p, t.businesses) }); err != nil {
		return nil, err
	}
	if err := csvOut(StopsOutput, len(t.stops), func(p string) error { return tabular.WriteCSV(p, t.stops) }); err != nil {
		return nil, err
	}

	for _, g := range []struct {
		name string
		c    *geo.Collection
	}{
		{SA2Output, s.sa2},
		{CatchmentsPrimaryOutput, s.primary},
		{CatchmentsSecondaryOutput, s.secondary},
		{CatchmentsFutureOutput, s.future},
	} {
		path := filepath.Join(dir, g.name)
		if err := geo.WriteShapefile(path, g.c); err != nil {
			return nil, err
		}
		outputs = append(outputs, Output{Name: g.name, Path: path, Kind: "shapefile", Rows: g.c.Len(), CRS: g.c.CRS.String()})
	}

	m := Manifest{
		GeneratedAt: time.Now().UTC(),
		Region:      opts.RegionLabel,
		Outputs:     outputs,
	}
	if err := WriteManifest(filepath.Join(dir, ManifestName), m); err != nil {
		return nil, err
	}
	return outputs, nil
}
