package postgis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/greater-sydney/internal/db"
	"github.com/sells-group/greater-sydney/internal/geo"
)

// Options configures an upload.
type Options struct {
	Tables    []Table // empty = DefaultTables(".")
	BatchSize int     // COPY batch size (0 = db.DefaultBatchSize)
}

// UploadResult reports how many rows went into each table.
type UploadResult struct {
	Loaded   map[string]int64
	Duration time.Duration
}

// Upload drops the spatial tables, reloads each from its cleaned shapefile and
// then adds the SA2 primary key and the population/businesses foreign keys.
//
// Each step runs in its own transaction. A failure aborts the step it occurs
// in and is returned; steps that already committed stay committed.
func Upload(ctx context.Context, pool db.Pool, opts Options) (*UploadResult, error) {
	tables := opts.Tables
	if len(tables) == 0 {
		tables = DefaultTables(".")
	}

	log := zap.L().With(zap.String("component", "postgis.loader"))
	start := time.Now()

	if err := DropTables(ctx, pool, TableNames(tables)); err != nil {
		return nil, err
	}
	log.Info("dropped spatial tables", zap.Strings("tables", TableNames(tables)))

	res := &UploadResult{Loaded: make(map[string]int64, len(tables))}
	for _, t := range tables {
		c, err := geo.ReadShapefile(t.File)
		if err != nil {
			return res, eris.Wrapf(err, "postgis: read %s", t.File)
		}

		n, err := LoadTable(ctx, pool, t.Name, geo.Canonicalize(c), opts.BatchSize)
		if err != nil {
			return res, err
		}
		res.Loaded[t.Name] = n

		log.Info("table loaded", zap.String("table", t.Name), zap.Int64("rows", n))
	}

	if err := ApplyConstraints(ctx, pool); err != nil {
		return res, err
	}

	res.Duration = time.Since(start)
	log.Info("upload complete", zap.Duration("duration", res.Duration))
	return res, nil
}

// DropTables drops each table (and anything depending on it) if it exists.
func DropTables(ctx context.Context, pool db.Pool, names []string) error {
	return db.InTx(ctx, pool, func(tx pgx.Tx) error {
		for _, name := range names {
			sql := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", pgx.Identifier{name}.Sanitize())
			if _, err := tx.Exec(ctx, sql); err != nil {
				return eris.Wrapf(err, "postgis: drop %s", name)
			}
		}
		return nil
	})
}

// LoadTable replaces table with the features of c: the table is dropped if
// present, recreated with one text column per attribute plus a
// geometry(MultiPolygon, 4326) column, indexed, and filled via COPY.
func LoadTable(ctx context.Context, pool db.Pool, table string, c *geo.Collection, batchSize int) (int64, error) {
	rows, err := encodeRows(c)
	if err != nil {
		return 0, eris.Wrapf(err, "postgis: encode %s", table)
	}

	columns := append(append([]string{}, c.Fields...), GeometryColumn)
	ident := pgx.Identifier{table}

	var loaded int64
	err = db.InTx(ctx, pool, func(tx pgx.Tx) error {
		stmts := []string{
			fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", ident.Sanitize()),
			createTableSQL(table, c.Fields),
			fmt.Sprintf("CREATE INDEX %s ON %s USING gist (%s)",
				pgx.Identifier{"idx_" + table + "_" + GeometryColumn}.Sanitize(),
				ident.Sanitize(),
				pgx.Identifier{GeometryColumn}.Sanitize(),
			),
		}
		for _, sql := range stmts {
			if _, err := tx.Exec(ctx, sql); err != nil {
				return eris.Wrapf(err, "postgis: prepare %s", table)
			}
		}

		n, err := db.CopyFrom(ctx, tx, ident, columns, rows, batchSize)
		if err != nil {
			return err
		}
		loaded = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return loaded, nil
}

// createTableSQL builds the CREATE TABLE statement for a spatial table.
func createTableSQL(table string, fields []string) string {
	cols := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		cols = append(cols, pgx.Identifier{f}.Sanitize()+" TEXT")
	}
	cols = append(cols, pgx.Identifier{GeometryColumn}.Sanitize()+" geometry(MultiPolygon, 4326)")

	return fmt.Sprintf("CREATE TABLE %s (%s)", pgx.Identifier{table}.Sanitize(), strings.Join(cols, ", "))
}

// encodeRows flattens c into COPY rows: attributes in field order, then EWKB.
// Empty attributes load as NULL.
func encodeRows(c *geo.Collection) ([][]any, error) {
	rows := make([][]any, 0, c.Len())
	for i, f := range c.Features {
		row := make([]any, 0, len(c.Fields)+1)
		for _, name := range c.Fields {
			if v := f.Attrs[name]; v != "" {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}

		wkb, err := geo.EncodeEWKB(f.Geometry)
		if err != nil {
			return nil, eris.Wrapf(err, "feature %d", i)
		}
		row = append(row, wkb)
		rows = append(rows, row)
	}
	return rows, nil
}
