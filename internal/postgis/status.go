package postgis

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/greater-sydney/internal/db"
)

// TableCount is the row count of one table, or Exists=false if it is absent.
type TableCount struct {
	Table  string
	Exists bool
	Rows   int64
}

// TableCounts returns the row count of each named table.
func TableCounts(ctx context.Context, pool db.Pool, names []string) ([]TableCount, error) {
	counts := make([]TableCount, 0, len(names))
	for _, name := range names {
		tc := TableCount{Table: name}

		row := pool.QueryRow(ctx,
			"SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = $1)", name)
		if err := row.Scan(&tc.Exists); err != nil {
			return nil, eris.Wrapf(err, "postgis: check %s exists", name)
		}

		if tc.Exists {
			sql := fmt.Sprintf("SELECT COUNT(*) FROM %s", pgx.Identifier{name}.Sanitize())
			if err := pool.QueryRow(ctx, sql).Scan(&tc.Rows); err != nil {
				return nil, eris.Wrapf(err, "postgis: count %s", name)
			}
		}
		counts = append(counts, tc)
	}
	return counts, nil
}
