package postgis

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/greater-sydney/internal/db"
)

// Each statement is guarded so it is a no-op when the table it alters is absent.
const (
	addSA2PrimaryKeySQL = `
	DO $$
	BEGIN
		IF EXISTS (SELECT FROM information_schema.tables WHERE table_name = 'sa2_boundaries') THEN
			ALTER TABLE sa2_boundaries ADD PRIMARY KEY (sa2_code);
		END IF;
	END
	$$;`

	addPopulationForeignKeySQL = `
	DO $$
	BEGIN
		IF EXISTS (SELECT FROM information_schema.tables WHERE table_name = 'population') THEN
			ALTER TABLE population
			ADD CONSTRAINT population_sa2_code_fkey
			FOREIGN KEY (sa2_code) REFERENCES sa2_boundaries(sa2_code);
		END IF;
	END
	$$;`

	addBusinessesForeignKeySQL = `
	DO $$
	BEGIN
		IF EXISTS (SELECT FROM information_schema.tables WHERE table_name = 'businesses') THEN
			ALTER TABLE businesses
			ADD CONSTRAINT businesses_sa2_code_fkey
			FOREIGN KEY (sa2_code) REFERENCES sa2_boundaries(sa2_code);
		END IF;
	END
	$$;`
)

// ApplyConstraints adds the sa2_boundaries primary key and the foreign keys
// from population and businesses, in one transaction. Duplicate or dangling
// sa2_code values make it fail and roll back the whole group.
func ApplyConstraints(ctx context.Context, pool db.Pool) error {
	return db.InTx(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, addSA2PrimaryKeySQL); err != nil {
			return eris.Wrap(err, "postgis: add sa2_boundaries primary key")
		}
		if _, err := tx.Exec(ctx, addPopulationForeignKeySQL); err != nil {
			return eris.Wrap(err, "postgis: add population foreign key")
		}
		if _, err := tx.Exec(ctx, addBusinessesForeignKeySQL); err != nil {
			return eris.Wrap(err, "postgis: add businesses foreign key")
		}
		return nil
	})
}
