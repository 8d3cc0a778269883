package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// dbPool opens and pings a connection pool for database.url.
func dbPool(ctx context.Context) (*pgxpool.Pool, error) {
	dsn := cfg.Database.URL
	if dsn == "" {
		return nil, eris.New("db: no database.url configured (set database.url or SYDNEY_DATABASE_URL)")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, eris.Wrap(err, "db: create connection pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "db: ping database")
	}

	fmt.Println("Connected to database")
	return pool, nil
}
