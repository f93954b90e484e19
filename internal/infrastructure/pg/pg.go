package pg

import (
	"context"
	"time"

	infraconfig "magnetdata-service/internal/infrastructure/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the shared pgxpool. Reference-data traffic is short point reads
// plus the occasional month-wide batch insert, so the pool stays small.
type DB struct{ Pool *pgxpool.Pool }

func Connect(ctx context.Context, url string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = infraconfig.DefaultPGMaxConns
	cfg.MinConns = infraconfig.DefaultPGMinConns
	// Resolution bursts subside once a month is cached; release idle
	// connections fairly quickly.
	cfg.MaxConnIdleTime = 2 * time.Minute
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &DB{Pool: pool}, nil
}

func (d *DB) Close() { d.Pool.Close() }

// Ping backs the readiness probe.
func (d *DB) Ping(ctx context.Context) error { return d.Pool.Ping(ctx) }
