package db

import (
	"context"
	"fmt"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tuanvumaihuynh/store-ledger/internal/config"
)

// NewPgxPool creates a new pgx pool with the given configuration.
func NewPgxPool(ctx context.Context, cfg config.Postgres) (*pgxpool.Pool, error) {
	return NewPgxPoolFromURL(ctx, cfg.ConnString(), func(pgConf *pgxpool.Config) {
		pgConf.MaxConns = cfg.MaxConns
		pgConf.MinConns = cfg.MinConns
		pgConf.MaxConnLifetime = cfg.MaxConnLifetime
		pgConf.MaxConnIdleTime = cfg.MaxConnIdleTime
	})
}

// NewPgxPoolFromURL creates a traced pgx pool for connString and pings it.
func NewPgxPoolFromURL(ctx context.Context, connString string, opts ...func(*pgxpool.Config)) (*pgxpool.Pool, error) {
	pgConf, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	pgConf.ConnConfig.Tracer = otelpgx.NewTracer()
	for _, opt := range opts {
		opt(pgConf)
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgConf)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := otelpgx.RecordStats(pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("record database stats: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
