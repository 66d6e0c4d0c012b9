package repository

import (
	"context"
	"fmt"

	"github.com/tuanvumaihuynh/store-ledger/internal/config"
	"github.com/tuanvumaihuynh/store-ledger/internal/storage/db"
)

type CleanupFunc func()

// Open returns an initialized store for the configured backend. Postgres
// settings are only read for the postgres backend.
func Open(ctx context.Context, cfg config.Storage, pgCfg config.Postgres) (Store, CleanupFunc, error) {
	var (
		store   Store
		cleanup CleanupFunc = func() {}
	)

	switch cfg.Backend {
	case config.StorageBackendCSV:
		store = NewCSVStore(cfg.Dir, cfg.ProductsFile, cfg.SalesFile)
	case config.StorageBackendMemory:
		store = NewMemoryStore()
	case config.StorageBackendPostgres:
		pool, err := db.NewPgxPool(ctx, pgCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("create pgx pool: %w", err)
		}
		store = NewPostgresStore(db.NewClient(pool))
		cleanup = pool.Close
	default:
		return nil, nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}

	if err := store.EnsureInitialized(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("ensure %s storage initialized: %w", cfg.Backend, err)
	}

	return store, cleanup, nil
}
