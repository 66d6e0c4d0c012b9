package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/store-ledger/internal/config"
	"github.com/tuanvumaihuynh/store-ledger/internal/repository"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("Should initialize csv tables in the data dir", func(t *testing.T) {
		dir := t.TempDir()

		store, cleanup, err := repository.Open(ctx, config.Storage{
			Backend:      config.StorageBackendCSV,
			Dir:          dir,
			ProductsFile: "record.csv",
			SalesFile:    "Sales.csv",
		}, config.Postgres{})
		require.NoError(t, err)
		defer cleanup()

		assert.FileExists(t, filepath.Join(dir, "record.csv"))
		assert.FileExists(t, filepath.Join(dir, "Sales.csv"))
		assert.NoError(t, store.Ping(ctx))
	})

	t.Run("Should open a memory store", func(t *testing.T) {
		store, cleanup, err := repository.Open(ctx, config.Storage{Backend: config.StorageBackendMemory}, config.Postgres{})
		require.NoError(t, err)
		defer cleanup()

		assert.NotNil(t, store.OutboxMsgs())
	})

	t.Run("Should fail when the data dir is missing", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing")

		_, _, err := repository.Open(ctx, config.Storage{
			Backend:      config.StorageBackendCSV,
			Dir:          missing,
			ProductsFile: "record.csv",
			SalesFile:    "Sales.csv",
		}, config.Postgres{})
		require.Error(t, err)

		_, statErr := os.Stat(missing)
		assert.ErrorIs(t, statErr, os.ErrNotExist)
	})
}
