package config_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/store-ledger/internal/config"
)

func TestNew(t *testing.T) {
	type Config struct {
		Log      config.Log
		Storage  config.Storage
		Ledger   config.Ledger
		Postgres config.Postgres
	}

	t.Run("Should apply defaults", func(t *testing.T) {
		cfg, err := config.New[Config]()
		require.NoError(t, err)

		assert.Equal(t, config.LogFormatJSON, cfg.Log.Format)
		assert.Equal(t, config.StorageBackendCSV, cfg.Storage.Backend)
		assert.Equal(t, "record.csv", cfg.Storage.ProductsFile)
		assert.Equal(t, "Sales.csv", cfg.Storage.SalesFile)
		assert.Equal(t, config.DuplicatePolicyAllow, cfg.Ledger.DuplicatePolicy)
		assert.True(t, cfg.Ledger.RecomputeFullPrice)
		assert.Equal(t, 30*time.Minute, cfg.Postgres.MaxConnIdleTime)
	})

	t.Run("Should read environment", func(t *testing.T) {
		t.Setenv("LOG_FORMAT", "text")
		t.Setenv("LOG_LEVEL", "DEBUG")
		t.Setenv("STORAGE_BACKEND", "postgres")
		t.Setenv("STORAGE_DIR", "/var/lib/ledger")
		t.Setenv("LEDGER_DUPLICATE_POLICY", "reject")
		t.Setenv("LEDGER_RECOMPUTE_FULL_PRICE", "false")
		t.Setenv("POSTGRES_HOST", "db")

		cfg, err := config.New[Config]()
		require.NoError(t, err)

		assert.Equal(t, config.LogFormatText, cfg.Log.Format)
		assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
		assert.Equal(t, config.StorageBackendPostgres, cfg.Storage.Backend)
		assert.Equal(t, "/var/lib/ledger", cfg.Storage.Dir)
		assert.Equal(t, config.DuplicatePolicyReject, cfg.Ledger.DuplicatePolicy)
		assert.False(t, cfg.Ledger.RecomputeFullPrice)
		assert.Equal(t, "postgres://postgres:postgres@db:5432/store_ledger?sslmode=disable", cfg.Postgres.ConnString())
	})

	t.Run("Should reject unknown enum values", func(t *testing.T) {
		t.Setenv("LEDGER_DUPLICATE_POLICY", "merge")

		_, err := config.New[Config]()
		assert.Error(t, err)
	})
}

func TestLogOutput(t *testing.T) {
	assert.Equal(t, os.Stdout, config.Log{}.Output())
	assert.Equal(t, os.Stderr, config.Log{Stderr: true}.Output())
}
